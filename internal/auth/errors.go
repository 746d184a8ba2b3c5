package auth

import "errors"

var (
	ErrEmailPasswordRequired = errors.New("Email and password are required")
	ErrInvalidEmail          = errors.New("Invalid Email")
	ErrIncorrectPassword     = errors.New("Incorrect Password")
	ErrAccountDisabled       = errors.New("Account disabled")
	ErrNotAuthenticated      = errors.New("Not authenticated")
)
