package auth

import (
	"synergies-backend/internal/domain"
	"synergies-backend/internal/pkg/validation"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// LoginInput for login request body.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionUserShape is the object stored in session and returned by /me.
type SessionUserShape struct {
	EmployeeID string  `json:"employee_id"`
	Fullname   string  `json:"fullname"`
	Email      string  `json:"email"`
	Role       string  `json:"role"`
	ManagerID  *string `json:"manager_id"`
}

// EmployeeFinder abstracts credential lookup (GORM in production, doubles in tests).
type EmployeeFinder interface {
	FindByEmailAndPassword(email, password string) (*domain.Employee, error)
}

// GormEmployeeFinder implements EmployeeFinder using GORM and bcrypt.
type GormEmployeeFinder struct{ DB *gorm.DB }

func (g *GormEmployeeFinder) FindByEmailAndPassword(email, password string) (*domain.Employee, error) {
	return LoginEmployee(g.DB, LoginInput{Email: email, Password: password})
}

// LoginEmployee finds an active employee by email and verifies the password.
func LoginEmployee(db *gorm.DB, input LoginInput) (*domain.Employee, error) {
	if input.Email == "" || input.Password == "" {
		return nil, ErrEmailPasswordRequired
	}
	var e domain.Employee
	if err := db.Where("email = ?", validation.NormalizeEmail(input.Email)).First(&e).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrInvalidEmail
		}
		return nil, err
	}
	if e.PasswordHash == "" {
		return nil, ErrInvalidEmail
	}
	if err := bcrypt.CompareHashAndPassword([]byte(e.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrIncorrectPassword
	}
	if !e.IsActive {
		return nil, ErrAccountDisabled
	}
	return &e, nil
}

// VerifySession validates the session user map and returns the /me shape.
func VerifySession(sessionUser interface{}) (*SessionUserShape, error) {
	if sessionUser == nil {
		return nil, ErrNotAuthenticated
	}
	m, ok := sessionUser.(map[string]interface{})
	if !ok {
		return nil, ErrNotAuthenticated
	}
	employeeID, _ := m["employee_id"].(string)
	if employeeID == "" {
		return nil, ErrNotAuthenticated
	}
	out := &SessionUserShape{
		EmployeeID: employeeID,
		Fullname:   str(m["fullname"]),
		Email:      str(m["email"]),
		Role:       str(m["role"]),
	}
	if v, ok := m["manager_id"]; ok && v != nil {
		if s, ok := v.(string); ok && s != "" {
			out.ManagerID = &s
		}
	}
	return out, nil
}

func str(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
