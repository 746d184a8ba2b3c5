package constants

const (
	Admin    = "admin"
	Employee = "employee"
)

// ValidRoles is the set of allowed DB enum values for employee role.
var ValidRoles = []string{Employee, Admin}

// IsValidRole returns true if role is one of the allowed enum values.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}
