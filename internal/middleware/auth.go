package middleware

import (
	"synergies-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const userLocal = "user"

// RequireAuth ensures an employee is in the session. Returns 401 with the standard error format if not.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := c.Locals(userLocal)
		if user == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		c.Locals("auth", user)
		return c.Next()
	}
}

// GetUser returns the session user from Locals (nil if not logged in).
func GetUser(c *fiber.Ctx) interface{} {
	return c.Locals(userLocal)
}

// ActorEmployeeID returns the logged-in employee's id, or uuid.Nil.
func ActorEmployeeID(c *fiber.Ctx) uuid.UUID {
	id, err := uuid.Parse(actorField(c, "employee_id"))
	if err != nil {
		return uuid.Nil
	}
	return id
}

// ActorRole returns the logged-in employee's role, or "".
func ActorRole(c *fiber.Ctx) string {
	return actorField(c, "role")
}

// ActorEmail returns the logged-in employee's email, or "".
func ActorEmail(c *fiber.Ctx) string {
	return actorField(c, "email")
}

// ActorFullname returns the logged-in employee's display name, or "".
func ActorFullname(c *fiber.Ctx) string {
	return actorField(c, "fullname")
}

func actorField(c *fiber.Ctx, field string) string {
	m, ok := GetUser(c).(map[string]interface{})
	if !ok {
		return ""
	}
	v, _ := m[field].(string)
	return v
}
