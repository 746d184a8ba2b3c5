package employees

import (
	"synergies-backend/internal/middleware"
	"synergies-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

func NewHandlers(service *Service) *Handlers {
	return &Handlers{Service: service}
}

// Directory GET /api/v1/employees — active employees for the receiver picker.
func (h *Handlers) Directory(c *fiber.Ctx) error {
	entries, err := h.Service.Directory(c.Context())
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Employees fetched", fiber.Map{"employees": entries}, nil)
}

// Get GET /api/v1/employees/:id — one directory entry.
func (h *Handlers) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid employee id", fiber.StatusBadRequest, nil)
	}
	entry, err := h.Service.Get(c.Context(), id)
	if err != nil {
		if err.Error() == "Employee not found" {
			return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
		}
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Employee fetched", fiber.Map{"employee": entry}, nil)
}

// Team GET /api/v1/employees/team — the caller's direct reports with their
// open recommendations.
func (h *Handlers) Team(c *fiber.Ctx) error {
	managerID := middleware.ActorEmployeeID(c)
	if managerID == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	members, err := h.Service.Team(c.Context(), managerID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Team fetched", fiber.Map{"team": members}, nil)
}
