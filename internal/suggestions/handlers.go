package suggestions

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

type submitBody struct {
	Suggestion string `json:"suggestion"`
}

// Submit POST /api/v1/suggestions
func (h *Handlers) Submit(c *fiber.Ctx) error {
	actorID := middleware.ActorEmployeeID(c)
	if actorID == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	var body submitBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Suggestion is required", fiber.StatusBadRequest, nil)
	}
	row, err := h.Service.Submit(c.Context(), actorID, middleware.ActorFullname(c), body.Suggestion)
	if err != nil {
		if err.Error() == "Suggestion is required" {
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		}
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.SuccessCreated(c, "Suggestion submitted", fiber.Map{"suggestion": row}, nil)
}

// List GET /api/v1/suggestions — admin view of the suggestion box.
func (h *Handlers) List(c *fiber.Ctx) error {
	rows, err := h.Service.List(c.Context())
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Suggestions fetched", fiber.Map{"suggestions": rows}, nil)
}
