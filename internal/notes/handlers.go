package notes

import (
	"synergies-backend/internal/constants"
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

func statusFor(err error) int {
	switch err.Error() {
	case "Note not found", "Recommendation not found":
		return fiber.StatusNotFound
	case "Note content is required":
		return fiber.StatusBadRequest
	case "Unauthorized":
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

// List GET /api/v1/recos/:id/notes
func (h *Handlers) List(c *fiber.Ctx) error {
	recoID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid recommendation id", fiber.StatusBadRequest, nil)
	}
	notes, err := h.Service.List(c.Context(), recoID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Notes fetched", fiber.Map{"notes": notes}, nil)
}

type addBody struct {
	Body string `json:"body"`
}

// Add POST /api/v1/recos/:id/notes
func (h *Handlers) Add(c *fiber.Ctx) error {
	recoID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid recommendation id", fiber.StatusBadRequest, nil)
	}
	actorID := middleware.ActorEmployeeID(c)
	if actorID == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	var body addBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Note content is required", fiber.StatusBadRequest, nil)
	}
	note, err := h.Service.Add(c.Context(), recoID, actorID, body.Body)
	if err != nil {
		return response.Error(c, err.Error(), statusFor(err), nil)
	}
	return response.SuccessCreated(c, "Note added", fiber.Map{"note": note}, nil)
}

// Delete DELETE /api/v1/notes/:id
func (h *Handlers) Delete(c *fiber.Ctx) error {
	noteID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid note id", fiber.StatusBadRequest, nil)
	}
	actorID := middleware.ActorEmployeeID(c)
	if actorID == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	isAdmin := middleware.ActorRole(c) == constants.Admin
	if err := h.Service.Delete(c.Context(), noteID, actorID, isAdmin); err != nil {
		return response.Error(c, err.Error(), statusFor(err), nil)
	}
	return response.Success(c, "Note deleted", nil, nil)
}
