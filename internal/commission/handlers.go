package commission

import (
	"encoding/json"
	"time"

	"synergies-backend/internal/export"
	"synergies-backend/internal/middleware"
	"synergies-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

func commissionID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Params("id"))
}

func statusFor(err error) int {
	switch err.Error() {
	case "Commission not found":
		return 404
	case "Invalid amount", "Commission already paid", "Actor is required":
		return 400
	}
	return 500
}

// GET /api/v1/commissions
func (h *Handlers) Ledger(c *fiber.Ctx) error {
	rows, err := h.Service.Ledger(c.Context())
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Commission ledger fetched successfully", rows, nil)
}

// GET /api/v1/commissions/export — downloadable CSV of the ledger
func (h *Handlers) Export(c *fiber.Ctx) error {
	rows, err := h.Service.Ledger(c.Context())
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	csv := ExportCSV(rows)
	c.Set("Content-Type", "text/csv; charset=utf-8")
	c.Set("Content-Disposition", `attachment; filename="`+export.Filename("commissions", time.Now())+`"`)
	return c.SendString(csv)
}

// PATCH /api/v1/commissions/:id/amount
func (h *Handlers) UpdateAmount(c *fiber.Ctx) error {
	id, err := commissionID(c)
	if err != nil {
		return response.Error(c, "Invalid commission id", 400, nil)
	}
	var body struct {
		Amount *float64 `json:"amount"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil || body.Amount == nil {
		return response.Error(c, "Missing field: amount", 400, nil)
	}
	comm, err := h.Service.UpdateAmount(c.Context(), id, *body.Amount)
	if err != nil {
		return response.Error(c, err.Error(), statusFor(err), nil)
	}
	return response.Success(c, "Commission amount updated", comm, nil)
}

// PATCH /api/v1/commissions/:id/due-date
func (h *Handlers) UpdateDueDate(c *fiber.Ctx) error {
	id, err := commissionID(c)
	if err != nil {
		return response.Error(c, "Invalid commission id", 400, nil)
	}
	var body struct {
		DueDate string `json:"due_date"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil || body.DueDate == "" {
		return response.Error(c, "Missing field: due_date", 400, nil)
	}
	due, err := time.Parse("2006-01-02", body.DueDate)
	if err != nil {
		return response.Error(c, "Invalid due_date format (expected YYYY-MM-DD)", 400, nil)
	}
	comm, err := h.Service.UpdateDueDate(c.Context(), id, due)
	if err != nil {
		return response.Error(c, err.Error(), statusFor(err), nil)
	}
	return response.Success(c, "Commission due date updated", comm, nil)
}

// PATCH /api/v1/commissions/:id/mark-paid
func (h *Handlers) MarkPaid(c *fiber.Ctx) error {
	id, err := commissionID(c)
	if err != nil {
		return response.Error(c, "Invalid commission id", 400, nil)
	}
	comm, err := h.Service.MarkPaid(c.Context(), id)
	if err != nil {
		return response.Error(c, err.Error(), statusFor(err), nil)
	}
	return response.Success(c, "Commission marked as paid", comm, nil)
}

// PATCH /api/v1/commissions/:id/toggle-validation — actor comes from the
// session, never from the request body.
func (h *Handlers) ToggleValidation(c *fiber.Ctx) error {
	id, err := commissionID(c)
	if err != nil {
		return response.Error(c, "Invalid commission id", 400, nil)
	}
	var body struct {
		Comment string `json:"comment"`
	}
	_ = json.Unmarshal(c.Body(), &body)

	comm, err := h.Service.ToggleValidation(c.Context(), ToggleValidationInput{
		CommissionID: id,
		DoneBy:       middleware.ActorFullname(c),
		Comment:      body.Comment,
	})
	if err != nil {
		return response.Error(c, err.Error(), statusFor(err), nil)
	}
	return response.Success(c, "Commission validation toggled", comm, nil)
}

// GET /api/v1/commissions/:id/logs
func (h *Handlers) Logs(c *fiber.Ctx) error {
	id, err := commissionID(c)
	if err != nil {
		return response.Error(c, "Invalid commission id", 400, nil)
	}
	logs, err := h.Service.Logs(c.Context(), id)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Commission logs fetched successfully", logs, nil)
}
