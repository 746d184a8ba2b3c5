package recommendation

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

func statusFor(err error) int {
	switch err.Error() {
	case "Recommendation not found", "Prescriptor not found", "Receiver not found":
		return 404
	case "Unauthorized":
		return 403
	case "Client name is required", "Unknown project title", "Invalid client email",
		"Invalid client phone", "Receiver is required", "Invalid receiver email",
		"Invalid intake status", "Invalid deal stage", "Recommendation has no receiver email":
		return 400
	}
	return 500
}

type createBody struct {
	ClientName     string   `json:"client_name"`
	ClientEmail    string   `json:"client_email"`
	ClientPhone    string   `json:"client_phone"`
	ProjectTitle   string   `json:"project_title"`
	ProjectDetails string   `json:"project_details"`
	ReceiverID     string   `json:"receiver_id"`
	ReceiverEmail  string   `json:"receiver_email"`
	Amount         *float64 `json:"amount"`
	AnnualAmount   *float64 `json:"annual_amount"`
}

// POST /api/v1/recos — prescriptor is the logged-in employee.
func (h *Handlers) Create(c *fiber.Ctx) error {
	var body createBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}

	in := CreateInput{
		PrescriptorID:  middleware.ActorEmployeeID(c),
		ClientName:     body.ClientName,
		ClientEmail:    body.ClientEmail,
		ClientPhone:    body.ClientPhone,
		ProjectTitle:   body.ProjectTitle,
		ProjectDetails: body.ProjectDetails,
		ReceiverEmail:  body.ReceiverEmail,
		Amount:         body.Amount,
		AnnualAmount:   body.AnnualAmount,
	}
	if body.ReceiverID != "" {
		id, err := uuid.Parse(body.ReceiverID)
		if err != nil {
			return response.Error(c, "Invalid receiver_id format", 400, nil)
		}
		in.ReceiverID = &id
	}

	reco, err := h.Service.Create(c.Context(), in)
	if err != nil {
		return response.Error(c, err.Error(), statusFor(err), nil)
	}
	return response.SuccessCreated(c, "Recommendation created successfully", reco, nil)
}

// GET /api/v1/recos/inbox
func (h *Handlers) Inbox(c *fiber.Ctx) error {
	recos, err := h.Service.Inbox(c.Context(), middleware.ActorEmployeeID(c), middleware.ActorEmail(c))
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Inbox fetched successfully", recos, nil)
}

// GET /api/v1/recos/outbox
func (h *Handlers) Outbox(c *fiber.Ctx) error {
	recos, err := h.Service.Outbox(c.Context(), middleware.ActorEmployeeID(c))
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Outbox fetched successfully", recos, nil)
}

// GET /api/v1/recos/kanban
func (h *Handlers) Kanban(c *fiber.Ctx) error {
	board, err := h.Service.KanbanBoard(c.Context(), middleware.ActorEmployeeID(c), middleware.ActorEmail(c))
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Kanban fetched successfully", board, nil)
}

// GET /api/v1/recos/:id
func (h *Handlers) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid recommendation id", 400, nil)
	}
	reco, err := h.Service.Get(c.Context(), id)
	if err != nil {
		return response.Error(c, err.Error(), statusFor(err), nil)
	}
	return response.Success(c, "Recommendation fetched successfully", reco, nil)
}

// PATCH /api/v1/recos/:id/intake-status
func (h *Handlers) UpdateIntakeStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid recommendation id", 400, nil)
	}
	var body struct {
		IntakeStatus string `json:"intake_status"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil || body.IntakeStatus == "" {
		return response.Error(c, "Missing field: intake_status", 400, nil)
	}
	reco, err := h.Service.UpdateIntakeStatus(c.Context(), id, body.IntakeStatus)
	if err != nil {
		return response.Error(c, err.Error(), statusFor(err), nil)
	}
	return response.Success(c, "Intake status updated", reco, nil)
}

// PATCH /api/v1/recos/:id/deal-stage — also used by kanban card moves.
func (h *Handlers) UpdateDealStage(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid recommendation id", 400, nil)
	}
	var body struct {
		DealStage string `json:"deal_stage"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil || body.DealStage == "" {
		return response.Error(c, "Missing field: deal_stage", 400, nil)
	}
	reco, err := h.Service.UpdateDealStage(c.Context(), id, body.DealStage)
	if err != nil {
		return response.Error(c, err.Error(), statusFor(err), nil)
	}
	return response.Success(c, "Deal stage updated", reco, nil)
}

// POST /api/v1/recos/:id/relance — manual reminder to the receiver.
func (h *Handlers) Relance(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid recommendation id", 400, nil)
	}
	err = h.Service.Relance(c.Context(), id,
		middleware.ActorEmployeeID(c), middleware.ActorFullname(c), middleware.ActorEmail(c))
	if err != nil {
		return response.Error(c, err.Error(), statusFor(err), nil)
	}
	return response.Success(c, "Reminder sent", nil, nil)
}

func adminFilters(c *fiber.Ctx) AdminListInput {
	in := AdminListInput{
		Q:                c.Query("q"),
		Stage:            c.Query("stage"),
		Intake:           c.Query("intake"),
		ReceiverEmail:    c.Query("receiver"),
		PrescriptorEmail: c.Query("prescriptor"),
	}
	if from := c.Query("date_from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			in.DateFrom = &t
		}
	}
	if to := c.Query("date_to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			end := t.Add(24*time.Hour - time.Second)
			in.DateTo = &end
		}
	}
	return in
}

// GET /api/v1/recos/admin — direction dashboard with filters.
func (h *Handlers) AdminList(c *fiber.Ctx) error {
	result, err := h.Service.AdminList(c.Context(), adminFilters(c))
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Recommendations fetched successfully", result.Rows,
		fiber.Map{"total_amount": result.TotalAmount})
}

// GET /api/v1/recos/admin/export — CSV of the filtered rows.
func (h *Handlers) AdminExport(c *fiber.Ctx) error {
	result, err := h.Service.AdminList(c.Context(), adminFilters(c))
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	csv := ExportCSV(result.Rows)
	c.Set("Content-Type", "text/csv; charset=utf-8")
	c.Set("Content-Disposition", `attachment; filename="`+export.Filename("recommandations", time.Now())+`"`)
	return c.SendString(csv)
}
