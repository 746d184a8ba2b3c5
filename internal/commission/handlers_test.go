package commission

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"synergies-backend/internal/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCommissionApp(t *testing.T) (*fiber.App, *Service, domain.Commission) {
	svc, db := setupCommissionTest(t)
	reco := seedClosedWon(t, db, "Vente")
	comm, err := svc.EnsureForRecommendation(context.Background(), &reco)
	require.NoError(t, err)

	h := &Handlers{Service: svc}
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{
			"employee_id": uuid.New().String(),
			"fullname":    "Sophie Durand",
			"email":       "sophie@agence-skdigital.fr",
			"role":        "admin",
		})
		return c.Next()
	})
	app.Get("/api/v1/commissions", h.Ledger)
	app.Get("/api/v1/commissions/export", h.Export)
	app.Patch("/api/v1/commissions/:id/mark-paid", h.MarkPaid)
	app.Patch("/api/v1/commissions/:id/toggle-validation", h.ToggleValidation)
	app.Get("/api/v1/commissions/:id/logs", h.Logs)
	return app, svc, *comm
}

func TestMarkPaid_HTTPRepeatRejected(t *testing.T) {
	app, _, comm := newCommissionApp(t)

	path := "/api/v1/commissions/" + comm.ID.String() + "/mark-paid"
	resp, err := app.Test(httptest.NewRequest("PATCH", path, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp2, err := app.Test(httptest.NewRequest("PATCH", path, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp2.StatusCode)
	raw, _ := io.ReadAll(resp2.Body)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "Commission already paid", out["error"].(map[string]interface{})["message"])
}

// The log actor is the session fullname, not the request body.
func TestToggleValidation_ActorFromSession(t *testing.T) {
	app, svc, comm := newCommissionApp(t)

	body, _ := json.Marshal(map[string]string{"comment": "vu ensemble", "done_by": "Imposteur"})
	req := httptest.NewRequest("PATCH", "/api/v1/commissions/"+comm.ID.String()+"/toggle-validation", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	logs, err := svc.Logs(context.Background(), comm.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "Sophie Durand", logs[0].DoneBy)
	assert.Equal(t, "validated", logs[0].Action)
	assert.Equal(t, "vu ensemble", logs[0].Comment)
}

func TestExport_Download(t *testing.T) {
	app, _, _ := newCommissionApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/commissions/export", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), `attachment; filename="commissions_`)

	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), `"Date reco";"Client"`)
	assert.Contains(t, string(raw), `"100,00"`)
}

func TestUnknownCommission_404(t *testing.T) {
	app, _, _ := newCommissionApp(t)
	resp, err := app.Test(httptest.NewRequest("PATCH", "/api/v1/commissions/"+uuid.NewString()+"/mark-paid", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
