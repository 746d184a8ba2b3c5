package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cronApp(secret string) *fiber.App {
	app := fiber.New()
	app.Get("/api/cron/job", RequireCronSecret(secret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})
	return app
}

func TestRequireCronSecret_QueryKey(t *testing.T) {
	app := cronApp("s3cret")
	resp, err := app.Test(httptest.NewRequest("GET", "/api/cron/job?key=s3cret", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireCronSecret_Header(t *testing.T) {
	app := cronApp("s3cret")
	req := httptest.NewRequest("GET", "/api/cron/job", nil)
	req.Header.Set("X-Cron-Secret", "s3cret")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireCronSecret_WrongOrMissingKey(t *testing.T) {
	app := cronApp("s3cret")

	resp, err := app.Test(httptest.NewRequest("GET", "/api/cron/job?key=wrong", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp2, err := app.Test(httptest.NewRequest("GET", "/api/cron/job", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp2.StatusCode)
}

// An unset secret must close the endpoints, not open them.
func TestRequireCronSecret_UnconfiguredRejectsAll(t *testing.T) {
	app := cronApp("")
	resp, err := app.Test(httptest.NewRequest("GET", "/api/cron/job?key=", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
