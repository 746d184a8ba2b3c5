package reminders

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Handlers exposes the cron endpoints. They bypass the session middleware and
// are guarded by the cron secret; bodies stay minimal so the scheduler log is
// readable at a glance.
type Handlers struct {
	Service *Service
}

func NewHandlers(service *Service) *Handlers {
	return &Handlers{Service: service}
}

func (h *Handlers) run(c *fiber.Ctx, name string, job func() (Summary, error)) error {
	summary, err := job()
	if err != nil {
		log.Error().Err(err).Str("job", name).Msg("reminder job failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok":    false,
			"error": err.Error(),
		})
	}
	log.Info().Str("job", name).Int("checked", summary.Checked).Int("sent", summary.Sent).Msg("reminder job done")
	return c.JSON(summary)
}

// Reminder48h handles GET /api/cron/reminder-48h.
func (h *Handlers) Reminder48h(c *fiber.Ctx) error {
	return h.run(c, "reminder-48h", func() (Summary, error) {
		return h.Service.Run48h(c.Context())
	})
}

// Reminder72hManager handles GET /api/cron/reminder-72h-manager.
func (h *Handlers) Reminder72hManager(c *fiber.Ctx) error {
	return h.run(c, "reminder-72h-manager", func() (Summary, error) {
		return h.Service.Run72hManager(c.Context())
	})
}

// NotifyManagerClosedWon handles GET /api/cron/notify-manager-closed-won.
func (h *Handlers) NotifyManagerClosedWon(c *fiber.Ctx) error {
	return h.run(c, "notify-manager-closed-won", func() (Summary, error) {
		return h.Service.NotifyManagerClosedWon(c.Context())
	})
}

// CommissionsDue handles GET /api/cron/commission-due.
func (h *Handlers) CommissionsDue(c *fiber.Ctx) error {
	return h.run(c, "commission-due", func() (Summary, error) {
		return h.Service.CommissionsDue(c.Context())
	})
}
