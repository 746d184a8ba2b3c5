package emails

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Handlers exposes the send-email passthrough used by the outbox re-send flow.
type Handlers struct {
	Sender Sender
}

type sendEmailBody struct {
	To      json.RawMessage `json:"to"`
	Cc      json.RawMessage `json:"cc"`
	Subject string          `json:"subject"`
	HTML    string          `json:"html"`
}

// SendEmail forwards {to, cc?, subject, html} verbatim to the provider.
// "to"/"cc" accept a single address or a list.
func (h *Handlers) SendEmail(c *fiber.Ctx) error {
	var body sendEmailBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return c.Status(400).JSON(fiber.Map{"ok": false, "error": "Invalid request body"})
	}

	to := asAddressList(body.To)
	cc := asAddressList(body.Cc)
	if len(to) == 0 || body.Subject == "" || body.HTML == "" {
		return c.Status(400).JSON(fiber.Map{"ok": false, "error": "Missing fields"})
	}

	err := h.Sender.Send(c.Context(), Message{To: to, Cc: cc, Subject: body.Subject, HTML: body.HTML})
	if err != nil {
		log.Error().Err(err).Str("to", to[0]).Msg("send-email failed")
		var sendErr *SendError
		if errors.As(err, &sendErr) {
			return c.Status(sendErr.StatusCode).JSON(fiber.Map{"ok": false, "error": sendErr.Body})
		}
		return c.Status(500).JSON(fiber.Map{"ok": false, "error": err.Error()})
	}
	return c.JSON(fiber.Map{"ok": true})
}

// asAddressList decodes "a@b.c" or ["a@b.c", ...] into a slice.
func asAddressList(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		if single == "" {
			return nil
		}
		return []string{single}
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	return nil
}
