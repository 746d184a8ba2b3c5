package emails

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const resendAPI = "https://api.resend.com/emails"

// Message is one outbound transactional email.
type Message struct {
	To      []string
	Cc      []string
	Subject string
	HTML    string
}

// Sender sends transactional emails. The reminder jobs treat any returned
// error as "not sent" and leave their bookkeeping untouched.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SendError carries the provider's HTTP status so the send-email passthrough
// can propagate it.
type SendError struct {
	StatusCode int
	Body       string
}

func (e *SendError) Error() string {
	return fmt.Sprintf("resend send failed: status %d: %s", e.StatusCode, e.Body)
}

// ResendRequest matches the Resend API v1 send body.
type ResendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Cc      []string `json:"cc,omitempty"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// ResendClient sends emails via the Resend REST API with a bearer token.
// Env: RESEND_API_KEY, MAIL_FROM.
type ResendClient struct {
	APIKey   string
	MailFrom string
	Client   *http.Client
}

func (c *ResendClient) from() string {
	if c.MailFrom != "" {
		return c.MailFrom
	}
	return "notification@agence-skdigital.fr"
}

// Send sends one email. A missing API key is a send failure, not a no-op:
// reminder rows must stay unmarked so they are retried once the key is set.
func (c *ResendClient) Send(ctx context.Context, msg Message) error {
	if c.APIKey == "" {
		return fmt.Errorf("RESEND_API_KEY missing")
	}
	body := ResendRequest{
		From:    c.from(),
		To:      msg.To,
		Cc:      msg.Cc,
		Subject: msg.Subject,
		HTML:    msg.HTML,
	}
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, resendAPI, bytes.NewReader(bodyBytes))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")
	if c.Client == nil {
		c.Client = &http.Client{Timeout: 15 * time.Second}
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &SendError{StatusCode: resp.StatusCode, Body: string(b)}
	}
	return nil
}
