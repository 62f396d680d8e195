// Package mail sends survey notification emails through an HTTP relay
// service. When no relay is configured, sends are simulated and logged
// so the approval flow can still complete in development setups.
package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Uthayarahavan/google-form-automation/pkg/gf/logger"
)

// Mailer delivers a single email to one recipient.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Client posts emails to an HTTP mail relay.
type Client struct {
	relayURL   string
	from       string
	httpClient *http.Client
	log        logger.Logger
}

// NewClient creates a mail client. An empty relay URL puts the client
// in simulation mode: sends succeed without delivering anything.
func NewClient(relayURL, from string, log logger.Logger) *Client {
	return &Client{
		relayURL: relayURL,
		from:     from,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log,
	}
}

type sendEmailReq struct {
	To      []string `json:"to"`
	From    string   `json:"from,omitempty"`
	Subject string   `json:"subject"`
	Content string   `json:"content"`
}

// Send delivers one email via the relay.
func (c *Client) Send(ctx context.Context, to, subject, body string) error {
	if c.relayURL == "" {
		c.log.Infof("Mail relay not configured, simulating send to %s (subject %q)", to, subject)
		return nil
	}

	payload, err := json.Marshal(sendEmailReq{
		To:      []string{to},
		From:    c.from,
		Subject: subject,
		Content: body,
	})
	if err != nil {
		return fmt.Errorf("cannot marshal email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.relayURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("cannot create relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("cannot reach mail relay: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("mail relay returned status %d: %s", resp.StatusCode, detail)
	}
	return nil
}
