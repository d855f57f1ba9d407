// Package whatsapp adapts the WhatsApp Cloud API: the webhook that
// receives inbound messages and the Graph API client that sends replies.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/micheltwotravel/bot-ventas/internal/engine"
	"github.com/micheltwotravel/bot-ventas/pkg/logging"
)

const (
	defaultBaseURL    = "https://graph.facebook.com"
	defaultAPIVersion = "v20.0"

	maxButtons  = 3
	maxListRows = 10
)

// Client sends messages through the Cloud API messages endpoint. It
// satisfies engine.Messenger.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	apiVersion    string
	accessToken   string
	phoneNumberID string
	logger        *logging.Logger
}

// ClientOption customizes the client.
type ClientOption func(*Client)

// WithBaseURL overrides the Graph API host, used by tests.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = u }
}

// WithAPIVersion pins a Graph API version.
func WithAPIVersion(v string) ClientOption {
	return func(c *Client) { c.apiVersion = v }
}

// NewClient creates a Cloud API client for one phone number.
func NewClient(accessToken, phoneNumberID string, logger *logging.Logger, opts ...ClientOption) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	c := &Client{
		httpClient:    &http.Client{Timeout: 15 * time.Second},
		baseURL:       defaultBaseURL,
		apiVersion:    defaultAPIVersion,
		accessToken:   accessToken,
		phoneNumberID: phoneNumberID,
		logger:        logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type textPayload struct {
	Body string `json:"body"`
}

type interactivePayload struct {
	Type   string         `json:"type"`
	Header *headerPayload `json:"header,omitempty"`
	Body   textPayload    `json:"body"`
	Action actionPayload  `json:"action"`
}

type headerPayload struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type actionPayload struct {
	Buttons  []buttonPayload  `json:"buttons,omitempty"`
	Button   string           `json:"button,omitempty"`
	Sections []sectionPayload `json:"sections,omitempty"`
}

type buttonPayload struct {
	Type  string       `json:"type"`
	Reply replyPayload `json:"reply"`
}

type replyPayload struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type sectionPayload struct {
	Rows []rowPayload `json:"rows"`
}

type rowPayload struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type outboundMessage struct {
	MessagingProduct string              `json:"messaging_product"`
	To               string              `json:"to"`
	Type             string              `json:"type"`
	Text             *textPayload        `json:"text,omitempty"`
	Interactive      *interactivePayload `json:"interactive,omitempty"`
}

// SendText delivers a plain text message.
func (c *Client) SendText(ctx context.Context, to, body string) error {
	return c.send(ctx, outboundMessage{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text:             &textPayload{Body: body},
	})
}

// SendButtons delivers up to three quick-reply buttons. Extra buttons are
// dropped rather than failing the send; the channel hard-caps at three.
func (c *Client) SendButtons(ctx context.Context, to, body string, buttons []engine.Button) error {
	if len(buttons) > maxButtons {
		c.logger.Warn("whatsapp: truncating buttons", "to", to, "count", len(buttons))
		buttons = buttons[:maxButtons]
	}
	bp := make([]buttonPayload, 0, len(buttons))
	for _, b := range buttons {
		bp = append(bp, buttonPayload{
			Type:  "reply",
			Reply: replyPayload{ID: b.ID, Title: truncate(b.Title, 20)},
		})
	}
	return c.send(ctx, outboundMessage{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "interactive",
		Interactive: &interactivePayload{
			Type:   "button",
			Body:   textPayload{Body: body},
			Action: actionPayload{Buttons: bp},
		},
	})
}

// SendList delivers a single-section list picker, capped at ten rows.
func (c *Client) SendList(ctx context.Context, to, header, body, buttonLabel string, rows []engine.ListRow) error {
	if len(rows) > maxListRows {
		c.logger.Warn("whatsapp: truncating list rows", "to", to, "count", len(rows))
		rows = rows[:maxListRows]
	}
	rp := make([]rowPayload, 0, len(rows))
	for _, r := range rows {
		rp = append(rp, rowPayload{
			ID:          r.ID,
			Title:       truncate(r.Title, 24),
			Description: truncate(r.Description, 72),
		})
	}
	var h *headerPayload
	if header != "" {
		h = &headerPayload{Type: "text", Text: truncate(header, 60)}
	}
	return c.send(ctx, outboundMessage{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "interactive",
		Interactive: &interactivePayload{
			Type:   "list",
			Header: h,
			Body:   textPayload{Body: body},
			Action: actionPayload{
				Button:   truncate(buttonLabel, 20),
				Sections: []sectionPayload{{Rows: rp}},
			},
		},
	})
}

func (c *Client) send(ctx context.Context, msg outboundMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("whatsapp: marshal message: %w", err)
	}

	url := fmt.Sprintf("%s/%s/%s/messages", c.baseURL, c.apiVersion, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("whatsapp: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp: send %s to %s: %w", msg.Type, msg.To, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("whatsapp: send %s to %s: status %d: %s", msg.Type, msg.To, resp.StatusCode, detail)
	}
	return nil
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

var _ engine.Messenger = (*Client)(nil)
