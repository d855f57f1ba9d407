package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/micheltwotravel/bot-ventas/internal/engine"
	"github.com/micheltwotravel/bot-ventas/internal/observability/metrics"
	"github.com/micheltwotravel/bot-ventas/pkg/logging"
)

// Processor handles one decoded inbound event.
type Processor interface {
	Process(ctx context.Context, identity string, in engine.Input) error
}

// Webhook implements the Cloud API webhook endpoints: the GET verification
// handshake and the POST event feed.
type Webhook struct {
	verifyToken string
	processor   Processor
	metrics     *metrics.BotMetrics
	logger      *logging.Logger
}

// NewWebhook creates the webhook handler.
func NewWebhook(verifyToken string, processor Processor, m *metrics.BotMetrics, logger *logging.Logger) *Webhook {
	if logger == nil {
		logger = logging.Default()
	}
	return &Webhook{verifyToken: verifyToken, processor: processor, metrics: m, logger: logger}
}

// Verify answers Meta's subscription handshake. The challenge is echoed
// back only when mode and token match.
func (h *Webhook) Verify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("hub.mode") == "subscribe" && q.Get("hub.verify_token") == h.verifyToken {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(q.Get("hub.challenge")))
		return
	}
	h.logger.Warn("whatsapp: webhook verification rejected", "mode", q.Get("hub.mode"))
	http.Error(w, "verification failed", http.StatusForbidden)
}

// Inbound payload shapes, trimmed to the fields the bot reads.
type inboundPayload struct {
	Entry []struct {
		Changes []struct {
			Value struct {
				Messages []inboundMessage  `json:"messages"`
				Statuses []json.RawMessage `json:"statuses"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

type inboundMessage struct {
	ID   string `json:"id"`
	From string `json:"from"`
	Type string `json:"type"`
	Text *struct {
		Body string `json:"body"`
	} `json:"text"`
	Interactive *struct {
		Type        string        `json:"type"`
		ButtonReply *replyPayload `json:"button_reply"`
		ListReply   *replyPayload `json:"list_reply"`
	} `json:"interactive"`
}

// input flattens a Cloud API message into the engine's shape. For
// interactive replies the title doubles as the text so logs stay readable.
func (m inboundMessage) input() engine.Input {
	in := engine.Input{MessageID: m.ID}
	switch {
	case m.Interactive != nil && m.Interactive.ButtonReply != nil:
		in.SelectionID = m.Interactive.ButtonReply.ID
		in.Text = m.Interactive.ButtonReply.Title
	case m.Interactive != nil && m.Interactive.ListReply != nil:
		in.SelectionID = m.Interactive.ListReply.ID
		in.Text = m.Interactive.ListReply.Title
	case m.Text != nil:
		in.Text = m.Text.Body
	}
	return in
}

// Receive handles the POST event feed. It always answers 200 for decodable
// payloads: Meta retries non-2xx responses and the engine's own
// idempotency already covers redeliveries.
func (h *Webhook) Receive(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	defer func() {
		h.metrics.ObserveWebhookLatency("receive", time.Since(started).Seconds())
	}()

	var payload inboundPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.metrics.ObserveInbound("payload", "malformed")
		h.logger.Warn("whatsapp: malformed webhook payload", "error", err)
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			// Delivery/read statuses arrive on the same feed. Nothing to do.
			if len(change.Value.Statuses) > 0 && len(change.Value.Messages) == 0 {
				h.metrics.ObserveInbound("status", "skipped")
				continue
			}
			for _, msg := range change.Value.Messages {
				if msg.From == "" {
					continue
				}
				if err := h.processor.Process(r.Context(), msg.From, msg.input()); err != nil {
					h.metrics.ObserveInbound("message", "error")
					h.logger.Error("whatsapp: process inbound failed", "from", msg.From, "message_id", msg.ID, "error", err)
				}
			}
		}
	}

	w.WriteHeader(http.StatusOK)
}
