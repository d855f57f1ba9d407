package whatsapp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/micheltwotravel/bot-ventas/internal/engine"
)

type capturedSend struct {
	path string
	auth string
	body map[string]any
}

func newCapturingServer(t *testing.T, sink *[]capturedSend) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var body map[string]any
		require.NoError(t, json.Unmarshal(raw, &body))
		*sink = append(*sink, capturedSend{
			path: r.URL.Path,
			auth: r.Header.Get("Authorization"),
			body: body,
		})
		w.Write([]byte(`{"messages":[{"id":"wamid.out"}]}`))
	}))
}

func TestClientSendText(t *testing.T) {
	var sends []capturedSend
	srv := newCapturingServer(t, &sends)
	defer srv.Close()

	c := NewClient("token-123", "1555000", nil, WithBaseURL(srv.URL), WithAPIVersion("v20.0"))
	err := c.SendText(context.Background(), "573005551234", "hola!")
	require.NoError(t, err)

	require.Len(t, sends, 1)
	assert.Equal(t, "/v20.0/1555000/messages", sends[0].path)
	assert.Equal(t, "Bearer token-123", sends[0].auth)
	assert.Equal(t, "whatsapp", sends[0].body["messaging_product"])
	assert.Equal(t, "text", sends[0].body["type"])
	assert.Equal(t, "573005551234", sends[0].body["to"])
}

func TestClientSendButtonsCapsAtThree(t *testing.T) {
	var sends []capturedSend
	srv := newCapturingServer(t, &sends)
	defer srv.Close()

	c := NewClient("t", "p", nil, WithBaseURL(srv.URL))
	buttons := []engine.Button{
		{ID: "A", Title: "One"}, {ID: "B", Title: "Two"},
		{ID: "C", Title: "Three"}, {ID: "D", Title: "Four"},
	}
	require.NoError(t, c.SendButtons(context.Background(), "57300", "pick one", buttons))

	require.Len(t, sends, 1)
	interactive := sends[0].body["interactive"].(map[string]any)
	assert.Equal(t, "button", interactive["type"])
	got := interactive["action"].(map[string]any)["buttons"].([]any)
	assert.Len(t, got, 3)
}

func TestClientSendListCapsAtTen(t *testing.T) {
	var sends []capturedSend
	srv := newCapturingServer(t, &sends)
	defer srv.Close()

	c := NewClient("t", "p", nil, WithBaseURL(srv.URL))
	rows := make([]engine.ListRow, 12)
	for i := range rows {
		rows[i] = engine.ListRow{ID: "R", Title: "Row"}
	}
	require.NoError(t, c.SendList(context.Background(), "57300", "Two Travel", "choose", "See", rows))

	interactive := sends[0].body["interactive"].(map[string]any)
	assert.Equal(t, "list", interactive["type"])
	sections := interactive["action"].(map[string]any)["sections"].([]any)
	got := sections[0].(map[string]any)["rows"].([]any)
	assert.Len(t, got, 10)
}

func TestClientSendErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"bad token"}}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient("t", "p", nil, WithBaseURL(srv.URL))
	err := c.SendText(context.Background(), "57300", "hola")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

type recordingProcessor struct {
	identities []string
	inputs     []engine.Input
}

func (p *recordingProcessor) Process(ctx context.Context, identity string, in engine.Input) error {
	p.identities = append(p.identities, identity)
	p.inputs = append(p.inputs, in)
	return nil
}

func TestWebhookVerify(t *testing.T) {
	h := NewWebhook("secret", &recordingProcessor{}, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/wa-webhook?hub.mode=subscribe&hub.verify_token=secret&hub.challenge=12345", nil)
	rec := httptest.NewRecorder()
	h.Verify(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "12345", rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/wa-webhook?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=12345", nil)
	rec = httptest.NewRecorder()
	h.Verify(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

const textEventPayload = `{
  "entry": [{
    "changes": [{
      "value": {
        "messages": [{
          "id": "wamid.abc",
          "from": "573005551234",
          "type": "text",
          "text": {"body": "hola"}
        }]
      }
    }]
  }]
}`

const listReplyPayload = `{
  "entry": [{
    "changes": [{
      "value": {
        "messages": [{
          "id": "wamid.def",
          "from": "573005551234",
          "type": "interactive",
          "interactive": {
            "type": "list_reply",
            "list_reply": {"id": "CITY_CARTAGENA", "title": "Cartagena"}
          }
        }]
      }
    }]
  }]
}`

const statusOnlyPayload = `{
  "entry": [{
    "changes": [{
      "value": {
        "statuses": [{"id": "wamid.abc", "status": "delivered"}]
      }
    }]
  }]
}`

func TestWebhookReceiveText(t *testing.T) {
	p := &recordingProcessor{}
	h := NewWebhook("secret", p, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/wa-webhook", strings.NewReader(textEventPayload))
	rec := httptest.NewRecorder()
	h.Receive(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, p.inputs, 1)
	assert.Equal(t, "573005551234", p.identities[0])
	assert.Equal(t, "wamid.abc", p.inputs[0].MessageID)
	assert.Equal(t, "hola", p.inputs[0].Text)
	assert.Empty(t, p.inputs[0].SelectionID)
}

func TestWebhookReceiveListReply(t *testing.T) {
	p := &recordingProcessor{}
	h := NewWebhook("secret", p, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/wa-webhook", strings.NewReader(listReplyPayload))
	rec := httptest.NewRecorder()
	h.Receive(rec, req)

	require.Len(t, p.inputs, 1)
	assert.Equal(t, "CITY_CARTAGENA", p.inputs[0].SelectionID)
	assert.Equal(t, "Cartagena", p.inputs[0].Text)
}

func TestWebhookSkipsStatuses(t *testing.T) {
	p := &recordingProcessor{}
	h := NewWebhook("secret", p, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/wa-webhook", strings.NewReader(statusOnlyPayload))
	rec := httptest.NewRecorder()
	h.Receive(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, p.inputs)
}

func TestWebhookRejectsMalformedBody(t *testing.T) {
	h := NewWebhook("secret", &recordingProcessor{}, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/wa-webhook", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.Receive(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
