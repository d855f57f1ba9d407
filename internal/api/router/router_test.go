package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/micheltwotravel/bot-ventas/internal/channels/whatsapp"
	"github.com/micheltwotravel/bot-ventas/internal/engine"
)

type nopProcessor struct{}

func (nopProcessor) Process(ctx context.Context, identity string, in engine.Input) error {
	return nil
}

func testRouter() http.Handler {
	reg := prometheus.NewRegistry()
	return New(&Config{
		Webhook:        whatsapp.NewWebhook("secret", nopProcessor{}, nil, nil),
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})
}

func TestHealthEndpoint(t *testing.T) {
	srv := httptest.NewServer(testRouter())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")
}

func TestWebhookVerifyRoute(t *testing.T) {
	srv := httptest.NewServer(testRouter())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/wa-webhook?hub.mode=subscribe&hub.verify_token=secret&hub.challenge=777")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMetricsRoute(t *testing.T) {
	srv := httptest.NewServer(testRouter())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
