// Package router assembles the HTTP surface: health, the WhatsApp webhook
// pair, and Prometheus metrics.
package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/micheltwotravel/bot-ventas/internal/channels/whatsapp"
	httpmiddleware "github.com/micheltwotravel/bot-ventas/internal/http/middleware"
	"github.com/micheltwotravel/bot-ventas/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger         *logging.Logger
	Webhook        *whatsapp.Webhook
	MetricsHandler http.Handler

	// Webhook flood protection. Zero disables the limiter.
	RateLimitPerSecond float64
	RateLimitBurst     int
}

// New creates the chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", handleHealth)

	r.Group(func(hook chi.Router) {
		if cfg.RateLimitPerSecond > 0 {
			hook.Use(httpmiddleware.RateLimit(cfg.RateLimitPerSecond, cfg.RateLimitBurst))
		}
		hook.Get("/wa-webhook", cfg.Webhook.Verify)
		hook.Post("/wa-webhook", cfg.Webhook.Receive)
	})

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
