package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/micheltwotravel/bot-ventas/internal/api/router"
	"github.com/micheltwotravel/bot-ventas/internal/catalog"
	"github.com/micheltwotravel/bot-ventas/internal/channels/whatsapp"
	"github.com/micheltwotravel/bot-ventas/internal/config"
	"github.com/micheltwotravel/bot-ventas/internal/crm"
	"github.com/micheltwotravel/bot-ventas/internal/engine"
	"github.com/micheltwotravel/bot-ventas/internal/notify"
	"github.com/micheltwotravel/bot-ventas/internal/observability/metrics"
	"github.com/micheltwotravel/bot-ventas/internal/owners"
	"github.com/micheltwotravel/bot-ventas/internal/session"
	"github.com/micheltwotravel/bot-ventas/pkg/logging"
)

func main() {
	// .env is optional; real deployments inject the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting bot-ventas API server", "env", cfg.Env, "port", cfg.Port)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	botMetrics := metrics.NewBotMetrics(reg)

	store := buildSessionStore(cfg, logger)

	sheet := catalog.NewSheetSource(cfg.CatalogCSVURL, logger)
	ranker := catalog.NewRanker(catalog.NewCachedSource(sheet, cfg.CatalogCacheTTL))

	var crmAdapter crm.Adapter = crm.Noop{}
	if cfg.HubSpotToken != "" {
		crmAdapter = crm.NewHubSpotClient(cfg.HubSpotToken, logger,
			crm.WithPipeline(cfg.HubSpotPipelineID, cfg.HubSpotDealStageID))
	}

	var sender notify.EmailSender
	if cfg.SMTPHost != "" {
		sender = notify.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, logger)
	}
	notifier := notify.NewService(sender, cfg.SalesEmails, logger)

	ownerResolver := owners.NewResolver(owners.Owner{
		Name:           cfg.OwnerName,
		Ref:            cfg.HubSpotOwnerRef,
		SchedulingLink: cfg.OwnerSchedulingLink,
		WhatsApp:       cfg.OwnerWhatsApp,
	})

	waClient := whatsapp.NewClient(cfg.WhatsAppAccessToken, cfg.WhatsAppPhoneNumberID, logger,
		whatsapp.WithAPIVersion(cfg.WhatsAppAPIVersion))

	bot := engine.New(engine.Deps{
		Store:     store,
		Ranker:    ranker,
		Messenger: waClient,
		CRM:       crmAdapter,
		Notifier:  notifier,
		Owners:    ownerResolver,
		Metrics:   botMetrics,
		Logger:    logger,
	}, engine.Config{
		BotName:       cfg.BotName,
		TopK:          cfg.TopK,
		NameMinTokens: cfg.NameMinTokens,
		Retry:         session.RetryPolicy{MaxAttempts: cfg.RetryMaxAttempts},
		DefaultRegion: cfg.DefaultRegion,
	})

	webhook := whatsapp.NewWebhook(cfg.WhatsAppVerifyToken, bot, botMetrics, logger)

	handler := router.New(&router.Config{
		Logger:             logger,
		Webhook:            webhook,
		MetricsHandler:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		RateLimitPerSecond: 20,
		RateLimitBurst:     40,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// buildSessionStore picks Redis when configured, falling back to the
// in-process store for local runs and tests.
func buildSessionStore(cfg *config.Config, logger *logging.Logger) session.Store {
	if cfg.UseMemorySessions || cfg.RedisAddr == "" {
		logger.Info("using in-memory session store")
		return session.NewMemoryStore()
	}

	opts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("redis unreachable, falling back to in-memory sessions", "error", err)
		return session.NewMemoryStore()
	}

	logger.Info("using redis session store", "addr", cfg.RedisAddr, "ttl", cfg.SessionTTL.String())
	return session.NewRedisStore(client, cfg.SessionTTL)
}
