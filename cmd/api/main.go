// @title AURA API
// @version 0.1.0
// @description Real-estate CRM: lead scoring, follow-ups, buyer matching, deal prediction and the assistant.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/realtyaura/aura/config"
	"github.com/realtyaura/aura/pkg/api"
	"github.com/realtyaura/aura/pkg/container"
	"github.com/realtyaura/aura/pkg/knowledge"
	"github.com/realtyaura/aura/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)
	log.Info("configuration loaded", "environment", cfg.APIEnvironment)

	sentryEnabled := false
	if cfg.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.APIEnvironment,
			TracesSampleRate: 0.2,
			AttachStacktrace: true,
		})
		if err != nil {
			log.Warn("failed to initialize Sentry", "error", err)
		} else {
			sentryEnabled = true
			defer sentry.Flush(2 * time.Second)
		}
	} else {
		log.Info("Sentry disabled (no DSN configured)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := container.New(ctx, cfg, container.Options{Logger: log})
	if err != nil {
		log.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}
	defer c.Close()

	if cfg.WatchKnowledge {
		if _, err := c.Knowledge.IngestDir(ctx); err != nil {
			log.Warn("initial knowledge ingest failed", "error", err)
		}
		go func() {
			if err := knowledge.NewWatcher(c.Knowledge, 2*time.Second).Run(ctx); err != nil {
				log.Error("knowledge watcher stopped", "error", err)
			}
		}()
	}

	if cfg.JobsEnabled {
		c.Cron.Start()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := c.Cron.Stop(stopCtx); err != nil {
				log.Warn("scheduled jobs did not finish before shutdown", "error", err)
			}
		}()
	}

	server := api.NewServer(c, api.Options{Sentry: sentryEnabled})
	log.Info("server configured",
		"auth", cfg.AuthEnabled,
		"rate_limit_rpm", cfg.RateLimitRequestsPerMinute,
		"jobs", cfg.JobsEnabled,
		"watch_knowledge", cfg.WatchKnowledge)

	if err := server.Run(ctx, net.JoinHostPort(cfg.APIHost, cfg.APIPort)); err != nil {
		log.Error("server stopped with error", "error", err)
		return
	}
	log.Info("server gracefully stopped")
}
