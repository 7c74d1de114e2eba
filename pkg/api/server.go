package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/realtyaura/aura/pkg/api/docs"
	apierrors "github.com/realtyaura/aura/pkg/api/errors"
	"github.com/realtyaura/aura/pkg/api/handlers"
	apimiddleware "github.com/realtyaura/aura/pkg/api/middleware"
	"github.com/realtyaura/aura/pkg/container"
	custommiddleware "github.com/realtyaura/aura/pkg/middleware"
)

const version = "0.1.0"

// Options tune the HTTP server
type Options struct {
	// Gatherer backs /metrics; nil means the default Prometheus registry
	Gatherer prometheus.Gatherer
	// Sentry enables the Sentry middleware; sentry.Init must already have run
	Sentry bool
}

// Server is the AURA HTTP API
type Server struct {
	Echo      *echo.Echo
	container *container.Container
	limiter   *custommiddleware.RateLimiter
}

// NewServer builds the Echo instance with middleware and every route
func NewServer(c *container.Container, opts Options) *Server {
	cfg := c.Config
	apierrors.SetLogger(c.Logger)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		Echo:      e,
		container: c,
		limiter:   custommiddleware.NewRateLimiter(cfg.RateLimitRequestsPerMinute, cfg.RateLimitBurst),
	}

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		LogRequestID: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			fields := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency.String(),
				"request_id", v.RequestID,
			}
			if v.Error != nil {
				c.Logger.Error("request failed", append(fields, "error", v.Error)...)
				return nil
			}
			c.Logger.Info("request", fields...)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	if opts.Sentry {
		e.Use(sentryecho.New(sentryecho.Options{Repanic: true}))
	}
	e.Use(c.Metrics.Middleware())
	e.Use(middleware.CORSWithConfig(custommiddleware.CORSConfig(cfg.CORSAllowedOrigins)))
	e.Use(middleware.Gzip())
	e.Use(middleware.Secure())

	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	e.GET("/", func(ctx echo.Context) error {
		return ctx.JSON(http.StatusOK, map[string]any{
			"name":        "AURA API",
			"version":     version,
			"status":      "running",
			"environment": cfg.APIEnvironment,
			"timestamp":   time.Now().Unix(),
		})
	})
	e.GET("/health", s.health)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := e.Group("/api/v1")
	v1.Use(custommiddleware.SecurityHeaders(custommiddleware.DefaultSecurityHeadersConfig()))
	v1.Use(apimiddleware.Optional(cfg.AuthEnabled, apimiddleware.JWTMiddleware(cfg.JWTSecret)))
	v1.Use(s.limiter.Middleware())
	s.routes(v1)

	return s
}

func (s *Server) routes(v1 *echo.Group) {
	c := s.container
	cfg := c.Config

	contactHandler := handlers.NewContactHandler(c.Store, c.Contacts, c.FollowUps)
	propertyHandler := handlers.NewPropertyHandler(c.Store, c.Matching, c.Analytics)
	taskHandler := handlers.NewTaskHandler(c.Store, c.FollowUps)
	dealHandler := handlers.NewDealHandler(c.Store, c.Deals, c.Analytics)
	scoreHandler := handlers.NewScoreHandler(c.Leads)
	followUpHandler := handlers.NewFollowUpHandler(c.FollowUps)
	insightsHandler := handlers.NewInsightsHandler(c.Analytics)
	knowledgeHandler := handlers.NewKnowledgeHandler(c.Knowledge)
	chatHandler := handlers.NewChatHandler(c.Assistant)
	authHandler := handlers.NewAuthHandler(cfg.JWTSecret, time.Duration(cfg.JWTExpirationHours)*time.Hour)
	phoneHandler := handlers.NewPhoneHandler(cfg.DefaultRegion)
	backupHandler := handlers.NewBackupHandler(c.Backup)
	jobsHandler := handlers.NewJobsHandler(c.Cron)

	v1.GET("/ping", func(ctx echo.Context) error {
		return ctx.JSON(http.StatusOK, map[string]string{"message": "pong"})
	})

	contacts := v1.Group("/contacts")
	{
		contacts.GET("", contactHandler.List)
		contacts.POST("", contactHandler.Create)
		contacts.GET("/:id", contactHandler.Get)
		contacts.PATCH("/:id", contactHandler.Update)
		contacts.POST("/:id/contacted", contactHandler.MarkContacted)
		contacts.GET("/:id/properties", contactHandler.Properties)
	}

	properties := v1.Group("/properties")
	{
		properties.GET("", propertyHandler.List)
		properties.POST("", propertyHandler.Create)
		properties.GET("/:id", propertyHandler.Get)
		properties.PATCH("/:id", propertyHandler.Update)
		properties.GET("/:id/buyers", propertyHandler.Buyers)
		properties.GET("/:id/relationships", propertyHandler.Relationships)
	}
	v1.POST("/relationships", propertyHandler.Link)
	v1.DELETE("/relationships", propertyHandler.Unlink)

	tasks := v1.Group("/tasks")
	{
		tasks.GET("", taskHandler.List)
		tasks.POST("", taskHandler.Create)
		tasks.GET("/overdue", taskHandler.Overdue)
		tasks.POST("/:id/complete", taskHandler.Complete)
	}
	v1.POST("/viewings", taskHandler.ScheduleViewing)

	deals := v1.Group("/deals")
	{
		deals.GET("", dealHandler.List)
		deals.POST("", dealHandler.Create)
		deals.GET("/:id", dealHandler.Get)
		deals.PUT("/:id/status", dealHandler.UpdateStatus)
		deals.GET("/:id/prediction", dealHandler.Predict)
	}

	scores := v1.Group("/scores")
	{
		scores.GET("", scoreHandler.List)
		scores.POST("/run", scoreHandler.Run)
		scores.GET("/distribution", scoreHandler.Distribution)
		scores.GET("/export", scoreHandler.Export)
	}

	v1.GET("/followups", followUpHandler.Due)
	v1.GET("/briefing", followUpHandler.DailySummary)
	emails := v1.Group("/emails")
	{
		emails.POST("/draft", followUpHandler.DraftEmail)
		emails.POST("/send", followUpHandler.SendEmail)
		emails.POST("/compose", followUpHandler.ComposeEmail)
	}

	insights := v1.Group("/insights")
	{
		insights.GET("/market", insightsHandler.Market)
		insights.GET("/performance", insightsHandler.Performance)
	}

	knowledge := v1.Group("/knowledge")
	{
		knowledge.POST("/upload", knowledgeHandler.Upload)
		knowledge.POST("/ingest", knowledgeHandler.Ingest)
		knowledge.GET("/search", knowledgeHandler.Search)
		knowledge.GET("/stats", knowledgeHandler.Statistics)
		knowledge.GET("/:id", knowledgeHandler.Get)
		knowledge.PUT("/:id/tags", knowledgeHandler.UpdateTags)
	}

	v1.POST("/chat", chatHandler.Chat)
	v1.POST("/auth/token", authHandler.Renew)
	v1.POST("/phone/validate", phoneHandler.ValidatePhone)

	v1.GET("/backups", backupHandler.ListBackups)
	v1.POST("/backups", backupHandler.CreateBackup)

	v1.GET("/jobs", jobsHandler.List)
	v1.POST("/jobs/:name/run", jobsHandler.Run)
}

func (s *Server) health(ctx echo.Context) error {
	c := s.container
	reqCtx := ctx.Request().Context()

	if err := c.DB.Ping(reqCtx); err != nil {
		return ctx.JSON(http.StatusServiceUnavailable, map[string]any{
			"status":   "unhealthy",
			"database": "down",
		})
	}
	c.Metrics.UpdateDBConnections(c.DB.Stats().OpenConnections)

	resp := map[string]any{
		"status":   "healthy",
		"database": "up",
		"cache":    "disabled",
		"llm":      "disabled",
	}
	if c.Cache != nil {
		if err := c.Cache.Redis.Ping(reqCtx).Err(); err != nil {
			resp["cache"] = "down"
		} else {
			resp["cache"] = "up"
		}
	}
	if c.LLM != nil {
		resp["llm"] = c.LLM.Provider()
	}
	return ctx.JSON(http.StatusOK, resp)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	go s.limiter.Cleanup(ctx, 5*time.Minute)

	errCh := make(chan error, 1)
	go func() {
		s.container.Logger.Info("AURA API starting", "address", addr)
		if err := s.Echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.container.Logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.Echo.Shutdown(shutdownCtx)
}
