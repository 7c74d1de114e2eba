package container

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/realtyaura/aura/config"
	"github.com/realtyaura/aura/pkg/ai/llm"
	"github.com/realtyaura/aura/pkg/analytics"
	"github.com/realtyaura/aura/pkg/assistant"
	"github.com/realtyaura/aura/pkg/backup"
	"github.com/realtyaura/aura/pkg/cache"
	"github.com/realtyaura/aura/pkg/contacts"
	"github.com/realtyaura/aura/pkg/database"
	"github.com/realtyaura/aura/pkg/deals"
	"github.com/realtyaura/aura/pkg/email"
	"github.com/realtyaura/aura/pkg/followup"
	"github.com/realtyaura/aura/pkg/jobs"
	"github.com/realtyaura/aura/pkg/knowledge"
	"github.com/realtyaura/aura/pkg/leadscoring"
	"github.com/realtyaura/aura/pkg/logger"
	"github.com/realtyaura/aura/pkg/matching"
	"github.com/realtyaura/aura/pkg/metrics"
	"github.com/realtyaura/aura/pkg/scoring"
	"github.com/realtyaura/aura/pkg/scraper"
	"github.com/realtyaura/aura/pkg/slack"
	"github.com/realtyaura/aura/pkg/store"
)

const insightsCacheTTL = 5 * time.Minute

// Options tweak container construction for tests and the CLI
type Options struct {
	Logger logger.Logger
	// Registerer receives the Prometheus collectors; nil means the default registry
	Registerer prometheus.Registerer
	// Clock overrides the store clock
	Clock func() time.Time
	// LLM replaces the configured language model client
	LLM llm.LLMClient
	// Slack replaces the webhook client
	Slack slack.SlackClient
	// Cache replaces the Redis connection built from the config
	Cache *cache.Client
}

// Container holds all application dependencies
type Container struct {
	Config  *config.Config
	Logger  logger.Logger
	Metrics *metrics.Metrics

	// Infrastructure
	DB    *database.Client
	Store *store.Store
	Cache *cache.Client
	LLM   llm.LLMClient

	// Services
	Engine    *scoring.Engine
	Contacts  *contacts.Service
	Leads     *leadscoring.Service
	FollowUps *followup.Service
	Matching  *matching.Service
	Deals     *deals.Service
	Analytics *analytics.Service
	Knowledge *knowledge.Service
	Assistant *assistant.Router
	Email     *email.Service
	Slack     *slack.Service
	Scraper   *scraper.Scraper
	Backup    *backup.Service
	Cron      *jobs.CronManager
}

// New creates and initializes all application dependencies
func New(ctx context.Context, cfg *config.Config, opts Options) (*Container, error) {
	c := &Container{Config: cfg, Logger: opts.Logger}
	if c.Logger == nil {
		c.Logger = logger.New(cfg.LogLevel)
	}
	c.Metrics = metrics.New(opts.Registerer)

	if err := c.initInfrastructure(ctx, opts); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.initServices(ctx, opts); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.initJobs(); err != nil {
		c.Close()
		return nil, err
	}

	c.Logger.Info("container initialized",
		"environment", cfg.APIEnvironment,
		"cache", c.Cache != nil,
		"llm", c.LLM != nil)
	return c, nil
}

func (c *Container) initInfrastructure(ctx context.Context, opts Options) error {
	pool := database.DefaultPoolConfig()
	pool.MaxOpenConns = c.Config.DBMaxOpenConns
	pool.MaxIdleConns = c.Config.DBMaxIdleConns
	pool.ConnMaxLifetime = time.Duration(c.Config.DBConnMaxLifetimeM) * time.Minute

	db, err := database.NewClientWithPool(ctx, c.Config.DatabasePath, pool, c.Logger)
	if err != nil {
		c.Logger.Error("failed to connect to database", "error", err)
		return err
	}
	c.DB = db
	c.Store = store.New(db)
	if opts.Clock != nil {
		c.Store.WithClock(opts.Clock)
	}

	if c.Config.SeedOnStartup {
		seeded, err := db.Seed(ctx, c.Store.Now())
		if err != nil {
			return fmt.Errorf("seed database: %w", err)
		}
		c.Logger.Info("database seed checked", "seeded", seeded)
	}

	// Redis is optional: insights are simply not cached without it
	c.Cache = opts.Cache
	if c.Cache == nil && c.Config.RedisURL != "" {
		cacheClient, err := cache.NewClient(ctx, c.Config.RedisURL)
		if err != nil {
			c.Logger.Warn("redis unavailable, insights cache disabled", "error", err)
		} else {
			c.Cache = cacheClient
		}
	}

	c.LLM = opts.LLM
	if c.LLM == nil {
		c.LLM, err = c.newLLM(ctx)
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *Container) newLLM(ctx context.Context) (llm.LLMClient, error) {
	cfg := llm.Config{Provider: c.Config.LLMProvider, BaseURL: c.Config.LLMBaseURL}
	switch strings.ToLower(c.Config.LLMProvider) {
	case llm.ProviderOpenAI:
		cfg.APIKey, cfg.Model = c.Config.OpenAIAPIKey, c.Config.OpenAIModel
	case llm.ProviderOllama:
	default:
		cfg.APIKey, cfg.Model = c.Config.GeminiAPIKey, c.Config.GeminiModel
	}

	client, err := llm.NewClient(ctx, cfg, c.Logger)
	if errors.Is(err, llm.ErrNotConfigured) {
		c.Logger.Warn("no language model configured, free-form chat disabled", "provider", c.Config.LLMProvider)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("init llm client: %w", err)
	}
	return client, nil
}

func (c *Container) initServices(ctx context.Context, opts Options) error {
	tables, err := scoring.LoadTables(c.Config.ScoringTablesPath)
	if err != nil {
		return err
	}
	c.Engine, err = scoring.NewEngine(tables)
	if err != nil {
		return err
	}
	if opts.Clock != nil {
		c.Engine.WithClock(opts.Clock)
	}

	slackClient := opts.Slack
	if slackClient == nil && c.Config.SlackWebhookURL != "" {
		slackClient = slack.NewWebhookClient(c.Config.SlackWebhookURL)
	}
	c.Slack = slack.NewService(slackClient)
	c.Email = email.NewService(c.Config.EmailFrom, c.Config.EmailFromName, c.Config.SendGridAPIKey, c.Logger)

	c.Contacts = contacts.NewService(c.Store, c.Config.DefaultRegion, c.Logger).WithNotifier(c.Slack)
	c.Leads = leadscoring.NewService(c.Store, c.Engine, c.Logger).WithMetrics(c.Metrics)
	c.FollowUps = followup.NewService(c.Store, c.Engine, c.Logger).
		WithMailer(c.Email).
		WithMetrics(c.Metrics)
	if c.LLM != nil {
		c.FollowUps.WithWriter(c.LLM)
	}
	c.Matching = matching.NewService(c.Store, c.Engine, c.Logger)
	c.Deals = deals.NewService(c.Store, c.Engine, c.Logger).WithNotifier(c.Slack)
	c.Analytics = analytics.NewService(c.Store, c.Logger).WithMetrics(c.Metrics)
	if c.Cache != nil {
		c.Analytics.WithCache(c.Cache, insightsCacheTTL)
	}
	c.Knowledge = knowledge.NewService(c.Store, c.Config.KnowledgeDir, c.Logger).WithMetrics(c.Metrics)

	c.Assistant = assistant.NewRouter(assistant.Deps{
		Store:     c.Store,
		FollowUps: c.FollowUps,
		Leads:     c.Leads,
		Matching:  c.Matching,
		Analytics: c.Analytics,
		Knowledge: c.Knowledge,
		LLM:       c.LLM,
		Logger:    c.Logger,
		Metrics:   c.Metrics,
	})

	c.Scraper = scraper.New(c.Config.ScraperURL, c.Config.KnowledgeDir, c.Logger).WithMetrics(c.Metrics)
	if opts.Clock != nil {
		c.Scraper.WithClock(opts.Clock)
	}

	c.Backup, err = backup.NewService(ctx, c.DB.DB, backup.Config{
		AWSAccessKeyID:     c.Config.AWSAccessKey,
		AWSSecretAccessKey: c.Config.AWSSecretKey,
		AWSRegion:          c.Config.AWSRegion,
		S3Bucket:           c.Config.S3Bucket,
		LocalBackupDir:     c.Config.BackupDir,
		RetentionDays:      c.Config.BackupRetention,
	}, c.Logger)
	if err != nil {
		return err
	}
	if opts.Clock != nil {
		c.Backup.WithClock(opts.Clock)
	}
	return nil
}

func (c *Container) initJobs() error {
	c.Cron = jobs.NewCronManager(c.Logger, c.Metrics)
	for _, job := range []jobs.Job{
		jobs.BriefingJob(c.Config.BriefingSchedule, c.FollowUps, c.Slack),
		jobs.ScrapeJob(c.Config.ScraperSchedule, c.Scraper, c.Knowledge, c.Slack, c.Logger),
		jobs.ScoringJob(c.Config.ScoringSchedule, c.Leads, c.Logger),
		jobs.BackupJob(c.Config.BackupSchedule, c.Backup),
	} {
		if err := c.Cron.Add(job); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the database and cache connections
func (c *Container) Close() error {
	var errs []error
	if c.Cache != nil {
		errs = append(errs, c.Cache.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}
