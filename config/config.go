package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration
type Config struct {
	// API Configuration
	APIPort        string
	APIHost        string
	APIEnvironment string

	// Database
	DatabasePath       string
	DBMaxOpenConns     int
	DBMaxIdleConns     int
	DBConnMaxLifetimeM int
	SeedOnStartup      bool

	// Redis
	RedisURL string

	// JWT & Security
	AuthEnabled        bool
	JWTSecret          string
	JWTExpirationHours int

	// CORS
	CORSAllowedOrigins []string

	// Rate Limiting
	RateLimitRequestsPerMinute int
	RateLimitBurst             int

	// Logging
	LogLevel string

	// Error tracking
	SentryDSN string

	// LLM
	LLMProvider  string
	GeminiAPIKey string
	GeminiModel  string
	OpenAIAPIKey string
	OpenAIModel  string
	LLMBaseURL   string

	// Scoring
	ScoringTablesPath string

	// Knowledge base
	KnowledgeDir   string
	WatchKnowledge bool
	DefaultRegion  string

	// Scraper
	ScraperURL      string
	ScraperSchedule string

	// Scheduled jobs
	JobsEnabled      bool
	BriefingSchedule string
	ScoringSchedule  string
	BackupSchedule   string

	// Notifications
	SlackWebhookURL string
	SendGridAPIKey  string
	EmailFrom       string
	EmailFromName   string

	// Backup
	BackupDir       string
	BackupRetention int
	AWSRegion       string
	S3Bucket        string
	AWSAccessKey    string
	AWSSecretKey    string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		// API
		APIPort:        getEnv("API_PORT", "5000"),
		APIHost:        getEnv("API_HOST", "0.0.0.0"),
		APIEnvironment: getEnv("API_ENVIRONMENT", "development"),

		// Database
		DatabasePath:       getEnv("DATABASE_PATH", "aura.db"),
		DBMaxOpenConns:     getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdleConns:     getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
		DBConnMaxLifetimeM: getEnvAsInt("DB_CONN_MAX_LIFETIME_MINUTES", 30),
		SeedOnStartup:      getEnvAsBool("SEED_ON_STARTUP", false),

		// Redis
		RedisURL: getEnv("REDIS_URL", ""),

		// JWT
		AuthEnabled:        getEnvAsBool("AUTH_ENABLED", false),
		JWTSecret:          getEnv("JWT_SECRET", "change-this-in-production"),
		JWTExpirationHours: getEnvAsInt("JWT_EXPIRATION_HOURS", 24),

		// CORS
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),

		// Rate Limiting
		RateLimitRequestsPerMinute: getEnvAsInt("RATE_LIMIT_REQUESTS_PER_MINUTE", 120),
		RateLimitBurst:             getEnvAsInt("RATE_LIMIT_BURST", 20),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),

		SentryDSN: getEnv("SENTRY_DSN", ""),

		// LLM
		LLMProvider:  getEnv("LLM_PROVIDER", "gemini"),
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		LLMBaseURL:   getEnv("LLM_BASE_URL", ""),

		ScoringTablesPath: getEnv("SCORING_TABLES_PATH", ""),

		// Knowledge base
		KnowledgeDir:   getEnv("KNOWLEDGE_DIR", "knowledge"),
		WatchKnowledge: getEnvAsBool("WATCH_KNOWLEDGE", false),
		DefaultRegion:  getEnv("DEFAULT_PHONE_REGION", "AE"),

		// Scraper
		ScraperURL:      getEnv("SCRAPER_URL", "https://www.propertyfinder.ae/en/search?c=2&l=50&ob=nd&ot=d"),
		ScraperSchedule: getEnv("SCRAPER_SCHEDULE", "0 3 * * *"),

		// Scheduled jobs
		JobsEnabled:      getEnvAsBool("JOBS_ENABLED", true),
		BriefingSchedule: getEnv("BRIEFING_SCHEDULE", "0 8 * * *"),
		ScoringSchedule:  getEnv("SCORING_SCHEDULE", "0 2 * * *"),
		BackupSchedule:   getEnv("BACKUP_SCHEDULE", "0 4 * * *"),

		// Notifications
		SlackWebhookURL: getEnv("SLACK_WEBHOOK_URL", ""),
		SendGridAPIKey:  getEnv("SENDGRID_API_KEY", ""),
		EmailFrom:       getEnv("EMAIL_FROM", "agent@aura.local"),
		EmailFromName:   getEnv("EMAIL_FROM_NAME", "AURA"),

		// Backup
		BackupDir:       getEnv("BACKUP_DIR", "backups"),
		BackupRetention: getEnvAsInt("BACKUP_RETENTION", 7),
		AWSRegion:       getEnv("AWS_REGION", "us-east-1"),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		AWSAccessKey:    getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:    getEnv("AWS_SECRET_ACCESS_KEY", ""),
	}
}

// IsProduction reports whether the API runs in production mode
func (c *Config) IsProduction() bool {
	return c.APIEnvironment == "production"
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
