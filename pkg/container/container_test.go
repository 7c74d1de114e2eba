package container

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realtyaura/aura/config"
	"github.com/realtyaura/aura/pkg/jobs"
	"github.com/realtyaura/aura/pkg/logger"
	"github.com/realtyaura/aura/pkg/testdata"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Load()
	cfg.DatabasePath = filepath.Join(dir, "aura.db")
	cfg.SeedOnStartup = true
	cfg.RedisURL = ""
	cfg.LLMProvider = "gemini"
	cfg.GeminiAPIKey = ""
	cfg.SlackWebhookURL = ""
	cfg.S3Bucket = ""
	cfg.KnowledgeDir = filepath.Join(dir, "knowledge")
	cfg.BackupDir = filepath.Join(dir, "backups")
	cfg.ScoringTablesPath = ""
	return cfg
}

func TestNew(t *testing.T) {
	c, err := New(context.Background(), testConfig(t), Options{
		Logger:     logger.NewNop(),
		Registerer: prometheus.NewRegistry(),
		Clock:      testdata.Clock,
	})
	require.NoError(t, err)
	defer c.Close()

	assert.Nil(t, c.LLM, "no key configured")
	assert.Nil(t, c.Cache)
	assert.False(t, c.Slack.IsEnabled())
	assert.Equal(t, []string{jobs.JobBackup, jobs.JobBriefing, jobs.JobScoring, jobs.JobScrape}, c.Cron.Jobs())

	contacts, err := c.Leads.PreviewScores(context.Background())
	require.NoError(t, err)
	assert.Len(t, contacts, 5, "seeded on startup")
}

func TestNewRejectsBadScoringTables(t *testing.T) {
	cfg := testConfig(t)
	cfg.ScoringTablesPath = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := New(context.Background(), cfg, Options{Logger: logger.NewNop(), Registerer: prometheus.NewRegistry()})
	assert.Error(t, err)
}

func TestNewRejectsBadSchedule(t *testing.T) {
	cfg := testConfig(t)
	cfg.BackupSchedule = "every tuesday"

	_, err := New(context.Background(), cfg, Options{Logger: logger.NewNop(), Registerer: prometheus.NewRegistry()})
	assert.Error(t, err)
}
