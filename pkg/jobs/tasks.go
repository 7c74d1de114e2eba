package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/realtyaura/aura/pkg/backup"
	"github.com/realtyaura/aura/pkg/followup"
	"github.com/realtyaura/aura/pkg/knowledge"
	"github.com/realtyaura/aura/pkg/logger"
	"github.com/realtyaura/aura/pkg/scoring"
	"github.com/realtyaura/aura/pkg/scraper"
)

// Job names
const (
	JobBriefing = "daily_briefing"
	JobScrape   = "scrape_listings"
	JobScoring  = "score_leads"
	JobBackup   = "backup"
)

// Notifier posts job results to the team channel
type Notifier interface {
	NotifyDailyBriefing(ctx context.Context, date, briefing string) error
	NotifyScrapeComplete(ctx context.Context, listings int, file string) error
}

type (
	Briefer interface {
		DailySummary(ctx context.Context) (*followup.DailySummary, error)
	}
	ListingScraper interface {
		Scrape(ctx context.Context) (*scraper.Result, error)
	}
	Ingester interface {
		IngestFile(ctx context.Context, path string) (*knowledge.IngestResult, error)
	}
	Scorer interface {
		ScoreAllLeads(ctx context.Context) ([]scoring.LeadScore, error)
	}
	Backuper interface {
		CreateBackup(ctx context.Context) (*backup.BackupResult, error)
	}
)

// BriefingJob builds the daily summary and posts it
func BriefingJob(schedule string, b Briefer, n Notifier) Job {
	return Job{
		Name:     JobBriefing,
		Schedule: schedule,
		Timeout:  2 * time.Minute,
		Run: func(ctx context.Context) error {
			summary, err := b.DailySummary(ctx)
			if err != nil {
				return fmt.Errorf("daily summary: %w", err)
			}
			return n.NotifyDailyBriefing(ctx, summary.Date, followup.FormatBriefing(summary))
		},
	}
}

// ScrapeJob collects listings, ingests the output file when an ingester is
// given and posts the count. Ingestion failures are logged only.
func ScrapeJob(schedule string, s ListingScraper, ing Ingester, n Notifier, log logger.Logger) Job {
	return Job{
		Name:     JobScrape,
		Schedule: schedule,
		Timeout:  10 * time.Minute,
		Run: func(ctx context.Context) error {
			result, err := s.Scrape(ctx)
			if err != nil {
				return err
			}
			if result.Path == "" {
				log.Warn("scrape returned no listings")
				return nil
			}
			if ing != nil {
				if _, err := ing.IngestFile(ctx, result.Path); err != nil {
					log.Warn("failed to ingest scraped listings", "path", result.Path, "error", err)
				}
			}
			return n.NotifyScrapeComplete(ctx, len(result.Listings), result.Path)
		},
	}
}

// ScoringJob recomputes and persists every lead score
func ScoringJob(schedule string, s Scorer, log logger.Logger) Job {
	return Job{
		Name:     JobScoring,
		Schedule: schedule,
		Timeout:  5 * time.Minute,
		Run: func(ctx context.Context) error {
			scores, err := s.ScoreAllLeads(ctx)
			if err != nil {
				return err
			}
			log.Info("lead scores refreshed", "scored", len(scores))
			return nil
		},
	}
}

// BackupJob snapshots the database
func BackupJob(schedule string, b Backuper) Job {
	return Job{
		Name:     JobBackup,
		Schedule: schedule,
		Timeout:  30 * time.Minute,
		Run: func(ctx context.Context) error {
			_, err := b.CreateBackup(ctx)
			return err
		},
	}
}
