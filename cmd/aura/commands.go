package main

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/realtyaura/aura/pkg/analytics"
	"github.com/realtyaura/aura/pkg/container"
	"github.com/realtyaura/aura/pkg/demo"
	"github.com/realtyaura/aura/pkg/export"
	"github.com/realtyaura/aura/pkg/followup"
	"github.com/realtyaura/aura/pkg/leadscoring"
	"github.com/realtyaura/aura/pkg/matching"
)

var (
	demoContacts int
	topN         int
	exportPath   string
	followUpMax  int
	buyerMax     int
	ingestAfter  bool
	listBackups  bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the sample dataset into an empty database",
	Long: `Load the five sample properties, contacts, relationships, tasks and email
templates when the database has no properties yet. With --demo, also generate
that many realistic contacts with properties, deals and tasks.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(func(ctx context.Context, c *container.Container) error {
			seeded, err := c.DB.Seed(ctx, c.Store.Now())
			if err != nil {
				return err
			}
			if seeded {
				fmt.Println("Sample data loaded.")
			} else {
				fmt.Println("Database already has properties; sample data skipped.")
			}

			if demoContacts > 0 {
				cfg := demo.DefaultGeneratorConfig()
				scale := float64(demoContacts) / float64(cfg.Contacts)
				cfg.Contacts = demoContacts
				cfg.Properties = max(1, int(float64(cfg.Properties)*scale))
				cfg.Deals = int(float64(cfg.Deals) * scale)
				cfg.Tasks = int(float64(cfg.Tasks) * scale)
				ds, err := demo.Populate(ctx, c.Store, cfg)
				if err != nil {
					return err
				}
				fmt.Printf("Generated %d contacts, %d properties, %d deals and %d tasks.\n",
					len(ds.Contacts), len(ds.Properties), len(ds.Deals), len(ds.Tasks))
			}
			return nil
		})
	},
}

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score every lead and store the results",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(func(ctx context.Context, c *container.Container) error {
			scores, err := c.Leads.ScoreAllLeads(ctx)
			if err != nil {
				return err
			}
			fmt.Println(leadscoring.FormatTopLeads(scores, topN))

			if exportPath == "" {
				return nil
			}
			format, err := export.ParseFormat(strings.TrimPrefix(filepath.Ext(exportPath), "."))
			if err != nil {
				return err
			}
			data, err := export.LeadScores(scores, format)
			if err != nil {
				return err
			}
			if err := os.WriteFile(exportPath, data, 0o644); err != nil {
				return err
			}
			fmt.Printf("Exported %d scores to %s\n", len(scores), exportPath)
			return nil
		})
	},
}

var followUpsCmd = &cobra.Command{
	Use:   "followups",
	Short: "List contacts due for follow-up",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(func(ctx context.Context, c *container.Container) error {
			due, err := c.FollowUps.FollowUpsDue(ctx)
			if err != nil {
				return err
			}
			fmt.Println(followup.FormatFollowUps(due, followUpMax))
			return nil
		})
	},
}

var briefingCmd = &cobra.Command{
	Use:   "briefing",
	Short: "Print today's briefing",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(func(ctx context.Context, c *container.Container) error {
			summary, err := c.FollowUps.DailySummary(ctx)
			if err != nil {
				return err
			}
			fmt.Println(followup.FormatBriefing(summary))

			perf, err := c.Analytics.PerformanceMetrics(ctx)
			if err != nil {
				return err
			}
			fmt.Println()
			fmt.Println(analytics.FormatPerformance(perf))
			return nil
		})
	},
}

var predictCmd = &cobra.Command{
	Use:   "predict <deal-id>",
	Short: "Predict the probability a deal closes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid deal id %q", args[0])
		}
		return withContainer(func(ctx context.Context, c *container.Container) error {
			p, err := c.Deals.PredictCloseProbability(ctx, id)
			if err != nil {
				return err
			}
			fmt.Printf("Deal %d: %.0f%% likely to close (%s confidence)\n", p.DealID, p.Probability, p.ConfidenceLevel)
			for _, factor := range slices.Sorted(maps.Keys(p.Factors)) {
				fmt.Printf("  %-20s %+d\n", factor, p.Factors[factor])
			}
			for _, r := range p.Recommendations {
				fmt.Println("  - " + r)
			}
			return nil
		})
	},
}

var buyersCmd = &cobra.Command{
	Use:   "buyers <property-id>",
	Short: "Rank contacts as buyers for a property",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid property id %q", args[0])
		}
		return withContainer(func(ctx context.Context, c *container.Container) error {
			p, err := c.Store.GetProperty(ctx, id)
			if err != nil {
				return err
			}
			matches, err := c.Matching.MatchBuyers(ctx, id)
			if err != nil {
				return err
			}
			fmt.Println(matching.FormatMatches(p, matches, buyerMax))
			return nil
		})
	},
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Collect listings from the configured portal",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(func(ctx context.Context, c *container.Container) error {
			result, err := c.Scraper.Scrape(ctx)
			if err != nil {
				return err
			}
			if result.Path == "" {
				fmt.Println("No listings found.")
				return nil
			}
			fmt.Printf("Saved %d listings to %s\n", len(result.Listings), result.Path)
			if ingestAfter {
				if _, err := c.Knowledge.IngestFile(ctx, result.Path); err != nil {
					return err
				}
				fmt.Println("Listings added to the knowledge base.")
			}
			return nil
		})
	},
}

var ingestCmd = &cobra.Command{
	Use:   "ingest [file...]",
	Short: "Add files to the knowledge base",
	Long:  "Ingest the given files, or every file in the knowledge directory when none are given.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(func(ctx context.Context, c *container.Container) error {
			if len(args) == 0 {
				n, err := c.Knowledge.IngestDir(ctx)
				if err != nil {
					return err
				}
				fmt.Printf("Ingested %d files from %s\n", n, c.Knowledge.Dir())
				return nil
			}
			for _, path := range args {
				result, err := c.Knowledge.IngestFile(ctx, path)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				if result.Kind == "contacts" {
					fmt.Printf("%s: imported %d contacts\n", path, result.ContactsImported)
				} else {
					fmt.Printf("%s: stored as document %d\n", path, result.DocumentID)
				}
			}
			return nil
		})
	},
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Snapshot the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(func(ctx context.Context, c *container.Container) error {
			if listBackups {
				backups, err := c.Backup.ListBackups()
				if err != nil {
					return err
				}
				for _, b := range backups {
					fmt.Printf("%s  %8d bytes  %s\n", b.Filename, b.Size, b.LastModified.Format("2006-01-02 15:04"))
				}
				return nil
			}
			result, err := c.Backup.CreateBackup(ctx)
			if result != nil {
				fmt.Printf("Backup written to %s (%d bytes)\n", result.Path, result.FileSize)
				if result.UploadedToS3 {
					fmt.Printf("Uploaded to s3 key %s\n", result.S3Key)
				}
			}
			return err
		})
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <backup-file> <dest.db>",
	Short: "Decompress a local backup into a new database file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(func(ctx context.Context, c *container.Container) error {
			if err := c.Backup.Restore(args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("Restored %s to %s\n", args[0], args[1])
			return nil
		})
	},
}

var jobsCmd = &cobra.Command{
	Use:   "jobs [name]",
	Short: "List scheduled jobs or run one now",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(func(ctx context.Context, c *container.Container) error {
			if len(args) == 0 {
				for _, name := range c.Cron.Jobs() {
					fmt.Println(name)
				}
				return nil
			}
			if err := c.Cron.RunNow(ctx, args[0]); err != nil {
				return err
			}
			fmt.Printf("Job %s completed.\n", args[0])
			return nil
		})
	},
}

func init() {
	seedCmd.Flags().IntVar(&demoContacts, "demo", 0, "Also generate this many demo contacts")
	scoreCmd.Flags().IntVar(&topN, "top", 5, "Number of leads to print")
	scoreCmd.Flags().StringVar(&exportPath, "export", "", "Write all scores to a .csv or .xlsx file")
	followUpsCmd.Flags().IntVar(&followUpMax, "limit", 10, "Maximum contacts to print")
	buyersCmd.Flags().IntVar(&buyerMax, "limit", 5, "Maximum matches to print")
	scrapeCmd.Flags().BoolVar(&ingestAfter, "ingest", true, "Add the listings file to the knowledge base")
	backupCmd.Flags().BoolVar(&listBackups, "list", false, "List local backups instead of creating one")
	backupCmd.AddCommand(restoreCmd)
}
