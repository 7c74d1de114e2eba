package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/realtyaura/aura/config"
	"github.com/realtyaura/aura/pkg/container"
	"github.com/realtyaura/aura/pkg/logger"
)

var (
	// Global flags
	verbose bool
	dbPath  string
	timeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "aura",
	Short: "AURA real-estate CRM assistant",
	Long: `AURA scores leads, tracks follow-ups, matches buyers to properties and
predicts which deals will close.

Configuration is read from the same environment variables as the API server.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (default: DATABASE_PATH)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "Operation timeout")

	rootCmd.AddCommand(seedCmd, scoreCmd, followUpsCmd, briefingCmd, predictCmd, buyersCmd,
		scrapeCmd, ingestCmd, backupCmd, chatCmd, tokenCmd, jobsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// commandContext bounds a command by --timeout and cancels it on interrupt
func commandContext() (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}

// openContainer builds the application the same way the server does,
// without starting the scheduler.
func openContainer(ctx context.Context) (*container.Container, error) {
	cfg := config.Load()
	if dbPath != "" {
		cfg.DatabasePath = dbPath
	}
	level := cfg.LogLevel
	if verbose {
		level = "debug"
	} else if level == "info" {
		level = "warn"
	}
	return container.New(ctx, cfg, container.Options{
		Logger:     logger.New(level),
		Registerer: prometheus.NewRegistry(),
	})
}

// withContainer runs fn against a fresh container and closes it afterwards
func withContainer(fn func(ctx context.Context, c *container.Container) error) error {
	ctx, cancel := commandContext()
	defer cancel()

	c, err := openContainer(ctx)
	if err != nil {
		return err
	}
	defer c.Close()
	return fn(ctx, c)
}
