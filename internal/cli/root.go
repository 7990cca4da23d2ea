// Package cli provides the command-line interface for the triager.
package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lectern-hq/lectern-reader-agent/internal/app"
	"github.com/lectern-hq/lectern-reader-agent/internal/config"
	"github.com/lectern-hq/lectern-reader-agent/internal/logger"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	configFile   string
	verbose      bool
	dryRun       bool
	noCache      bool
	limit        int
	sinceDays    int
	archiveLater bool
	intervalSecs int
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "triager",
	Short: "Promote annotated Reader feed items into your library",
	Long: `Triager walks the feed partition of your Readwise Reader account and
promotes documents whose auto-generated summary carries the verdict
marker, moving them to the configured partition (later by default).

Documents without a summary yet are left alone and picked up on a
future pass; documents whose summary lacks the marker are recorded and
never looked at again.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTriage,
}

func runTriage(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	applyFlagOverrides(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	log, err := logger.Init(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.InfoObj("triager starting", "config", cfg.Redacted())

	ctx := cmd.Context()
	triager, err := app.NewTriager(ctx, cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize triager", "error", err)
		return err
	}

	if err := triager.Run(ctx); err != nil {
		return fmt.Errorf("triage run: %w", err)
	}
	return nil
}

// applyFlagOverrides layers explicitly-set flags over the loaded config.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("dry-run") {
		cfg.DryRun = dryRun
	}
	if flags.Changed("no-cache") {
		cfg.NoCache = noCache
	}
	if flags.Changed("limit") {
		cfg.Limit = limit
	}
	if flags.Changed("since") {
		cfg.SinceDays = sinceDays
	}
	if flags.Changed("archive-later") {
		cfg.ArchiveLater = archiveLater
	}
	if flags.Changed("interval") {
		cfg.PollIntervalSeconds = int64(intervalSecs)
		cfg.PollInterval = time.Duration(intervalSecs) * time.Second
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
}

// Execute runs the root command with signal-aware cancellation.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to a config file (YAML/JSON)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "classify and report without moving anything")
	rootCmd.Flags().BoolVar(&noCache, "no-cache", false, "ignore the completion cache for this run")
	rootCmd.Flags().IntVar(&limit, "limit", 0, "inspect at most N feed documents (0 inspects all)")
	rootCmd.Flags().IntVar(&sinceDays, "since", 0, "only consider documents saved in the last N days")
	rootCmd.Flags().BoolVar(&archiveLater, "archive-later", false, "archive everything in the promotion target first")
	rootCmd.Flags().IntVar(&intervalSecs, "interval", 0, "poll every N seconds instead of running once")
}
