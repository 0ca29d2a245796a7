package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"property-insights/apperr"
	"property-insights/config"
	"property-insights/storage"
	"property-insights/utils"
)

// app carries initialised dependencies through the command tree.
type app struct {
	cfg    *config.Config
	logger *utils.Logger
	source storage.SnapshotSource
	out    io.Writer
}

// rootOptions holds global CLI flags.
type rootOptions struct {
	Source       string
	ProfilesPath string
	ListingsPath string
	LogLevel     string
	Workers      int
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCommand(os.Stdout).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	switch apperr.GetKind(err) {
	case apperr.KindNotFound:
		return 2
	case apperr.KindInvalidInput:
		return 3
	default:
		return 1
	}
}

func newRootCommand(out io.Writer) *cobra.Command {
	opts := &rootOptions{}
	a := &app{out: out}

	cmd := &cobra.Command{
		Use:   "property-insights",
		Short: "Score, rank and aggregate real-estate listings against investor profiles",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd, opts)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(out)

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.Source, "source", "", "snapshot source: json or postgres (default from SNAPSHOT_SOURCE)")
	pf.StringVar(&opts.ProfilesPath, "profiles", "", "profiles JSON file (default from PROFILES_PATH)")
	pf.StringVar(&opts.ListingsPath, "listings", "", "listings JSON file (default from LISTINGS_PATH)")
	pf.StringVar(&opts.LogLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.IntVar(&opts.Workers, "workers", 0, "ranking worker count (default from RANK_WORKERS)")

	cmd.AddCommand(
		newRankCommand(a),
		newFiltersCommand(a),
		newTrendsCommand(a),
		newReportCommand(a),
	)
	return cmd
}

// init loads config, applies flag overrides and opens the snapshot source.
func (a *app) init(cmd *cobra.Command, opts *rootOptions) error {
	cfg := config.Load()
	if opts.Source != "" {
		cfg.SnapshotSource = opts.Source
	}
	if opts.ProfilesPath != "" {
		cfg.ProfilesPath = opts.ProfilesPath
	}
	if opts.ListingsPath != "" {
		cfg.ListingsPath = opts.ListingsPath
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}
	if opts.Workers > 0 {
		cfg.RankWorkers = opts.Workers
	}
	a.cfg = cfg
	a.logger = utils.NewLogger(cfg.LogLevel)

	source, err := openSource(cmd.Context(), cfg, a.logger)
	if err != nil {
		return err
	}
	a.source = source
	a.logger.Debug("[main] Snapshot source: %s | workers: %d", cfg.SnapshotSource, cfg.RankWorkers)
	return nil
}

func (a *app) close() error {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if a.source == nil {
		return nil
	}
	return a.source.Close()
}

func openSource(ctx context.Context, cfg *config.Config, logger *utils.Logger) (storage.SnapshotSource, error) {
	switch cfg.SnapshotSource {
	case "json":
		return storage.NewJSONReader(cfg.ProfilesPath, cfg.ListingsPath), nil
	case "postgres":
		retry := &utils.RetryConfig{MaxAttempts: cfg.MaxRetries, BaseDelay: 2 * time.Second, Logger: logger}
		return storage.NewPostgresReader(ctx, cfg.DSN(), retry)
	default:
		return nil, apperr.InvalidInput(fmt.Sprintf("unknown snapshot source %q", cfg.SnapshotSource)).WithOp("config")
	}
}
