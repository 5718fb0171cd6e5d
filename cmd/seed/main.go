package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hmrtn/gtc-api/internal/chain"
	"github.com/hmrtn/gtc-api/internal/config"
	"github.com/hmrtn/gtc-api/internal/ingest"
	"github.com/hmrtn/gtc-api/internal/logger"
	"github.com/hmrtn/gtc-api/internal/repository/postgres"
	"github.com/hmrtn/gtc-api/internal/service"
	"github.com/hmrtn/gtc-api/internal/subgraph"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:           "seed [chain...]",
		Short:         "Pull subgraph records for one or more chains into Postgres",
		Example:       "  seed fantom_mainnet optimism_mainnet\n  seed --all",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if all == (len(args) > 0) {
				return fmt.Errorf("pass either chain names or --all")
			}
			return run(cmd.Context(), args, all)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "seed every chain that has an endpoint configured")

	return cmd
}

func run(ctx context.Context, names []string, all bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Service.Environment)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	registry := chain.NewRegistryFromConfig(cfg.Subgraph)
	if all {
		for _, c := range chain.Supported() {
			if registry.Configured(c.Name) {
				names = append(names, string(c.Name))
			}
		}
		if len(names) == 0 {
			return fmt.Errorf("no chain endpoints configured")
		}
	}

	pgClient, err := postgres.NewClient(ctx, &cfg.Database, log)
	if err != nil {
		return fmt.Errorf("failed to create Postgres client: %w", err)
	}
	defer func() {
		if err := pgClient.Close(); err != nil {
			log.Error("Failed to close Postgres client", zap.Error(err))
		}
	}()

	repo := postgres.NewRepository(pgClient, log)
	if cfg.Database.AutoMigrate {
		if err := repo.InitSchema(ctx); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}

	runner := ingest.NewRunner(ingest.NewLoader(repo, cfg.Ingest.BatchSize, log), cfg.Ingest.PageSize, nil, log)
	sources := subgraph.NewSourceFactory(time.Duration(cfg.Subgraph.TimeoutSec)*time.Second, log)
	svc := service.NewIngestionService(registry, sources, runner, repo, log)

	// Runs are independent; one failing chain does not cancel the others.
	var g errgroup.Group
	for _, name := range names {
		name := name
		g.Go(func() error {
			report, err := svc.Seed(ctx, name)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			log.Info("Seed finished",
				zap.String("chain", name),
				zap.String("run_id", report.RunID),
				zap.Int("fetched", report.Fetched()),
				zap.Int64("inserted", report.Inserted()),
				zap.Duration("duration", report.Duration))
			return nil
		})
	}

	return g.Wait()
}
