package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/godilite/feedback-ratings/internal/app"
	"github.com/godilite/feedback-ratings/internal/config"
	"github.com/godilite/feedback-ratings/internal/rating"
	"github.com/godilite/feedback-ratings/internal/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ratings",
		Short:         "Feedback ratings service",
		Long:          "Turns positive/neutral/negative feedback counters into chart proportions and a satisfaction score.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newMigrateCmd(), newComputeCmd())
	return root
}

func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger, err := config.NewLogger(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, logger, nil
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the gRPC and HTTP servers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			application, err := app.NewApp(ctx, cfg, logger)
			if err != nil {
				logger.Error("Failed to initialize application", zap.Error(err))
				return err
			}
			return application.Run(ctx)
		},
	}
}

func newMigrateCmd() *cobra.Command {
	var seedPath string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the schema and optionally load a YAML seed file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx := cmd.Context()
			db, repo, err := app.OpenDatabase(ctx, cfg)
			if err != nil {
				return err
			}
			defer db.Close()
			logger.Info("schema ready", zap.String("driver", cfg.DBDriver), zap.String("path", cfg.DBPath))

			if seedPath == "" {
				return nil
			}
			entities, err := app.LoadSeedFile(seedPath)
			if err != nil {
				return err
			}
			svc := service.NewRatingService(repo, logger, cfg.GaugeOptions())
			n, err := app.Seed(ctx, svc, entities, logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d entities\n", n)
			return nil
		},
	}
	cmd.Flags().StringVar(&seedPath, "seed", "", "YAML file with entities to upsert")
	return cmd
}

func newComputeCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "compute POSITIVE NEUTRAL NEGATIVE",
		Short: "Compute a rating block from three raw counters",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			counts := rating.ParseFeedbackCounts(args[0], args[1], args[2])
			block := rating.Compute(counts, cfg.GaugeOptions())
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(block)
			}
			return printBlock(cmd.OutOrStdout(), block)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the block as JSON")
	return cmd
}

func printBlock(w io.Writer, b rating.Block) error {
	_, err := fmt.Fprintf(w,
		"counts        positive=%s neutral=%s negative=%s\n"+
			"chart         positive=%s neutral=%s negative=%s\n"+
			"satisfaction  %s\n",
		show(b.Counts.Positive, ""), show(b.Counts.Neutral, ""), show(b.Counts.Negative, ""),
		show(b.Chart.PositivePct, "%"), show(b.Chart.NeutralPct, "%"), show(b.Chart.NegativePct, "%"),
		show(b.Satisfaction.Percent, "%"))
	return err
}

func show(n rating.Number, unit string) string {
	if n.IsNaN() {
		return "n/a"
	}
	return n.String() + unit
}
