package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"landscout/config"
	"landscout/services"
	"landscout/storage"
	"landscout/utils"
)

var (
	cfg    *config.Config
	logger *utils.Logger
)

var rootCmd = &cobra.Command{
	Use:   "landscout",
	Short: "Rural land listing dashboard backend",
	Long:  "Normalizes a spreadsheet of land listings into a typed dataset and derives rankings and market statistics for the map, chart and list views.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()

		l, err := utils.NewLoggerWithLevel(cfg.LogLevel)
		logger = l
		if err != nil {
			logger.Warn("[config] Bad LOG_LEVEL %q, using info: %v", cfg.LogLevel, err)
		}
		if _, err := services.ParseAreaMode(cfg.AvgPerAcreMode); err != nil {
			logger.Warn("[config] Bad AVG_PER_ACRE_MODE, using %s: %v", services.FoldZeroArea, err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func newRetry() *utils.RetryConfig {
	return &utils.RetryConfig{
		MaxAttempts: cfg.MaxRetries,
		BaseDelay:   time.Duration(cfg.RetryDelayMs) * time.Millisecond,
		Logger:      logger,
	}
}

func areaMode() services.AreaMode {
	mode, _ := services.ParseAreaMode(cfg.AvgPerAcreMode)
	return mode
}

func newPipeline() *services.Pipeline {
	return services.NewPipeline(
		logger,
		services.NewNormalizer(logger, cfg.Headers),
		services.NewAggregator(logger, cfg.TopN, areaMode()),
		services.NewDatasetState(),
	)
}

// openSource returns the configured row source. file overrides SNAPSHOT_PATH.
// The returned close func must be called when the source is no longer needed.
func openSource(ctx context.Context, file string) (storage.RowSource, func(), error) {
	switch cfg.SourceKind {
	case config.SourcePostgres:
		src, err := storage.NewPostgresSource(ctx, cfg.DSN(), cfg.PostgresTable, cfg.PostgresOrderBy, newRetry(), logger)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres source: %w", err)
		}
		return src, func() { _ = src.Close() }, nil
	case config.SourceFile:
		if file == "" {
			file = cfg.SnapshotPath
		}
		src, err := storage.OpenFile(file, cfg.SheetName, logger)
		if err != nil {
			return nil, nil, err
		}
		return src, func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown SOURCE_KIND %q", cfg.SourceKind)
}
