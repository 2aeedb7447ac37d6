package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/askiada/go-transposer/internal/config"
	"github.com/askiada/go-transposer/pkg/grid/xlsx"
	"github.com/askiada/go-transposer/pkg/pipeline/drawer"
	"github.com/askiada/go-transposer/pkg/pipeline/measure"
	"github.com/askiada/go-transposer/pkg/transposer"
)

// loadConfig reads the config file and applies the command line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	overrides := map[*string]string{
		&cfg.Workbook:         workbook,
		&cfg.SourceSheet:      source,
		&cfg.DestinationSheet: destination,
		&cfg.CheckedColumn:    checked,
		&cfg.GraphFile:        graphFile,
	}
	for field, value := range overrides {
		if value != "" {
			*field = value
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func runJob(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := cfg.Logger(verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	err = process(cmd, cfg, logger)
	if err != nil {
		logger.Error("processing failed", zap.Error(err))

		if failOnError {
			return err
		}
	}

	return nil
}

func process(cmd *cobra.Command, cfg *config.Config, logger *zap.Logger) error {
	store, err := xlsx.Open(cfg.Workbook)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("unable to close workbook", zap.Error(err))
		}
	}()

	msr := measure.NewDefaultMeasure()
	opts := []transposer.JobOption{
		transposer.WithLogger(logger),
		transposer.WithCheckedColumn(cfg.CheckedColumn),
		transposer.WithMeasure(msr),
	}

	if cfg.GraphFile != "" {
		opts = append(opts, transposer.WithDrawer(drawer.NewDOTDrawer(cfg.GraphFile)))
	}

	job := transposer.NewJob(store, cfg.SourceSheet, cfg.DestinationSheet, opts...)

	report, err := job.Run(cmd.Context())
	if err != nil {
		return errors.Wrapf(err, "run on %s", cfg.Workbook)
	}

	logger.Debug("run report",
		zap.Int("selected", report.Selected),
		zap.Int("column", report.Placement.Col),
		zap.Int("height", report.Placement.Height),
		zap.Int("width", report.Placement.Width),
	)

	return nil
}
