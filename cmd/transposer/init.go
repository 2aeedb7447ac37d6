package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/askiada/go-transposer/pkg/grid/xlsx"
)

func initWorkbook(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := cfg.Logger(verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	header := sourceHeader(args, cfg.CheckedColumn)

	opts := []xlsx.CreateOption{}
	if force {
		opts = append(opts, xlsx.WithOverwrite())
	}

	store, err := xlsx.Create(cfg.Workbook, []xlsx.Sheet{
		{Name: cfg.SourceSheet, Header: header},
		{Name: cfg.DestinationSheet},
	}, opts...)
	if err != nil {
		return errors.Wrap(err, "unable to create workbook")
	}

	logger.Info("workbook created",
		zap.String("workbook", cfg.Workbook),
		zap.String("source", cfg.SourceSheet),
		zap.String("destination", cfg.DestinationSheet),
		zap.Strings("header", header),
	)

	return errors.Wrap(store.Close(), "unable to close workbook")
}

// sourceHeader returns columns without duplicates, with the checked column
// last.
func sourceHeader(columns []string, checked string) []string {
	seen := map[string]bool{checked: true}
	header := make([]string, 0, len(columns)+1)

	for _, col := range columns {
		if col == "" || seen[col] {
			continue
		}

		seen[col] = true
		header = append(header, col)
	}

	return append(header, checked)
}
