// Command transposer moves new rows of a workbook sheet to another sheet,
// transposed.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	configPath  string
	workbook    string
	source      string
	destination string
	checked     string
	graphFile   string
	verbose     bool
	failOnError bool
	force       bool
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "transposer",
		Short: "Append new rows of a sheet, transposed, to another sheet",
		Long: `transposer reads the rows of the source sheet whose "checked" cell is not set,
marks them as checked, drops the checked column, transposes them and writes
the block at the first free column of the destination sheet.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().StringVarP(&workbook, "workbook", "w", "", "xlsx workbook holding both sheets")
	rootCmd.PersistentFlags().StringVar(&source, "source", "", "source sheet name")
	rootCmd.PersistentFlags().StringVar(&destination, "destination", "", "destination sheet name")
	rootCmd.PersistentFlags().StringVar(&checked, "checked-column", "", "header of the processed flag column")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Process the new rows once",
		Args:  cobra.NoArgs,
		RunE:  runJob,
	}
	runCmd.Flags().StringVar(&graphFile, "graph", "", "write a DOT graph of the run to this file")
	runCmd.Flags().BoolVar(&failOnError, "fail-on-error", false, "exit with a non-zero status when the run fails")

	initCmd := &cobra.Command{
		Use:   "init [header...]",
		Short: "Create a workbook with an empty source and destination sheet",
		Long: `init creates the workbook with the source sheet, whose header is the given
columns followed by the checked column, and an empty destination sheet.
An existing workbook is left untouched unless --force is given.`,
		RunE: initWorkbook,
	}
	initCmd.Flags().BoolVar(&force, "force", false, "replace the workbook if it already exists")

	rootCmd.AddCommand(runCmd, initCmd)

	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		os.Exit(1)
	}
}
