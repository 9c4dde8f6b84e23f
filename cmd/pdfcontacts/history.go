package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leadharvest/pdfcontacts/internal/changelog"
	"github.com/leadharvest/pdfcontacts/internal/common"
)

var historyCommand = &cobra.Command{
	Use:   "history <file-path>",
	Short: "Show change-log entries recorded for an output file",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistory,
}

var historyOut string

func init() {
	historyCommand.Flags().StringVarP(&historyOut, "out", "o", "", "output directory holding the change log")
	rootCmd.AddCommand(historyCommand)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := common.LoadConfig(cfgPath)
	if err != nil {
		return err
	}
	if historyOut != "" {
		cfg.OutputDir = historyOut
		cfg.Processing.ChangeLogPath = ""
	}
	if err := cfg.Normalize(); err != nil {
		return err
	}

	changeLog := changelog.New(cfg.Processing.ChangeLogPath, slog.Default())
	lines, err := changeLog.GetChangeHistory(args[0])
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		fmt.Printf("no change-log entries for %s\n", args[0])
		return nil
	}
	for _, line := range lines {
		fmt.Println(line)
	}
	return nil
}
