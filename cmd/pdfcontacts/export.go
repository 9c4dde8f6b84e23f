package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leadharvest/pdfcontacts/internal/changelog"
	"github.com/leadharvest/pdfcontacts/internal/common"
	"github.com/leadharvest/pdfcontacts/internal/export"
)

var exportCommand = &cobra.Command{
	Use:   "export",
	Short: "Export the latest record set as an XLSX workbook",
	RunE:  runExport,
}

var (
	exportDir  string
	exportFile string
)

func init() {
	exportCommand.Flags().StringVarP(&exportDir, "out", "o", "", "output directory holding the CSVs")
	exportCommand.Flags().StringVarP(&exportFile, "file", "f", "", "XLSX path to write (default <output_dir>/contacts.xlsx)")
	rootCmd.AddCommand(exportCommand)
}

func runExport(cmd *cobra.Command, _ []string) error {
	logger := slog.Default()

	cfg, err := common.LoadConfig(cfgPath)
	if err != nil {
		return err
	}
	if exportDir != "" {
		cfg.OutputDir = exportDir
		cfg.Processing.ChangeLogPath = ""
	}
	if err := cfg.Normalize(); err != nil {
		return err
	}
	if exportFile == "" {
		exportFile = filepath.Join(cfg.OutputDir, "contacts.xlsx")
	}

	changeLog := changelog.New(cfg.Processing.ChangeLogPath, logger)
	exportSvc := export.NewService(cfg.OutputDir, changeLog, logger)

	companies, contacts, err := exportSvc.LoadLatest()
	if err != nil {
		return err
	}
	if len(companies) == 0 && len(contacts) == 0 {
		return fmt.Errorf("no CSV records found in %s; run `pdfcontacts process` first", cfg.OutputDir)
	}

	data, err := exportSvc.WriteXLSX(companies, contacts)
	if err != nil {
		return err
	}
	if err := os.WriteFile(exportFile, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", exportFile, err)
	}
	if err := changeLog.LogChange(exportFile, fmt.Sprintf("Exported workbook with %d companies and %d contacts.", len(companies), len(contacts))); err != nil {
		return err
	}

	logger.Info("xlsx written", "path", exportFile, "companies", len(companies), "contacts", len(contacts))
	return nil
}
