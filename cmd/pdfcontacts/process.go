package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leadharvest/pdfcontacts/internal/changelog"
	"github.com/leadharvest/pdfcontacts/internal/common"
	"github.com/leadharvest/pdfcontacts/internal/export"
	"github.com/leadharvest/pdfcontacts/internal/extract"
	"github.com/leadharvest/pdfcontacts/internal/ingest"
	"github.com/leadharvest/pdfcontacts/internal/ocr"
	"github.com/leadharvest/pdfcontacts/internal/pdftext"
	"github.com/leadharvest/pdfcontacts/internal/pipeline"
	"github.com/leadharvest/pdfcontacts/internal/records"
	"github.com/leadharvest/pdfcontacts/internal/repository"
)

var processCommand = &cobra.Command{
	Use:   "process",
	Short: "Process a folder of PDFs into company and contact CSVs",
	RunE:  runProcess,
}

var (
	processIn    string
	processOut   string
	processMax   int
	processPages int
	processNoOCR bool
	processForce bool
)

func init() {
	processCommand.Flags().StringVarP(&processIn, "in", "i", "", "input directory of PDF files")
	processCommand.Flags().StringVarP(&processOut, "out", "o", "", "output directory for CSVs and logs")
	processCommand.Flags().IntVar(&processMax, "max-pdfs", -1, "maximum PDFs to process (0 = all)")
	processCommand.Flags().IntVar(&processPages, "max-pages", -1, "maximum pages to scan per PDF")
	processCommand.Flags().BoolVar(&processNoOCR, "no-ocr", false, "disable the OCR fallback")
	processCommand.Flags().BoolVar(&processForce, "force", false, "reprocess files already seen")

	rootCmd.AddCommand(processCommand)
}

func runProcess(cmd *cobra.Command, _ []string) error {
	logger := slog.Default()

	cfg, err := common.LoadConfig(cfgPath)
	if err != nil {
		return err
	}
	if processIn != "" {
		cfg.InputDir = processIn
	}
	if processOut != "" {
		cfg.OutputDir = processOut
		cfg.Processing.ChangeLogPath = ""
		cfg.Processing.CatalogPath = ""
	}
	if processMax >= 0 {
		cfg.Processing.MaxPDFs = processMax
	}
	if processPages >= 0 {
		cfg.Processing.MaxPages = processPages
	}
	if processNoOCR {
		cfg.OCR.Enabled = false
	}
	if processForce {
		cfg.Processing.Force = true
	}
	if err := cfg.Normalize(); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()

	changeLog := changelog.New(cfg.Processing.ChangeLogPath, logger)
	exportSvc := export.NewService(cfg.OutputDir, changeLog, logger)

	builder := records.NewBuilder(logger)
	prevCompanies, prevContacts, err := exportSvc.LoadLatest()
	if err != nil {
		return err
	}
	builder.Seed(prevCompanies, prevContacts)

	catalog, err := repository.OpenCatalog(ctx, cfg.Processing.CatalogPath, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := catalog.Close(); cerr != nil {
			logger.Error("close catalog", "error", cerr)
		}
	}()

	native := pdftext.NewReader(logger)
	pageOCR := ocr.NewPageOCR(ocr.Config{
		Pdftoppm:  cfg.OCR.Pdftoppm,
		Tesseract: cfg.OCR.Tesseract,
		Language:  cfg.OCR.Language,
		DPI:       cfg.OCR.DPI,
	}, logger)
	acquirer := extract.NewAcquirer(extract.AcquirerConfig{
		MaxPages:    cfg.Processing.MaxPages,
		TOCKeywords: cfg.Processing.TOCKeywords,
		OCREnabled:  cfg.OCR.Enabled,
	}, native, pageOCR, logger)

	paths, dirStats, err := ingest.ListPDFs(cfg.InputDir, cfg.Processing.MaxPDFs)
	if err != nil {
		return err
	}
	logger.Info("found pdf files",
		"input_dir", cfg.InputDir,
		"scanned", dirStats.Scanned,
		"matched", dirStats.Matched,
		"selected", len(paths),
	)
	if len(paths) == 0 {
		logger.Warn("no pdf files found in input folder", "input_dir", cfg.InputDir)
		return nil
	}

	processor := pipeline.NewProcessor(acquirer, builder, catalog, cfg.Processing.Force, logger)
	stats := processor.Run(ctx, paths)

	companies := builder.Companies()
	contacts := builder.Contacts()
	if len(companies) == 0 && len(contacts) == 0 {
		logger.Warn("no data extracted from any pdfs")
		return nil
	}

	companyPath, contactPath, err := exportSvc.WriteCSV(companies, contacts)
	if err != nil {
		return err
	}

	logger.Info("batch complete",
		"files", stats.Files,
		"processed", stats.Processed,
		"deduplicated", stats.Deduplicated,
		"empty", stats.Empty,
		"failed", stats.Failed,
		"companies", len(companies),
		"contacts", len(contacts),
		"company_file", companyPath,
		"contact_file", contactPath,
	)
	return nil
}
