// Package main provides the pdfcontacts CLI: extract company and contact
// metadata from a folder of PDFs into timestamped CSV files.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfgPath string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "pdfcontacts",
	Short: "Extract company and contact metadata from PDFs",
	Long: `pdfcontacts scans a folder of PDF files, reads their text layer
(falling back to OCR for scanned pages), extracts emails, phone numbers,
URLs and addresses, and merges them into company and contact CSV files with
an append-only change log.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	cobra.OnInitialize(func() {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		}))
		slog.SetDefault(logger)
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
