package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	InputDir   string           `yaml:"input_dir"`
	OutputDir  string           `yaml:"output_dir"`
	Processing ProcessingConfig `yaml:"processing"`
	OCR        OCRConfig        `yaml:"ocr"`
}

// ProcessingConfig holds batch-level settings.
type ProcessingConfig struct {
	MaxPDFs       int      `yaml:"max_pdfs"`  // 0 = process all
	MaxPages      int      `yaml:"max_pages"` // cap on pages scanned per PDF
	TOCKeywords   []string `yaml:"toc_keywords"`
	ChangeLogPath string   `yaml:"change_log_path"` // default <output_dir>/change_log.txt
	CatalogPath   string   `yaml:"catalog_path"`    // default <output_dir>/catalog.db
	Force         bool     `yaml:"force"`           // reprocess files already cataloged
}

// OCRConfig holds OCR-related configuration.
type OCRConfig struct {
	Enabled   bool   `yaml:"enabled"`
	DPI       int    `yaml:"dpi"`
	Language  string `yaml:"language"`
	Pdftoppm  string `yaml:"pdftoppm"`
	Tesseract string `yaml:"tesseract"`
}

// DefaultTOCKeywords mark where front-matter ends and body content begins.
// Scanning stops at the page where one of these first appears.
var DefaultTOCKeywords = []string{
	"table of contents", "contents", "chapter 1", "chapter one",
	"introduction", "preface", "foreword", "chapter i",
}

// LoadConfig builds configuration from defaults, an optional YAML file, and
// environment variables, in that order of precedence.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		InputDir:  "./in",
		OutputDir: "./out",
		Processing: ProcessingConfig{
			MaxPDFs:     5,
			MaxPages:    10,
			TOCKeywords: DefaultTOCKeywords,
		},
		OCR: OCRConfig{
			Enabled:   true,
			DPI:       300,
			Language:  "eng",
			Pdftoppm:  "pdftoppm",
			Tesseract: "tesseract",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.InputDir = getEnv("PDFCONTACTS_INPUT_DIR", cfg.InputDir)
	cfg.OutputDir = getEnv("PDFCONTACTS_OUTPUT_DIR", cfg.OutputDir)
	cfg.Processing.MaxPDFs = getEnvAsInt("PDFCONTACTS_MAX_PDFS", cfg.Processing.MaxPDFs)
	cfg.Processing.MaxPages = getEnvAsInt("PDFCONTACTS_MAX_PAGES", cfg.Processing.MaxPages)
	cfg.OCR.Enabled = getEnvAsBool("PDFCONTACTS_OCR_ENABLED", cfg.OCR.Enabled)
	cfg.OCR.DPI = getEnvAsInt("PDFCONTACTS_OCR_DPI", cfg.OCR.DPI)
	cfg.OCR.Language = getEnv("PDFCONTACTS_OCR_LANGUAGE", cfg.OCR.Language)
	cfg.OCR.Pdftoppm = getEnv("PDFCONTACTS_PDFTOPPM", cfg.OCR.Pdftoppm)
	cfg.OCR.Tesseract = getEnv("PDFCONTACTS_TESSERACT", cfg.OCR.Tesseract)

	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Normalize fills paths derived from the output directory. Call it again
// after overriding OutputDir so the derived defaults follow.
func (c *Config) Normalize() error {
	if c.Processing.ChangeLogPath == "" {
		c.Processing.ChangeLogPath = filepath.Join(c.OutputDir, "change_log.txt")
	}
	if c.Processing.CatalogPath == "" {
		c.Processing.CatalogPath = filepath.Join(c.OutputDir, "catalog.db")
	}
	if len(c.Processing.TOCKeywords) == 0 {
		c.Processing.TOCKeywords = DefaultTOCKeywords
	}
	return nil
}

// Validate checks the loaded configuration. An unwritable output directory is
// the only fatal condition; per-file problems are handled during the run.
func (c *Config) Validate() error {
	if c.InputDir == "" {
		return NewAppError("CONFIG_ERROR", "input_dir is required", ErrInvalidInput)
	}
	if c.OutputDir == "" {
		return NewAppError("CONFIG_ERROR", "output_dir is required", ErrInvalidInput)
	}
	if c.OCR.DPI <= 0 {
		return NewAppError("CONFIG_ERROR", "ocr.dpi must be positive", ErrInvalidInput)
	}
	if err := os.MkdirAll(c.OutputDir, 0o755); err != nil {
		return NewAppError("OUTPUT_DIR", "output directory is not writable", err)
	}
	probe := filepath.Join(c.OutputDir, ".write_probe")
	if err := os.WriteFile(probe, nil, 0o644); err != nil {
		return NewAppError("OUTPUT_DIR", "output directory is not writable", err)
	}
	_ = os.Remove(probe)
	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
