package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/gardar/scandoc/pkg/gdocai"
	"github.com/gardar/scandoc/pkg/ocr"
	"github.com/gardar/scandoc/pkg/pdfocr"
	"github.com/gardar/scandoc/pkg/scandoc"
)

// Engine names accepted in the config file.
const (
	engineTesseract  = "tesseract"
	engineGosseract  = "gosseract"
	engineDocumentAI = "documentai"
)

type tesseractConfig struct {
	Path        string `yaml:"path"`
	TessdataDir string `yaml:"tessdata_dir"`
}

type ocrConfig struct {
	Workers int           `yaml:"workers"`
	Timeout time.Duration `yaml:"timeout"`
}

type pdfConfig struct {
	PageSize     string  `yaml:"page_size"`
	IncludeImage bool    `yaml:"include_image"`
	Font         string  `yaml:"font"`
	FontSize     float64 `yaml:"font_size"`
}

type batchConfig struct {
	Extensions []string `yaml:"extensions"`
	Workers    int      `yaml:"workers"`
}

// config is the YAML configuration of the CLI.
type config struct {
	Engine     string          `yaml:"engine"`
	Language   string          `yaml:"language"`
	Tesseract  tesseractConfig `yaml:"tesseract"`
	DocumentAI gdocai.Config   `yaml:"documentai"`
	OCR        ocrConfig       `yaml:"ocr"`
	PDF        pdfConfig       `yaml:"pdf"`
	Batch      batchConfig     `yaml:"batch"`
	Verify     bool            `yaml:"verify"`
}

func defaultConfig() *config {
	return &config{
		Engine:     engineTesseract,
		Language:   ocr.DefaultLanguage,
		Tesseract:  tesseractConfig{Path: ocr.DefaultTesseractPath},
		DocumentAI: gdocai.Config{Location: gdocai.DefaultLocation},
		OCR:        ocrConfig{Workers: 1, Timeout: scandoc.DefaultTimeout},
		PDF: pdfConfig{
			PageSize:     pdfocr.DefaultPageSize,
			IncludeImage: true,
			Font:         pdfocr.DefaultFont.Name,
			FontSize:     pdfocr.DefaultFont.Size,
		},
		Batch: batchConfig{
			Extensions: scandoc.DefaultExtensions,
			Workers:    1,
		},
	}
}

// loadConfig reads a YAML file over the defaults. An empty path returns
// the defaults.
func loadConfig(path string) (*config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// loadDotenv loads environment variables from path if the file exists.
// Variables already set in the environment win.
func loadDotenv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// applyEnv overrides config values from SCANDOC_* environment variables.
func (c *config) applyEnv(getenv func(string) string) {
	if v := getenv("SCANDOC_ENGINE"); v != "" {
		c.Engine = v
	}
	if v := getenv("SCANDOC_LANGUAGE"); v != "" {
		c.Language = v
	}
	if v := getenv("SCANDOC_TESSERACT_PATH"); v != "" {
		c.Tesseract.Path = v
	}
	if v := getenv("SCANDOC_TESSDATA_DIR"); v != "" {
		c.Tesseract.TessdataDir = v
	}
}

func (c *config) validate() error {
	switch c.Engine {
	case engineTesseract, engineGosseract, engineDocumentAI:
	default:
		return fmt.Errorf("unknown engine %q", c.Engine)
	}
	if c.OCR.Workers < 1 {
		return fmt.Errorf("ocr.workers must be at least 1, got %d", c.OCR.Workers)
	}
	if c.Batch.Workers < 1 {
		return fmt.Errorf("batch.workers must be at least 1, got %d", c.Batch.Workers)
	}
	if c.OCR.Timeout < 0 {
		return fmt.Errorf("ocr.timeout must not be negative")
	}
	if c.PDF.FontSize <= 0 {
		return fmt.Errorf("pdf.font_size must be positive")
	}
	if len(c.Batch.Extensions) == 0 {
		return fmt.Errorf("batch.extensions must not be empty")
	}
	return nil
}

// converterOptions translates the config into scandoc options.
func (c *config) converterOptions() []scandoc.Option {
	layout := pdfocr.DefaultConfig()
	layout.IncludeImage = c.PDF.IncludeImage
	layout.Font = pdfocr.FontConfig{Name: c.PDF.Font, Size: c.PDF.FontSize}

	return []scandoc.Option{
		scandoc.WithSearch(ocr.SearchOptions{
			Language: c.Language,
			Workers:  c.OCR.Workers,
			Timeout:  c.OCR.Timeout,
		}),
		scandoc.WithLayout(layout),
		scandoc.WithPageSize(c.PDF.PageSize),
		scandoc.WithExtensions(c.Batch.Extensions...),
		scandoc.WithBatchWorkers(c.Batch.Workers),
		scandoc.WithVerify(c.Verify),
	}
}
