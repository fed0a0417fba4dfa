// Package gdocai recognizes document photos with Google Document AI.
//
// Engine implements ocr.Engine, so Document AI can stand in for Tesseract in
// the candidate search. Each call uploads one preprocessed image as a raw PNG
// document and returns the full text of the processed Document. Document AI
// does its own layout analysis, so the page segmentation mode of a
// recognition config is not used.
//
// Usage Requirements:
//
// - Google Cloud project with Document AI API enabled
// - Document AI processor configured for OCR
// - A service account key file, or GOOGLE_APPLICATION_CREDENTIALS
package gdocai

import (
	"errors"
	"fmt"
	"os"
)

// Config identifies a Document AI processor.
type Config struct {
	ProjectID       string `yaml:"project_id"`
	Location        string `yaml:"location"`
	ProcessorID     string `yaml:"processor_id"`
	CredentialsFile string `yaml:"credentials_file"`
}

// DefaultLocation is used when Config.Location is empty.
const DefaultLocation = "us"

// ErrConfig is returned when a Config is missing required fields.
var ErrConfig = errors.New("invalid Document AI config")

// Validate checks that the processor is fully identified and fills in
// defaults.
func (c *Config) Validate() error {
	if c.Location == "" {
		c.Location = DefaultLocation
	}
	if c.CredentialsFile == "" {
		c.CredentialsFile = os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	}
	if c.ProjectID == "" {
		return fmt.Errorf("%w: project_id is required", ErrConfig)
	}
	if c.ProcessorID == "" {
		return fmt.Errorf("%w: processor_id is required", ErrConfig)
	}
	return nil
}

// ProcessorName returns the full resource name of the processor.
func (c *Config) ProcessorName() string {
	return fmt.Sprintf(
		"projects/%s/locations/%s/processors/%s",
		c.ProjectID, c.Location, c.ProcessorID,
	)
}

// Endpoint returns the regional API endpoint for the processor.
func (c *Config) Endpoint() string {
	return fmt.Sprintf("%s-documentai.googleapis.com:443", c.Location)
}
