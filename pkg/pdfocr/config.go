package pdfocr

import (
	"github.com/rs/zerolog"
)

// Config holds layout options for assembling a searchable PDF
type Config struct {
	IncludeImage bool           // Embed the source photo on the first page
	Margin       float64        // Left, top and bottom margin of text pages
	ImageMargin  float64        // Top offset of the photo; twice this is reserved vertically
	Header       string         // First line of the text section
	Placeholder  string         // Only line of the text section when no text was found
	Font         FontConfig     // Font of the text section
	Logger       zerolog.Logger // Warnings such as a dropped photo
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() Config {
	return Config{
		IncludeImage: true,
		Margin:       50,
		ImageMargin:  50,
		Header:       "EXTRACTED TEXT:",
		Placeholder:  "No text was detected in the image.",
		Font:         DefaultFont,
		Logger:       zerolog.Nop(),
	}
}

// FontConfig contains font settings for text lines
type FontConfig struct {
	Name string  // Font name (e.g., "Helvetica")
	Size float64 // Font size in points
}

// DefaultFont sets the default font to 12pt Helvetica, one of the PDF core fonts
var DefaultFont = FontConfig{
	Name: "Helvetica",
	Size: 12,
}

// LineSpacing is the line height as a multiple of the font size.
const LineSpacing = 1.2

// DefaultPageSize is the page format used when none is configured.
const DefaultPageSize = "Letter"
