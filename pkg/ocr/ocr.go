// Package ocr runs text recognition over preprocessed document images and
// picks the best result.
//
// Recognition quality on photographed documents depends heavily on the
// engine's page segmentation mode and on how the image was preprocessed, and
// no single setting wins for every photo. The package therefore sweeps a
// small fixed grid: every image variant is recognized with every
// RecognitionConfig, and the candidate with the most non-whitespace-trimmed
// characters wins. Ties go to the candidate evaluated first, so the outcome
// is reproducible for a deterministic engine.
//
// Engines:
//
// - TesseractCLI: runs the tesseract binary (default)
// - Gosseract: in-process Tesseract through cgo, built with -tags ocr
// - gdocai.Engine (separate package): Google Document AI
//
// Main Functions:
//
// - Search: evaluate the variant x config grid and select the best text
// - Select: the selection rule applied to a list of attempts
// - DefaultConfigs: the fixed ordered list of seven recognition configs
package ocr

import (
	"context"
	"errors"
	"image"
)

// ErrRecognition is returned by engines when a single recognition call fails.
var ErrRecognition = errors.New("recognition failed")

// ErrEngineNotEnabled is returned when an engine was not compiled in.
var ErrEngineNotEnabled = errors.New("OCR engine not enabled; rebuild with -tags ocr")

// Engine recognizes the text in one image with one configuration.
type Engine interface {
	Recognize(ctx context.Context, img image.Image, cfg RecognitionConfig, lang string) (string, error)
}

// EngineFunc adapts a function to the Engine interface.
type EngineFunc func(ctx context.Context, img image.Image, cfg RecognitionConfig, lang string) (string, error)

// Recognize calls f.
func (f EngineFunc) Recognize(ctx context.Context, img image.Image, cfg RecognitionConfig, lang string) (string, error) {
	return f(ctx, img, cfg, lang)
}

// PageSegMode is a Tesseract page segmentation mode.
type PageSegMode int

// Page segmentation modes understood by Tesseract.
const (
	PSMOSDOnly             PageSegMode = 0  // Orientation and script detection only
	PSMAutoOSD             PageSegMode = 1  // Automatic with OSD
	PSMAutoOnly            PageSegMode = 2  // Automatic, no OSD or OCR
	PSMAuto                PageSegMode = 3  // Fully automatic (default)
	PSMSingleColumn        PageSegMode = 4  // Single column of variable sizes
	PSMSingleBlockVertText PageSegMode = 5  // Single uniform block of vertically aligned text
	PSMSingleBlock         PageSegMode = 6  // Single uniform block of text
	PSMSingleLine          PageSegMode = 7  // Single text line
	PSMSingleWord          PageSegMode = 8  // Single word
	PSMCircleWord          PageSegMode = 9  // Single word in a circle
	PSMSingleChar          PageSegMode = 10 // Single character
	PSMSparseText          PageSegMode = 11 // Find as much text as possible
	PSMSparseTextOSD       PageSegMode = 12 // Sparse text with OSD
	PSMRawLine             PageSegMode = 13 // Treat image as single text line
)

// EngineModeLSTM selects Tesseract's neural network line recognizer.
const EngineModeLSTM = 1

// RecognitionConfig selects an engine mode and a page segmentation mode.
type RecognitionConfig struct {
	Name       string      // Short identifier used in logs and provenance
	EngineMode int         // Tesseract --oem value
	SegMode    PageSegMode // Tesseract --psm value
}

func (c RecognitionConfig) String() string { return c.Name }

// DefaultConfigs returns the seven configs swept by Search, in sweep order.
func DefaultConfigs() []RecognitionConfig {
	return []RecognitionConfig{
		{Name: "single-block", EngineMode: EngineModeLSTM, SegMode: PSMSingleBlock},
		{Name: "auto", EngineMode: EngineModeLSTM, SegMode: PSMAuto},
		{Name: "single-column", EngineMode: EngineModeLSTM, SegMode: PSMSingleColumn},
		{Name: "single-line", EngineMode: EngineModeLSTM, SegMode: PSMSingleLine},
		{Name: "single-word", EngineMode: EngineModeLSTM, SegMode: PSMSingleWord},
		{Name: "sparse", EngineMode: EngineModeLSTM, SegMode: PSMSparseText},
		{Name: "sparse-osd", EngineMode: EngineModeLSTM, SegMode: PSMSparseTextOSD},
	}
}

// ConfigByName looks up one of the DefaultConfigs.
func ConfigByName(name string) (RecognitionConfig, bool) {
	for _, c := range DefaultConfigs() {
		if c.Name == name {
			return c, true
		}
	}
	return RecognitionConfig{}, false
}
