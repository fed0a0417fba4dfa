//go:build !ocr

package ocr

import (
	"context"
	"image"
)

// Gosseract is the stub used when the "ocr" build tag is not set.
// Rebuild with -tags ocr (and Tesseract development headers installed) to
// enable in-process recognition.
type Gosseract struct {
	TessdataPrefix string
}

// NewGosseract returns ErrEngineNotEnabled.
func NewGosseract(tessdataPrefix string) (*Gosseract, error) {
	return nil, ErrEngineNotEnabled
}

// Recognize returns ErrEngineNotEnabled.
func (g *Gosseract) Recognize(ctx context.Context, img image.Image, cfg RecognitionConfig, lang string) (string, error) {
	return "", ErrEngineNotEnabled
}
