//go:build ocr

package ocr

import (
	"context"
	"fmt"
	"image"

	"github.com/otiai10/gosseract/v2"

	"github.com/gardar/scandoc/pkg/imageprep"
)

// Gosseract recognizes text in-process through the Tesseract C API.
// A fresh client is created for every call so the engine is safe for
// concurrent use.
//
// The engine mode of a config is not applied: gosseract initializes
// Tesseract with its default engine mode.
type Gosseract struct {
	TessdataPrefix string // Directory holding the traineddata files
}

// NewGosseract returns the in-process engine.
func NewGosseract(tessdataPrefix string) (*Gosseract, error) {
	return &Gosseract{TessdataPrefix: tessdataPrefix}, nil
}

type gosseractResult struct {
	text string
	err  error
}

// Recognize runs one recognition pass. The call itself cannot be interrupted;
// on cancellation the result is abandoned and ctx.Err() is returned.
func (g *Gosseract) Recognize(ctx context.Context, img image.Image, cfg RecognitionConfig, lang string) (string, error) {
	if lang == "" {
		lang = DefaultLanguage
	}
	data, err := imageprep.EncodePNG(img)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRecognition, err)
	}

	done := make(chan gosseractResult, 1)
	go func() {
		text, err := g.recognize(data, cfg, lang)
		done <- gosseractResult{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %s: %w", ErrRecognition, cfg.Name, ctx.Err())
	case r := <-done:
		return r.text, r.err
	}
}

func (g *Gosseract) recognize(data []byte, cfg RecognitionConfig, lang string) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if g.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(g.TessdataPrefix); err != nil {
			return "", fmt.Errorf("%w: set tessdata prefix: %w", ErrRecognition, err)
		}
	}
	if err := client.SetLanguage(lang); err != nil {
		return "", fmt.Errorf("%w: set language: %w", ErrRecognition, err)
	}
	if err := client.SetPageSegMode(gosseract.PageSegMode(cfg.SegMode)); err != nil {
		return "", fmt.Errorf("%w: set page segmentation mode: %w", ErrRecognition, err)
	}
	if err := client.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("%w: set image: %w", ErrRecognition, err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrRecognition, cfg.Name, err)
	}
	return text, nil
}
