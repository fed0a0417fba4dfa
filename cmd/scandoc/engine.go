package main

import (
	"context"

	"github.com/gardar/scandoc/pkg/gdocai"
	"github.com/gardar/scandoc/pkg/ocr"
)

// newEngine builds the configured OCR engine. The returned close function
// releases its resources. Tests replace it with a fake.
var newEngine = func(ctx context.Context, cfg *config) (ocr.Engine, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Engine {
	case engineGosseract:
		e, err := ocr.NewGosseract(cfg.Tesseract.TessdataDir)
		if err != nil {
			return nil, nil, err
		}
		return e, noop, nil
	case engineDocumentAI:
		e, err := gdocai.NewEngine(ctx, cfg.DocumentAI)
		if err != nil {
			return nil, nil, err
		}
		return e, e.Close, nil
	default:
		e := ocr.NewTesseractCLI(cfg.Tesseract.Path, cfg.Tesseract.TessdataDir)
		if err := e.Available(); err != nil {
			return nil, nil, err
		}
		return e, noop, nil
	}
}
