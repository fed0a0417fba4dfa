package gdocai

import (
	"context"
	"fmt"
	"image"

	"cloud.google.com/go/documentai/apiv1/documentaipb"

	"github.com/gardar/scandoc/pkg/imageprep"
	"github.com/gardar/scandoc/pkg/ocr"
)

type processFunc func(ctx context.Context, req *documentaipb.ProcessRequest) (*documentaipb.Document, error)

// Engine is an ocr.Engine backed by a Document AI processor. It holds one
// client for its lifetime and is safe for concurrent use.
type Engine struct {
	cfg     Config
	process processFunc
	close   func() error
}

// NewEngine validates cfg and opens a client for the processor.
// Call Close when done.
func NewEngine(ctx context.Context, cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	client, err := NewClient(ctx, &cfg)
	if err != nil {
		return nil, err
	}
	process := func(ctx context.Context, req *documentaipb.ProcessRequest) (*documentaipb.Document, error) {
		resp, err := client.ProcessDocument(ctx, req)
		if err != nil {
			return nil, err
		}
		return resp.GetDocument(), nil
	}
	return &Engine{cfg: cfg, process: process, close: client.Close}, nil
}

// Recognize uploads img as a PNG and returns the recognized text.
// The language hint and segmentation mode are not used by Document AI.
func (e *Engine) Recognize(ctx context.Context, img image.Image, cfg ocr.RecognitionConfig, _ string) (string, error) {
	data, err := imageprep.EncodePNG(img)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ocr.ErrRecognition, err)
	}
	doc, err := e.process(ctx, processRequest(&e.cfg, data, MimeTypePNG))
	if err != nil {
		return "", fmt.Errorf("%w: documentai %s: %w", ocr.ErrRecognition, cfg.Name, err)
	}
	return textFromProto(doc), nil
}

// Close releases the underlying client.
func (e *Engine) Close() error {
	if e.close == nil {
		return nil
	}
	return e.close()
}
