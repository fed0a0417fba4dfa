package gdocai

import (
	"context"
	"fmt"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"google.golang.org/api/option"
)

// MimeTypePNG is the mime type of the documents sent by Engine.
const MimeTypePNG = "image/png"

// NewClient opens a Document AI client for the processor's region.
func NewClient(ctx context.Context, cfg *Config) (*documentai.DocumentProcessorClient, error) {
	opts := []option.ClientOption{option.WithEndpoint(cfg.Endpoint())}
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := documentai.NewDocumentProcessorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Document AI client: %w", err)
	}
	return client, nil
}

// processRequest builds the request for one raw document.
func processRequest(cfg *Config, content []byte, mimeType string) *documentaipb.ProcessRequest {
	return &documentaipb.ProcessRequest{
		Name: cfg.ProcessorName(),
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  content,
				MimeType: mimeType,
			},
		},
		SkipHumanReview: true,
	}
}

// ProcessDocument sends raw document bytes of the given mime type to
// Document AI and returns the Document proto response. It opens and closes
// its own client.
func ProcessDocument(ctx context.Context, content []byte, mimeType string, cfg *Config) (*documentaipb.Document, error) {
	client, err := NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	resp, err := client.ProcessDocument(ctx, processRequest(cfg, content, mimeType))
	if err != nil {
		return nil, fmt.Errorf("failed to process document: %w", err)
	}
	return resp.GetDocument(), nil
}
