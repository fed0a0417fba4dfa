// Package scandoc turns photographed documents into searchable PDFs.
//
// A Converter runs the full pipeline for one photo: decode, preprocess into
// image variants, search the variant x config grid for the best OCR text,
// lay out the photo and the text as PDF pages, and write the PDF atomically.
// ConvertDir repeats that for every matching file in a directory, recording
// each file's outcome without letting one failure stop the others.
package scandoc

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gardar/scandoc/pkg/imageprep"
	"github.com/gardar/scandoc/pkg/ocr"
	"github.com/gardar/scandoc/pkg/pdfocr"
)

// DefaultExtensions are the source file extensions picked up by ConvertDir.
var DefaultExtensions = []string{".jpg", ".jpeg"}

// DefaultTimeout bounds each OCR engine call.
const DefaultTimeout = 2 * time.Minute

// Converter runs the photo to PDF pipeline. The zero value is not usable;
// create one with New.
type Converter struct {
	Engine  ocr.Engine
	Configs []ocr.RecognitionConfig
	Search  ocr.SearchOptions
	Prep    imageprep.Options
	Layout  pdfocr.Config

	PageSize     string   // fpdf page size name, "Letter" by default
	Extensions   []string // Lowercase extensions, with leading dot, for ConvertDir
	BatchWorkers int      // Files converted concurrently by ConvertDir
	Verify       bool     // Re-read each written PDF and check its page count

	// OnFileDone, if set, is called by ConvertDir after each file. Calls may
	// come from several goroutines when BatchWorkers > 1.
	OnFileDone func(name string, o Outcome)

	Logger zerolog.Logger
}

// Option configures a Converter.
type Option func(*Converter)

// WithConfigs replaces the recognition configs swept for each variant.
func WithConfigs(configs []ocr.RecognitionConfig) Option {
	return func(c *Converter) { c.Configs = configs }
}

// WithSearch sets language, concurrency and timeout of the candidate search.
func WithSearch(opts ocr.SearchOptions) Option {
	return func(c *Converter) { c.Search = opts }
}

// WithPreprocess sets the image preprocessing parameters.
func WithPreprocess(opts imageprep.Options) Option {
	return func(c *Converter) { c.Prep = opts }
}

// WithLayout sets the PDF layout.
func WithLayout(cfg pdfocr.Config) Option {
	return func(c *Converter) { c.Layout = cfg }
}

// WithPageSize sets the PDF page size by name.
func WithPageSize(name string) Option {
	return func(c *Converter) { c.PageSize = name }
}

// WithExtensions sets the file extensions ConvertDir picks up.
func WithExtensions(exts ...string) Option {
	return func(c *Converter) { c.Extensions = exts }
}

// WithBatchWorkers sets how many files ConvertDir converts at once.
func WithBatchWorkers(n int) Option {
	return func(c *Converter) { c.BatchWorkers = n }
}

// WithVerify enables page count verification of written PDFs.
func WithVerify(v bool) Option {
	return func(c *Converter) { c.Verify = v }
}

// WithOnFileDone registers a callback for finished files in ConvertDir.
func WithOnFileDone(fn func(name string, o Outcome)) Option {
	return func(c *Converter) { c.OnFileDone = fn }
}

// WithLogger sets the logger for the converter and the stages it runs.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Converter) { c.Logger = l }
}

// New returns a Converter using engine for recognition.
func New(engine ocr.Engine, opts ...Option) *Converter {
	c := &Converter{
		Engine:     engine,
		Configs:    ocr.DefaultConfigs(),
		Search:     ocr.SearchOptions{Language: ocr.DefaultLanguage, Timeout: DefaultTimeout},
		Prep:       imageprep.DefaultOptions(),
		Layout:     pdfocr.DefaultConfig(),
		PageSize:   pdfocr.DefaultPageSize,
		Extensions: DefaultExtensions,
		Logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	exts := make([]string, 0, len(c.Extensions))
	for _, e := range c.Extensions {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts = append(exts, e)
	}
	c.Extensions = exts

	c.Search.Logger = c.Logger
	c.Layout.Logger = c.Logger
	return c
}

// Outcome is the result of converting one file.
type Outcome struct {
	PDFPath string `json:"pdf_path,omitempty"`
	Text    string `json:"text"`
	Variant string `json:"variant,omitempty"` // Winning image variant
	Config  string `json:"config,omitempty"`  // Winning recognition config
	Pages   int    `json:"pages,omitempty"`
	Error   string `json:"error,omitempty"`

	Err error `json:"-"`
}

// Success reports whether the PDF was written.
func (o Outcome) Success() bool { return o.Err == nil }

func failed(err error) Outcome {
	return Outcome{Err: err, Error: err.Error()}
}

// Recognize loads the photo at src and returns it with the best OCR text.
func (c *Converter) Recognize(ctx context.Context, src string) (*imageprep.SourceImage, ocr.Selection, error) {
	if err := ctx.Err(); err != nil {
		return nil, ocr.Selection{Index: -1}, err
	}
	img, err := imageprep.Load(src)
	if err != nil {
		return nil, ocr.Selection{Index: -1}, err
	}

	variants := imageprep.PreprocessWith(img, c.Prep)
	sel := ocr.Search(ctx, c.Engine, variants, c.Configs, c.Search)
	// A canceled search looks like an image without text.
	if err := ctx.Err(); err != nil {
		return nil, ocr.Selection{Index: -1}, err
	}
	return img, sel, nil
}

// ConvertFile converts the photo at src to a searchable PDF at dst and
// returns the extracted text along with the output path. An empty dst
// writes <name>.pdf next to src. A source that cannot be decoded or a PDF
// that cannot be written is an error; the returned Outcome then carries it
// too.
func (c *Converter) ConvertFile(ctx context.Context, src, dst string) (Outcome, error) {
	if dst == "" {
		dst = PDFName(src)
	}
	log := c.Logger.With().Str("file", filepath.Base(src)).Logger()

	img, sel, err := c.Recognize(ctx, src)
	if err != nil {
		return failed(err), err
	}
	if !sel.Found() {
		log.Info().Msg("no text detected")
	}

	r, err := pdfocr.NewFpdfRenderer(c.PageSize)
	if err != nil {
		return failed(err), err
	}
	if err := pdfocr.NewAssembler(c.Layout).Assemble(r, img.Raw, sel.Text); err != nil {
		err = fmt.Errorf("failed to assemble %s: %w", dst, err)
		return failed(err), err
	}
	if err := pdfocr.WriteFile(dst, r); err != nil {
		return failed(err), err
	}

	out := Outcome{
		PDFPath: dst,
		Text:    sel.Text,
		Variant: sel.Variant,
		Config:  sel.Config.Name,
		Pages:   r.PageCount(),
	}

	if c.Verify {
		n, err := pdfocr.PageCount(dst)
		if err != nil {
			return failed(err), err
		}
		if n != out.Pages {
			err := fmt.Errorf("%s: expected %d pages, found %d", dst, out.Pages, n)
			return failed(err), err
		}
	}

	log.Info().
		Str("pdf", dst).
		Int("pages", out.Pages).
		Int("chars", len([]rune(out.Text))).
		Msg("converted")
	return out, nil
}

// Inspect runs the pipeline for src up to layout and returns the page stream
// that ConvertFile would render, without writing anything.
func (c *Converter) Inspect(ctx context.Context, src string) (pdfocr.Document, ocr.Selection, error) {
	img, sel, err := c.Recognize(ctx, src)
	if err != nil {
		return pdfocr.Document{}, sel, err
	}
	rec, err := pdfocr.NewRecorderFor(c.PageSize)
	if err != nil {
		return pdfocr.Document{}, sel, err
	}
	if err := pdfocr.NewAssembler(c.Layout).Assemble(rec, img.Raw, sel.Text); err != nil {
		return pdfocr.Document{}, sel, err
	}
	return rec.Doc, sel, nil
}

// PDFName replaces the extension of path with ".pdf".
func PDFName(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".pdf"
}
