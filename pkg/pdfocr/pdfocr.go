// Package pdfocr assembles searchable PDFs from a document photo and its OCR text.
//
// The first page holds the original photo scaled to fit the page. The
// recognized text follows on its own pages, one OCR line per PDF line, in a
// fixed-size font starting at fixed margins. Lines are never rewrapped,
// merged or split; when a page is full the next line starts a new page.
//
// The layout is computed here and handed to a Renderer as explicit
// coordinates. FpdfRenderer produces the PDF; Recorder keeps the page stream
// in memory for inspection.
//
// Key Features:
//
// - Photo page scaled to fit with preserved aspect ratio, centered horizontally
// - Text pages paginated by line height against top and bottom margins
// - Placeholder page when no text was recognized
// - Atomic writes so a failed save never leaves a partial PDF behind
//
// Main Functions:
//
// - Assembler.Assemble: lay out photo and text on a Renderer
// - WriteFile: render and persist atomically
// - PageCount: count the pages of a written PDF
package pdfocr

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrImagePlacement is returned by renderers when an image cannot be placed.
// The Assembler treats it as non-fatal.
var ErrImagePlacement = errors.New("image placement failed")

// ErrPersist is returned when the finished document cannot be written.
var ErrPersist = errors.New("failed to persist document")

// Assembler lays out a source photo and its extracted text on a Renderer.
type Assembler struct {
	cfg Config
}

// NewAssembler returns an Assembler. Zero layout values in cfg fall back to
// DefaultConfig; IncludeImage is taken as given.
func NewAssembler(cfg Config) *Assembler {
	d := DefaultConfig()
	if cfg.Margin <= 0 {
		cfg.Margin = d.Margin
	}
	if cfg.ImageMargin <= 0 {
		cfg.ImageMargin = d.ImageMargin
	}
	if cfg.Header == "" {
		cfg.Header = d.Header
	}
	if cfg.Placeholder == "" {
		cfg.Placeholder = d.Placeholder
	}
	if cfg.Font.Name == "" {
		cfg.Font.Name = d.Font.Name
	}
	if cfg.Font.Size <= 0 {
		cfg.Font.Size = d.Font.Size
	}
	return &Assembler{cfg: cfg}
}

// Assemble writes the photo page (if enabled) and the text pages to r.
// imageData is the unmodified encoded source photo. An image that cannot be
// placed is skipped with a warning; any other renderer error is returned.
func (a *Assembler) Assemble(r Renderer, imageData []byte, text string) error {
	width, height := r.PageSize()

	if a.cfg.IncludeImage {
		r.NewPage()
		if err := a.placeImage(r, imageData, width, height); err != nil {
			if !errors.Is(err, ErrImagePlacement) {
				return err
			}
			a.cfg.Logger.Warn().Err(err).Msg("continuing without image")
		}
	}

	a.writeText(r, height, a.textLines(text))
	return nil
}

// placeImage scales the photo to fit below the top offset, preserving the
// aspect ratio, and centers it horizontally.
func (a *Assembler) placeImage(r Renderer, data []byte, pageW, pageH float64) error {
	imgW, imgH, err := imageSize(data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrImagePlacement, err)
	}
	p := fitImage(float64(imgW), float64(imgH), pageW, pageH, a.cfg.ImageMargin)
	return r.DrawImage(data, p.X, p.Y, p.Width, p.Height)
}

// fitImage computes where an imgW x imgH image goes on the page.
func fitImage(imgW, imgH, pageW, pageH, margin float64) ImagePlacement {
	scale := math.Min(pageW/imgW, (pageH-2*margin)/imgH)
	w, h := imgW*scale, imgH*scale
	return ImagePlacement{
		X:      (pageW - w) / 2,
		Y:      pageH - h - margin,
		Width:  w,
		Height: h,
	}
}

// textLines returns the lines of the text section.
func (a *Assembler) textLines(text string) []string {
	if text == "" {
		return []string{a.cfg.Placeholder}
	}
	lines := []string{a.cfg.Header, ""}
	return append(lines, strings.Split(text, "\n")...)
}

// writeText starts a new page and writes lines top to bottom. A line that
// would take the cursor below the bottom margin moves to a fresh page.
func (a *Assembler) writeText(r Renderer, pageH float64, lines []string) {
	top := pageH - a.cfg.Margin
	begin := func() {
		r.NewPage()
		r.SetFont(a.cfg.Font.Name, a.cfg.Font.Size)
		r.BeginText(a.cfg.Margin, top)
	}

	begin()
	onPage := 0
	for _, line := range lines {
		if onPage > 0 && r.CursorY()-r.LineHeight() < a.cfg.Margin {
			begin()
			onPage = 0
		}
		r.WriteLine(line)
		onPage++
	}
}

// LinesPerPage returns how many text lines fit on one page of the given
// height with the given config.
func LinesPerPage(pageH float64, cfg Config) int {
	lh := cfg.Font.Size * LineSpacing
	n := int(math.Floor((pageH - 2*cfg.Margin) / lh))
	if n < 1 {
		return 1
	}
	return n
}
