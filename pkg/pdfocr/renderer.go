package pdfocr

import (
	"encoding/json"
	"io"
)

// Renderer places content on pages at explicit coordinates.
// Coordinates are in points with the origin at the bottom-left of the page.
// All layout decisions are made by the Assembler.
type Renderer interface {
	PageSize() (width, height float64)
	NewPage()
	DrawImage(data []byte, x, y, w, h float64) error
	SetFont(name string, size float64)
	LineHeight() float64
	BeginText(x, y float64)
	WriteLine(text string)
	CursorY() float64
	Save(w io.Writer) error
}

// Document is the page stream of an assembled PDF.
type Document struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Pages  []Page  `json:"pages"`
}

// Page holds an optional image and the text lines placed on it.
type Page struct {
	Image *ImagePlacement `json:"image,omitempty"`
	Lines []TextLine      `json:"lines,omitempty"`
}

// ImagePlacement is the rectangle a raster image was drawn into.
type ImagePlacement struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// TextLine is one line of text and its baseline position.
type TextLine struct {
	Text string  `json:"text"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Recorder is a Renderer that keeps the page stream in memory instead of
// producing PDF bytes. Save writes the Document as JSON.
type Recorder struct {
	Doc Document

	fontSize float64
	x, y     float64
}

// NewRecorder returns a Recorder for pages of the given size in points.
func NewRecorder(width, height float64) *Recorder {
	return &Recorder{Doc: Document{Width: width, Height: height}, fontSize: DefaultFont.Size}
}

func (r *Recorder) PageSize() (float64, float64) { return r.Doc.Width, r.Doc.Height }

func (r *Recorder) NewPage() { r.Doc.Pages = append(r.Doc.Pages, Page{}) }

func (r *Recorder) current() *Page {
	if len(r.Doc.Pages) == 0 {
		r.NewPage()
	}
	return &r.Doc.Pages[len(r.Doc.Pages)-1]
}

func (r *Recorder) DrawImage(_ []byte, x, y, w, h float64) error {
	r.current().Image = &ImagePlacement{X: x, Y: y, Width: w, Height: h}
	return nil
}

func (r *Recorder) SetFont(_ string, size float64) { r.fontSize = size }

func (r *Recorder) LineHeight() float64 { return r.fontSize * LineSpacing }

func (r *Recorder) BeginText(x, y float64) { r.x, r.y = x, y }

func (r *Recorder) WriteLine(text string) {
	p := r.current()
	p.Lines = append(p.Lines, TextLine{Text: text, X: r.x, Y: r.y})
	r.y -= r.LineHeight()
}

func (r *Recorder) CursorY() float64 { return r.y }

func (r *Recorder) Save(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r.Doc)
}
