package pdfocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"

	"codeberg.org/go-pdf/fpdf"
	"github.com/disintegration/imaging"
)

// FpdfRenderer renders pages to PDF with fpdf.
// fpdf measures y from the top of the page; the renderer converts from the
// bottom-left origin used by the Renderer interface.
type FpdfRenderer struct {
	pdf           *fpdf.Fpdf
	width, height float64
	fontSize      float64
	x, y          float64
	images        int
}

// NewFpdfRenderer creates an empty PDF with pages of the named size
// ("Letter", "A4", "Legal", ...), measured in points.
func NewFpdfRenderer(pageSize string) (*FpdfRenderer, error) {
	if pageSize == "" {
		pageSize = DefaultPageSize
	}
	pdf := fpdf.New("P", "pt", pageSize, "")
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("scandoc", true)

	w, h := pdf.GetPageSize()
	return &FpdfRenderer{pdf: pdf, width: w, height: h, fontSize: DefaultFont.Size}, nil
}

// NewRecorderFor returns a Recorder with the dimensions of the named page
// size, so a recorded layout matches what FpdfRenderer would produce.
func NewRecorderFor(pageSize string) (*Recorder, error) {
	r, err := NewFpdfRenderer(pageSize)
	if err != nil {
		return nil, err
	}
	return NewRecorder(r.PageSize()), nil
}

func (r *FpdfRenderer) PageSize() (float64, float64) { return r.width, r.height }

func (r *FpdfRenderer) NewPage() { r.pdf.AddPage() }

// PageCount returns the number of pages started so far.
func (r *FpdfRenderer) PageCount() int { return r.pdf.PageCount() }

// DrawImage embeds encoded image data into the rectangle with bottom-left
// corner (x, y). JPEG data is embedded as is; other formats are converted
// to 8-bit PNG first. Failures wrap ErrImagePlacement and leave the
// document usable.
func (r *FpdfRenderer) DrawImage(data []byte, x, y, w, h float64) error {
	imageType, err := detectImageType(data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrImagePlacement, err)
	}
	if imageType != "JPEG" {
		data, err = toPNG(data)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrImagePlacement, err)
		}
		imageType = "PNG"
	}

	imageName := fmt.Sprintf("img%d", r.images)
	r.images++
	opts := fpdf.ImageOptions{ReadDpi: false, ImageType: imageType}

	r.pdf.RegisterImageOptionsReader(imageName, opts, bytes.NewReader(data))
	if err := r.takeError(); err != nil {
		return fmt.Errorf("%w: %w", ErrImagePlacement, err)
	}
	r.pdf.ImageOptions(imageName, x, r.height-(y+h), w, h, false, opts, 0, "")
	if err := r.takeError(); err != nil {
		return fmt.Errorf("%w: %w", ErrImagePlacement, err)
	}
	return nil
}

// takeError returns and clears fpdf's sticky error.
func (r *FpdfRenderer) takeError() error {
	if !r.pdf.Err() {
		return nil
	}
	err := r.pdf.Error()
	r.pdf.ClearError()
	return err
}

func (r *FpdfRenderer) SetFont(name string, size float64) {
	r.pdf.SetFont(name, "", size)
	r.fontSize = size
}

func (r *FpdfRenderer) LineHeight() float64 { return r.fontSize * LineSpacing }

func (r *FpdfRenderer) BeginText(x, y float64) { r.x, r.y = x, y }

func (r *FpdfRenderer) WriteLine(text string) {
	r.pdf.Text(r.x, r.height-r.y, encodeText(text))
	r.y -= r.LineHeight()
}

func (r *FpdfRenderer) CursorY() float64 { return r.y }

// Save writes the finished PDF to w.
func (r *FpdfRenderer) Save(w io.Writer) error {
	if err := r.pdf.Output(w); err != nil {
		return fmt.Errorf("failed to generate PDF: %w", err)
	}
	return nil
}

// toPNG re-encodes any decodable image as an 8-bit PNG fpdf can embed.
func toPNG(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, imaging.Clone(img)); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}
