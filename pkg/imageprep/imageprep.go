// Package imageprep loads photographed document images and turns them into
// OCR-ready variants.
//
// Photos of paper documents are usually small, soft and low-contrast. The
// package applies a fixed enhancement pipeline to each source image and
// returns two variants that are fed to the OCR engine:
//
// - enhanced: grayscale, upscaled 4x, brightened, contrast and sharpness boosted, unsharp-masked
// - binary: the enhanced variant thresholded to pure black and white
//
// The variants are always returned in that order. Later stages rely on the
// order to break ties between equally good OCR results.
//
// Main Functions:
//
// - Load / Decode: read a SourceImage from disk or memory
// - Preprocess: build the [enhanced, binary] variants with default settings
// - PreprocessWith: same, with custom Options
package imageprep

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"os"

	// Decoders for the formats a phone or scanner is likely to produce.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrImageDecode is returned when a source image cannot be read or decoded.
var ErrImageDecode = errors.New("image decode failed")

// SourceImage is a decoded source photo together with its original encoding.
// The raw bytes are kept so the unmodified photo can be embedded in the output.
type SourceImage struct {
	Image  image.Image // Decoded pixels
	Raw    []byte      // Original encoded bytes
	Format string      // Format name reported by the decoder ("jpeg", "png", ...)
}

// Width returns the pixel width of the source image.
func (s *SourceImage) Width() int { return s.Image.Bounds().Dx() }

// Height returns the pixel height of the source image.
func (s *SourceImage) Height() int { return s.Image.Bounds().Dy() }

// Decode parses encoded image bytes into a SourceImage.
func Decode(data []byte) (*SourceImage, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty image data", ErrImageDecode)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImageDecode, err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: image has no pixels", ErrImageDecode)
	}
	return &SourceImage{Image: img, Raw: data, Format: format}, nil
}

// Load reads and decodes the image file at path.
func Load(path string) (*SourceImage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImageDecode, err)
	}
	src, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return src, nil
}
