package imageprep

import (
	"image"

	"github.com/disintegration/imaging"
)

// Variant tags, in the order Preprocess returns them.
const (
	TagEnhanced = "enhanced"
	TagBinary   = "binary"
)

// Variant is one preprocessed version of a source image.
type Variant struct {
	Tag   string      // TagEnhanced or TagBinary
	Image *image.Gray // Single-channel pixels, origin at (0, 0)
}

// Options controls the enhancement pipeline. Zero fields use the defaults.
type Options struct {
	Scale            int     // Upscale factor on both axes
	Brightness       float64 // Brightness multiplier
	Contrast         float64 // Contrast multiplier around the mean intensity
	Sharpness        float64 // Sharpness multiplier
	UnsharpRadius    float64 // Gaussian blur radius of the unsharp mask
	UnsharpPercent   float64 // Unsharp mask strength in percent
	UnsharpThreshold int     // Minimum difference before the mask is applied
	BinaryThreshold  uint8   // Pixels above become white, the rest black
}

// DefaultOptions returns the settings tuned for low-quality phone photos.
func DefaultOptions() Options {
	return Options{
		Scale:            4,
		Brightness:       1.2,
		Contrast:         3.0,
		Sharpness:        3.0,
		UnsharpRadius:    2,
		UnsharpPercent:   150,
		UnsharpThreshold: 3,
		BinaryThreshold:  128,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Scale <= 0 {
		o.Scale = d.Scale
	}
	if o.Brightness == 0 {
		o.Brightness = d.Brightness
	}
	if o.Contrast == 0 {
		o.Contrast = d.Contrast
	}
	if o.Sharpness == 0 {
		o.Sharpness = d.Sharpness
	}
	if o.UnsharpRadius == 0 {
		o.UnsharpRadius = d.UnsharpRadius
	}
	if o.UnsharpPercent == 0 {
		o.UnsharpPercent = d.UnsharpPercent
	}
	if o.UnsharpThreshold == 0 {
		o.UnsharpThreshold = d.UnsharpThreshold
	}
	if o.BinaryThreshold == 0 {
		o.BinaryThreshold = d.BinaryThreshold
	}
	return o
}

// Preprocess builds the [enhanced, binary] variants with DefaultOptions.
func Preprocess(src *SourceImage) []Variant {
	return PreprocessWith(src, DefaultOptions())
}

// PreprocessWith builds the [enhanced, binary] variants of src.
func PreprocessWith(src *SourceImage, opts Options) []Variant {
	opts = opts.withDefaults()

	gray := toGray(src.Image)
	w, h := gray.Rect.Dx(), gray.Rect.Dy()
	img := toGray(imaging.Resize(gray, w*opts.Scale, h*opts.Scale, imaging.Lanczos))

	img = brightness(img, opts.Brightness)
	img = contrast(img, opts.Contrast)
	img = sharpness(img, opts.Sharpness)
	img = unsharpMask(img, opts.UnsharpRadius, opts.UnsharpPercent, opts.UnsharpThreshold)

	return []Variant{
		{Tag: TagEnhanced, Image: img},
		{Tag: TagBinary, Image: binarize(img, opts.BinaryThreshold)},
	}
}
