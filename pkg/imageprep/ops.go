package imageprep

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

// smoothKernel is the 3x3 smoothing filter the sharpness step blends against.
var smoothKernel = [9]float64{
	1, 1, 1,
	1, 5, 1,
	1, 1, 1,
}

// toGray copies img into a new single-channel image with origin (0, 0).
// Luma uses the ITU-R 601-2 weights of color.GrayModel.
func toGray(img image.Image) *image.Gray {
	b := img.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

func clamp8(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// applyLUT maps every intensity of img through table.
func applyLUT(img *image.Gray, table *[256]uint8) *image.Gray {
	out := imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		v := table[c.R]
		return color.NRGBA{R: v, G: v, B: v, A: c.A}
	})
	return toGray(out)
}

// blendTable builds the lookup table for out = base + f*(in-base).
func blendTable(base, f float64) *[256]uint8 {
	var t [256]uint8
	for i := range t {
		t[i] = clamp8(base + f*(float64(i)-base))
	}
	return &t
}

// brightness scales every intensity by f.
func brightness(img *image.Gray, f float64) *image.Gray {
	return applyLUT(img, blendTable(0, f))
}

// contrast stretches intensities around the rounded mean by f.
func contrast(img *image.Gray, f float64) *image.Gray {
	return applyLUT(img, blendTable(float64(meanIntensity(img)), f))
}

func meanIntensity(img *image.Gray) int {
	if len(img.Pix) == 0 {
		return 0
	}
	var sum uint64
	for _, p := range img.Pix {
		sum += uint64(p)
	}
	return int(float64(sum)/float64(len(img.Pix)) + 0.5)
}

// sharpness extrapolates img away from its smoothed version by f.
func sharpness(img *image.Gray, f float64) *image.Gray {
	smooth := toGray(imaging.Convolve3x3(img, smoothKernel, &imaging.ConvolveOptions{Normalize: true}))
	out := image.NewGray(img.Rect)
	for i, p := range img.Pix {
		s := float64(smooth.Pix[i])
		out.Pix[i] = clamp8(s + f*(float64(p)-s))
	}
	return out
}

// unsharpMask adds percent of the difference to a gaussian-blurred copy
// wherever that difference reaches threshold.
func unsharpMask(img *image.Gray, radius, percent float64, threshold int) *image.Gray {
	blurred := toGray(imaging.Blur(img, radius))
	out := image.NewGray(img.Rect)
	for i, p := range img.Pix {
		diff := int(p) - int(blurred.Pix[i])
		if diff >= threshold || -diff >= threshold {
			out.Pix[i] = clamp8(float64(p) + float64(diff)*percent/100)
		} else {
			out.Pix[i] = p
		}
	}
	return out
}

// binarize maps intensities above threshold to 255 and the rest to 0.
func binarize(img *image.Gray, threshold uint8) *image.Gray {
	out := image.NewGray(img.Rect)
	for i, p := range img.Pix {
		if p > threshold {
			out.Pix[i] = 255
		}
	}
	return out
}

// EncodePNG encodes img as PNG, the input format OCR engines accept.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}
