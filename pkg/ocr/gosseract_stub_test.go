//go:build !ocr

package ocr

import (
	"context"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewGosseractNotEnabled(t *testing.T) {
	engine, err := NewGosseract("")
	assert.ErrorIs(t, err, ErrEngineNotEnabled)
	assert.Nil(t, engine)

	var g Gosseract
	_, err = g.Recognize(context.Background(), image.NewGray(image.Rect(0, 0, 1, 1)), DefaultConfigs()[0], "eng")
	assert.ErrorIs(t, err, ErrEngineNotEnabled)
}
