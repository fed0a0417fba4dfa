package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os/exec"
	"strconv"
	"strings"

	"github.com/gardar/scandoc/pkg/imageprep"
)

// DefaultTesseractPath is the binary looked up on PATH when none is configured.
const DefaultTesseractPath = "tesseract"

// TesseractCLI recognizes text by piping a PNG through the tesseract binary.
type TesseractCLI struct {
	Path        string // Path to the tesseract binary
	TessdataDir string // Optional --tessdata-dir value
}

// NewTesseractCLI returns an engine that runs the binary at path.
// An empty path uses DefaultTesseractPath.
func NewTesseractCLI(path, tessdataDir string) *TesseractCLI {
	if path == "" {
		path = DefaultTesseractPath
	}
	return &TesseractCLI{Path: path, TessdataDir: tessdataDir}
}

// Available reports an error if the configured binary cannot be found.
func (t *TesseractCLI) Available() error {
	if _, err := exec.LookPath(t.Path); err != nil {
		return fmt.Errorf("tesseract not found: %w", err)
	}
	return nil
}

func (t *TesseractCLI) args(cfg RecognitionConfig, lang string) []string {
	args := []string{
		"-", "-", // read the image from stdin, write text to stdout
		"--oem", strconv.Itoa(cfg.EngineMode),
		"--psm", strconv.Itoa(int(cfg.SegMode)),
		"-l", lang,
	}
	if t.TessdataDir != "" {
		args = append(args, "--tessdata-dir", t.TessdataDir)
	}
	return args
}

// Recognize runs tesseract once with the given config.
func (t *TesseractCLI) Recognize(ctx context.Context, img image.Image, cfg RecognitionConfig, lang string) (string, error) {
	if lang == "" {
		lang = DefaultLanguage
	}
	data, err := imageprep.EncodePNG(img)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRecognition, err)
	}

	cmd := exec.CommandContext(ctx, t.Path, t.args(cfg, lang)...)
	cmd.Stdin = bytes.NewReader(data)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("%w: tesseract %s: %w: %s", ErrRecognition, cfg.Name, err, msg)
		}
		return "", fmt.Errorf("%w: tesseract %s: %w", ErrRecognition, cfg.Name, err)
	}
	return stdout.String(), nil
}
