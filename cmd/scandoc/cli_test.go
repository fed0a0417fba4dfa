package main

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gardar/scandoc/pkg/ocr"
	"github.com/gardar/scandoc/pkg/pdfocr"
	"github.com/gardar/scandoc/pkg/scandoc"
)

// useFakeEngine makes every command recognize "Total 12.50" with the
// single-block config and nothing otherwise.
func useFakeEngine(t *testing.T) {
	t.Helper()
	orig := newEngine
	t.Cleanup(func() { newEngine = orig })
	newEngine = func(context.Context, *config) (ocr.Engine, func() error, error) {
		e := ocr.EngineFunc(func(_ context.Context, _ image.Image, cfg ocr.RecognitionConfig, _ string) (string, error) {
			if cfg.Name == "single-block" {
				return "Total 12.50\n", nil
			}
			return "", nil
		})
		return e, func() error { return nil }, nil
	}
}

func newTestConverter(t *testing.T, cfg *config) *scandoc.Converter {
	t.Helper()
	useFakeEngine(t)
	a := &app{cfg: cfg, logger: zerolog.Nop()}
	c, closeEngine, err := a.converter(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeEngine() })
	return c
}

func writePhoto(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 24))
	for i := 0; i < 32; i++ {
		img.Set(i, 12, color.Black)
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--env-file", ""}, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestConvertCommand(t *testing.T) {
	useFakeEngine(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "receipt.jpg")
	writePhoto(t, src)

	stdout, _, err := run(t, "convert", src)
	require.NoError(t, err)
	pdf := filepath.Join(dir, "receipt.pdf")
	assert.Contains(t, stdout, pdf)
	assert.Contains(t, stdout, "enhanced/single-block")

	n, err := pdfocr.PageCount(pdf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	stdout, _, err = run(t, "convert", "--print-text", src, filepath.Join(dir, "again.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "Total 12.50\n", stdout)
	assert.FileExists(t, filepath.Join(dir, "again.pdf"))
}

func TestConvertCommandDecodeError(t *testing.T) {
	useFakeEngine(t)
	src := filepath.Join(t.TempDir(), "bad.jpg")
	require.NoError(t, os.WriteFile(src, []byte("nope"), 0o644))

	_, stderr, err := run(t, "convert", src)
	require.Error(t, err)
	assert.Contains(t, stderr, "image decode failed")
}

func TestBatchCommandWithReport(t *testing.T) {
	useFakeEngine(t)
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "out")
	writePhoto(t, filepath.Join(src, "a.jpg"))
	writePhoto(t, filepath.Join(src, "b.jpeg"))
	require.NoError(t, os.WriteFile(filepath.Join(src, "c.jpg"), []byte("corrupt"), 0o644))
	report := filepath.Join(t.TempDir(), "report.json")

	stdout, _, err := run(t, "batch", src, dst, "--report", report, "--no-progress")
	require.Error(t, err, "a failed file makes the command fail")
	assert.Contains(t, err.Error(), "1 of 3 files failed")
	assert.Contains(t, stdout, "2 converted, 1 failed")

	data, err := os.ReadFile(report)
	require.NoError(t, err)
	var got batchReport
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, 2, got.Succeeded)
	assert.Equal(t, 1, got.Failed)
	require.Len(t, got.Files, 3)
	assert.Equal(t, "Total 12.50", got.Files["a.jpg"].Text)
	assert.Equal(t, filepath.Join(dst, "b.pdf"), got.Files["b.jpeg"].PDFPath)
	assert.NotEmpty(t, got.Files["c.jpg"].Error)
}

func TestBatchCommandProgress(t *testing.T) {
	useFakeEngine(t)
	src := t.TempDir()
	writePhoto(t, filepath.Join(src, "a.jpg"))

	_, stderr, err := run(t, "batch", src, t.TempDir(), "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, stderr, "converting")
}

func TestInspectCommand(t *testing.T) {
	useFakeEngine(t)
	src := filepath.Join(t.TempDir(), "a.jpg")
	writePhoto(t, src)

	stdout, _, err := run(t, "inspect", src)
	require.NoError(t, err)
	assert.Contains(t, stdout, "best candidate: enhanced/single-block")
	assert.Contains(t, stdout, "pages: 2")
	assert.Contains(t, stdout, "Total 12.50")

	stdout, _, err = run(t, "inspect", "--json", src)
	require.NoError(t, err)
	var doc pdfocr.Document
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	require.Len(t, doc.Pages, 2)
	assert.Equal(t, "Total 12.50", doc.Pages[1].Lines[2].Text)
}

func TestConfigFlagAndEnv(t *testing.T) {
	useFakeEngine(t)
	t.Setenv("SCANDOC_ENGINE", "abacus")
	_, _, err := run(t, "inspect", "whatever.jpg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown engine "abacus"`)

	_, _, err = run(t, "--config", filepath.Join(t.TempDir(), "missing.yml"), "inspect", "x.jpg")
	assert.Error(t, err)
}
