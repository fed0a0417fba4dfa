package scandoc

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gardar/scandoc/pkg/imageprep"
	"github.com/gardar/scandoc/pkg/ocr"
	"github.com/gardar/scandoc/pkg/pdfocr"
)

// byConfig answers every call with the text registered for its config name.
func byConfig(texts map[string]string) ocr.Engine {
	return ocr.EngineFunc(func(_ context.Context, _ image.Image, cfg ocr.RecognitionConfig, _ string) (string, error) {
		return texts[cfg.Name], nil
	})
}

var helloEngine = byConfig(map[string]string{
	"auto":        "Hi",
	"single-line": "  Hello World\n",
	"sparse":      "Hello Worl",
})

func writeJPEG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(230)
			if y > h/3 && y < h/2 && x > 3 && x < w-3 {
				v = 30
			}
			img.Set(x, y, color.RGBA{v, v, v, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestConvertFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "receipt.jpg")
	writeJPEG(t, src, 40, 30)

	c := New(helloEngine, WithVerify(true))
	out, err := c.ConvertFile(context.Background(), src, "")
	require.NoError(t, err)

	assert.True(t, out.Success())
	assert.Equal(t, filepath.Join(dir, "receipt.pdf"), out.PDFPath)
	assert.Equal(t, "Hello World", out.Text)
	assert.Equal(t, imageprep.TagEnhanced, out.Variant)
	assert.Equal(t, "single-line", out.Config)
	assert.Equal(t, 2, out.Pages)

	n, err := pdfocr.PageCount(out.PDFPath)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestConvertFileNoText(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "blank.jpg")
	writeJPEG(t, src, 20, 20)

	out, err := New(byConfig(nil)).ConvertFile(context.Background(), src, filepath.Join(dir, "blank.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "", out.Text)
	assert.Equal(t, 2, out.Pages, "photo page plus placeholder page")

	n, err := pdfocr.PageCount(out.PDFPath)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestConvertFileWithoutImagePage(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.jpg")
	writeJPEG(t, src, 20, 20)

	layout := pdfocr.DefaultConfig()
	layout.IncludeImage = false
	out, err := New(helloEngine, WithLayout(layout)).ConvertFile(context.Background(), src, "")
	require.NoError(t, err)
	assert.Equal(t, 1, out.Pages)
}

func TestConvertFileDecodeError(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "corrupt.jpg")
	require.NoError(t, os.WriteFile(src, []byte("definitely not a jpeg"), 0o644))

	out, err := New(helloEngine).ConvertFile(context.Background(), src, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, imageprep.ErrImageDecode)
	assert.False(t, out.Success())
	assert.NotEmpty(t, out.Error)

	_, statErr := os.Stat(filepath.Join(dir, "corrupt.pdf"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestConvertFilePersistError(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.jpg")
	writeJPEG(t, src, 20, 20)

	_, err := New(helloEngine).ConvertFile(context.Background(), src, filepath.Join(dir, "missing", "a.pdf"))
	assert.ErrorIs(t, err, pdfocr.ErrPersist)
}

func TestConvertFileBadPageSize(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.jpg")
	writeJPEG(t, src, 20, 20)

	_, err := New(helloEngine, WithPageSize("Napkin")).ConvertFile(context.Background(), src, "")
	assert.Error(t, err)
}

func TestConvertFileCanceled(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.jpg")
	writeJPEG(t, src, 20, 20)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(helloEngine).ConvertFile(ctx, src, "")
	assert.ErrorIs(t, err, context.Canceled)

	_, statErr := os.Stat(filepath.Join(dir, "a.pdf"))
	assert.True(t, os.IsNotExist(statErr), "no placeholder PDF for a canceled run")
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.jpg")
	writeJPEG(t, src, 40, 30)

	doc, sel, err := New(helloEngine).Inspect(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, "Hello World", sel.Text)
	require.Len(t, doc.Pages, 2)
	assert.NotNil(t, doc.Pages[0].Image)
	assert.Equal(t, "Hello World", doc.Pages[1].Lines[2].Text)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "nothing written")
}

func TestNewNormalizesExtensions(t *testing.T) {
	c := New(helloEngine, WithExtensions("PNG", ".Jpg", " "))
	assert.Equal(t, []string{".png", ".jpg"}, c.Extensions)
	assert.True(t, c.Matches("scan.JPG"))
	assert.True(t, c.Matches("scan.png"))
	assert.False(t, c.Matches("scan.jpeg"))
}

func TestPDFName(t *testing.T) {
	assert.Equal(t, "a.pdf", PDFName("a.jpg"))
	assert.Equal(t, "dir/scan.2024.pdf", PDFName("dir/scan.2024.JPEG"))
	assert.Equal(t, "noext.pdf", PDFName("noext"))
}

func TestConvertDir(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "out", "pdfs")

	writeJPEG(t, filepath.Join(src, "one.jpg"), 30, 20)
	writeJPEG(t, filepath.Join(src, "two.jpeg"), 20, 30)
	writeJPEG(t, filepath.Join(src, "THREE.JPG"), 25, 25)
	require.NoError(t, os.WriteFile(filepath.Join(src, "broken.jpg"), []byte{0xff, 0xd8, 0x00}, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "notes.txt"), []byte("skip me"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(src, "nested.jpg"), 0o755))

	var mu sync.Mutex
	var done []string
	c := New(helloEngine, WithOnFileDone(func(name string, _ Outcome) {
		mu.Lock()
		done = append(done, name)
		mu.Unlock()
	}))

	res, err := c.ConvertDir(context.Background(), src, dst)
	require.NoError(t, err)

	require.Len(t, res, 4)
	assert.Equal(t, []string{"THREE.JPG", "broken.jpg", "one.jpg", "two.jpeg"}, res.Names())
	assert.Equal(t, 3, res.Succeeded())
	assert.Equal(t, 1, res.Failed())
	assert.ElementsMatch(t, res.Names(), done)

	for _, name := range []string{"one.jpg", "two.jpeg", "THREE.JPG"} {
		o := res[name]
		require.True(t, o.Success(), name)
		assert.Equal(t, filepath.Join(dst, PDFName(name)), o.PDFPath)
		assert.Equal(t, "Hello World", o.Text)
		assert.FileExists(t, o.PDFPath)
	}

	bad := res["broken.jpg"]
	assert.False(t, bad.Success())
	assert.ErrorIs(t, bad.Err, imageprep.ErrImageDecode)
	assert.NotEmpty(t, bad.Error)
	assert.Empty(t, bad.PDFPath)
	assert.NoFileExists(t, filepath.Join(dst, "broken.pdf"))
}

func TestConvertDirRecordsPersistFailure(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeJPEG(t, filepath.Join(src, "a.jpg"), 20, 20)
	writeJPEG(t, filepath.Join(src, "b.jpg"), 20, 20)
	// A directory in the way of a.pdf makes the final rename fail.
	require.NoError(t, os.Mkdir(filepath.Join(dst, "a.pdf"), 0o755))

	res, err := New(helloEngine).ConvertDir(context.Background(), src, dst)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.ErrorIs(t, res["a.jpg"].Err, pdfocr.ErrPersist)
	assert.True(t, res["b.jpg"].Success())
}

func TestConvertDirParallelMatchesSequential(t *testing.T) {
	src := t.TempDir()
	for _, name := range []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg", "e.jpg"} {
		writeJPEG(t, filepath.Join(src, name), 24, 16)
	}

	seq, err := New(helloEngine).ConvertDir(context.Background(), src, t.TempDir())
	require.NoError(t, err)

	par, err := New(helloEngine,
		WithBatchWorkers(3),
		WithSearch(ocr.SearchOptions{Workers: 4}),
	).ConvertDir(context.Background(), src, t.TempDir())
	require.NoError(t, err)

	require.Equal(t, seq.Names(), par.Names())
	for _, name := range seq.Names() {
		assert.Equal(t, seq[name].Text, par[name].Text)
		assert.Equal(t, seq[name].Variant, par[name].Variant)
		assert.Equal(t, seq[name].Config, par[name].Config)
		assert.Equal(t, seq[name].Pages, par[name].Pages)
	}
}

func TestConvertDirEmpty(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "created")
	res, err := New(helloEngine).ConvertDir(context.Background(), t.TempDir(), dst)
	require.NoError(t, err)
	assert.Empty(t, res)
	assert.DirExists(t, dst)
}

func TestConvertDirErrors(t *testing.T) {
	_, err := New(helloEngine).ConvertDir(context.Background(), filepath.Join(t.TempDir(), "missing"), t.TempDir())
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	_, err = New(helloEngine).ConvertDir(context.Background(), t.TempDir(), filepath.Join(file, "sub"))
	assert.Error(t, err)
}
