package scandoc

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// BatchResult maps source file names to their outcomes.
type BatchResult map[string]Outcome

// Succeeded returns the number of files converted.
func (b BatchResult) Succeeded() int {
	n := 0
	for _, o := range b {
		if o.Success() {
			n++
		}
	}
	return n
}

// Failed returns the number of files that could not be converted.
func (b BatchResult) Failed() int { return len(b) - b.Succeeded() }

// Names returns the file names in sorted order.
func (b BatchResult) Names() []string {
	names := make([]string, 0, len(b))
	for name := range b {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Matches reports whether name has one of the converter's extensions.
func (c *Converter) Matches(name string) bool {
	return slices.Contains(c.Extensions, strings.ToLower(filepath.Ext(name)))
}

// ListSources returns the names of the regular files in dir that ConvertDir
// would convert, in directory order.
func (c *Converter) ListSources(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read source directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !c.Matches(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// ConvertDir converts every matching file in srcDir to <name>.pdf in dstDir,
// creating dstDir if needed. It returns after every file was attempted.
// Per-file failures are recorded in the result; the returned error is only
// set when srcDir cannot be listed or dstDir cannot be created.
func (c *Converter) ConvertDir(ctx context.Context, srcDir, dstDir string) (BatchResult, error) {
	names, err := c.ListSources(srcDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create destination directory: %w", err)
	}

	c.Logger.Info().
		Str("src", srcDir).
		Str("dst", dstDir).
		Int("files", len(names)).
		Msg("starting batch")

	var mu sync.Mutex
	result := make(BatchResult, len(names))
	convert := func(name string) {
		src := filepath.Join(srcDir, name)
		dst := filepath.Join(dstDir, PDFName(name))
		o, err := c.ConvertFile(ctx, src, dst)
		if err != nil {
			c.Logger.Warn().Err(err).Str("file", name).Msg("conversion failed")
		}

		mu.Lock()
		result[name] = o
		mu.Unlock()
		if c.OnFileDone != nil {
			c.OnFileDone(name, o)
		}
	}

	if c.BatchWorkers <= 1 {
		for _, name := range names {
			convert(name)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(c.BatchWorkers)
		for _, name := range names {
			name := name
			g.Go(func() error {
				convert(name)
				return nil
			})
		}
		_ = g.Wait()
	}

	c.Logger.Info().
		Int("succeeded", result.Succeeded()).
		Int("failed", result.Failed()).
		Msg("batch finished")
	return result, nil
}
