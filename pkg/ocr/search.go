package ocr

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/gardar/scandoc/pkg/imageprep"
)

// SearchOptions controls how the candidate grid is evaluated.
type SearchOptions struct {
	Language string         // Tesseract language tag, e.g. "eng" or "eng+deu"
	Workers  int            // Concurrent engine calls; <= 1 evaluates sequentially
	Timeout  time.Duration  // Bound on each engine call; 0 means no bound
	Logger   zerolog.Logger // Debug output for each attempt
}

// DefaultLanguage is used when SearchOptions.Language is empty.
const DefaultLanguage = "eng"

// Attempt is the outcome of recognizing one variant with one config.
type Attempt struct {
	Variant string            // Variant tag
	Config  RecognitionConfig // Config used for the call
	Text    string            // Recognized text, empty on failure
	Err     error             // Non-nil if the engine call failed
}

// Selection is the winning candidate of a search.
type Selection struct {
	Text    string            // Trimmed text of the winner, "" if nothing was found
	Variant string            // Variant tag of the winner
	Config  RecognitionConfig // Config of the winner
	Index   int               // Grid index of the winner, -1 if nothing was found
}

// Found reports whether any candidate produced non-blank text.
func (s Selection) Found() bool { return s.Index >= 0 }

// trimmedLen counts the characters left after trimming surrounding whitespace.
func trimmedLen(s string) int {
	return utf8.RuneCountInString(strings.TrimSpace(s))
}

// Select applies the selection rule to attempts in the order given.
// A candidate replaces the current best only if its trimmed length is
// strictly greater, so the earliest of equally long candidates wins.
// Failed attempts are treated as empty text.
func Select(attempts []Attempt) Selection {
	best := Selection{Index: -1}
	bestLen := 0
	for i, a := range attempts {
		if a.Err != nil {
			continue
		}
		if n := trimmedLen(a.Text); n > bestLen {
			bestLen = n
			best = Selection{
				Text:    strings.TrimSpace(a.Text),
				Variant: a.Variant,
				Config:  a.Config,
				Index:   i,
			}
		}
	}
	return best
}

// Search recognizes every variant with every config and selects the best
// text. Variants form the outer loop and configs the inner loop. Engine
// failures never abort the search; they count as empty results.
func Search(ctx context.Context, engine Engine, variants []imageprep.Variant, configs []RecognitionConfig, opts SearchOptions) Selection {
	attempts := Evaluate(ctx, engine, variants, configs, opts)
	sel := Select(attempts)

	if sel.Found() {
		opts.Logger.Debug().
			Str("variant", sel.Variant).
			Str("config", sel.Config.Name).
			Int("chars", trimmedLen(sel.Text)).
			Msg("selected OCR candidate")
	} else {
		opts.Logger.Debug().Int("attempts", len(attempts)).Msg("no OCR candidate produced text")
	}
	return sel
}

// Evaluate runs the full variant x config grid and returns the attempts in
// grid order, regardless of the order in which concurrent calls finish.
func Evaluate(ctx context.Context, engine Engine, variants []imageprep.Variant, configs []RecognitionConfig, opts SearchOptions) []Attempt {
	lang := opts.Language
	if lang == "" {
		lang = DefaultLanguage
	}

	attempts := make([]Attempt, len(variants)*len(configs))
	run := func(i int) {
		v := variants[i/len(configs)]
		cfg := configs[i%len(configs)]
		attempts[i] = attempt(ctx, engine, v, cfg, lang, opts)
	}

	if opts.Workers <= 1 {
		for i := range attempts {
			run(i)
		}
		return attempts
	}

	var g errgroup.Group
	g.SetLimit(opts.Workers)
	for i := range attempts {
		i := i
		g.Go(func() error {
			run(i)
			return nil
		})
	}
	_ = g.Wait()
	return attempts
}

func attempt(ctx context.Context, engine Engine, v imageprep.Variant, cfg RecognitionConfig, lang string, opts SearchOptions) Attempt {
	a := Attempt{Variant: v.Tag, Config: cfg}
	if err := ctx.Err(); err != nil {
		a.Err = err
		return a
	}

	callCtx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	start := time.Now()
	a.Text, a.Err = engine.Recognize(callCtx, v.Image, cfg, lang)
	if a.Err != nil {
		a.Text = ""
		opts.Logger.Debug().
			Err(a.Err).
			Str("variant", v.Tag).
			Str("config", cfg.Name).
			Msg("OCR attempt failed")
		return a
	}
	opts.Logger.Debug().
		Str("variant", v.Tag).
		Str("config", cfg.Name).
		Int("chars", trimmedLen(a.Text)).
		Dur("took", time.Since(start)).
		Msg("OCR attempt finished")
	return a
}
