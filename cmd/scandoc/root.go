package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gardar/scandoc/pkg/scandoc"
)

// app carries state shared by the subcommands.
type app struct {
	configPath string
	envFile    string
	logLevel   string
	logFormat  string

	cfg    *config
	logger zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "scandoc",
		Short: "Turn photographed documents into searchable PDFs",
		Long: `scandoc reads document photos, enhances them for OCR, tries several
recognition settings to find the most complete text, and writes a PDF holding
the original photo followed by the extracted text.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd.ErrOrStderr())
		},
	}

	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "path to the YAML configuration file")
	cmd.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file to load if present")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&a.logFormat, "log-format", "console", "log format (console, json)")

	cmd.AddCommand(newConvertCmd(a), newBatchCmd(a), newInspectCmd(a))
	return cmd
}

func (a *app) init(logOut io.Writer) error {
	logger, err := newLogger(a.logLevel, a.logFormat, logOut)
	if err != nil {
		return err
	}
	a.logger = logger

	if err := loadDotenv(a.envFile); err != nil {
		return err
	}
	cfg, err := loadConfig(a.configPath)
	if err != nil {
		return err
	}
	cfg.applyEnv(os.Getenv)
	if err := cfg.validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	a.cfg = cfg
	return nil
}

// converter builds the configured engine and a Converter around it.
func (a *app) converter(ctx context.Context, extra ...scandoc.Option) (*scandoc.Converter, func() error, error) {
	engine, closeEngine, err := newEngine(ctx, a.cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up %s engine: %w", a.cfg.Engine, err)
	}
	a.logger.Debug().Str("engine", a.cfg.Engine).Str("language", a.cfg.Language).Msg("engine ready")

	opts := append(a.cfg.converterOptions(), scandoc.WithLogger(a.logger))
	return scandoc.New(engine, append(opts, extra...)...), closeEngine, nil
}

// newLogger builds a zerolog logger writing to w.
func newLogger(level, format string, w io.Writer) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q", level)
	}

	var out io.Writer
	switch format {
	case "console", "":
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	case "json":
		out = w
	default:
		return zerolog.Nop(), fmt.Errorf("invalid log format %q", format)
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), nil
}
