package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/blimu-dev/openapi-gen/pkg/generator"
)

// RunGenerateParams mirrors the root command flags
type RunGenerateParams struct {
	Verbose    bool
	Root       string
	File       string
	Out        string
	ConfigPath string
	Document   string
}

// RunGenerate switches to the requested working directory and runs every
// configured document. Without a config file the built-in document is used,
// with File and Out overriding its paths.
func RunGenerate(ctx context.Context, p RunGenerateParams) error {
	if p.Root != "" {
		if err := os.Chdir(p.Root); err != nil {
			return fmt.Errorf("failed to change working directory: %w", err)
		}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	return generator.Generate(ctx, generator.Options{
		ConfigPath:   p.ConfigPath,
		OnlyDocument: p.Document,
		Spec:         p.File,
		OutBase:      p.Out,
		Logger:       NewLogger(os.Stderr, p.Verbose),
	})
}

// RunValidate loads and validates a single document
func RunValidate(ctx context.Context, input string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	return generator.ValidateSpec(ctx, input)
}

// NewLogger returns a text logger on w; verbose enables timings and counts
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
