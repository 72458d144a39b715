package generator

import (
	"context"
	"log/slog"

	"github.com/blimu-dev/openapi-gen/pkg/config"
	"github.com/blimu-dev/openapi-gen/pkg/openapi"
)

// Options selects what a convenience run generates
type Options struct {
	// ConfigPath is the path to the configuration file (optional)
	ConfigPath string

	// OnlyDocument generates only the named document from config (optional)
	OnlyDocument string

	// Spec and OutBase override the built-in document when no config file is given
	Spec    string
	OutBase string

	// Logger receives phase timings and counts; nil uses slog.Default()
	Logger *slog.Logger
}

// Generate runs the pipeline for a config file, or for the built-in
// document when opts.ConfigPath is empty
func Generate(ctx context.Context, opts Options) error {
	var cfg *config.Config
	if opts.ConfigPath == "" {
		cfg = config.Default(opts.Spec, opts.OutBase)
	} else {
		var err error
		cfg, err = config.Load(opts.ConfigPath)
		if err != nil {
			return err
		}
	}
	return NewService(opts.Logger).GenerateFromConfig(ctx, cfg, opts.OnlyDocument)
}

// GenerateFromConfig is a convenience function for generating from a config file
func GenerateFromConfig(ctx context.Context, configPath string, onlyDocument ...string) error {
	only := ""
	if len(onlyDocument) > 0 {
		only = onlyDocument[0]
	}
	return Generate(ctx, Options{ConfigPath: configPath, OnlyDocument: only})
}

// ValidateSpec validates an OpenAPI specification
func ValidateSpec(ctx context.Context, specPath string) error {
	return openapi.ValidateDocument(ctx, specPath)
}
