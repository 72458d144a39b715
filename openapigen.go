// Package openapigen generates backend and client models from an OpenAPI document.
//
// Every component schema becomes one Go file (struct, alias or string enum)
// and one TypeScript file (type plus a parse function that materialises
// dates and nested models). Go targets can also get a routers.go with path
// constants, a route table and a Router interface built from the operations.
//
// Quick Start:
//
//	import openapigen "github.com/blimu-dev/openapi-gen"
//
//	err := openapigen.GenerateFromConfig(ctx, "./openapi-gen.yaml")
//
// For more advanced usage, see the generator package.
package openapigen

import (
	"context"
	"log/slog"

	"github.com/blimu-dev/openapi-gen/pkg/generator"
)

// Options contains options for a generation run
type Options struct {
	// ConfigPath is the path to the configuration file (optional)
	ConfigPath string

	// OnlyDocument generates only the named document from config (optional)
	OnlyDocument string

	// Spec and OutBase override the built-in document when no config is given
	Spec    string
	OutBase string

	// Logger receives phase timings and counts (optional)
	Logger *slog.Logger
}

// Generate runs the generator with full configuration options.
//
// Example:
//
//	err := openapigen.Generate(ctx, openapigen.Options{
//		Spec:    "./specs/openapi.yaml",
//		OutBase: "./gen",
//	})
func Generate(ctx context.Context, opts Options) error {
	return generator.Generate(ctx, generator.Options{
		ConfigPath:   opts.ConfigPath,
		OnlyDocument: opts.OnlyDocument,
		Spec:         opts.Spec,
		OutBase:      opts.OutBase,
		Logger:       opts.Logger,
	})
}

// GenerateFromConfig generates every document of a YAML configuration file.
// Optionally, a single document name restricts the run to that document.
func GenerateFromConfig(ctx context.Context, configPath string, onlyDocument ...string) error {
	return generator.GenerateFromConfig(ctx, configPath, onlyDocument...)
}

// ValidateSpec validates an OpenAPI document file or URL.
//
// Example:
//
//	if err := openapigen.ValidateSpec(ctx, "./openapi.yaml"); err != nil {
//		log.Fatalf("Invalid OpenAPI spec: %v", err)
//	}
func ValidateSpec(ctx context.Context, specPath string) error {
	return generator.ValidateSpec(ctx, specPath)
}
