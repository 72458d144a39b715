package generator

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/blimu-dev/openapi-gen/pkg/config"
	"github.com/blimu-dev/openapi-gen/pkg/generator/golang"
	"github.com/blimu-dev/openapi-gen/pkg/generator/output"
	"github.com/blimu-dev/openapi-gen/pkg/generator/typescript"
	"github.com/blimu-dev/openapi-gen/pkg/ir"
	"github.com/blimu-dev/openapi-gen/pkg/openapi"
)

// Generator emits the files of one target from a resolved IR
type Generator interface {
	// Generate writes the target's files into target.OutDir
	Generate(target config.Target, in ir.IR) error
	// GetType returns the type identifier for this generator (e.g., "typescript")
	GetType() string
}

// Registry manages available generators
type Registry struct {
	generators map[string]Generator
}

// NewRegistry creates a new generator registry
func NewRegistry() *Registry {
	return &Registry{
		generators: make(map[string]Generator),
	}
}

// Register adds a generator to the registry
func (r *Registry) Register(gen Generator) {
	r.generators[gen.GetType()] = gen
}

// Get retrieves a generator by type
func (r *Registry) Get(genType string) (Generator, bool) {
	gen, exists := r.generators[genType]
	return gen, exists
}

// GetAvailableTypes returns all registered generator types, sorted
func (r *Registry) GetAvailableTypes() []string {
	types := make([]string, 0, len(r.generators))
	for t := range r.generators {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Service runs the whole pipeline for every configured document
type Service struct {
	registry *Registry
	logger   *slog.Logger
}

// NewService creates a service with the Go and TypeScript generators registered
func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	registry := NewRegistry()
	registry.Register(golang.NewGoGenerator(logger))
	registry.Register(typescript.NewTypeScriptGenerator(logger))
	return &Service{registry: registry, logger: logger}
}

// NewServiceWithRegistry creates a new generator service with a custom registry
func NewServiceWithRegistry(registry *Registry, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{registry: registry, logger: logger}
}

// GetRegistry returns the generator registry
func (s *Service) GetRegistry() *Registry {
	return s.registry
}

// GenerateFromConfig processes the documents of cfg one after another.
// When onlyDocument is set every other document is skipped. The first
// error aborts the run.
func (s *Service) GenerateFromConfig(ctx context.Context, cfg *config.Config, onlyDocument string) error {
	found := onlyDocument == ""
	for _, doc := range cfg.Documents {
		if onlyDocument != "" && doc.Name != onlyDocument {
			continue
		}
		found = true
		if err := s.generateDocument(ctx, doc); err != nil {
			return fmt.Errorf("document %s: %w", doc.Name, err)
		}
	}
	if !found {
		return fmt.Errorf("document %q not found in config", onlyDocument)
	}
	return nil
}

func (s *Service) generateDocument(ctx context.Context, d config.Document) error {
	logger := s.logger.With("document", d.Name)

	done := timePhase(logger, "load")
	loader := &openapi3.Loader{IsExternalRefsAllowed: true, Context: ctx}
	doc, err := openapi.LoadDocumentWithLoader(loader, d.Spec)
	if err != nil {
		return err
	}
	done()

	done = timePhase(logger, "validate")
	if err := doc.Validate(ctx); err != nil {
		return err
	}
	done()

	done = timePhase(logger, "resolve")
	fullIR, err := buildIR(doc, logger)
	if err != nil {
		return err
	}
	done()
	logger.Info("resolved document", "schemas.count", len(fullIR.Schemas), "requests.count", len(fullIR.Requests))

	for _, target := range d.Targets {
		generator, exists := s.registry.Get(target.Type)
		if !exists {
			return fmt.Errorf("unsupported target type: %s (available: %s)", target.Type, strings.Join(s.registry.GetAvailableTypes(), ", "))
		}

		// Ensure output directory exists before pre-commands
		if err := output.EnsureDir(target.OutDir); err != nil {
			return fmt.Errorf("failed to create output directory for target %s: %w", target.Type, err)
		}

		if err := s.executePreCommands(target); err != nil {
			return fmt.Errorf("pre-generation commands failed for target %s: %w", target.Type, err)
		}

		filteredIR, err := filterIR(fullIR, target)
		if err != nil {
			return err
		}

		done = timePhase(logger, "emit "+target.Type)
		if err := generator.Generate(target, filteredIR); err != nil {
			return err
		}
		done()

		if err := s.executePostGenCommands(target); err != nil {
			return fmt.Errorf("post-generation commands failed for target %s: %w", target.Type, err)
		}
	}
	return nil
}

// timePhase logs the duration of a phase when the returned func is called
func timePhase(logger *slog.Logger, label string) func() {
	start := time.Now()
	return func() {
		logger.Debug("phase finished", "phase", label, "duration", time.Since(start))
	}
}

// executePreCommands executes the pre-generation command for a target
func (s *Service) executePreCommands(target config.Target) error {
	command := target.GetPreCommand()
	if len(command) == 0 {
		return nil // No command to execute
	}

	return s.executeCommand(command, target.OutDir, "pre-command")
}

// executePostGenCommands executes the post-generation command for a target
func (s *Service) executePostGenCommands(target config.Target) error {
	command := target.GetPostCommand()
	if len(command) == 0 {
		return nil // No command to execute
	}

	return s.executeCommand(command, target.OutDir, "post-command")
}

// executeCommand executes a single command in Docker Compose array format
func (s *Service) executeCommand(command []string, workDir, commandLabel string) error {
	if len(command) == 0 {
		return nil
	}

	cmd := exec.Command(command[0], command[1:]...)
	cmd.Dir = workDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	cmdDescription := strings.Join(command, " ")
	s.logger.Debug("running command", "label", commandLabel, "command", cmdDescription, "dir", workDir)

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s (%s) failed: %w", commandLabel, cmdDescription, err)
	}

	return nil
}
