package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Target types understood by the generator registry
const (
	TargetGo         = "go"
	TargetTypeScript = "typescript"
)

// Defaults applied by Load and Default
const (
	DefaultPackageName   = "openapi"
	DefaultBasePath      = "/v1"
	DefaultRuntimeImport = "../../runtime"
	// RoutersFile is the route table written by go targets with routers enabled
	RoutersFile = "routers.go"
	// IndexFile is the registry written by typescript targets
	IndexFile = "index.ts"
)

// Config lists the documents to generate, processed in order
type Config struct {
	Documents []Document `yaml:"documents"`
}

// Document is one OpenAPI document and the targets generated from it
type Document struct {
	Name    string   `yaml:"name"`
	Spec    string   `yaml:"spec"`
	Targets []Target `yaml:"targets"`
}

// Target configures one emitter run
type Target struct {
	Type   string `yaml:"type"`
	OutDir string `yaml:"outDir"`
	// PackageName is the Go package of generated backend files
	PackageName string `yaml:"packageName"`
	// WithRouters adds routers.go with path constants, routes and the Router interface
	WithRouters bool `yaml:"withRouters"`
	// BasePath prefixes every route path constant
	BasePath string `yaml:"basePath"`
	// RuntimeImport is the module client files import runtime helpers from
	RuntimeImport string `yaml:"runtimeImport"`
	// IgnoredFiles are file names in OutDir that survive reconciliation
	IgnoredFiles []string `yaml:"ignoredFiles"`
	// IncludeTags and ExcludeTags are regexes filtering the route table
	IncludeTags []string `yaml:"includeTags"`
	ExcludeTags []string `yaml:"excludeTags"`
	// PreCommand is an optional command to run before generation.
	// Uses Docker Compose array format: ["goimports", "-w", "."]
	// The command will be executed in the output directory.
	PreCommand []string `yaml:"preCommand"`
	// PostCommand is an optional command to run after generation completes,
	// in the same format and directory as PreCommand.
	PostCommand []string `yaml:"postCommand"`
}

// GetPreCommand returns the pre-generation command to execute.
func (t *Target) GetPreCommand() []string {
	return t.PreCommand
}

// GetPostCommand returns the post-generation command to execute.
func (t *Target) GetPostCommand() []string {
	return t.PostCommand
}

// IsIgnored reports whether a file name in OutDir is protected from deletion
func (t *Target) IsIgnored(fileName string) bool {
	for _, f := range t.IgnoredFiles {
		if f == fileName {
			return true
		}
	}
	return false
}

// Load loads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the built-in single document setup. spec and base may be
// overridden; the backend models go to <base>/go and client models to <base>/ts.
func Default(spec, base string) *Config {
	if spec == "" {
		spec = filepath.Join("services", "gateway", "openapi", "specs", "openapi.yaml")
	}
	if base == "" {
		base = filepath.Join("services", "gateway", "openapi")
	}
	cfg := &Config{
		Documents: []Document{{
			Name: "GATEWAY",
			Spec: spec,
			Targets: []Target{
				{Type: TargetGo, OutDir: filepath.Join(base, "go"), WithRouters: true},
				{Type: TargetTypeScript, OutDir: filepath.Join(base, "ts")},
			},
		}},
	}
	// normalize cannot fail here: every required field is set
	_ = cfg.normalize()
	return cfg
}

func (cfg *Config) normalize() error {
	if len(cfg.Documents) == 0 {
		return errors.New("config.documents must not be empty")
	}
	names := map[string]bool{}
	for i := range cfg.Documents {
		d := &cfg.Documents[i]
		if d.Name == "" || d.Spec == "" {
			return fmt.Errorf("documents[%d] missing required fields (name, spec)", i)
		}
		if names[d.Name] {
			return fmt.Errorf("documents[%d]: duplicate document name %q", i, d.Name)
		}
		names[d.Name] = true
		// Do not absolutize when spec is an HTTP(S) URL
		if u, err := url.Parse(d.Spec); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
			// keep as-is
		} else {
			d.Spec = filepath.Clean(d.Spec)
		}
		for j := range d.Targets {
			t := &d.Targets[j]
			if t.Type == "" || t.OutDir == "" {
				return fmt.Errorf("documents[%d].targets[%d] missing required fields (type, outDir)", i, j)
			}
			if !filepath.IsAbs(t.OutDir) {
				abs, _ := filepath.Abs(t.OutDir)
				t.OutDir = abs
			}
			if t.PackageName == "" {
				t.PackageName = DefaultPackageName
			}
			if t.BasePath == "" {
				t.BasePath = DefaultBasePath
			}
			if t.RuntimeImport == "" {
				t.RuntimeImport = DefaultRuntimeImport
			}
		}
	}
	return nil
}
