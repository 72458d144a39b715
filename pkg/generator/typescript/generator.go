package typescript

import (
	"bytes"
	"embed"
	"fmt"
	"log/slog"
	"path/filepath"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/blimu-dev/openapi-gen/pkg/config"
	"github.com/blimu-dev/openapi-gen/pkg/generator/output"
	"github.com/blimu-dev/openapi-gen/pkg/ir"
)

//go:embed templates/*
var templatesFS embed.FS

// TypeScriptGenerator writes one client file per schema plus index.ts
type TypeScriptGenerator struct {
	logger *slog.Logger
}

// NewTypeScriptGenerator creates a new TypeScript generator
func NewTypeScriptGenerator(logger *slog.Logger) *TypeScriptGenerator {
	if logger == nil {
		logger = slog.Default()
	}
	return &TypeScriptGenerator{logger: logger}
}

// GetType returns the generator type identifier
func (g *TypeScriptGenerator) GetType() string {
	return config.TargetTypeScript
}

// Generate reconciles the model directory and writes the client models
func (g *TypeScriptGenerator) Generate(target config.Target, in ir.IR) error {
	if err := output.EnsureDir(target.OutDir); err != nil {
		return err
	}

	keep := make(map[string]bool, len(in.Schemas)+1)
	for _, s := range in.Schemas {
		keep[fileName(s.Name)] = true
	}
	keep[config.IndexFile] = true
	removed, err := output.Reconcile(target.OutDir, func(name string) bool {
		return keep[name] || target.IsIgnored(name)
	})
	if err != nil {
		return err
	}
	for _, name := range removed {
		g.logger.Debug("removed stale file", "dir", target.OutDir, "file", name)
	}

	funcMap := template.FuncMap{
		"lineComment": lineComment,
	}
	for k, v := range sprig.TxtFuncMap() {
		funcMap[k] = v
	}

	enums := in.EnumNames()
	for _, s := range in.Schemas {
		var parser string
		var helpers []string
		if !s.IsEnum() {
			d := buildDecoder(s, enums)
			parser, helpers = d.Source, d.Helpers
		}
		data := map[string]any{
			"Source":      in.Source,
			"Imports":     imports(s, helpers, target.RuntimeImport, enums),
			"Declaration": declaration(s),
			"Parser":      parser,
		}
		if err := renderFile("model.ts.gotmpl", filepath.Join(target.OutDir, fileName(s.Name)), funcMap, data); err != nil {
			return fmt.Errorf("schema %s: %w", s.Name, err)
		}
	}

	data := map[string]any{
		"Source":      in.Source,
		"Title":       in.Title,
		"Description": in.Description,
		"Schemas":     in.Schemas,
	}
	return renderFile("index.ts.gotmpl", filepath.Join(target.OutDir, config.IndexFile), funcMap, data)
}

func fileName(schema string) string {
	return schema + ".ts"
}

// renderFile renders a template file to the target path
func renderFile(templateName, targetPath string, funcMap template.FuncMap, data map[string]any) error {
	tmplContent, err := templatesFS.ReadFile("templates/" + templateName)
	if err != nil {
		return fmt.Errorf("failed to read template %s: %w", templateName, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcMap).Parse(string(tmplContent))
	if err != nil {
		return fmt.Errorf("failed to parse template %s: %w", templateName, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to execute template %s: %w", templateName, err)
	}
	return output.WriteFile(targetPath, buf.Bytes())
}
