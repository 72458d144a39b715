package golang

import (
	"bytes"
	"embed"
	"fmt"
	"go/format"
	"log/slog"
	"path/filepath"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/blimu-dev/openapi-gen/pkg/config"
	"github.com/blimu-dev/openapi-gen/pkg/generator/output"
	"github.com/blimu-dev/openapi-gen/pkg/ir"
	"github.com/blimu-dev/openapi-gen/pkg/utils"
)

//go:embed templates/*
var templatesFS embed.FS

// indexRequest is the synthetic route prepended to every route table
var indexRequest = ir.Request{Path: "/", Method: "GET", Name: ir.IndexRequestName, Category: ir.IndexRequestName}

// GoGenerator writes one Go file per schema and optionally routers.go
type GoGenerator struct {
	logger *slog.Logger
}

// NewGoGenerator creates a new Go generator
func NewGoGenerator(logger *slog.Logger) *GoGenerator {
	if logger == nil {
		logger = slog.Default()
	}
	return &GoGenerator{logger: logger}
}

// GetType returns the generator type identifier
func (g *GoGenerator) GetType() string {
	return config.TargetGo
}

// route is one row of the generated route table
type route struct {
	Name        string
	Method      string
	Pattern     string
	Description string
	Permissions []string
}

// Generate reconciles the model directory and writes every schema file
func (g *GoGenerator) Generate(target config.Target, in ir.IR) error {
	if err := output.EnsureDir(target.OutDir); err != nil {
		return err
	}

	keep := make(map[string]bool, len(in.Schemas)+1)
	for _, s := range in.Schemas {
		keep[fileName(s.Name)] = true
	}
	if target.WithRouters {
		keep[config.RoutersFile] = true
	}
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
		"formatGoComment": formatGoComment,
	}
	for k, v := range sprig.TxtFuncMap() {
		funcMap[k] = v
	}
	pkg := sanitizePackageName(target.PackageName)

	for _, s := range in.Schemas {
		data := map[string]any{
			"Source":      in.Source,
			"Package":     pkg,
			"Imports":     s.Meta.BackendImports.Items(),
			"Declaration": declaration(s),
		}
		if err := renderFile("model.go.gotmpl", filepath.Join(target.OutDir, fileName(s.Name)), funcMap, data); err != nil {
			return fmt.Errorf("schema %s: %w", s.Name, err)
		}
	}

	if !target.WithRouters {
		return nil
	}
	data := map[string]any{
		"Source":      in.Source,
		"Title":       in.Title,
		"Description": in.Description,
		"Package":     pkg,
		"Routes":      routes(in.Requests, target.BasePath),
	}
	return renderFile("routers.go.gotmpl", filepath.Join(target.OutDir, config.RoutersFile), funcMap, data)
}

// routes prepends the index request and applies Go naming to the table
func routes(requests []ir.Request, basePath string) []route {
	all := append([]ir.Request{indexRequest}, requests...)
	out := make([]route, 0, len(all))
	for _, r := range all {
		out = append(out, route{
			Name:        utils.ExportedName(r.Name),
			Method:      routeMethod(r.Method),
			Pattern:     joinPath(basePath, r.Path),
			Description: oneLine(r.Description),
			Permissions: r.Permissions,
		})
	}
	return out
}

func fileName(schema string) string {
	return schema + ".go"
}

// renderFile renders a template, formats it as Go source and writes it atomically
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

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return fmt.Errorf("failed to format %s: %w", targetPath, err)
	}
	return output.WriteFile(targetPath, src)
}
