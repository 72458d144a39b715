package generator

import (
	"fmt"
	"log/slog"
	"regexp"

	"github.com/blimu-dev/openapi-gen/pkg/config"
	"github.com/blimu-dev/openapi-gen/pkg/ir"
	"github.com/blimu-dev/openapi-gen/pkg/openapi"
)

// buildIR resolves every component schema and collects the requests of a document
func buildIR(doc *openapi.Document, logger *slog.Logger) (ir.IR, error) {
	result := ir.IR{
		Source:      doc.Source,
		Title:       doc.Title(),
		Description: doc.Description(),
	}

	for _, name := range doc.SchemaNames() {
		node, err := doc.DecodeSchema(name)
		if err != nil {
			return ir.IR{}, err
		}
		schema, err := resolveSchema(name, node)
		if err != nil {
			return ir.IR{}, err
		}
		logger.Debug("resolved schema", "schema", name, "kind", schema.Spec.Kind, "refs", len(schema.Meta.SchemaRefs))
		result.Schemas = append(result.Schemas, schema)
	}

	requests, err := collectRequests(doc)
	if err != nil {
		return ir.IR{}, err
	}
	result.Requests = requests
	return result, nil
}

// filterIR narrows the requests of an IR to the tags a target accepts.
// Schemas are never filtered: the model directory mirrors the whole document.
func filterIR(full ir.IR, target config.Target) (ir.IR, error) {
	include, exclude, err := compileTagFilters(target.IncludeTags, target.ExcludeTags)
	if err != nil {
		return ir.IR{}, err
	}
	if len(include) == 0 && len(exclude) == 0 {
		return full, nil
	}
	filtered := full
	filtered.Requests = make([]ir.Request, 0, len(full.Requests))
	for _, req := range full.Requests {
		tags := req.Tags
		if len(tags) == 0 {
			tags = []string{defaultCategory}
		}
		if shouldIncludeOperation(tags, include, exclude) {
			filtered.Requests = append(filtered.Requests, req)
		}
	}
	return filtered, nil
}

// compileTagFilters compiles regex patterns for tag filtering
func compileTagFilters(include, exclude []string) ([]*regexp.Regexp, []*regexp.Regexp, error) {
	inc := make([]*regexp.Regexp, 0, len(include))
	for _, p := range include {
		r, err := regexp.Compile(p)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid includeTags pattern %q: %w", p, err)
		}
		inc = append(inc, r)
	}
	exc := make([]*regexp.Regexp, 0, len(exclude))
	for _, p := range exclude {
		r, err := regexp.Compile(p)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid excludeTags pattern %q: %w", p, err)
		}
		exc = append(exc, r)
	}
	return inc, exc, nil
}

// shouldIncludeOperation keeps an operation when any tag matches an include
// pattern (or there are none) and no tag matches an exclude pattern
func shouldIncludeOperation(tags []string, include, exclude []*regexp.Regexp) bool {
	included := len(include) == 0
	for _, tag := range tags {
		if included {
			break
		}
		for _, r := range include {
			if r.MatchString(tag) {
				included = true
				break
			}
		}
	}
	if !included {
		return false
	}

	for _, tag := range tags {
		for _, r := range exclude {
			if r.MatchString(tag) {
				return false
			}
		}
	}
	return true
}
