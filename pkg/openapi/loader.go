package openapi

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"
)

// Document is a loaded OpenAPI document together with the declaration
// order of its mapping keys
type Document struct {
	// Source is the input as given by the caller
	Source string
	API    *openapi3.T

	loader *openapi3.Loader
	order  KeyOrder
}

// LoadDocument loads an OpenAPI document from a local file path or an HTTP(S) URL
func LoadDocument(input string) (*Document, error) {
	loader := &openapi3.Loader{IsExternalRefsAllowed: true}
	return LoadDocumentWithLoader(loader, input)
}

// LoadDocumentWithLoader loads an OpenAPI document using a custom loader
func LoadDocumentWithLoader(loader *openapi3.Loader, input string) (*Document, error) {
	doc := &Document{Source: input, loader: loader, order: KeyOrder{}}

	var err error
	if u, perr := url.Parse(input); perr == nil && (u.Scheme == "http" || u.Scheme == "https") {
		// remote documents fall back to lexicographic key order
		doc.API, err = loader.LoadFromURI(u)
	} else {
		var data []byte
		data, err = os.ReadFile(input)
		if err != nil {
			return nil, fmt.Errorf("failed to read OpenAPI document %s: %w", input, err)
		}
		doc.API, err = loader.LoadFromFile(input)
		if err == nil {
			if order, oerr := ParseKeyOrder(data); oerr == nil {
				doc.order = order
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI document %s: %w", input, err)
	}
	return doc, nil
}

// Validate checks the document against the OpenAPI schema rules
func (d *Document) Validate(ctx context.Context) error {
	if ctx == nil {
		ctx = d.loader.Context
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := d.API.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return &ValidationError{Source: d.Source, Err: err}
	}
	return nil
}

// ValidateDocument loads and validates an OpenAPI document
func ValidateDocument(ctx context.Context, input string) error {
	doc, err := LoadDocument(input)
	if err != nil {
		return err
	}
	return doc.Validate(ctx)
}

// Title returns info.title or an empty string
func (d *Document) Title() string {
	if d.API.Info == nil {
		return ""
	}
	return d.API.Info.Title
}

// Description returns info.description or an empty string
func (d *Document) Description() string {
	if d.API.Info == nil {
		return ""
	}
	return d.API.Info.Description
}

// SchemaNames returns the component schema names in declaration order
func (d *Document) SchemaNames() []string {
	if d.API.Components == nil || d.API.Components.Schemas == nil {
		return nil
	}
	names := make([]string, 0, len(d.API.Components.Schemas))
	for name := range d.API.Components.Schemas {
		names = append(names, name)
	}
	return d.order.Sort(Pointer("", "components", "schemas"), names)
}

// PathKeys returns the path templates in declaration order
func (d *Document) PathKeys() []string {
	if d.API.Paths == nil {
		return nil
	}
	paths := d.API.Paths.Map()
	keys := make([]string, 0, len(paths))
	for p := range paths {
		keys = append(keys, p)
	}
	sort.Strings(keys)
	return d.order.Sort(Pointer("", "paths"), keys)
}

// Order exposes the key order index for decoders
func (d *Document) Order() KeyOrder {
	return d.order
}
