package openapi

import "fmt"

// ValidationError is returned when the validator rejects a document
type ValidationError struct {
	Source string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("OpenAPI validation error in %s: %v", e.Source, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// UnsupportedSchemaError is returned for a schema node no decoding rule accepts
type UnsupportedSchemaError struct {
	// Schema is the owning top-level schema
	Schema  string
	Pointer string
	// Node is an indented JSON dump of the offending node
	Node string
}

func (e *UnsupportedSchemaError) Error() string {
	return fmt.Sprintf("unsupported property on schema %q at %s:\n\n%s", e.Schema, e.Pointer, e.Node)
}
