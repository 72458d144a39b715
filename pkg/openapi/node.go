package openapi

import (
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/goccy/go-json"

	"github.com/blimu-dev/openapi-gen/pkg/ir"
)

// Custom extension fields recognised on properties and operations
const (
	ExtExtraTags   = "x-extra-tags"
	ExtPermissions = "x-permissions"
)

// PermissionsTag is the extra tag key permissions are normalised to
const PermissionsTag = "permissions"

// NodeKind is the recognised shape of a schema node
type NodeKind string

const (
	NodeAllOf   NodeKind = "allOf"
	NodeString  NodeKind = "string"
	NodeNumber  NodeKind = "number"
	NodeBoolean NodeKind = "boolean"
	NodeInteger NodeKind = "integer"
	NodeRef     NodeKind = "ref"
	NodeArray   NodeKind = "array"
	NodeMap     NodeKind = "map"
	NodeObject  NodeKind = "object"
)

// Node is the decoded input form of a schema. Only the fields belonging to
// Kind are set; the annotations apply to every kind.
type Node struct {
	Kind    NodeKind
	Pointer string

	// String and Integer
	Format string
	// String enumerations, declaration order
	Enum []string

	// Ref holds the referenced schema name
	Ref string

	// Elem is the items schema of an array or the value schema of a map
	Elem *Node

	// Members of an allOf: inline objects and references only
	Members []*Node

	// Object
	Properties []Property

	// Annotations
	Nullable    bool
	Description string
	ExtraTags   []ir.ExtraTag
}

// Property is a named member of an object node
type Property struct {
	Name     string
	Required bool
	Schema   *Node
}

// DecodeSchema decodes the named component schema
func (d *Document) DecodeSchema(name string) (*Node, error) {
	var sr *openapi3.SchemaRef
	if d.API.Components != nil {
		sr = d.API.Components.Schemas[name]
	}
	dec := decoder{schema: name, order: d.order}
	return dec.decode(sr, Pointer("", "components", "schemas", name))
}

type decoder struct {
	schema string
	order  KeyOrder
}

func (dec decoder) decode(sr *openapi3.SchemaRef, pointer string) (*Node, error) {
	if sr == nil {
		return nil, dec.unsupported(pointer, nil)
	}
	if sr.Ref != "" {
		// x- siblings of a $ref land on the SchemaRef, not the resolved value
		tags, err := dec.extraTags(sr.Extensions, pointer)
		if err != nil {
			return nil, err
		}
		return &Node{Kind: NodeRef, Pointer: pointer, Ref: RefName(sr.Ref), ExtraTags: tags}, nil
	}
	s := sr.Value
	if s == nil {
		return nil, dec.unsupported(pointer, nil)
	}

	n := &Node{Pointer: pointer, Nullable: s.Nullable, Description: s.Description}
	tags, err := dec.extraTags(s.Extensions, pointer)
	if err != nil {
		return nil, err
	}
	n.ExtraTags = tags

	switch {
	case isSingleRefAllOf(s):
		n.Kind = NodeRef
		n.Ref = RefName(s.AllOf[0].Ref)
	case len(s.AllOf) > 0:
		n.Kind = NodeAllOf
		for i, member := range s.AllOf {
			mp := Pointer(pointer, "allOf", fmt.Sprint(i))
			switch {
			case member == nil:
				continue
			case member.Ref != "":
				n.Members = append(n.Members, &Node{Kind: NodeRef, Pointer: mp, Ref: RefName(member.Ref)})
			case member.Value != nil && isObject(member.Value):
				props, err := dec.properties(member.Value, mp)
				if err != nil {
					return nil, err
				}
				n.Members = append(n.Members, &Node{Kind: NodeObject, Pointer: mp, Properties: props})
			}
		}
	case typeIs(s, openapi3.TypeString):
		n.Kind = NodeString
		n.Format = s.Format
		for _, v := range s.Enum {
			n.Enum = append(n.Enum, fmt.Sprint(v))
		}
	case typeIs(s, openapi3.TypeNumber):
		n.Kind = NodeNumber
	case typeIs(s, openapi3.TypeBoolean):
		n.Kind = NodeBoolean
	case typeIs(s, openapi3.TypeInteger):
		n.Kind = NodeInteger
		n.Format = s.Format
	case s.Items != nil:
		// some documents omit type: array, so items alone decides
		n.Kind = NodeArray
		n.Elem, err = dec.decode(s.Items, Pointer(pointer, "items"))
	case s.AdditionalProperties.Schema != nil:
		n.Kind = NodeMap
		n.Elem, err = dec.decode(s.AdditionalProperties.Schema, Pointer(pointer, "additionalProperties"))
	case isObject(s):
		n.Kind = NodeObject
		n.Properties, err = dec.properties(s, pointer)
	default:
		return nil, dec.unsupported(pointer, s)
	}
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (dec decoder) properties(s *openapi3.Schema, pointer string) ([]Property, error) {
	required := make(map[string]bool, len(s.Required))
	for _, r := range s.Required {
		required[r] = true
	}
	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	propsPointer := Pointer(pointer, "properties")
	names = dec.order.Sort(propsPointer, names)

	out := make([]Property, 0, len(names))
	for _, name := range names {
		node, err := dec.decode(s.Properties[name], Pointer(propsPointer, name))
		if err != nil {
			return nil, err
		}
		out = append(out, Property{Name: name, Required: required[name], Schema: node})
	}
	return out, nil
}

// extraTags reads x-extra-tags (in declaration order) followed by x-permissions
func (dec decoder) extraTags(ext map[string]any, pointer string) ([]ir.ExtraTag, error) {
	var tags []ir.ExtraTag
	if raw, ok := ext[ExtExtraTags]; ok {
		m, err := asMap(raw)
		if err != nil {
			return nil, fmt.Errorf("%s at %s in schema %q: %w", ExtExtraTags, pointer, dec.schema, err)
		}
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		for _, k := range dec.order.Sort(Pointer(pointer, ExtExtraTags), keys) {
			tags = append(tags, ir.ExtraTag{Key: k, Value: fmt.Sprint(m[k])})
		}
	}
	if _, ok := ext[ExtPermissions]; ok {
		perms, err := Permissions(ext)
		if err != nil {
			return nil, fmt.Errorf("%s at %s in schema %q: %w", ExtPermissions, pointer, dec.schema, err)
		}
		tags = append(tags, ir.ExtraTag{Key: PermissionsTag, Value: strings.Join(perms, ",")})
	}
	return tags, nil
}

// Permissions returns the x-permissions list of an extension map
func Permissions(ext map[string]any) ([]string, error) {
	raw, ok := ext[ExtPermissions]
	if !ok || raw == nil {
		return nil, nil
	}
	v, err := normalize(raw)
	if err != nil {
		return nil, err
	}
	switch list := v.(type) {
	case []any:
		out := make([]string, 0, len(list))
		for _, p := range list {
			out = append(out, fmt.Sprint(p))
		}
		return out, nil
	case string:
		return []string{list}, nil
	}
	return nil, fmt.Errorf("expected a list of strings, got %T", v)
}

func asMap(raw any) (map[string]any, error) {
	v, err := normalize(raw)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected a string map, got %T", v)
	}
	return m, nil
}

// normalize decodes extension values that arrive as raw JSON
func normalize(raw any) (any, error) {
	var data []byte
	switch r := raw.(type) {
	case []byte:
		data = r
	case json.Marshaler:
		// json.RawMessage from either codec
		b, err := r.MarshalJSON()
		if err != nil {
			return nil, err
		}
		data = b
	default:
		return raw, nil
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func (dec decoder) unsupported(pointer string, s *openapi3.Schema) error {
	dump := "null"
	if s != nil {
		if data, err := json.MarshalIndent(s, "", "  "); err == nil {
			dump = string(data)
		}
	}
	return &UnsupportedSchemaError{Schema: dec.schema, Pointer: pointer, Node: dump}
}

// RefName returns the last path segment of a $ref
func RefName(ref string) string {
	parts := strings.Split(ref, "/")
	return parts[len(parts)-1]
}

func typeIs(s *openapi3.Schema, typ string) bool {
	return s.Type != nil && s.Type.Is(typ)
}

func isObject(s *openapi3.Schema) bool {
	return len(s.Properties) > 0 || typeIs(s, openapi3.TypeObject)
}

// isSingleRefAllOf matches allOf: [{$ref: X}] with no own fields, which
// means "is exactly X"
func isSingleRefAllOf(s *openapi3.Schema) bool {
	return len(s.AllOf) == 1 && s.AllOf[0] != nil && s.AllOf[0].Ref != "" && len(s.Properties) == 0
}
