package generator

import (
	"fmt"

	"github.com/blimu-dev/openapi-gen/pkg/ir"
	"github.com/blimu-dev/openapi-gen/pkg/openapi"
)

// timeImport is the backend import required by date-time fields
const timeImport = "time"

// resolveSchema turns one decoded top-level schema into its IR form
func resolveSchema(name string, node *openapi.Node) (ir.Schema, error) {
	spec, meta, err := resolve(node, nil, ir.NestingNone)
	if err != nil {
		return ir.Schema{}, fmt.Errorf("schema %q: %w", name, err)
	}
	return ir.Schema{Name: name, Spec: spec, Meta: meta}, nil
}

// resolve converts a node and returns the references found below it.
// attr names the enclosing field, nesting the innermost container.
func resolve(n *openapi.Node, attr *ir.AttributeInfo, nesting ir.Nesting) (ir.PropSpec, ir.Meta, error) {
	var meta ir.Meta
	ref := func(name string) ir.SchemaRef {
		return ir.SchemaRef{Name: name, Attribute: attr, Nesting: nesting}
	}

	switch n.Kind {
	case openapi.NodeAllOf:
		var props []ir.Prop
		var extensions []string
		for _, m := range n.Members {
			switch m.Kind {
			case openapi.NodeObject:
				own, child, err := resolveProperties(m.Properties)
				if err != nil {
					return ir.PropSpec{}, meta, err
				}
				props = append(props, own...)
				meta.Merge(child)
			case openapi.NodeRef:
				extensions = append(extensions, m.Ref)
			}
		}
		// extension references lead so client decoders spread them first
		var extMeta ir.Meta
		for _, e := range extensions {
			r := ref(e)
			r.IsExtension = attr == nil
			extMeta.AddRef(r)
		}
		extMeta.Merge(meta)
		return ir.Object(props, extensions), extMeta, nil

	case openapi.NodeString:
		switch {
		case len(n.Enum) > 0:
			return ir.Enum(n.Enum), meta, nil
		case n.Format == "date-time":
			meta.BackendImports.Add(timeImport)
			meta.AddRef(ref(ir.DateRef))
			return ir.Plain(ir.PlainDateTime), meta, nil
		case n.Format == "date":
			meta.AddRef(ref(ir.DateWithoutTimeRef))
			return ir.Plain(ir.PlainDate), meta, nil
		}
		return ir.Plain(ir.PlainString), meta, nil

	case openapi.NodeNumber:
		return ir.Plain(ir.PlainNumber), meta, nil

	case openapi.NodeBoolean:
		return ir.Plain(ir.PlainBoolean), meta, nil

	case openapi.NodeInteger:
		if n.Format == string(ir.PlainInt32) {
			return ir.Plain(ir.PlainInt32), meta, nil
		}
		return ir.Plain(ir.PlainInt64), meta, nil

	case openapi.NodeRef:
		meta.AddRef(ref(n.Ref))
		return ir.Ref(n.Ref), meta, nil

	case openapi.NodeArray:
		elem, child, err := resolve(n.Elem, attr, ir.NestingArray)
		if err != nil {
			return ir.PropSpec{}, meta, err
		}
		return ir.Array(elem), child, nil

	case openapi.NodeMap:
		value, child, err := resolve(n.Elem, attr, ir.NestingMap)
		if err != nil {
			return ir.PropSpec{}, meta, err
		}
		return ir.Map(value), child, nil

	case openapi.NodeObject:
		props, child, err := resolveProperties(n.Properties)
		if err != nil {
			return ir.PropSpec{}, meta, err
		}
		return ir.Object(props, nil), child, nil
	}
	return ir.PropSpec{}, meta, fmt.Errorf("unhandled node kind %q at %s", n.Kind, n.Pointer)
}

// resolveProperties extracts the own fields of an object in declaration order
func resolveProperties(properties []openapi.Property) ([]ir.Prop, ir.Meta, error) {
	var meta ir.Meta
	out := make([]ir.Prop, 0, len(properties))
	for _, p := range properties {
		attr := &ir.AttributeInfo{Name: p.Name, Required: p.Required}
		spec, child, err := resolve(p.Schema, attr, ir.NestingNone)
		if err != nil {
			return nil, meta, err
		}
		meta.Merge(child)
		out = append(out, ir.Prop{
			Name:        p.Name,
			Required:    p.Required,
			Nullable:    p.Schema.Nullable,
			Description: p.Schema.Description,
			Type:        spec,
			ExtraTags:   p.Schema.ExtraTags,
		})
	}
	return out, meta, nil
}
