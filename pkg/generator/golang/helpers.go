package golang

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/blimu-dev/openapi-gen/pkg/ir"
	"github.com/blimu-dev/openapi-gen/pkg/utils"
)

// goType renders the Go type expression of a spec in field or alias position
func goType(spec ir.PropSpec) string {
	switch spec.Kind {
	case ir.KindPlain:
		return plainType(spec.Plain)
	case ir.KindEnum:
		// inline enums have no named type to hang constants on
		return "string"
	case ir.KindRef:
		return spec.Ref
	case ir.KindArray:
		return "[]" + goType(*spec.Elem)
	case ir.KindMap:
		return "map[string]" + goType(*spec.Elem)
	case ir.KindObject:
		if len(spec.Properties) == 0 && len(spec.Extensions) == 1 {
			return spec.Extensions[0]
		}
		return "struct " + structBody(spec)
	}
	return "any"
}

func plainType(kind ir.PlainKind) string {
	switch kind {
	case ir.PlainDateTime:
		return "time.Time"
	case ir.PlainDate, ir.PlainString:
		return "string"
	case ir.PlainNumber:
		return "float32"
	case ir.PlainBoolean:
		return "bool"
	case ir.PlainInt32:
		return "int32"
	default:
		return "int64"
	}
}

// structBody renders embedded extensions followed by the own fields.
// Alignment is left to go/format.
func structBody(spec ir.PropSpec) string {
	if len(spec.Properties) == 0 && len(spec.Extensions) == 0 {
		return "{}"
	}
	var b strings.Builder
	b.WriteString("{\n")
	for _, ext := range spec.Extensions {
		b.WriteString(ext + "\n")
	}
	for i, p := range spec.Properties {
		if i > 0 || len(spec.Extensions) > 0 {
			b.WriteString("\n")
		}
		if c := formatGoComment(p.Description); c != "" {
			b.WriteString(c + "\n")
		}
		typ := goType(p.Type)
		if p.Nullable {
			typ = "*" + typ
		}
		fmt.Fprintf(&b, "%s %s %s\n", utils.ExportedName(p.Name), typ, structTag(p))
	}
	b.WriteString("}")
	return b.String()
}

// structTag builds the json tag followed by the extra tags verbatim
func structTag(p ir.Prop) string {
	json := p.Name
	if !p.Required {
		json += ",omitempty"
	}
	parts := []string{fmt.Sprintf(`json:"%s"`, json)}
	for _, t := range p.ExtraTags {
		parts = append(parts, fmt.Sprintf(`%s:"%s"`, t.Key, t.Value))
	}
	return "`" + strings.Join(parts, " ") + "`"
}

// declaration renders the top-level declaration of a schema
func declaration(s ir.Schema) string {
	switch {
	case s.IsEnum():
		return enumDeclaration(s.Name, s.Spec.Enum)
	case s.Spec.Kind == ir.KindObject && !(len(s.Spec.Properties) == 0 && len(s.Spec.Extensions) == 1):
		return fmt.Sprintf("type %s struct %s", s.Name, structBody(s.Spec))
	default:
		return fmt.Sprintf("type %s = %s", s.Name, goType(s.Spec))
	}
}

func enumDeclaration(name string, values []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "type %s string\n\n// List of %s\nconst (\n", name, name)
	for i, c := range enumConstants(name, values) {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s %s = %q\n", c, name, values[i])
	}
	b.WriteString(")")
	return b.String()
}

// enumConstants names each value <Type>_<value>, suffixing collisions
// left over after sanitising
func enumConstants(name string, values []string) []string {
	out := make([]string, len(values))
	used := map[string]bool{}
	for i, v := range values {
		c := name + "_" + utils.ToIdentifier(v)
		for n := 2; used[c]; n++ {
			c = fmt.Sprintf("%s_%s_%d", name, utils.ToIdentifier(v), n)
		}
		used[c] = true
		out[i] = c
	}
	return out
}

// formatGoComment formats a string as a proper Go comment, handling multiline descriptions
func formatGoComment(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	lines := strings.Split(s, "\n")
	result := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			result = append(result, "//")
		} else {
			result = append(result, "// "+line)
		}
	}
	return strings.Join(result, "\n")
}

// oneLine collapses a description for a single comment line
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// routeMethod maps an HTTP method to its net/http constant name
func routeMethod(method string) string {
	return "http.Method" + utils.Capitalize(strings.ToLower(method))
}

// joinPath prefixes a route with the base path without doubling slashes
func joinPath(base, path string) string {
	return strings.TrimSuffix(base, "/") + path
}

// sanitizePackageName ensures the package name is valid for Go
func sanitizePackageName(name string) string {
	// Extract the last part of the package name if it looks like a module path
	parts := strings.Split(name, "/")
	name = parts[len(parts)-1]

	name = strings.ToLower(name)
	name = regexp.MustCompile(`[^a-z0-9_]`).ReplaceAllString(name, "")

	if len(name) > 0 && name[0] >= '0' && name[0] <= '9' {
		name = "pkg" + name
	}
	if name == "" {
		name = "openapi"
	}
	return name
}
