package typescript

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/blimu-dev/openapi-gen/pkg/ir"
	"github.com/blimu-dev/openapi-gen/pkg/utils"
)

const indent = "    "

// Runtime helper symbols, listed in import order
const (
	helperDateWithoutTime = "DateWithoutTime"
	helperMapValues       = "mapValues"
	helperIdentity        = "identity"
	helperIdentityType    = "Identity"
)

// tsType renders the TypeScript type of a spec; depth drives object indentation
func tsType(spec ir.PropSpec, depth int) string {
	switch spec.Kind {
	case ir.KindPlain:
		return plainType(spec.Plain)
	case ir.KindEnum:
		literals := make([]string, len(spec.Enum))
		for i, v := range spec.Enum {
			literals[i] = tsString(v)
		}
		return strings.Join(literals, " | ")
	case ir.KindRef:
		return spec.Ref
	case ir.KindArray:
		return "Array<" + tsType(*spec.Elem, depth) + ">"
	case ir.KindMap:
		return "{ [key: string]: " + tsType(*spec.Elem, depth) + " }"
	case ir.KindObject:
		return objectType(spec, depth)
	}
	return "unknown"
}

func plainType(kind ir.PlainKind) string {
	switch kind {
	case ir.PlainDateTime:
		return ir.DateRef
	case ir.PlainDate:
		return ir.DateWithoutTimeRef
	case ir.PlainString:
		return "string"
	case ir.PlainBoolean:
		return "boolean"
	default:
		return "number"
	}
}

// objectType intersects the extensions with the own fields
func objectType(spec ir.PropSpec, depth int) string {
	if len(spec.Properties) == 0 {
		if len(spec.Extensions) == 0 {
			return "{}"
		}
		return strings.Join(spec.Extensions, " & ")
	}

	var b strings.Builder
	for _, ext := range spec.Extensions {
		b.WriteString(ext + " & ")
	}
	b.WriteString("{\n")
	pad := strings.Repeat(indent, depth+1)
	for _, p := range spec.Properties {
		b.WriteString(docComment(p.Description, pad))
		optional := "?"
		if p.Required {
			optional = ""
		}
		fmt.Fprintf(&b, "%s%s%s: %s;\n", pad, quoteTSPropertyName(p.Name), optional, tsType(p.Type, depth+1))
	}
	b.WriteString(strings.Repeat(indent, depth) + "}")
	return b.String()
}

// declaration renders the exported enum or type alias of a schema
func declaration(s ir.Schema) string {
	if !s.IsEnum() {
		return fmt.Sprintf("export type %s = %s;", s.Name, tsType(s.Spec, 0))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "export enum %s {\n", s.Name)
	for i, member := range enumMembers(s.Spec.Enum) {
		fmt.Fprintf(&b, "%s%s = %s,\n", indent, member, tsString(s.Spec.Enum[i]))
	}
	b.WriteString("}")
	return b.String()
}

// enumMembers names the members of a string enum. Numeric names are not
// allowed for enum members, so those get an X prefix; collisions get _2, _3.
func enumMembers(values []string) []string {
	out := make([]string, len(values))
	used := map[string]bool{}
	for i, v := range values {
		base := v
		if isNumericName(v) {
			base = "X" + v
		}
		name := base
		for n := 2; used[name]; n++ {
			name = fmt.Sprintf("%s_%d", base, n)
		}
		used[name] = true
		if utils.IsIdentifier(name) {
			out[i] = name
		} else {
			out[i] = tsString(name)
		}
	}
	return out
}

// isNumericName reports whether a property name reads back as a number,
// i.e. String(Number(v)) === v
func isNumericName(v string) bool {
	switch v {
	case "NaN", "Infinity", "-Infinity":
		return true
	}
	f, err := strconv.ParseFloat(v, 64)
	return err == nil && strconv.FormatFloat(f, 'f', -1, 64) == v
}

// decoder is the generated parse function of one schema
type decoder struct {
	Source  string
	Helpers []string
}

// buildDecoder generates parse<Name>. It is the identity function unless some
// reference needs a runtime conversion. Extension spreads come first so later
// field conversions override spread-in fields. When several references target
// the same field the last one wins, as it would in an object literal.
func buildDecoder(s ir.Schema, enums map[string]bool) decoder {
	refs := slices.Clone(s.Meta.SchemaRefs)
	slices.SortStableFunc(refs, func(a, b ir.SchemaRef) int {
		switch {
		case a.IsExtension == b.IsExtension:
			return 0
		case a.IsExtension:
			return -1
		default:
			return 1
		}
	})

	type fieldLine struct {
		line    string
		usesMap bool
	}
	var (
		spreads []string
		fields  []fieldLine
		root    string
		usesMap bool
	)
	seen := map[string]bool{}
	fieldAt := map[string]int{}
	for _, r := range refs {
		if enums[r.Name] {
			continue
		}
		switch {
		case r.IsExtension:
			line := "...parse" + r.Name + "(json),"
			if !seen[line] {
				seen[line] = true
				spreads = append(spreads, line)
			}
		case r.Attribute == nil:
			// whole-value conversion of a non-object schema
			if s.Spec.Kind != ir.KindObject && root == "" {
				root = conversion("json", r.Name, r.Nesting)
				usesMap = usesMap || r.Nesting == ir.NestingMap
			}
		default:
			// Refs inside an inline nested object carry the inner property
			// name, so they are converted at the top level under that name.
			key := r.Attribute.Name
			from := accessor("json", key)
			expr := conversion(from, r.Name, r.Nesting)
			if !r.Attribute.Required {
				expr = from + " != null ? " + expr + " : undefined"
			}
			f := fieldLine{line: quoteTSPropertyName(key) + ": " + expr + ",", usesMap: r.Nesting == ir.NestingMap}
			if i, ok := fieldAt[key]; ok {
				fields[i] = f
				continue
			}
			fieldAt[key] = len(fields)
			fields = append(fields, f)
		}
	}

	lines := spreads
	for _, f := range fields {
		lines = append(lines, f.line)
		usesMap = usesMap || f.usesMap
	}

	var helpers []string
	if slices.ContainsFunc(s.Meta.SchemaRefs, func(r ir.SchemaRef) bool { return r.Name == ir.DateWithoutTimeRef }) {
		helpers = append(helpers, helperDateWithoutTime)
	}
	if usesMap {
		helpers = append(helpers, helperMapValues)
	}

	head := fmt.Sprintf("export const parse%s =", s.Name)
	switch {
	case root != "":
		return decoder{Source: fmt.Sprintf("%s (json: any): %s => %s;", head, s.Name, root), Helpers: helpers}
	case len(lines) == 0:
		helpers = append(helpers, helperIdentity, helperIdentityType)
		return decoder{Source: fmt.Sprintf("%s %s as %s<%s>;", head, helperIdentity, helperIdentityType, s.Name), Helpers: helpers}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (json: any): %s => ({\n%s...json,\n", head, s.Name, indent)
	for _, l := range lines {
		b.WriteString(indent + l + "\n")
	}
	b.WriteString("});")
	return decoder{Source: b.String(), Helpers: helpers}
}

// conversion builds the expression decoding from into the referenced type
func conversion(from, name string, nesting ir.Nesting) string {
	builtin := name == ir.DateRef || name == ir.DateWithoutTimeRef
	fn := "parse" + name
	if builtin {
		fn = "(v: string) => new " + name + "(v)"
	}
	switch nesting {
	case ir.NestingMap:
		return helperMapValues + "(" + from + ", " + fn + ")"
	case ir.NestingArray:
		return from + ".map(" + fn + ")"
	}
	if builtin {
		return "new " + name + "(" + from + ")"
	}
	return fn + "(" + from + ")"
}

// imports lists the runtime import line followed by one line per referenced schema
func imports(s ir.Schema, helpers []string, runtime string, enums map[string]bool) []string {
	var out []string
	if len(helpers) > 0 {
		out = append(out, fmt.Sprintf("import { %s } from '%s';", strings.Join(helpers, ", "), runtime))
	}
	deps := ir.NewImportSet()
	for _, r := range s.Meta.SchemaRefs {
		if r.IsBuiltin() || r.Name == s.Name {
			continue
		}
		deps.Add(r.Name)
	}
	for _, name := range deps.Items() {
		symbols := name + ", parse" + name
		if enums[name] {
			symbols = name
		}
		out = append(out, fmt.Sprintf("import { %s } from './%s';", symbols, name))
	}
	return out
}

// accessor reads key from obj, using bracket syntax for non-identifiers
func accessor(obj, key string) string {
	if utils.IsIdentifier(key) {
		return obj + "." + key
	}
	return obj + "[" + tsString(key) + "]"
}

// tsString quotes s as a single-quoted TypeScript string literal
func tsString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return "'" + s + "'"
}

// docComment renders a JSDoc block for a property, or nothing
func docComment(s, pad string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) == 1 {
		return pad + "/** " + s + " */\n"
	}
	var b strings.Builder
	b.WriteString(pad + "/**\n")
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l == "" {
			b.WriteString(pad + " *\n")
			continue
		}
		b.WriteString(pad + " * " + l + "\n")
	}
	b.WriteString(pad + " */\n")
	return b.String()
}

// lineComment prefixes every line of s with //
func lineComment(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i, l := range lines {
		l = strings.TrimSpace(l)
		if l == "" {
			lines[i] = "//"
		} else {
			lines[i] = "// " + l
		}
	}
	return strings.Join(lines, "\n")
}

// quoteTSPropertyName quotes TypeScript property names that contain special characters
func quoteTSPropertyName(name string) string {
	needsQuoting := false
	for _, char := range name {
		if !((char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z') || (char >= '0' && char <= '9') || char == '_' || char == '$') {
			needsQuoting = true
			break
		}
	}

	// Also quote if the name starts with a number
	if len(name) > 0 && name[0] >= '0' && name[0] <= '9' {
		needsQuoting = true
	}

	if needsQuoting || name == "" {
		return tsString(name)
	}
	return name
}
