package ir

// SpecKind identifies the variant held by a PropSpec
type SpecKind string

const (
	KindPlain  SpecKind = "plain"
	KindEnum   SpecKind = "enum"
	KindRef    SpecKind = "ref"
	KindArray  SpecKind = "array"
	KindMap    SpecKind = "map"
	KindObject SpecKind = "object"
)

// PlainKind is the primitive carried by a plain PropSpec
type PlainKind string

const (
	PlainString   PlainKind = "string"
	PlainDateTime PlainKind = "date-time"
	PlainDate     PlainKind = "date"
	PlainNumber   PlainKind = "number"
	PlainBoolean  PlainKind = "boolean"
	PlainInt32    PlainKind = "int32"
	PlainInt64    PlainKind = "int64"
)

// PropSpec is the resolved shape of a single type position.
// Only the fields belonging to Kind are set.
type PropSpec struct {
	Kind SpecKind

	// Plain
	Plain PlainKind

	// Enum values in declaration order
	Enum []string

	// Ref names another top-level schema
	Ref string

	// Elem is the element type of an array or the value type of a map
	Elem *PropSpec

	// Object: own properties only; Extensions lists composed schema names
	Properties []Prop
	Extensions []string
}

// Plain returns a plain PropSpec of the given kind
func Plain(kind PlainKind) PropSpec {
	return PropSpec{Kind: KindPlain, Plain: kind}
}

// Enum returns an enumeration PropSpec
func Enum(values []string) PropSpec {
	return PropSpec{Kind: KindEnum, Enum: values}
}

// Ref returns a reference to the named schema
func Ref(name string) PropSpec {
	return PropSpec{Kind: KindRef, Ref: name}
}

// Array returns an array of elem
func Array(elem PropSpec) PropSpec {
	return PropSpec{Kind: KindArray, Elem: &elem}
}

// Map returns a string-keyed map of value
func Map(value PropSpec) PropSpec {
	return PropSpec{Kind: KindMap, Elem: &value}
}

// Object returns an object with its own properties and composed extensions
func Object(properties []Prop, extensions []string) PropSpec {
	return PropSpec{Kind: KindObject, Properties: properties, Extensions: extensions}
}

// Prop is a single named field of an object
type Prop struct {
	Name        string
	Required    bool
	Nullable    bool
	Description string
	Type        PropSpec
	ExtraTags   []ExtraTag
}

// ExtraTag is a custom key/value annotation taken from document extensions
type ExtraTag struct {
	Key   string
	Value string
}

// Nesting tells where a reference sits below its field
type Nesting string

const (
	NestingNone  Nesting = ""
	NestingArray Nesting = "array"
	NestingMap   Nesting = "map"
)

// AttributeInfo names the field a reference was found in
type AttributeInfo struct {
	Name     string
	Required bool
}

// Client-side reference names registered for date formats.
// They never name a document schema.
const (
	DateRef            = "Date"
	DateWithoutTimeRef = "DateWithoutTime"
)

// SchemaRef records one cross reference discovered while resolving a schema
type SchemaRef struct {
	Name        string
	IsExtension bool
	Attribute   *AttributeInfo
	Nesting     Nesting
}

// IsBuiltin reports whether the reference is a client date type rather than a schema
func (r SchemaRef) IsBuiltin() bool {
	return r.Name == DateRef || r.Name == DateWithoutTimeRef
}

// Meta holds the cross references of one top-level schema
type Meta struct {
	SchemaRefs     []SchemaRef
	BackendImports ImportSet
}

// AddRef appends a schema reference
func (m *Meta) AddRef(ref SchemaRef) {
	m.SchemaRefs = append(m.SchemaRefs, ref)
}

// Merge appends the references and imports of other after the receiver's own
func (m *Meta) Merge(other Meta) {
	m.SchemaRefs = append(m.SchemaRefs, other.SchemaRefs...)
	m.BackendImports.Merge(other.BackendImports)
}

// Schema is one resolved top-level document definition
type Schema struct {
	Name string
	Spec PropSpec
	Meta Meta
}

// IsEnum reports whether the schema root is an enumeration
func (s Schema) IsEnum() bool {
	return s.Spec.Kind == KindEnum
}

// IndexRequestName names the index route every route table starts with
const IndexRequestName = "index"

// Request is a single routed operation
type Request struct {
	Path        string
	Method      string
	Name        string
	Category    string
	Description string
	Permissions []string
	// Tags keeps every declared tag for target-level filtering
	Tags []string
}

// IR is everything the emitters need for one document
type IR struct {
	// Source is the document path as given, rendered into file headers
	Source      string
	Title       string
	Description string
	Schemas     []Schema
	Requests    []Request
}

// EnumNames returns the names of all enumeration schemas
func (in IR) EnumNames() map[string]bool {
	out := make(map[string]bool)
	for _, s := range in.Schemas {
		if s.IsEnum() {
			out[s.Name] = true
		}
	}
	return out
}
