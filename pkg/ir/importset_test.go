package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImportSetKeepsFirstSeenOrder(t *testing.T) {
	var s ImportSet
	assert.True(t, s.Add("time"))
	assert.True(t, s.Add("encoding/json"))
	assert.False(t, s.Add("time"))

	assert.Equal(t, []string{"time", "encoding/json"}, s.Items())
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Has("encoding/json"))
	assert.False(t, s.Has("fmt"))
}

func TestImportSetMerge(t *testing.T) {
	a := NewImportSet("time", "fmt")
	b := NewImportSet("strings", "time")
	a.Merge(b)
	assert.Equal(t, []string{"time", "fmt", "strings"}, a.Items())

	var empty ImportSet
	assert.Empty(t, empty.Items())
	assert.False(t, empty.Has("time"))
}

func TestMetaMergePreservesReferenceOrder(t *testing.T) {
	m := Meta{}
	m.AddRef(SchemaRef{Name: "A", IsExtension: true})

	child := Meta{BackendImports: NewImportSet("time")}
	child.AddRef(SchemaRef{Name: DateRef, Attribute: &AttributeInfo{Name: "createdAt", Required: true}})
	child.AddRef(SchemaRef{Name: "B", Nesting: NestingArray})
	m.Merge(child)

	names := make([]string, 0, len(m.SchemaRefs))
	for _, r := range m.SchemaRefs {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"A", DateRef, "B"}, names)
	assert.True(t, m.BackendImports.Has("time"))
	assert.True(t, m.SchemaRefs[1].IsBuiltin())
	assert.False(t, m.SchemaRefs[2].IsBuiltin())
}
