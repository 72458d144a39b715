package openapi

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// KeyOrder maps a JSON pointer to the keys of the mapping found there,
// in the order they are written in the source document
type KeyOrder map[string][]string

// ParseKeyOrder indexes every mapping of a YAML or JSON document
func ParseKeyOrder(data []byte) (KeyOrder, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	order := KeyOrder{}
	order.walk("", &root, 0)
	return order, nil
}

// maxDepth guards against alias loops
const maxDepth = 256

func (o KeyOrder) walk(pointer string, n *yaml.Node, depth int) {
	if n == nil || depth > maxDepth {
		return
	}
	switch n.Kind {
	case yaml.DocumentNode:
		for _, c := range n.Content {
			o.walk(pointer, c, depth+1)
		}
	case yaml.AliasNode:
		o.walk(pointer, n.Alias, depth+1)
	case yaml.MappingNode:
		keys := make([]string, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			keys = append(keys, key)
			o.walk(Pointer(pointer, key), n.Content[i+1], depth+1)
		}
		o[pointer] = keys
	case yaml.SequenceNode:
		for i, c := range n.Content {
			o.walk(Pointer(pointer, strconv.Itoa(i)), c, depth+1)
		}
	}
}

// Sort returns keys ordered as declared at pointer. Keys the index does not
// know follow the known ones in lexicographic order.
func (o KeyOrder) Sort(pointer string, keys []string) []string {
	pos := make(map[string]int)
	for i, k := range o[pointer] {
		pos[k] = i
	}
	out := slices.Clone(keys)
	slices.SortStableFunc(out, func(a, b string) int {
		ia, okA := pos[a]
		ib, okB := pos[b]
		switch {
		case okA && okB:
			return cmp.Compare(ia, ib)
		case okA:
			return -1
		case okB:
			return 1
		}
		return strings.Compare(a, b)
	})
	return out
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// Pointer appends escaped reference tokens to a JSON pointer
func Pointer(base string, tokens ...string) string {
	var b strings.Builder
	b.WriteString(base)
	for _, t := range tokens {
		b.WriteByte('/')
		b.WriteString(pointerEscaper.Replace(t))
	}
	return b.String()
}
