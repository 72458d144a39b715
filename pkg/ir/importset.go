package ir

// ImportSet is an insertion-ordered set of qualified import symbols.
// The zero value is ready to use.
type ImportSet struct {
	order []string
	seen  map[string]struct{}
}

// NewImportSet returns a set holding symbols in the given order
func NewImportSet(symbols ...string) ImportSet {
	var s ImportSet
	for _, sym := range symbols {
		s.Add(sym)
	}
	return s
}

// Add inserts symbol unless already present and reports whether it was added
func (s *ImportSet) Add(symbol string) bool {
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	if _, ok := s.seen[symbol]; ok {
		return false
	}
	s.seen[symbol] = struct{}{}
	s.order = append(s.order, symbol)
	return true
}

// Has reports whether symbol is in the set
func (s ImportSet) Has(symbol string) bool {
	_, ok := s.seen[symbol]
	return ok
}

// Len returns the number of symbols
func (s ImportSet) Len() int {
	return len(s.order)
}

// Items returns the symbols in insertion order
func (s ImportSet) Items() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Merge adds every symbol of other, keeping first-seen order
func (s *ImportSet) Merge(other ImportSet) {
	for _, sym := range other.order {
		s.Add(sym)
	}
}
