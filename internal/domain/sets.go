package domain

// orderedSet is a string set that remembers insertion order.
type orderedSet struct {
	index map[string]struct{}
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{index: make(map[string]struct{})}
}

func (s *orderedSet) add(v string) {
	if _, ok := s.index[v]; ok {
		return
	}
	s.index[v] = struct{}{}
	s.items = append(s.items, v)
}

func (s *orderedSet) len() int { return len(s.items) }

// list returns a copy of the items; never nil so JSON encodes [].
func (s *orderedSet) list() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}
