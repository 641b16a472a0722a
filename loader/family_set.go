package loader

import "github.com/go-text/fontprovision/internal/arena"

// familySet is the deduplicated, order-preserving set of family names
// referenced by the scanned subtitle corpus. Entries are pushed into an
// arena; a duplicate insertion is detected with a lookup before
// anything is pushed, so the arena only ever holds one record per
// distinct (case-insensitive) family name.
type familySet struct {
	arena   *arena.Arena
	offsets []arena.Offset
}

func newFamilySet() *familySet {
	return &familySet{arena: arena.New(0)}
}

// insert adds name (with any leading '@' stripped) if it is not already
// present (case-insensitively), and reports whether it was newly added.
func (s *familySet) insert(name string) bool {
	name = stripAt(name)
	if name == "" {
		return false
	}
	if _, dup := s.arena.Lookup(0, name); dup {
		return false
	}
	off, err := s.arena.Push(name)
	if err != nil {
		return false
	}
	s.offsets = append(s.offsets, off)
	return true
}

// names returns every distinct family name, in insertion order.
func (s *familySet) names() []string {
	out := make([]string, len(s.offsets))
	for i, off := range s.offsets {
		out[i] = s.arena.Get(off)
	}
	return out
}

func (s *familySet) len() int { return len(s.offsets) }
