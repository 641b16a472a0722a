package fontscan

import (
	"sort"
	"strings"

	"github.com/go-text/fontprovision/otf"
)

// Candidate is one font file offered by Iter for a requested family
// name: the path (relative to the font root) that produced it, its
// container format, and its version string (empty if the file had
// none).
type Candidate struct {
	Tag     string
	Format  otf.Format
	Version string
}

// Iterator yields successive candidates for one family-name query,
// stopping once the face, format, or version changes. It is a
// non-restartable, pull-style cursor.
type Iterator struct {
	entries []indexEntry
	catalog *Catalog
	pos     int
}

// Next returns the next candidate, or false once the run of entries
// sharing the query's (face, format, version) key is exhausted.
func (it *Iterator) Next() (Candidate, bool) {
	if it == nil || it.pos >= len(it.entries) {
		return Candidate{}, false
	}
	e := it.entries[it.pos]
	if it.pos > 0 && !indexEqualKeys(it.catalog.arena, it.entries[it.pos-1], e) {
		return Candidate{}, false
	}
	it.pos++
	return Candidate{
		Tag:     it.catalog.arena.Get(e.tag),
		Format:  e.format,
		Version: versionString(it.catalog.arena, e),
	}, true
}

// Iter looks up family in the built index: a leading '@' is stripped,
// then the first matching entry (case-insensitive on face) is found by
// binary search followed by a backward walk to the earliest match. The
// returned Iterator then yields every subsequent entry sharing that
// face, format, and version.
//
// Iter panics if called before Build.
func (c *Catalog) Iter(family string) *Iterator {
	if !c.indexBuilt {
		panic("fontscan: Iter called before Build")
	}
	family = stripAt(family)
	lower := strings.ToLower(family)

	n := len(c.index)
	start := sort.Search(n, func(i int) bool {
		return strings.ToLower(c.arena.Get(c.index[i].face)) >= lower
	})
	if start >= n || !strings.EqualFold(c.arena.Get(c.index[start].face), family) {
		return &Iterator{catalog: c}
	}
	for start > 0 && strings.EqualFold(c.arena.Get(c.index[start-1].face), family) {
		start--
	}

	end := start + 1
	for end < n && indexEqualKeys(c.arena, c.index[end-1], c.index[end]) {
		end++
	}

	return &Iterator{entries: c.index[start:end], catalog: c}
}
