package loader

import (
	"sort"
	"strings"

	"github.com/go-text/fontprovision/internal/hashcache"
)

// Flag is the outcome of matching and (attempting to) register one
// (family, candidate file) pair.
type Flag int

const (
	// LoadOK means the candidate file was registered successfully.
	LoadOK Flag = iota
	// LoadErr means registration (or reading the candidate) failed.
	LoadErr
	// LoadDup means the candidate duplicates an already-loaded file, by
	// path identity or by content hash.
	LoadDup
	// LoadMiss means the catalog held no candidate for the family at all.
	LoadMiss
	// OSLoaded means the family was already present system-wide; no
	// catalog lookup or registration was attempted.
	OSLoaded
)

func (f Flag) tag() string {
	switch f {
	case LoadOK, OSLoaded:
		return "[ok]"
	case LoadErr:
		return "[ X]"
	case LoadMiss:
		return "[??]"
	case LoadDup:
		return "[^ ]"
	default:
		return "[? ]"
	}
}

// Record is one outcome appended to the loader's loaded-font vector: a
// family match attempt and what came of it.
type Record struct {
	Flag  Flag
	Face  string
	File  string // font-root-relative tag; empty for OSLoaded/LoadMiss
	Sha   hashcache.Sum
	hasSha bool
}

func (r Record) String() string {
	if r.File == "" {
		return r.Flag.tag() + " " + r.Face
	}
	return r.Flag.tag() + " " + r.Face + " (" + r.File + ")"
}

// sortRecords orders the display log: errors first, then unmatched
// families, then everything else, then duplicates last; within each
// group, filename ascending case-insensitively, then face ascending
// case-insensitively as the final tiebreak.
func sortRecords(records []Record) {
	rank := func(f Flag) int {
		switch f {
		case LoadErr:
			return 0
		case LoadMiss:
			return 1
		case LoadDup:
			return 3
		default:
			return 2
		}
	}
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if ra, rb := rank(a.Flag), rank(b.Flag); ra != rb {
			return ra < rb
		}
		if c := strings.Compare(strings.ToLower(a.File), strings.ToLower(b.File)); c != 0 {
			return c < 0
		}
		return strings.Compare(strings.ToLower(a.Face), strings.ToLower(b.Face)) < 0
	})
}
