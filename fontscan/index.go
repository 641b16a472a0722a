package fontscan

import (
	"sort"
	"strings"

	"github.com/go-text/fontprovision/internal/arena"
	"github.com/go-text/fontprovision/otf"
)

// indexEntry is one (face, tag, version, format) tuple from a single
// ingested font file, addressed by offset into the catalog's arena
// rather than by copied strings.
type indexEntry struct {
	face   arena.Offset
	tag    arena.Offset
	ver    arena.Offset
	haveVer bool
	format otf.Format
}

// buildIndex walks a, reconstructing (tag, ver, format, face) tuples by
// the same state machine AddFont used to write them: an empty sentinel
// resets the current record, a \ts: marker resets only the version
// (a new sub-font inside the same TTC), \tt:/\tv: update format/version,
// \t!! marks the rest of this file's run as unusable, and the first
// untagged string after a reset is the file tag with every untagged
// string after that a face name.
func buildIndex(a *arena.Arena) []indexEntry {
	var entries []indexEntry

	var tag, ver arena.Offset
	var haveTag, haveVer, errored bool
	var format otf.Format

	reset := func() {
		haveTag, haveVer, errored = false, false, false
		format = otf.FormatUnknown
	}
	reset()

	pos := arena.Offset(0)
	for {
		s := a.Get(pos)
		switch {
		case s == "":
			reset()
		case strings.HasPrefix(s, tagSubFont):
			haveVer = false
		case strings.HasPrefix(s, tagFormat):
			format = parseFormatTag(s[len(tagFormat):])
		case strings.HasPrefix(s, tagVersion):
			ver = pos + arena.Offset(len(tagVersion))
			haveVer = true
		case s == tagError:
			errored = true
		case !haveTag:
			tag = pos
			haveTag = true
		default:
			if !errored {
				entries = append(entries, indexEntry{
					face:    pos,
					tag:     tag,
					ver:     ver,
					haveVer: haveVer,
					format:  format,
				})
			}
		}

		next, ok := a.Next(pos)
		if !ok {
			break
		}
		pos = next
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return indexLess(a, entries[i], entries[j])
	})
	return entries
}

// indexLess implements the (face asc case-insensitive, format desc,
// version desc) ordering the sorted index is built with.
func indexLess(a *arena.Arena, x, y indexEntry) bool {
	fx, fy := a.Get(x.face), a.Get(y.face)
	if c := strings.Compare(strings.ToLower(fx), strings.ToLower(fy)); c != 0 {
		return c < 0
	}
	if x.format != y.format {
		return x.format > y.format // desc
	}
	vx, vy := versionString(a, x), versionString(a, y)
	if c := compareVersions(vx, vy); c != 0 {
		return c > 0 // desc
	}
	return false
}

func versionString(a *arena.Arena, e indexEntry) string {
	if !e.haveVer {
		return ""
	}
	return a.Get(e.ver)
}

// indexEqualKeys reports whether x and y share the same (face, format,
// version) key, the condition that keeps an Iter walk going.
func indexEqualKeys(a *arena.Arena, x, y indexEntry) bool {
	if !strings.EqualFold(a.Get(x.face), a.Get(y.face)) {
		return false
	}
	if x.format != y.format {
		return false
	}
	return compareVersions(versionString(a, x), versionString(a, y)) == 0
}
