// Package fontscan builds an indexed catalog of font files from parsed
// OTF/TTF/TTC containers, and answers family-name queries against it.
//
// A Catalog owns one internal/arena.Arena holding both the raw ingestion
// records (one run per file, in file-then-sub-font-then-name order) and,
// once Build is called, a sorted index over those records. The same
// arena bytes are what Dump/Load round-trip to an on-disk cache, so the
// catalog never needs a separate serialization format.
package fontscan

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/go-text/fontprovision/internal/arena"
	"github.com/go-text/fontprovision/otf"
)

// Logger is satisfied by log.Default() without an adapter.
type Logger interface {
	Printf(format string, args ...interface{})
}

// record tag prefixes. Each is glued onto the following Push via
// PushPrefix so it shares one arena record with its payload; this keeps
// the per-record Next() walk regular (one NUL per logical record).
const (
	tagFormat  = "\tt:" // \tt:<fmt>, one per file
	tagVersion = "\tv:" // \tv:<version string>, one per sub-font (at most)
	tagSubFont = "\ts:" // \ts:, marks the start of a sub-font after the first
	tagError   = "\t!!" // \t!!, replaces a file's face data on parse failure
)

// Catalog ingests font files via AddFont, builds a sorted index with
// Build, and answers family queries with Iter. It is built fresh from a
// directory walk or restored read-only from a cache with Load; either
// way Build (or the index rebuild inside Load) must run before Iter.
type Catalog struct {
	logger Logger
	arena  *arena.Arena

	numFile uint32
	numFace uint32

	index     []indexEntry
	indexBuilt bool
}

// New returns an empty, writable Catalog. If logger is nil, a standard
// logger writing to log.Writer() with the "fontscan" prefix is used.
func New(logger Logger) *Catalog {
	if logger == nil {
		logger = log.New(log.Writer(), "fontscan", log.Flags())
	}
	return &Catalog{logger: logger, arena: arena.New(0)}
}

// NumFile reports how many font files have been successfully ingested
// (including ones that ended in a parse error but still counted, per
// AddFont's failure model).
func (c *Catalog) NumFile() uint32 { return c.numFile }

// NumFace reports the total number of face records across all ingested
// files.
func (c *Catalog) NumFace() uint32 { return c.numFace }

// AddFont ingests one font file's records into the catalog. tag is the
// path of the file relative to the font root; data is its full contents
// (the caller is expected to have memory-mapped it).
//
// AddFont must not be called after Build: the catalog's index is built
// exactly once per instance.
func (c *Catalog) AddFont(tag string, data []byte) error {
	if c.indexBuilt {
		return errors.New("fontscan: AddFont called after Build")
	}

	format, sniffErr := otf.Sniff(data)
	if sniffErr != nil {
		// Unrecognized magic: nothing worth keeping, and nothing was
		// written yet, so there is nothing to roll back either.
		return sniffErr
	}

	fileAnchor := c.arena.Tell()
	if _, err := c.arena.Push(tag); err != nil {
		return err
	}
	if err := c.arena.PushPrefix(tagFormat); err != nil {
		return err
	}
	if _, err := c.arena.Push(format.String()); err != nil {
		return err
	}

	parseAnchor := c.arena.Tell()
	ing := &ingestion{arena: c.arena}
	parseErr := otf.Parse(data, ing.visit)

	switch {
	case parseErr == nil && ing.faces == 0:
		// A recognized, structurally valid file with nothing to
		// catalog: not worth keeping an orphan tag record around for
		// build_index to trip over.
		c.arena.Seek(fileAnchor)
		return nil
	case parseErr != nil && ing.faces == 0:
		c.arena.Seek(fileAnchor)
		return parseErr
	case parseErr != nil:
		// Some faces were recovered before the failure: overwrite the
		// parse area (everything after the format record) with the error
		// marker so none of them reach the index, and still count the
		// file, keeping this file's run regular for build_index
		// (tag, format, marker, sentinel).
		c.arena.Seek(parseAnchor)
		if _, err := c.arena.Push(tagError); err != nil {
			return err
		}
		if _, err := c.arena.Push(""); err != nil {
			return err
		}
		c.numFile++
		return parseErr
	default:
		if _, err := c.arena.Push(""); err != nil {
			return err
		}
		c.numFile++
		c.numFace += ing.faces
		return nil
	}
}

// ingestion tracks the running state of a single AddFont call as the
// otf.Visitor callback fires: which sub-font we're in, whether its
// version has been written yet (and whether it's the English one), and
// an anchor to rewind face-record duplicates against.
type ingestion struct {
	arena *arena.Arena
	faces uint32

	lastFontIndex  int
	sawFontIndex   bool
	subFontAnchor  arena.Offset
	versionAnchor  arena.Offset
	haveVersion    bool
	versionEnglish bool
}

func (ing *ingestion) visit(fontIndex int, rec otf.Record, payload []byte) error {
	if !ing.sawFontIndex || fontIndex != ing.lastFontIndex {
		if ing.sawFontIndex {
			if err := ing.arena.PushPrefix(tagSubFont); err != nil {
				return err
			}
			if _, err := ing.arena.Push(""); err != nil {
				return err
			}
		}
		ing.lastFontIndex = fontIndex
		ing.sawFontIndex = true
		ing.subFontAnchor = ing.arena.Tell()
		ing.haveVersion = false
		ing.versionEnglish = false
	}

	if rec.NameID == otf.NameVersion {
		version, err := otf.DecodeUTF16BE(payload)
		if err != nil {
			return nil // not fatal: skip this one record
		}
		isEnglish := rec.LanguageID == 0x0409
		switch {
		case !ing.haveVersion:
			ing.versionAnchor = ing.arena.Tell()
			if err := ing.pushVersion(version); err != nil {
				return err
			}
			ing.haveVersion = true
			ing.versionEnglish = isEnglish
		case isEnglish && !ing.versionEnglish:
			ing.arena.Seek(ing.versionAnchor)
			if err := ing.pushVersion(version); err != nil {
				return err
			}
			ing.versionEnglish = true
		default:
			// a later, non-preferred version string: ignored
		}
		return nil
	}

	// Face-ish record (Family, Full, Typographic Family).
	name, err := otf.DecodeUTF16BE(payload)
	if err != nil {
		return nil
	}
	if _, dup := ing.arena.Lookup(ing.subFontAnchor, name); dup {
		return nil
	}
	if _, err := ing.arena.Push(name); err != nil {
		return err
	}
	ing.faces++
	return nil
}

func (ing *ingestion) pushVersion(version string) error {
	if err := ing.arena.PushPrefix(tagVersion); err != nil {
		return err
	}
	_, err := ing.arena.Push(version)
	return err
}

// Build constructs the sorted index from the ingested records. It is a
// one-shot operation: calling it again re-walks the arena and rebuilds
// the index, which is safe but wasteful.
func (c *Catalog) Build() {
	c.index = buildIndex(c.arena)
	c.indexBuilt = true
}

// Len reports the number of entries in the built index.
func (c *Catalog) Len() int {
	return len(c.index)
}

// parseFormatTag mirrors otf.Format's small String() set, used both when
// writing a format tag and when re-parsing it in build_index.
func parseFormatTag(s string) otf.Format {
	switch s {
	case "OTF":
		return otf.FormatOTF
	case "TTF":
		return otf.FormatTTF
	case "TTC":
		return otf.FormatTTC
	default:
		return otf.FormatUnknown
	}
}

func (c *Catalog) String() string {
	return fmt.Sprintf("fontscan.Catalog{files=%d faces=%d indexed=%v}", c.numFile, c.numFace, c.indexBuilt)
}

// stripAt removes a single leading '@' (the vertical-writing marker),
// matching the family-name set's normalization in the loader package.
func stripAt(name string) string {
	return strings.TrimPrefix(name, "@")
}
