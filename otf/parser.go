// Package otf decodes just enough of the OpenType/TrueType container
// format — the table directory and the "name" table — to recover the
// family, full, typographic-family, and version strings a font file
// advertises. It deliberately goes no further than that: there is no
// glyph, outline, or cmap access here, only the identification data a
// font catalog needs, so it can work directly off a byte slice without
// allocating a full sfnt.Font.
package otf

import (
	"encoding/binary"
	"errors"
)

// Name IDs this package reports through Visitor. Others are present in
// the format but are not "interesting" to a font catalog.
const (
	NameFamily            = 1
	NameFull              = 4
	NameVersion           = 5
	NameTypographicFamily = 16
)

const platformWindows = 3

// Errors returned by Parse. ErrUnrecognized means the magic wasn't
// understood at all; ErrCorrupted means the magic was fine but an
// offset or length went out of bounds while walking the structure.
var (
	ErrUnrecognized = errors.New("otf: unrecognized font container")
	ErrCorrupted    = errors.New("otf: corrupted font container")
)

// Format identifies the container kind detected from the file's magic.
type Format int

const (
	FormatUnknown Format = iota
	FormatOTF
	FormatTTF
	FormatTTC
)

func (f Format) String() string {
	switch f {
	case FormatOTF:
		return "OTF"
	case FormatTTF:
		return "TTF"
	case FormatTTC:
		return "TTC"
	default:
		return "unknown"
	}
}

// Sniff identifies the container format from the leading magic bytes,
// without otherwise validating the file.
func Sniff(data []byte) (Format, error) {
	if len(data) < 12 {
		return FormatUnknown, ErrUnrecognized
	}
	switch tag := be32(data); tag {
	case tagTTCF:
		return FormatTTC, nil
	case tagOTTO:
		return FormatOTF, nil
	case 0x00010000:
		return FormatTTF, nil
	default:
		return FormatUnknown, ErrUnrecognized
	}
}

// Record describes one name-table entry passed to a Visitor: its
// platform/encoding/language and which name ID it is.
type Record struct {
	PlatformID uint16
	EncodingID uint16
	LanguageID uint16
	NameID     uint16
}

// Visitor receives one callback per interesting name record found. payload
// is the raw big-endian UTF-16 string bytes for that record; callers
// convert it as needed (see otf.DecodeUTF16BE). A non-nil error aborts
// the walk for the current font and is returned from Parse.
type Visitor func(fontIndex int, rec Record, payload []byte) error

const (
	tagTTCF = 0x74746366 // 'ttcf'
	tagOTTO = 0x4F54544F // 'OTTO'
	tagName = 0x6E616D65 // 'name'
)

func be16(b []byte) uint16 { return binary.BigEndian.Uint16(b) }
func be32(b []byte) uint32 { return binary.BigEndian.Uint32(b) }

// Parse decodes data as an OTF, TTF, or TTC container and invokes visit
// for each interesting name-table record, font_index 0 for a standalone
// font and 0..N-1 for each sub-font of a TTC (in file order).
//
// Within a single sub-font, all NameVersion (5) records are visited
// before any of the Family/Full/TypographicFamily records, so a catalog
// ingestor can special-case an English version string as it arrives.
func Parse(data []byte, visit Visitor) error {
	if len(data) < 12 {
		return ErrUnrecognized
	}
	switch be32(data) {
	case tagTTCF:
		return parseTTC(data, visit)
	case tagOTTO, 0x00010000:
		return parseFont(data, 0, 0, visit)
	default:
		return ErrUnrecognized
	}
}

func parseTTC(data []byte, visit Visitor) error {
	const headerLen = 12
	if len(data) < headerLen+4 {
		return ErrCorrupted
	}
	numFonts := be32(data[8:])
	offsetsEnd := headerLen + int(numFonts)*4
	if offsetsEnd > len(data) {
		return ErrCorrupted
	}
	for i := 0; i < int(numFonts); i++ {
		offset := be32(data[headerLen+i*4:])
		if err := parseFont(data, offset, i, visit); err != nil {
			if errors.Is(err, ErrUnrecognized) {
				// a sub-font with an unrecognized magic is corrupt in the
				// context of a TTC: the offset table promised a font here.
				return ErrCorrupted
			}
			return err
		}
	}
	return nil
}

func parseFont(data []byte, headerOffset uint32, fontIndex int, visit Visitor) error {
	if int(headerOffset)+12 > len(data) {
		return ErrCorrupted
	}
	head := data[headerOffset:]
	tag := be32(head)
	if tag != tagOTTO && tag != 0x00010000 {
		return ErrUnrecognized
	}
	numTables := be16(head[4:])
	recStart := int(headerOffset) + 12
	recEnd := recStart + int(numTables)*16
	if recEnd > len(data) {
		return ErrCorrupted
	}
	for i := 0; i < int(numTables); i++ {
		rec := data[recStart+i*16:]
		if be32(rec) != tagName {
			continue
		}
		off := be32(rec[8:])
		length := be32(rec[12:])
		end := uint64(off) + uint64(length)
		if end > uint64(len(data)) {
			return ErrCorrupted
		}
		if err := parseNameTable(data[off:end], fontIndex, visit); err != nil {
			return err
		}
	}
	return nil
}

func parseNameTable(buf []byte, fontIndex int, visit Visitor) error {
	if len(buf) < 6 {
		return ErrCorrupted
	}
	format := be16(buf)
	count := int(be16(buf[2:]))
	strOffset := int(be16(buf[4:]))

	if format != 0 {
		// a recognized file with an unrecognized name-table format: not
		// fatal, this table is simply ignored.
		return nil
	}

	recordsEnd := 6 + count*12
	if recordsEnd > len(buf) || strOffset > len(buf) {
		return ErrCorrupted
	}

	// pass 1: version strings (name ID 5) first
	if err := walkNameRecords(buf, count, strOffset, fontIndex, visit, func(id uint16) bool {
		return id == NameVersion
	}); err != nil {
		return err
	}
	// pass 2: family-ish names
	return walkNameRecords(buf, count, strOffset, fontIndex, visit, func(id uint16) bool {
		return id == NameFamily || id == NameFull || id == NameTypographicFamily
	})
}

func walkNameRecords(buf []byte, count, strOffset, fontIndex int, visit Visitor, want func(uint16) bool) error {
	for i := 0; i < count; i++ {
		rec := buf[6+i*12:]
		platform := be16(rec)
		if platform != platformWindows {
			continue
		}
		nameID := be16(rec[6:])
		if !want(nameID) {
			continue
		}
		length := int(be16(rec[8:]))
		offset := int(be16(rec[10:]))
		start := strOffset + offset
		end := start + length
		if end > len(buf) {
			return ErrCorrupted
		}
		r := Record{
			PlatformID: platform,
			EncodingID: be16(rec[2:]),
			LanguageID: be16(rec[4:]),
			NameID:     nameID,
		}
		if err := visit(fontIndex, r, buf[start:end]); err != nil {
			return err
		}
	}
	return nil
}
