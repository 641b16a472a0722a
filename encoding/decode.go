// Package encoding recovers text from a subtitle file of unknown
// encoding: BOM detection first, then a UTF-8 validity heuristic, then
// an OS-default 8-bit code page fallback.
package encoding

import (
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Decode converts the raw bytes of a subtitle file into Go text.
// Detection order:
//  1. A byte-order mark: EF BB BF -> UTF-8, FF FE -> UTF-16LE, FE FF -> UTF-16BE.
//  2. No BOM, but the whole buffer is valid UTF-8: decoded as-is.
//  3. Otherwise, a default 8-bit code page: Windows-1252, the common
//     fallback for legacy text with no declared encoding.
func Decode(data []byte) (string, error) {
	if s, ok := decodeBOM(data); ok {
		return s, nil
	}
	if utf8.Valid(data) {
		return string(data), nil
	}
	return decodeCharmap(charmap.Windows1252, data)
}

func decodeBOM(data []byte) (string, bool) {
	switch {
	case len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF:
		return string(data[3:]), true
	case len(data) >= 2 && data[0] == 0xFF && data[1] == 0xFE:
		s, err := decodeUnicode(unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM), data)
		return s, err == nil
	case len(data) >= 2 && data[0] == 0xFE && data[1] == 0xFF:
		s, err := decodeUnicode(unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM), data)
		return s, err == nil
	default:
		return "", false
	}
}

func decodeUnicode(enc encoding.Encoding, data []byte) (string, error) {
	out, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func decodeCharmap(cm *charmap.Charmap, data []byte) (string, error) {
	out, _, err := transform.Bytes(cm.NewDecoder(), data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
