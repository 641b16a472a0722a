package otf

import (
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var utf16BEDecoder = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()

// DecodeUTF16BE converts the big-endian UTF-16 payload of a Windows
// platform name record (as delivered to a Visitor) into a Go string.
func DecodeUTF16BE(payload []byte) (string, error) {
	out, _, err := transform.Bytes(utf16BEDecoder, payload)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
