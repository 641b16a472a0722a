package fontscan

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// cacheMagic is the on-disk magic, ASCII 'f','l','d','d' read as a
// little-endian u32.
const cacheMagic uint32 = 'f' | 'l'<<8 | 'd'<<16 | 'd'<<24

var (
	// ErrCacheUnrecognized is returned by Load when the file's magic or
	// declared size does not match what Dump writes.
	ErrCacheUnrecognized = errors.New("fontscan: unrecognized cache file")
)

// Dump writes the catalog's current arena contents to w as a cache file:
// magic, {num_file, num_face}, total size, then the raw UTF-16LE arena
// payload verbatim. Dump may be called on a catalog built from a
// directory walk; it is not meaningful for one loaded read-only from a
// cache (its own Dump would just echo the same bytes back).
func (c *Catalog) Dump(w io.Writer) error {
	units := c.arena.Units()
	payload := make([]byte, len(units)*2)
	for i, u := range units {
		binary.LittleEndian.PutUint16(payload[i*2:], u)
	}

	const headerLen = 4 + 4 + 4 + 4 // magic, num_file, num_face, size
	size := uint32(headerLen + len(payload))

	bw := bufio.NewWriter(w)
	var hdr [headerLen]byte
	binary.LittleEndian.PutUint32(hdr[0:], cacheMagic)
	binary.LittleEndian.PutUint32(hdr[4:], c.numFile)
	binary.LittleEndian.PutUint32(hdr[8:], c.numFace)
	binary.LittleEndian.PutUint32(hdr[12:], size)
	if _, err := bw.Write(hdr[:]); err != nil {
		return fmt.Errorf("fontscan: writing cache header: %w", err)
	}
	if _, err := bw.Write(payload); err != nil {
		return fmt.Errorf("fontscan: writing cache payload: %w", err)
	}
	return bw.Flush()
}

// DumpFile is a convenience wrapper creating (or truncating) path and
// calling Dump on it.
func (c *Catalog) DumpFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("fontscan: %w", err)
	}
	defer f.Close()
	return c.Dump(f)
}

// Load reads a cache file previously written by Dump. On success it
// returns a Catalog whose arena is a read-only adoption of the cache
// payload; its index is rebuilt immediately (Build is called for the
// caller). Mismatched magic or size yields ErrCacheUnrecognized; I/O
// failures are returned wrapped.
func Load(logger Logger, path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fontscan: reading cache: %w", err)
	}
	return LoadBytes(logger, data)
}

// LoadBytes is Load taking an already-read cache buffer (e.g. from a
// memory-map) instead of a path.
func LoadBytes(logger Logger, data []byte) (*Catalog, error) {
	const headerLen = 16
	if len(data) < headerLen {
		return nil, ErrCacheUnrecognized
	}
	magic := binary.LittleEndian.Uint32(data[0:])
	if magic != cacheMagic {
		return nil, ErrCacheUnrecognized
	}
	numFile := binary.LittleEndian.Uint32(data[4:])
	numFace := binary.LittleEndian.Uint32(data[8:])
	size := binary.LittleEndian.Uint32(data[12:])
	if size < 8 || int(size) != len(data) {
		return nil, ErrCacheUnrecognized
	}

	payload := data[headerLen:]
	if len(payload)%2 != 0 {
		return nil, ErrCacheUnrecognized
	}
	units := make([]uint16, len(payload)/2)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(payload[i*2:])
	}
	if len(units) == 0 || units[len(units)-1] != 0 {
		return nil, ErrCacheUnrecognized
	}

	c := New(logger)
	c.arena.LoadReadonly(units, 0)
	c.numFile = numFile
	c.numFace = numFace
	c.Build()
	return c, nil
}
