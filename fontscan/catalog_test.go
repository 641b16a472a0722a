package fontscan

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/go-text/fontprovision/otf"
)

type nameEntry struct {
	nameID uint16
	lang   uint16
	value  string
}

func utf16be(s string) []byte {
	rs := []rune(s)
	out := make([]byte, 0, len(rs)*2)
	for _, r := range rs {
		out = append(out, byte(r>>8), byte(r))
	}
	return out
}

func buildNameTable(entries []nameEntry) []byte {
	var strs []byte
	type rec struct {
		nameID, lang, off, length uint16
	}
	var recs []rec
	for _, e := range entries {
		u := utf16be(e.value)
		recs = append(recs, rec{e.nameID, e.lang, uint16(len(strs)), uint16(len(u))})
		strs = append(strs, u...)
	}
	headerLen := 6
	buf := make([]byte, headerLen+12*len(recs))
	binary.BigEndian.PutUint16(buf[2:], uint16(len(recs)))
	binary.BigEndian.PutUint16(buf[4:], uint16(len(buf)))
	for i, r := range recs {
		o := headerLen + i*12
		binary.BigEndian.PutUint16(buf[o:], 3) // platform Windows
		binary.BigEndian.PutUint16(buf[o+2:], 1)
		binary.BigEndian.PutUint16(buf[o+4:], r.lang)
		binary.BigEndian.PutUint16(buf[o+6:], r.nameID)
		binary.BigEndian.PutUint16(buf[o+8:], r.length)
		binary.BigEndian.PutUint16(buf[o+10:], r.off)
	}
	return append(buf, strs...)
}

func buildOTF(magic uint32, nameTable []byte) []byte {
	buf := make([]byte, 28)
	binary.BigEndian.PutUint32(buf[0:], magic)
	binary.BigEndian.PutUint16(buf[4:], 1)
	copy(buf[12:16], "name")
	binary.BigEndian.PutUint32(buf[20:], uint32(len(buf))) // offset
	binary.BigEndian.PutUint32(buf[24:], uint32(len(nameTable))) // length
	return append(buf, nameTable...)
}

func fontWithFaceAndVersion(face, version string, englishVersion bool) []byte {
	lang := uint16(0x0409)
	if !englishVersion {
		lang = 0x0411 // Japanese, arbitrary non-English
	}
	nt := buildNameTable([]nameEntry{
		{otf.NameVersion, lang, version},
		{otf.NameFamily, 0x0409, face},
	})
	return buildOTF(0x4F54544F, nt)
}

func TestAddFontAndBuildIndexRoundTrip(t *testing.T) {
	c := New(nil)
	if err := c.AddFont("FileA.ttf", fontWithFaceAndVersion("F", "1.0", true)); err != nil {
		t.Fatalf("AddFont FileA: %v", err)
	}
	if err := c.AddFont("FileB.ttf", fontWithFaceAndVersion("G", "2.1", true)); err != nil {
		t.Fatalf("AddFont FileB: %v", err)
	}
	c.Build()

	if c.NumFile() != 2 || c.NumFace() != 2 {
		t.Fatalf("counts = %d/%d, want 2/2", c.NumFile(), c.NumFace())
	}

	it := c.Iter("F")
	cand, ok := it.Next()
	if !ok || cand.Tag != "FileA.ttf" {
		t.Fatalf("iter(F) = %+v, ok=%v, want FileA.ttf", cand, ok)
	}
	if _, ok := it.Next(); ok {
		t.Fatalf("iter(F) yielded a second candidate, want exactly one")
	}

	it2 := c.Iter("g") // case-insensitive
	cand2, ok := it2.Next()
	if !ok || cand2.Tag != "FileB.ttf" {
		t.Fatalf("iter(g) = %+v, ok=%v, want FileB.ttf", cand2, ok)
	}
}

func TestVersionOrderingTotalOrder(t *testing.T) {
	if compareVersions("1.09", "1.9") != 0 {
		t.Fatalf("1.09 vs 1.9: want equal")
	}
	if compareVersions("1.900", "1.199") <= 0 {
		t.Fatalf("1.900 vs 1.199: want 1.900 greater")
	}
	if compareVersions("", "1.0") >= 0 {
		t.Fatalf("null version should be less than any non-null version")
	}
}

func TestHighestVersionSortsFirst(t *testing.T) {
	c := New(nil)
	must(t, c.AddFont("Old.ttf", fontWithFaceAndVersion("F", "1.0", true)))
	must(t, c.AddFont("New.ttf", fontWithFaceAndVersion("F", "2.0", true)))
	c.Build()

	it := c.Iter("F")
	cand, ok := it.Next()
	if !ok || cand.Tag != "New.ttf" {
		t.Fatalf("highest version should sort first, got %+v ok=%v", cand, ok)
	}
}

func TestEnglishVersionOverwritesEarlierNonEnglish(t *testing.T) {
	nt := buildNameTable([]nameEntry{
		{otf.NameVersion, 0x0411, "Version (ja) 1.0"},
		{otf.NameVersion, 0x0409, "Version 2.0"},
		{otf.NameFamily, 0x0409, "F"},
	})
	font := buildOTF(0x4F54544F, nt)

	c := New(nil)
	must(t, c.AddFont("File.ttf", font))
	c.Build()

	it := c.Iter("F")
	cand, ok := it.Next()
	if !ok {
		t.Fatal("expected a candidate")
	}
	if cand.Version != "Version 2.0" {
		t.Fatalf("version = %q, want the later English version to win", cand.Version)
	}
}

func TestDuplicateFaceWithinSubFontSuppressed(t *testing.T) {
	nt := buildNameTable([]nameEntry{
		{otf.NameFamily, 0x0409, "F"},
		{otf.NameFull, 0x0409, "F"},
	})
	font := buildOTF(0x4F54544F, nt)

	c := New(nil)
	must(t, c.AddFont("File.ttf", font))
	c.Build()
	if c.NumFace() != 1 {
		t.Fatalf("NumFace = %d, want 1 (duplicate face string suppressed)", c.NumFace())
	}
}

func TestCacheDumpLoadRoundTrip(t *testing.T) {
	c := New(nil)
	must(t, c.AddFont("FileA.ttf", fontWithFaceAndVersion("F", "1.0", true)))
	must(t, c.AddFont("FileB.ttf", fontWithFaceAndVersion("G", "2.1", true)))
	c.Build()

	var buf bytes.Buffer
	if err := c.Dump(&buf); err != nil {
		t.Fatalf("Dump: %v", err)
	}

	loaded, err := LoadBytes(nil, buf.Bytes())
	if err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}
	if loaded.NumFile() != c.NumFile() || loaded.NumFace() != c.NumFace() {
		t.Fatalf("round-tripped counts = %d/%d, want %d/%d",
			loaded.NumFile(), loaded.NumFace(), c.NumFile(), c.NumFace())
	}
	if got, ok := loaded.Iter("F").Next(); !ok || got.Tag != "FileA.ttf" {
		t.Fatalf("loaded iter(F) = %+v ok=%v, want FileA.ttf", got, ok)
	}
	if got, ok := loaded.Iter("g").Next(); !ok || got.Tag != "FileB.ttf" {
		t.Fatalf("loaded iter(g) = %+v ok=%v, want FileB.ttf", got, ok)
	}
}

func TestLoadBytesRejectsBadMagic(t *testing.T) {
	_, err := LoadBytes(nil, make([]byte, 20))
	if err != ErrCacheUnrecognized {
		t.Fatalf("err = %v, want ErrCacheUnrecognized", err)
	}
}

func TestUnrecognizedFontNotCounted(t *testing.T) {
	c := New(nil)
	err := c.AddFont("junk.ttf", make([]byte, 4))
	if err == nil {
		t.Fatal("expected an error for a too-short file")
	}
	if c.NumFile() != 0 {
		t.Fatalf("NumFile = %d, want 0 for a rejected file", c.NumFile())
	}
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
