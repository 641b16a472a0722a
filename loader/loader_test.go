package loader

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-text/fontprovision/blacklist"
	"github.com/go-text/fontprovision/platform"
)

// buildMinimalOTF returns a standalone OTF container with a single
// Family (name ID 1) record holding face.
func buildMinimalOTF(face string) []byte {
	rs := []rune(face)
	strBytes := make([]byte, 0, len(rs)*2)
	for _, r := range rs {
		strBytes = append(strBytes, byte(r>>8), byte(r))
	}

	nameTable := make([]byte, 6+12+len(strBytes))
	binary.BigEndian.PutUint16(nameTable[2:], 1) // one record
	binary.BigEndian.PutUint16(nameTable[4:], 18) // string storage offset
	binary.BigEndian.PutUint16(nameTable[6:], 3)  // platform: Windows
	binary.BigEndian.PutUint16(nameTable[8:], 1)  // encoding
	binary.BigEndian.PutUint16(nameTable[10:], 0x0409)
	binary.BigEndian.PutUint16(nameTable[12:], 1) // name ID: Family
	binary.BigEndian.PutUint16(nameTable[14:], uint16(len(strBytes)))
	binary.BigEndian.PutUint16(nameTable[16:], 0)
	copy(nameTable[18:], strBytes)

	font := make([]byte, 28)
	binary.BigEndian.PutUint32(font[0:], 0x4F54544F) // 'OTTO'
	binary.BigEndian.PutUint16(font[4:], 1)
	copy(font[12:16], "name")
	binary.BigEndian.PutUint32(font[20:], uint32(len(font)))
	binary.BigEndian.PutUint32(font[24:], uint32(len(nameTable)))
	return append(font, nameTable...)
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestEndToEndLoadOneFamily(t *testing.T) {
	dir := t.TempDir()
	subsDir := filepath.Join(dir, "subs")
	fontsDir := filepath.Join(dir, "fonts")

	writeFile(t, filepath.Join(subsDir, "movie.ass"),
		[]byte("[V4+ Styles]\nStyle: Default,MyFont,20,...\n"))
	writeFile(t, filepath.Join(fontsDir, "MyFont.otf"), buildMinimalOTF("MyFont"))

	l := New(nil, fontsDir, blacklist.Empty(), platform.NewRegistrar())
	if err := l.AddSubs(subsDir); err != nil {
		t.Fatalf("AddSubs: %v", err)
	}
	if l.families.len() != 1 {
		t.Fatalf("families = %d, want 1", l.families.len())
	}
	if err := l.ScanFonts(fontsDir, ""); err != nil {
		t.Fatalf("ScanFonts: %v", err)
	}

	summary := l.LoadFonts()
	if summary.Loaded != 1 {
		t.Fatalf("Loaded = %d, want 1: %+v", summary.Loaded, summary)
	}
	if len(summary.Records) != 1 || summary.Records[0].Flag != LoadOK {
		t.Fatalf("records = %+v, want one LoadOK", summary.Records)
	}

	l.UnloadFonts()
	if len(l.loaded) != 0 {
		t.Fatalf("loaded should be empty after UnloadFonts")
	}
}

func TestUnmatchedFamilyYieldsMiss(t *testing.T) {
	dir := t.TempDir()
	fontsDir := filepath.Join(dir, "fonts")
	writeFile(t, filepath.Join(fontsDir, "placeholder.otf"), buildMinimalOTF("SomeFont"))

	l := New(nil, fontsDir, blacklist.Empty(), platform.NewRegistrar())
	l.families.insert("NeverInstalled")
	if err := l.ScanFonts(fontsDir, ""); err != nil {
		t.Fatalf("ScanFonts: %v", err)
	}

	summary := l.LoadFonts()
	if summary.Unmatched != 1 {
		t.Fatalf("Unmatched = %d, want 1: %+v", summary.Unmatched, summary)
	}
}

func TestBlacklistedFamilyYieldsMiss(t *testing.T) {
	dir := t.TempDir()
	fontsDir := filepath.Join(dir, "fonts")
	writeFile(t, filepath.Join(fontsDir, "blocked.otf"), buildMinimalOTF("Blocked"))

	bl, err := blacklist.Parse([]byte("Blocked\n"))
	if err != nil {
		t.Fatalf("blacklist.Parse: %v", err)
	}
	l := New(nil, fontsDir, bl, platform.NewRegistrar())
	l.families.insert("Blocked")
	if err := l.ScanFonts(fontsDir, ""); err != nil {
		t.Fatalf("ScanFonts: %v", err)
	}

	summary := l.LoadFonts()
	if summary.Unmatched != 1 {
		t.Fatalf("blacklisted family should count as unmatched, got %+v", summary)
	}
}

func TestHashDedupAcrossTwoIdenticalFiles(t *testing.T) {
	dir := t.TempDir()
	fontsDir := filepath.Join(dir, "fonts")
	data := buildMinimalOTF("F")
	writeFile(t, filepath.Join(fontsDir, "A.otf"), data)
	writeFile(t, filepath.Join(fontsDir, "B.otf"), data)

	l := New(nil, fontsDir, blacklist.Empty(), platform.NewRegistrar())
	l.families.insert("F")
	if err := l.ScanFonts(fontsDir, ""); err != nil {
		t.Fatalf("ScanFonts: %v", err)
	}

	summary := l.LoadFonts()
	var okCount, dupCount int
	for _, r := range summary.Records {
		switch r.Flag {
		case LoadOK:
			okCount++
		case LoadDup:
			dupCount++
		}
	}
	if okCount != 1 || dupCount != 1 {
		t.Fatalf("want exactly one LoadOK and one LoadDup, got ok=%d dup=%d (%+v)", okCount, dupCount, summary.Records)
	}
}
