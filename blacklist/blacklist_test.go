package blacklist

import "testing"

func TestPlainFormat(t *testing.T) {
	l, err := Parse([]byte("Comic Sans MS\r\nWingdings\n\nPapyrus\r"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	for _, f := range []string{"Comic Sans MS", "comic sans ms", "Wingdings", "Papyrus"} {
		if !l.Contains(f) {
			t.Fatalf("expected %q to be blacklisted", f)
		}
	}
	if l.Contains("Arial") {
		t.Fatal("Arial should not be blacklisted")
	}
}

func TestYAMLFormat(t *testing.T) {
	l, err := Parse([]byte("families:\n  - Comic Sans MS\n  - Wingdings\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !l.Contains("wingdings") {
		t.Fatal("expected Wingdings to be blacklisted")
	}
}

func TestMissingFileIsNonFatal(t *testing.T) {
	l, err := Load("/nonexistent/path/blacklist.txt")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if l.Contains("Arial") {
		t.Fatal("empty blacklist should contain nothing")
	}
}

func TestEmptyListContainsNothing(t *testing.T) {
	l := Empty()
	if l.Contains("anything") {
		t.Fatal("empty list should contain nothing")
	}
}
