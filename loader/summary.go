package loader

import "strings"

// Summary is the final user-visible tally after a LoadFonts pass, plus
// an expandable per-family log.
type Summary struct {
	Loaded    int
	Failed    int
	Unmatched int
	Files     int
	Faces     int
	Subs      int

	Records []Record
}

// String renders the summary as a tagged per-family log: one line per
// record, tagged [ok]/[ X]/[??]/[^ ], in display order (see
// sortRecords).
func (s Summary) String() string {
	var b strings.Builder
	for i, r := range s.Records {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(r.String())
	}
	return b.String()
}
