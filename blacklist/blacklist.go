// Package blacklist holds a set of family names whose matching is
// suppressed by the loader: a family on the blacklist is treated as
// though the catalog had no candidates for it at all.
package blacklist

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// List is a case-insensitive set of suppressed family names.
type List struct {
	names map[string]struct{}
}

// Empty returns a List that blocks nothing.
func Empty() *List {
	return &List{names: map[string]struct{}{}}
}

// Contains reports whether family is blacklisted, case-insensitively.
func (l *List) Contains(family string) bool {
	if l == nil {
		return false
	}
	_, ok := l.names[strings.ToLower(family)]
	return ok
}

func (l *List) add(family string) {
	family = strings.TrimSpace(family)
	if family == "" {
		return
	}
	l.names[strings.ToLower(family)] = struct{}{}
}

// Load reads path and parses it as a blacklist file. A missing file is
// non-fatal and returns an empty, non-nil List. The format is chosen by
// content: a file starting with a YAML "families:" document (or any
// valid YAML document with a families list) is parsed as such; anything
// else is read as the plain one-name-per-line format from spec
// (lines terminated by '\r' or '\n', empty lines ignored, no comments,
// no escapes).
func Load(path string) (*List, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Empty(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("blacklist: %w", err)
	}
	return Parse(data)
}

// Parse parses an in-memory blacklist buffer, trying the YAML document
// form first and falling back to the plain-line form.
func Parse(data []byte) (*List, error) {
	if doc, ok := tryParseYAML(data); ok {
		l := Empty()
		for _, f := range doc.Families {
			l.add(f)
		}
		return l, nil
	}
	return parsePlain(data), nil
}

type yamlDoc struct {
	Families []string `yaml:"families"`
}

func tryParseYAML(data []byte) (yamlDoc, bool) {
	var doc yamlDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return yamlDoc{}, false
	}
	if len(doc.Families) == 0 {
		return yamlDoc{}, false
	}
	return doc, true
}

func parsePlain(data []byte) *List {
	l := Empty()
	sc := bufio.NewScanner(strings.NewReader(string(data)))
	sc.Split(func(data []byte, atEOF bool) (advance int, token []byte, err error) {
		for i, b := range data {
			if b == '\r' || b == '\n' {
				return i + 1, data[:i], nil
			}
		}
		if atEOF && len(data) > 0 {
			return len(data), data, nil
		}
		return 0, nil, nil
	})
	for sc.Scan() {
		l.add(sc.Text())
	}
	return l
}
