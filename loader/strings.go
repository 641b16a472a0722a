package loader

import "strings"

// stripAt removes a single leading '@' (the vertical-writing marker),
// matching the family-name set's normalization rule from spec.
func stripAt(name string) string {
	return strings.TrimPrefix(name, "@")
}
