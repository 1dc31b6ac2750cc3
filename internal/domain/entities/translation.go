package entities

import "sort"

// Mapping is one flat translation file: key -> localized text. Values are
// usually strings; anything else a file carries (json.Number, bool, nil,
// nested objects) is passed through untouched.
type Mapping map[string]any

// Keys returns the sorted union of the keys of all given mappings.
func Keys(ms ...Mapping) []string {
	seen := make(map[string]struct{})
	for _, m := range ms {
		for k := range m {
			seen[k] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// MergeResult is the outcome of merging one relative path.
type MergeResult struct {
	RelPath string
	Merged  Mapping
	Adopted int // keys where the manual value won
}
