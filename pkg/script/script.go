// Package script tells whether a string is written (at least partly) in a
// given set of Unicode scripts.
package script

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/rangetable"

	"langmerge/internal/domain"
)

// japanese covers Hiragana, Katakana and the CJK Unified Ideographs block.
var japanese = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x3040, Hi: 0x309f, Stride: 1},
		{Lo: 0x30a0, Hi: 0x30ff, Stride: 1},
		{Lo: 0x4e00, Hi: 0x9fff, Stride: 1},
	},
}

// Detector reports whether text contains a code point from its table.
type Detector struct {
	table *unicode.RangeTable
}

// Japanese returns the default detector.
func Japanese() *Detector {
	return &Detector{table: japanese}
}

// FromScripts builds a detector from Unicode script names such as "Hangul"
// or "Han" (see unicode.Scripts). The pseudo-name "Japanese" expands to the
// default table.
func FromScripts(names ...string) (*Detector, error) {
	tables := make([]*unicode.RangeTable, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if strings.EqualFold(name, "japanese") {
			tables = append(tables, japanese)
			continue
		}
		t, ok := unicode.Scripts[name]
		if !ok {
			return nil, fmt.Errorf("script %q: %w", name, domain.ErrUnknownScript)
		}
		tables = append(tables, t)
	}
	if len(tables) == 0 {
		return nil, domain.ErrNoScripts
	}
	if len(tables) == 1 {
		return &Detector{table: tables[0]}, nil
	}
	return &Detector{table: rangetable.Merge(tables...)}, nil
}

// Matches is false for empty input.
func (d *Detector) Matches(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if unicode.Is(d.table, r) {
			return true
		}
	}
	return false
}
