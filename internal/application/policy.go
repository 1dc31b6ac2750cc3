package application

import (
	"encoding/json"
	"strconv"

	"langmerge/internal/domain/entities"
)

// Detector decides whether a value is actually written in the target script.
type Detector interface {
	Matches(s string) bool
}

// MergeMappings combines one manual and one machine-translated mapping. For
// every key in the union the manual value wins only when it is a non-empty
// string that passes d; otherwise a usable machine value is used. When
// neither side is usable the manual value is kept if it is non-null, else the
// machine one.
//
// The second result is the number of keys that took the manual value.
func MergeMappings(manual, machine entities.Mapping, d Detector) (entities.Mapping, int) {
	merged := make(entities.Mapping, len(manual)+len(machine))
	adopted := 0

	for _, key := range entities.Keys(manual, machine) {
		m := manual[key]
		t := machine[key]

		switch {
		case translated(m, d):
			merged[key] = m
			adopted++
		case usable(t):
			merged[key] = t
		case m != nil:
			merged[key] = m
		default:
			merged[key] = t
		}
	}
	return merged, adopted
}

func translated(v any, d Detector) bool {
	s, ok := v.(string)
	return ok && s != "" && d.Matches(s)
}

// usable reports whether v carries something: a non-empty string, true, a
// non-zero number or a non-empty object/array.
func usable(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case bool:
		return x
	case json.Number:
		f, err := strconv.ParseFloat(string(x), 64)
		return err != nil || f != 0
	case float64:
		return x != 0
	case map[string]any:
		return len(x) > 0
	case []any:
		return len(x) > 0
	default:
		return true
	}
}
