package tz

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar date format stamped into generated metadata.
const DateLayout = "2006-01-02"

// Resolve loads an IANA zone; an empty name means the process local zone.
func Resolve(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("tz: load %s: %w", name, err)
	}
	return loc, nil
}

// Date formats t as YYYY-MM-DD in loc.
func Date(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DateLayout)
}
