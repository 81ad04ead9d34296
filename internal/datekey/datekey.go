// Package datekey converts calendar dates to and from the fixed-width
// YYYYMMDD key used as the device export filename stem.
package datekey

import (
	"strings"
	"time"
)

const (
	// KeyLayout is the 8-digit filename stem format of device exports.
	KeyLayout = "20060102"
	// DailyNoteLayout is the basename format of vault daily notes.
	DailyNoteLayout = "2006-01-02"
)

// Encode formats the date's local calendar fields as an 8-digit key.
// No timezone normalization is performed.
func Encode(t time.Time) string {
	return t.Format(KeyLayout)
}

// Decode parses an 8-digit key back into a date. Returns ok=false for
// anything that is not exactly YYYYMMDD.
func Decode(key string) (time.Time, bool) {
	if len(key) != len(KeyLayout) {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(KeyLayout, key, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParseDailyNoteName parses a daily note basename (with or without the .md
// extension) as a date. Returns ok=false when the basename is not a valid
// YYYY-MM-DD date, so callers can treat it as "not a daily note" instead of
// propagating a malformed date.
func ParseDailyNoteName(base string) (time.Time, bool) {
	name := strings.TrimSuffix(base, ".md")
	if len(name) != len(DailyNoteLayout) {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(DailyNoteLayout, name, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// DailyNoteName returns the canonical daily note basename for a date.
func DailyNoteName(t time.Time) string {
	return t.Format(DailyNoteLayout) + ".md"
}
