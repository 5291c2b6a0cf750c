package socrata

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RawRecord is one row from a Socrata dataset: an untyped key-value mapping
// whose field names vary by dataset and drift over time. Accessors take an
// ordered list of field-name aliases and return the first value present, so
// transforms can probe a primary name followed by legacy fallbacks instead of
// assuming a fixed schema.
type RawRecord map[string]interface{}

// Str returns the first non-empty string value among the named fields, or ""
// if none is present.
func (r RawRecord) Str(names ...string) string {
	for _, name := range names {
		v, ok := r[name]
		if !ok || v == nil {
			continue
		}
		var s string
		switch t := v.(type) {
		case string:
			s = strings.TrimSpace(t)
		case float64:
			// Socrata occasionally types numeric-looking columns as numbers.
			s = strconv.FormatFloat(t, 'f', -1, 64)
		default:
			s = strings.TrimSpace(fmt.Sprint(t))
		}
		if s != "" {
			return s
		}
	}
	return ""
}

// Int returns the first parseable integer among the named fields, or nil.
// Decimal strings like "123.0" parse as their truncated integer value.
func (r RawRecord) Int(names ...string) *int {
	s := r.Str(names...)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	n := int(f)
	return &n
}

// Float returns the first parseable float among the named fields, or nil.
func (r RawRecord) Float(names ...string) *float64 {
	s := r.Str(names...)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

// Date returns the first parseable timestamp among the named fields, or nil.
// Socrata emits ISO-8601 timestamps, sometimes date-only and sometimes with a
// zone suffix.
func (r RawRecord) Date(names ...string) *time.Time {
	s := r.Str(names...)
	if s == "" {
		return nil
	}
	return ParseDate(s)
}

// ParseDate parses a Socrata date string. Returns nil when the value cannot
// be parsed.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	layouts := []string{
		"2006-01-02T15:04:05.000",
		"2006-01-02T15:04:05",
		time.RFC3339,
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	// Date-only prefix fallback for long-form values.
	if len(s) >= 10 {
		if t, err := time.Parse("2006-01-02", s[:10]); err == nil {
			return &t
		}
	}
	return nil
}
