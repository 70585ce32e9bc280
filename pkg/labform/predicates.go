package labform

import (
	"errors"
	"regexp"
	"slices"
	"strings"
	"time"
	_ "time/tzdata"
	"unicode/utf8"
)

var (
	emailPattern   = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	versionPattern = regexp.MustCompile(`^4\.\d+(\.\d+)?$`)
)

// isoLayouts covers the calendar-date forms of ISO-8601 in extended and basic
// notation, with an optional time (hour, minute or second precision, any
// fraction) and an optional offset with or without a colon.
var isoLayouts = buildISOLayouts()

func buildISOLayouts() []string {
	dates := []string{"2006-01-02", "20060102"}
	times := []string{"15", "15:04", "15:04:05", "1504", "150405"}
	offsets := []string{"", "-07:00", "-0700", "-07"}

	layouts := append([]string{}, dates...)
	for _, d := range dates {
		for _, sep := range []string{"T", " "} {
			for _, tm := range times {
				for _, off := range offsets {
					layouts = append(layouts, d+sep+tm+off)
				}
			}
		}
	}
	return layouts
}

var errInvalidDate = errors.New("labform: not an ISO-8601 date")

// IsEmail checks the local@domain.tld shape with a TLD of at least two letters.
func IsEmail(v any) bool {
	s, ok := v.(string)
	if !ok || s == "" {
		return false
	}
	return emailPattern.MatchString(s)
}

// IsOpenShiftVersion accepts 4.y and 4.y.z.
func IsOpenShiftVersion(v any) bool {
	s, ok := v.(string)
	if !ok || s == "" {
		return false
	}
	return versionPattern.MatchString(s)
}

// IsTimezone reports whether v names a zone in the IANA database.
func IsTimezone(v any) bool {
	s, ok := v.(string)
	if !ok || s == "" || s == "Local" {
		return false
	}
	_, err := time.LoadLocation(s)
	return err == nil
}

// IsOneOf is a case-sensitive membership test.
func IsOneOf(v any, allowed []string) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	return slices.Contains(allowed, s)
}

func IsISODate(v any) bool {
	s, ok := v.(string)
	if !ok || s == "" {
		return false
	}
	_, err := ParseISODate(s)
	return err == nil
}

// ParseISODate parses the ISO-8601 date and date-time forms accepted by the
// form. A trailing Z is read as +00:00. Values without an offset are UTC.
func ParseISODate(s string) (time.Time, error) {
	if strings.HasSuffix(s, "Z") {
		s = strings.TrimSuffix(s, "Z") + "+00:00"
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errInvalidDate
}

// IsBoolean does not coerce strings: only a native bool passes.
func IsBoolean(v any) bool {
	_, ok := v.(bool)
	return ok
}

// IsRequiredString checks that the trimmed value has at least minLength characters.
func IsRequiredString(v any, minLength int) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	return utf8.RuneCountInString(strings.TrimSpace(s)) >= minLength
}

func IsOptionalString(v any) bool {
	if v == nil {
		return true
	}
	_, ok := v.(string)
	return ok
}

// isBlank mirrors the truthiness test used for required fields.
func isBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case int:
		return t == 0
	case int64:
		return t == 0
	case float64:
		return t == 0
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	default:
		return false
	}
}
