// internal/app/system/normalize/normalize.go

// Package normalize canonicalizes user-supplied profile input before
// validation and storage, so equality checks (duplicate student ids, search)
// see one spelling of each value.
package normalize

import (
	"net/url"
	"strings"
)

// Name trims surrounding whitespace and preserves case. Collapses interior
// runs of spaces to a single space.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// StudentID trims whitespace and uppercases the campus id, matching how the
// registrar prints them (e.g. "b1234567" → "B1234567").
func StudentID(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// YearLabel trims the academic-year label. The label is free text
// ("2年生", "OB"), so nothing else is assumed about it.
func YearLabel(s string) string {
	return strings.TrimSpace(s)
}

// Roles trims each role label and drops blanks, preserving order.
func Roles(roles []string) []string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		if t := Name(r); t != "" {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// URL trims the string and reports whether it is an absolute http(s) URL.
// The normalized value is returned unchanged beyond trimming; favorite links
// keep whatever casing and path the member pasted.
func URL(s string) (string, bool) {
	s = strings.TrimSpace(s)
	u, err := url.Parse(s)
	if err != nil {
		return s, false
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return s, false
	}
	return s, true
}
