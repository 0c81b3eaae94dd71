package price

import (
	"regexp"
	"strings"

	"ofmlcore/internal/core"
)

var priceGroupPattern = regexp.MustCompile(`^(PG|GL|MG)\d+$`)
var manufacturerCodePattern = regexp.MustCompile(`^S_\w+$`)

// heuristicMatch implements the fallback token-pattern matching used when
// the variant resolver produced an empty condition set: case-insensitive
// exact match against any property value, PG\d+/GL\d+/MG\d+ price-group
// patterns matching any property value, or S_-prefixed manufacturer codes
// whose suffix is a prefix, suffix, or embedded substring of some property
// value.
func heuristicMatch(token string, assignment map[string]core.Value) bool {
	for _, v := range assignment {
		val := valueString(v)
		if strings.EqualFold(token, val) {
			return true
		}
	}

	if priceGroupPattern.MatchString(token) {
		for _, v := range assignment {
			if strings.EqualFold(token, valueString(v)) {
				return true
			}
		}
		// Price-group tokens are also accepted as a bare membership
		// signal: any property carrying exactly this token as its
		// value already matched above; groups additionally match when
		// the token appears as a case-insensitive substring of a
		// property value (manufacturer price-group coding embeds the
		// group id inside a composite value).
		for _, v := range assignment {
			if strings.Contains(strings.ToUpper(valueString(v)), strings.ToUpper(token)) {
				return true
			}
		}
		return false
	}

	if manufacturerCodePattern.MatchString(token) {
		suffix := strings.ToUpper(token[2:])
		for _, v := range assignment {
			val := strings.ToUpper(valueString(v))
			if strings.HasPrefix(val, suffix) || strings.HasSuffix(val, suffix) || strings.Contains(val, suffix) {
				return true
			}
		}
	}

	return false
}

func valueString(v core.Value) string {
	if v.Kind() == core.KindString {
		return v.AsString()
	}
	return v.String()
}
