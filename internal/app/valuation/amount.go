package valuation

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ResolveAmount returns the effective amount for a holding. An override
// string, when present, wins over the committed amount. The first comma is
// read as a decimal separator. Anything that does not start with a number
// resolves to 0; the result is always finite.
func ResolveAmount(holdingID string, committed float64, overrides map[string]string) float64 {
	raw, ok := overrides[holdingID]
	if !ok {
		raw = CanonicalAmount(committed)
	}
	return ParseAmount(raw)
}

// CanonicalAmount renders a committed amount the way it is shown in an empty edit field.
func CanonicalAmount(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return ""
	}
	return strconv.FormatFloat(amount, 'f', -1, 64)
}

// ParseAmount parses user input leniently: leading whitespace is skipped,
// the longest numeric prefix is used and trailing garbage is ignored.
func ParseAmount(raw string) float64 {
	s := strings.Replace(raw, ",", ".", 1)
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	prefix := numericPrefix(s)
	if prefix == "" {
		return 0
	}
	v, err := strconv.ParseFloat(prefix, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// numericPrefix returns the longest prefix of s that is a decimal literal
// with an optional sign, fraction and exponent.
func numericPrefix(s string) string {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		frac := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			frac++
		}
		if digits > 0 || frac > 0 {
			i = j
			digits += frac
		}
	}
	if digits == 0 {
		return ""
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		exp := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			exp++
		}
		if exp > 0 {
			i = j
		}
	}
	return s[:i]
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
