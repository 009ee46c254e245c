package utils

import (
	"regexp"
	"strings"
)

// Indonesian civilian plates: region code (1-2 letters), number (1-4
// digits), optional series suffix (up to 3 letters). "BM 1234 XY" etc.
var platePattern = regexp.MustCompile(`^[A-Z]{1,2} \d{1,4}(?: [A-Z]{1,3})?$`)

// NormalizePlate uppercases and collapses whitespace so "bm1234xy" and
// "BM 1234 XY" compare equal.
func NormalizePlate(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.Join(strings.Fields(s), " ")
	if strings.Contains(s, " ") {
		return s
	}
	// split compact form LLdddLL into spaced groups
	var region, digits, suffix strings.Builder
	i := 0
	for i < len(s) && s[i] >= 'A' && s[i] <= 'Z' {
		region.WriteByte(s[i])
		i++
	}
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		digits.WriteByte(s[i])
		i++
	}
	for i < len(s) && s[i] >= 'A' && s[i] <= 'Z' {
		suffix.WriteByte(s[i])
		i++
	}
	if i != len(s) || region.Len() == 0 || digits.Len() == 0 {
		return s
	}
	out := region.String() + " " + digits.String()
	if suffix.Len() > 0 {
		out += " " + suffix.String()
	}
	return out
}

// ValidPlate reports whether s is a well-formed plate after normalization.
func ValidPlate(s string) bool {
	return platePattern.MatchString(NormalizePlate(s))
}
