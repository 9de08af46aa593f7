// Package normalizers provides field normalization for match scoring
package normalizers

import (
	"strings"
	"unicode"
)

// Lowercase converts string to lowercase
func Lowercase(s string) string {
	return strings.ToLower(s)
}

// Trim removes leading and trailing whitespace
func Trim(s string) string {
	return strings.TrimSpace(s)
}

// NormalizePhone removes all non-digit characters from a phone number and
// rewrites the +62 / 62 country prefix to the domestic 0 form.
func NormalizePhone(s string) string {
	digits := DigitsOnly(s)
	if strings.HasPrefix(digits, "62") && len(digits) > 9 {
		digits = "0" + digits[2:]
	}
	return digits
}

// DigitsOnly keeps only digit characters
func DigitsOnly(s string) string {
	var result strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// NormalizeName normalizes a person's name for matching
// - Lowercase
// - Remove extra whitespace and punctuation
// - Remove common Indonesian honorific prefixes (H., Hj., KH., Ust., Drs.)
func NormalizeName(s string) string {
	s = strings.ToLower(s)

	prefixes := []string{"h. ", "hj. ", "kh. ", "ust. ", "ustadz ", "drs. ", "ir. ", "dr. "}
	for _, prefix := range prefixes {
		if strings.HasPrefix(s, prefix) {
			s = s[len(prefix):]
		}
	}

	var result strings.Builder
	prevSpace := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			result.WriteRune(r)
			prevSpace = false
		} else if unicode.IsSpace(r) {
			if !prevSpace {
				result.WriteRune(' ')
				prevSpace = true
			}
		}
	}

	return strings.TrimSpace(result.String())
}

// NormalizeAddress lowercases an address and expands the common Indonesian
// abbreviations so token comparison lines up.
func NormalizeAddress(s string) string {
	s = strings.ToLower(s)

	replacements := map[string]string{
		"jl. ":   "jalan ",
		"jln. ":  "jalan ",
		"gg. ":   "gang ",
		"kec. ":  "kecamatan ",
		"kel. ":  "kelurahan ",
		"kab. ":  "kabupaten ",
		"prov. ": "provinsi ",
		"rt. ":   "rt ",
		"rw. ":   "rw ",
	}

	for abbr, full := range replacements {
		s = strings.ReplaceAll(s, abbr, full)
	}

	return strings.Join(strings.Fields(s), " ")
}
