// Package normalize converts Brazilian-locale numeric and date strings into
// canonical values. Parse failures degrade instead of erroring: summation
// contexts get 0, display contexts get nil/empty, per the consumer's choice
// of function.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonAlnumRun  = regexp.MustCompile(`[^a-z0-9]+`)
	spaceRun     = regexp.MustCompile(` +`)
	trailingZero = regexp.MustCompile(`\.0+$`)

	asciiFold = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// ParseDecimal parses a Brazilian-formatted decimal ("1.234,56" -> 1234.56).
// Empty or unparseable input yields 0 so that the value is safe to sum.
func ParseDecimal(s string) float64 {
	f := ParseDecimalOrNil(s)
	if f == nil {
		return 0
	}
	return *f
}

// ParseDecimalOrNil is the display-formatting variant of ParseDecimal: it
// returns nil for empty or unparseable input so non-numeric text is not
// silently turned into zero.
func ParseDecimalOrNil(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

// ParseFloat parses a plain decimal string ("1234.56"), accepting a comma as
// the decimal marker. Empty or unparseable input yields 0.
func ParseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// FormatScaled treats an integer-like string as a fixed-point value with an
// implicit 2-decimal scale and inserts the decimal point: "150" -> "1.50",
// "5" -> "0.05". Empty input yields "" (absence is meaningful here and must
// not become zero). Input that already carries a decimal marker is refused.
func FormatScaled(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if strings.ContainsAny(s, ".,") {
		return ""
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return ""
	}
	digits := strconv.FormatInt(n, 10)
	neg := ""
	if strings.HasPrefix(digits, "-") {
		neg = "-"
		digits = digits[1:]
	}
	if len(digits) <= 2 {
		for len(digits) < 2 {
			digits = "0" + digits
		}
		return neg + "0." + digits
	}
	return neg + digits[:len(digits)-2] + "." + digits[len(digits)-2:]
}

// FormatDateBR reformats an ISO date (with or without a time suffix) or an
// already-Brazilian date to DD/MM/YYYY. Unparseable input yields "".
func FormatDateBR(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if len(s) > 10 {
		s = s[:10]
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.Format("02/01/2006")
	}
	if t, err := time.Parse("02/01/2006", s); err == nil {
		return t.Format("02/01/2006")
	}
	return ""
}

// Slugify converts free text into a lowercase ASCII identifier: accents
// folded away, non-alphanumeric runs collapsed to single hyphens, edges
// trimmed. The function is idempotent.
func Slugify(s string) string {
	s = strings.ToLower(s)
	if folded, _, err := transform.String(asciiFold, s); err == nil {
		s = folded
	}
	// drop whatever survived folding outside ASCII
	var b strings.Builder
	for _, r := range s {
		if r < 128 {
			b.WriteRune(r)
		}
	}
	s = nonAlnumRun.ReplaceAllString(b.String(), "-")
	return strings.Trim(s, "-")
}

// CleanDescription collapses runs of spaces and trims the edges.
func CleanDescription(s string) string {
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}

// OnlyDigits strips every non-digit rune.
func OnlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ToNumericString coerces an identifier column to its numeric form:
// "04501.0" -> "4501". Unparseable input yields "".
func ToNumericString(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = trailingZero.ReplaceAllString(s, "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return ""
	}
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// PadCNPJ left-pads a tax identification number to exactly 14 digits,
// first stripping any ".0" artifact left behind by numeric coercion.
// Empty input stays empty.
func PadCNPJ(s string) string {
	s = strings.TrimSpace(strings.TrimSuffix(s, ".0"))
	if s == "" {
		return ""
	}
	for len(s) < 14 {
		s = "0" + s
	}
	return s
}

// Round2 rounds to two decimal places.
func Round2(f float64) float64 {
	scaled, err := strconv.ParseFloat(strconv.FormatFloat(f, 'f', 2, 64), 64)
	if err != nil {
		return f
	}
	return scaled
}
