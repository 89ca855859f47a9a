package allocation

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeKey turns a spreadsheet label into a join key: accents removed,
// whitespace collapsed, upper case. "  1ª  Gre " and "1ª GRE" share a key.
func NormalizeKey(s string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		folded = s
	}
	return strings.ToUpper(strings.Join(strings.Fields(folded), " "))
}

// CleanLabel trims and collapses whitespace but keeps the original spelling
func CleanLabel(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

var blankPersonKeys = map[string]bool{
	"":               true,
	"-":              true,
	"SEM INFORMACAO": true,
	"SEM INFO":       true,
	"NAN":            true,
}

// IsBlankPerson reports whether a person cell means nobody is allocated
func IsBlankPerson(s string) bool {
	return blankPersonKeys[NormalizeKey(s)]
}
