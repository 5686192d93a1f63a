package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9-]+`)
var multiDash = regexp.MustCompile(`-+`)

// Slugify lowercases input, folds accented letters to ASCII and joins words
// with single dashes.
func Slugify(input string) string {
	s := strings.ToLower(strings.TrimSpace(foldAccents(input)))
	s = strings.NewReplacer("'", "", "’", "", "&", " and ", "/", " ", "_", " ").Replace(s)
	s = strings.Join(strings.Fields(s), "-")
	s = nonSlugChars.ReplaceAllString(s, "-")
	s = multiDash.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// foldAccents strips combining marks, so "Fáilte" becomes "Failte".
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
