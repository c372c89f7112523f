package shared

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var slugSeparators = strings.NewReplacer("_", "-", " ", "-")

// Slugify converts a string to lowercase ASCII letters, digits and hyphens.
// Accents are folded, other characters dropped and runs of hyphens collapsed.
func Slugify(s string) string {
	folded, _, err := transform.String(
		transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		folded = s
	}
	folded = slugSeparators.Replace(strings.ToLower(strings.TrimSpace(folded)))

	var b strings.Builder
	lastHyphen := false
	for _, r := range folded {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			lastHyphen = false
		case r == '-' && !lastHyphen && b.Len() > 0:
			b.WriteRune(r)
			lastHyphen = true
		}
	}
	return strings.Trim(b.String(), "-")
}
