// Package normalize parses free-form chat input (names, emails, dates,
// party sizes) into typed values with tolerant fallbacks.
package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// nameTokens matches alphabetic runs of length >= 2, permitting accented
// characters and apostrophes the way people actually type their names.
var nameTokens = regexp.MustCompile(`[A-Za-zÁÉÍÓÚÜÑáéíóúüñ']{2,}`)

// maxNameTokens caps how much of a long message becomes the contact name.
const maxNameTokens = 2

var titleCaser = cases.Title(language.Und)

// Name extracts a display name from free text. It returns the title-cased
// first tokens and whether at least minTokens valid tokens were found.
// minTokens below 1 is treated as 1.
func Name(raw string, minTokens int) (string, bool) {
	if minTokens < 1 {
		minTokens = 1
	}
	tokens := nameTokens.FindAllString(raw, -1)
	if len(tokens) < minTokens {
		return "", false
	}
	if len(tokens) > maxNameTokens {
		tokens = tokens[:maxNameTokens]
	}
	return titleCaser.String(strings.ToLower(strings.Join(tokens, " "))), true
}
