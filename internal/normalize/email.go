package normalize

import (
	"regexp"
	"strings"
)

// emailShape is deliberately permissive: the goal is catching obvious junk,
// not RFC compliance.
var emailShape = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// labelPrefix matches "email:", "correo:", "e-mail:" and similar prefixes
// chat clients and users commonly prepend.
var labelPrefix = regexp.MustCompile(`(?i)^(e-?mail|correo|mail)\s*:\s*`)

// angleWrapped extracts the address from "Name <a@b.com>" forms.
var angleWrapped = regexp.MustCompile(`<([^<>\s]+@[^<>\s]+)>`)

// invisibleRunes are zero-width characters some chat clients inject when
// users paste addresses.
var invisibleRunes = strings.NewReplacer(
	"​", "", // zero width space
	"‌", "", // zero width non-joiner
	"‍", "", // zero width joiner
	"⁠", "", // word joiner
	"\uFEFF", "", // BOM
)

// Email cleans chat artifacts from raw input and validates the remainder.
// The address keeps its original capitalization.
func Email(raw string) (string, bool) {
	s := invisibleRunes.Replace(strings.TrimSpace(raw))
	s = labelPrefix.ReplaceAllString(s, "")
	if m := angleWrapped.FindStringSubmatch(s); m != nil {
		s = m[1]
	}
	s = strings.TrimSpace(s)
	if !emailShape.MatchString(s) {
		return "", false
	}
	return s, true
}
