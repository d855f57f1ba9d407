package catalog

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	spaceCollapser = regexp.MustCompile(`\s+`)
)

// Normalize lowercases, strips accents, and collapses whitespace so that
// "Cartagena de Indias " and "cartagena de indias" compare equal.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	if out, _, err := transform.String(accentStripper, s); err == nil {
		s = out
	}
	s = strings.ToLower(s)
	return spaceCollapser.ReplaceAllString(s, " ")
}

var cityAliases = map[string]string{
	"cartagena de indias": "cartagena",
	"cartagena":           "cartagena",
	"medellin":            "medellin",
	"cdmx":                "mexico city",
	"mexico":              "mexico city",
	"mexico city":         "mexico city",
	"mxcity":              "mexico city",
	"tulum":               "tulum",
}

var serviceAliases = map[string]string{
	"villa":     "villas",
	"villas":    "villas",
	"boat":      "boats",
	"boats":     "boats",
	"yacht":     "boats",
	"yachts":    "boats",
	"island":    "islands",
	"islands":   "islands",
	"wedding":   "weddings",
	"weddings":  "weddings",
	"concierge": "concierge",
	"team":      "team",
}

// CanonicalCity maps free-form city text to the fixed internal key.
// Unknown cities pass through normalized.
func CanonicalCity(city string) string {
	x := Normalize(city)
	if c, ok := cityAliases[x]; ok {
		return c
	}
	return x
}

// CanonicalService maps free-form service text to the fixed internal key.
func CanonicalService(service string) string {
	x := Normalize(service)
	if s, ok := serviceAliases[x]; ok {
		return s
	}
	return x
}
