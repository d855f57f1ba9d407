package session

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// NormalizeIdentity reduces a phone number to the stable digit string used
// as the session key. Numbers that parse get E.164 digits; anything else
// falls back to stripping non-digits, which matches how WhatsApp delivers
// sender ids.
func NormalizeIdentity(raw, defaultRegion string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	parsed, err := phonenumbers.Parse(raw, defaultRegion)
	if err == nil && phonenumbers.IsValidNumber(parsed) {
		return strings.TrimPrefix(phonenumbers.Format(parsed, phonenumbers.E164), "+")
	}

	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	return digits.String()
}
