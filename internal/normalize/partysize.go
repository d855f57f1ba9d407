package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

// paxFromSelection maps the bounded choice ids offered in chat to a
// representative guest count. WED_PAX_UNK maps to 0 (unknown).
var paxFromSelection = map[string]int{
	"PAX_5":  5,
	"PAX_10": 10,
	"PAX_20": 20,
	"PAX_21": 21,

	"WED_PAX_50":  50,
	"WED_PAX_100": 100,
	"WED_PAX_200": 200,
	"WED_PAX_201": 201,
	"WED_PAX_UNK": 0,
}

var leadingInt = regexp.MustCompile(`\d+`)

// PartySize resolves a guest count from either a selection id or free text
// containing a leading integer. The bool reports whether the input was
// recognized at all; an explicit "don't know" selection is recognized with
// count 0.
func PartySize(selectionID, text string) (int, bool) {
	if id := strings.ToUpper(strings.TrimSpace(selectionID)); id != "" {
		n, ok := paxFromSelection[id]
		return n, ok
	}
	if m := leadingInt.FindString(text); m != "" {
		if n, err := strconv.Atoi(m); err == nil && n > 0 {
			return n, true
		}
	}
	return 0, false
}

// IsPaxSelection reports whether the id belongs to the regular guest-count
// list (not the weddings ranges).
func IsPaxSelection(selectionID string) bool {
	return strings.HasPrefix(strings.ToUpper(selectionID), "PAX_")
}
