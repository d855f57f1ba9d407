package catalog

import (
	"strconv"
	"strings"
)

const (
	// defaultPrice sorts rows without a usable price after every priced row.
	defaultPrice = 999999
)

// Entry is one row of bookable inventory from the catalog sheet.
type Entry struct {
	ServiceType    string
	City           string
	Name           string
	CapacityMax    int
	PriceFrom      float64
	PreferenceTags []string
	Description    string
	URL            string
}

// HasTag reports whether the entry carries the given preference tag.
func (e Entry) HasTag(tag string) bool {
	if tag == "" {
		return false
	}
	for _, t := range e.PreferenceTags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// entryFromRecord maps a header-keyed CSV row into an Entry. Missing or
// malformed numeric fields default deterministically instead of failing
// the whole load.
func entryFromRecord(rec map[string]string) Entry {
	return Entry{
		ServiceType:    strings.TrimSpace(rec["service_type"]),
		City:           strings.TrimSpace(rec["city"]),
		Name:           strings.TrimSpace(rec["name"]),
		CapacityMax:    parseCapacity(rec["capacity_max"]),
		PriceFrom:      parsePrice(rec["price_from_usd"]),
		PreferenceTags: parseTags(rec["preference_tags"]),
		Description:    strings.TrimSpace(rec["description"]),
		URL:            strings.TrimSpace(rec["url_page"]),
	}
}

func parseCapacity(raw string) int {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return int(f)
}

func parsePrice(raw string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return defaultPrice
	}
	return f
}

func parseTags(raw string) []string {
	var tags []string
	for _, part := range strings.Split(raw, ",") {
		if t := strings.ToLower(strings.TrimSpace(part)); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
