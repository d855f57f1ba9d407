package normalize

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	// ErrPastDate flags a parseable date that already went by. It is the
	// one case where a recognized value is still rejected.
	ErrPastDate = errors.New("normalize: date is in the past")

	// ErrUnrecognizedDate flags text no supported format matched.
	ErrUnrecognizedDate = errors.New("normalize: unrecognized date")
)

// skipWords map explicit "I don't know yet" answers to an unknown date.
var skipWords = map[string]struct{}{
	"omitir": {}, "skip": {}, "no se": {}, "no sé": {}, "nose": {},
	"tbd": {}, "na": {}, "n/a": {}, "later": {}, "despues": {},
	"después": {}, "luego": {}, "aun no": {}, "aún no": {},
	"no tengo": {}, "todavia no": {}, "todavía no": {},
}

var monthNames = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,

	"enero": time.January, "febrero": time.February, "marzo": time.March,
	"abril": time.April, "mayo": time.May, "junio": time.June,
	"julio": time.July, "agosto": time.August, "septiembre": time.September,
	"setiembre": time.September, "octubre": time.October,
	"noviembre": time.November, "diciembre": time.December,
}

var monthYear = regexp.MustCompile(`^([a-záéíóú]+)\s+(?:de\s+|del\s+)?(\d{4})$`)

// DateValue is a parsed travel date. Known is false when the user skipped.
type DateValue struct {
	Time  time.Time
	Known bool
}

// String renders the date the way it is shown to sales and the CRM.
func (d DateValue) String() string {
	if !d.Known {
		return ""
	}
	return d.Time.Format("2006-01-02")
}

// Date parses free-form date input. Accepted shapes: ISO (2026-02-15),
// DD/MM/YYYY, and "<month name> <year>" in English or Spanish (day defaults
// to 1). Skip keywords yield an unknown date, not an error. Dates before
// today return ErrPastDate.
func Date(raw string, now time.Time) (DateValue, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return DateValue{}, ErrUnrecognizedDate
	}
	if _, skip := skipWords[s]; skip {
		return DateValue{Known: false}, nil
	}

	t, err := parseDate(s)
	if err != nil {
		return DateValue{}, err
	}

	// Parsed times are UTC, so the cutoff must be too: building it in
	// now's location shifts local midnight past 00:00 UTC and rejects
	// today's date on servers west of UTC.
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if t.Before(today) {
		return DateValue{}, fmt.Errorf("%w: %s", ErrPastDate, t.Format("2006-01-02"))
	}
	return DateValue{Time: t, Known: true}, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", "02/01/2006", "2/1/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	if m := monthYear.FindStringSubmatch(s); m != nil {
		if month, ok := monthNames[m[1]]; ok {
			var year int
			fmt.Sscanf(m[2], "%d", &year)
			return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, ErrUnrecognizedDate
}
