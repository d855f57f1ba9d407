package normalize

import (
	"errors"
	"testing"
	"time"
)

func TestName(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		minTokens int
		want      string
		wantOK    bool
	}{
		{"two-letter single token", "al", 1, "Al", true},
		{"full name truncated", "maria fernanda lopez garcia", 1, "Maria Fernanda", true},
		{"accented", "JOSÉ pérez", 1, "José Pérez", true},
		{"apostrophe", "o'brien", 1, "O'brien", true},
		{"digits rejected", "12345", 1, "", false},
		{"one-letter tokens rejected", "a b c", 1, "", false},
		{"min two tokens", "al", 2, "", false},
		{"min two tokens pass", "al pacino", 2, "Al Pacino", true},
		{"noise around name", "soy ana :)", 1, "Soy Ana", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Name(tt.raw, tt.minTokens)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Name(%q, %d) = %q, %v; want %q, %v", tt.raw, tt.minTokens, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestEmail(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   string
		wantOK bool
	}{
		{"plain", "ana@example.com", "ana@example.com", true},
		{"label and case kept", "  CORREO: Ana@Example.COM  ", "Ana@Example.COM", true},
		{"email label", "email: bob@test.io", "bob@test.io", true},
		{"angle brackets", "Ana Gomez <ana@example.com>", "ana@example.com", true},
		{"zero width chars", "ana​@exam‍ple.com", "ana@example.com", true},
		{"missing tld", "ana@example", "", false},
		{"spaces inside", "ana maria@example.com", "", false},
		{"empty", "   ", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Email(tt.raw)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Email(%q) = %q, %v; want %q, %v", tt.raw, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestDate(t *testing.T) {
	now := time.Date(2026, time.January, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		raw       string
		wantDate  string
		wantKnown bool
		wantErr   error
	}{
		{"iso", "2026-02-15", "2026-02-15", true, nil},
		{"dd/mm/yyyy", "15/02/2026", "2026-02-15", true, nil},
		{"month year english", "May 2026", "2026-05-01", true, nil},
		{"month year spanish", "mayo de 2026", "2026-05-01", true, nil},
		{"today accepted", "2026-01-10", "2026-01-10", true, nil},
		{"skip spanish", "Omitir", "", false, nil},
		{"skip english", "skip", "", false, nil},
		{"skip multiword", "aún no", "", false, nil},
		{"past iso", "2020-01-01", "", false, ErrPastDate},
		{"past month", "enero 2020", "", false, ErrPastDate},
		{"garbage", "next full moon", "", false, ErrUnrecognizedDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Date(tt.raw, now)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Date(%q) error = %v, want %v", tt.raw, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Date(%q) error = %v", tt.raw, err)
			}
			if got.Known != tt.wantKnown {
				t.Errorf("Date(%q).Known = %v, want %v", tt.raw, got.Known, tt.wantKnown)
			}
			if got.String() != tt.wantDate {
				t.Errorf("Date(%q) = %q, want %q", tt.raw, got.String(), tt.wantDate)
			}
		})
	}
}

func TestDateTodayWestOfUTC(t *testing.T) {
	// A server clock west of UTC must not push local midnight past the
	// parsed (UTC) value and reject today's date.
	bogota := time.FixedZone("America/Bogota", -5*60*60)
	now := time.Date(2026, time.January, 10, 12, 0, 0, 0, bogota)

	got, err := Date("2026-01-10", now)
	if err != nil {
		t.Fatalf("Date(today) error = %v", err)
	}
	if !got.Known || got.String() != "2026-01-10" {
		t.Errorf("Date(today) = %q, %v; want %q, true", got.String(), got.Known, "2026-01-10")
	}

	// Yesterday is still rejected.
	if _, err := Date("2026-01-09", now); !errors.Is(err, ErrPastDate) {
		t.Errorf("Date(yesterday) error = %v, want ErrPastDate", err)
	}
}

func TestPartySize(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		text   string
		want   int
		wantOK bool
	}{
		{"pax id", "PAX_10", "", 10, true},
		{"wedding range", "WED_PAX_100", "", 100, true},
		{"wedding unknown", "WED_PAX_UNK", "", 0, true},
		{"lowercase id", "pax_5", "", 5, true},
		{"unknown id", "PAX_X", "", 0, false},
		{"free text", "", "somos 8 personas", 8, true},
		{"free text leading", "", "12 guests", 12, true},
		{"no number", "", "a few of us", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PartySize(tt.id, tt.text)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("PartySize(%q, %q) = %d, %v; want %d, %v", tt.id, tt.text, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
