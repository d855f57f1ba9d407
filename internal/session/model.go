// Package session holds per-contact conversation state and its stores.
package session

import "time"

// Step is the session's position in the conversation flow.
type Step string

const (
	StepLang             Step = "lang"
	StepContactName      Step = "contact_name"
	StepContactEmail     Step = "contact_email_choice"
	StepContactEmailType Step = "contact_email_enter"
	StepCity             Step = "city"
	StepMenu             Step = "menu"
	StepVillaPax         Step = "villa_pax"
	StepVillaCategory    Step = "villa_cat"
	StepBoatCategory     Step = "boat_cat"
	StepBoatPax          Step = "boat_pax"
	StepWeddingGuests    Step = "wed_guests"
	StepDate             Step = "date"
	StepPostResults      Step = "post_results"
)

// Language is the contact's preferred conversation language.
type Language string

const (
	LangES Language = "ES"
	LangEN Language = "EN"
)

// Contact is the identity data collected up front. Email may be empty when
// skipped or a synthetic placeholder when the contact opts to stay on
// WhatsApp.
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ServiceRequest accumulates the funnel answers for the lookup in flight.
// Fields stay zero until the matching step sets them.
type ServiceRequest struct {
	ServiceType    string `json:"service_type"`
	City           string `json:"city"`
	CategoryTag    string `json:"category_tag"`
	PartySize      int    `json:"party_size"`
	Date           string `json:"date"`
	DateKnown      bool   `json:"date_known"`
	PendingService string `json:"pending_service"`
}

// HistoryEntry records one completed catalog lookup. Entries are immutable
// once appended.
type HistoryEntry struct {
	Service     string `json:"service"`
	PartySize   int    `json:"party_size"`
	Date        string `json:"date"`
	CategoryTag string `json:"category_tag"`
	City        string `json:"city"`
}

// Candidate is a catalog offer shown to the contact, kept on the session
// for CRM and notification context.
type Candidate struct {
	Name      string  `json:"name"`
	URL       string  `json:"url"`
	PriceFrom float64 `json:"price_from"`
}

// Session is the mutable conversation state for one identity.
type Session struct {
	Identity       string         `json:"identity"`
	Step           Step           `json:"step"`
	Language       Language       `json:"language"`
	Contact        Contact        `json:"contact"`
	Request        ServiceRequest `json:"service_request"`
	LastCandidates []Candidate    `json:"last_candidates,omitempty"`
	History        []HistoryEntry `json:"history,omitempty"`
	CRMContactRef  string         `json:"crm_contact_ref,omitempty"`
	RetryCounters  map[string]int `json:"retry_counters,omitempty"`
	LastMessageID  string         `json:"last_message_id,omitempty"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// New creates a fresh session at the language step.
func New(identity string) *Session {
	return &Session{
		Identity:      identity,
		Step:          StepLang,
		Language:      LangEN,
		RetryCounters: make(map[string]int),
	}
}

// AppendHistory records a completed lookup, skipping the append when it
// exactly repeats the previous entry.
func (s *Session) AppendHistory(service string) {
	entry := HistoryEntry{
		Service:     service,
		PartySize:   s.Request.PartySize,
		Date:        s.Request.Date,
		CategoryTag: s.Request.CategoryTag,
		City:        s.Request.City,
	}
	if n := len(s.History); n > 0 && s.History[n-1] == entry {
		return
	}
	s.History = append(s.History, entry)
}

// Attempts returns the failed-validation count for a soft-validated field.
func (s *Session) Attempts(field string) int {
	return s.RetryCounters[field]
}

// RecordAttempt bumps the failed-validation count for a field and returns
// the new value.
func (s *Session) RecordAttempt(field string) int {
	if s.RetryCounters == nil {
		s.RetryCounters = make(map[string]int)
	}
	s.RetryCounters[field]++
	return s.RetryCounters[field]
}

// ClearAttempts resets the counter after a field validates or is accepted.
func (s *Session) ClearAttempts(field string) {
	delete(s.RetryCounters, field)
}

// IsSpanish reports whether the session runs in Spanish.
func (s *Session) IsSpanish() bool {
	return s.Language == LangES
}
