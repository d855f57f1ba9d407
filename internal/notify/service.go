// Package notify sends best-effort lead notifications to the sales team.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/micheltwotravel/bot-ventas/internal/owners"
	"github.com/micheltwotravel/bot-ventas/internal/session"
	"github.com/micheltwotravel/bot-ventas/pkg/logging"
)

// Service builds and sends the sales summary for lead events. Failures are
// returned for logging but never block the conversation.
type Service struct {
	sender     EmailSender
	recipients []string
	logger     *logging.Logger
}

// NewService creates a notification service.
func NewService(sender EmailSender, recipients []string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{sender: sender, recipients: recipients, logger: logger}
}

// NotifySales emails a snapshot of the lead to the sales recipients.
// Fire-and-forget: a nil sender or empty recipient list is a silent no-op.
func (s *Service) NotifySales(ctx context.Context, event string, snap *session.Session, owner owners.Owner) error {
	if s.sender == nil || len(s.recipients) == 0 {
		s.logger.Debug("notify: no sender configured, skipping", "event", event)
		return nil
	}

	svc := orDash(snap.Request.ServiceType)
	city := owner.DisplayCity
	if city == "" {
		city = orDash(snap.Request.City)
	}

	lines := []string{
		fmt.Sprintf("Event: %s", event),
		fmt.Sprintf("Service: %s", svc),
		fmt.Sprintf("City: %s", city),
		fmt.Sprintf("Date/Month: %s", orDash(snap.Request.Date)),
		fmt.Sprintf("Pax/Guests: %s", paxOrDash(snap.Request.PartySize)),
		fmt.Sprintf("Lang: %s", string(snap.Language)),
		fmt.Sprintf("Contact name: %s", orDash(snap.Contact.Name)),
		fmt.Sprintf("Contact phone (WA): %s", snap.Identity),
		fmt.Sprintf("Contact email: %s", orDash(snap.Contact.Email)),
		fmt.Sprintf("Owner: %s", orDash(owner.Name)),
		fmt.Sprintf("Calendar: %s", orDash(owner.SchedulingLink)),
		fmt.Sprintf("Top shown:\n%s", topShown(snap.LastCandidates)),
	}
	if hist := historyLines(snap.History); hist != "" {
		lines = append(lines, "History:\n"+hist)
	}

	msg := EmailMessage{
		To:      s.recipients,
		Subject: fmt.Sprintf("[Two Travel WA] %s – %s – %s", titleWord(svc), city, orDash(snap.Contact.Name)),
		Body:    strings.Join(lines, "\n"),
	}

	if err := s.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("notify: sales email: %w", err)
	}
	return nil
}

func topShown(candidates []session.Candidate) string {
	if len(candidates) == 0 {
		return "-"
	}
	var b strings.Builder
	for i, c := range candidates {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "- %s → %s", c.Name, c.URL)
	}
	return b.String()
}

func historyLines(history []session.HistoryEntry) string {
	if len(history) == 0 {
		return ""
	}
	var b strings.Builder
	for i, h := range history {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "• %s; Pax: %s; Date: %s; City: %s",
			titleWord(h.Service), paxOrDash(h.PartySize), orDash(h.Date), orDash(h.City))
	}
	return b.String()
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func paxOrDash(n int) string {
	if n <= 0 {
		return "-"
	}
	return fmt.Sprintf("%d", n)
}

func titleWord(s string) string {
	if s == "" || s == "-" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
