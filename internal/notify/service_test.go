package notify

import (
	"context"
	"strings"
	"testing"

	"github.com/micheltwotravel/bot-ventas/internal/owners"
	"github.com/micheltwotravel/bot-ventas/internal/session"
)

func sampleSession() *session.Session {
	s := session.New("573001112233")
	s.Language = session.LangES
	s.Contact = session.Contact{Name: "Ana Gomez", Email: "ana@example.com"}
	s.Request = session.ServiceRequest{
		ServiceType: "villas",
		City:        "cartagena",
		PartySize:   6,
		Date:        "2026-05-01",
		CategoryTag: "bed_7_10",
	}
	s.LastCandidates = []session.Candidate{
		{Name: "Villa Grande", URL: "https://two.travel/villa-grande", PriceFrom: 500},
	}
	s.AppendHistory("villas")
	return s
}

func TestNotifySalesBuildsSummary(t *testing.T) {
	stub := NewStubSender(nil)
	svc := NewService(stub, []string{"sales@two.travel"}, nil)

	owner := owners.Owner{Name: "Mr. Rey Kanvesky", SchedulingLink: "https://cal.example.com", DisplayCity: "Cartagena"}
	if err := svc.NotifySales(context.Background(), "Lead Villas", sampleSession(), owner); err != nil {
		t.Fatalf("NotifySales() error = %v", err)
	}

	if len(stub.Sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(stub.Sent))
	}
	msg := stub.Sent[0]
	if msg.Subject != "[Two Travel WA] Villas – Cartagena – Ana Gomez" {
		t.Errorf("subject = %q", msg.Subject)
	}
	for _, want := range []string{
		"Event: Lead Villas",
		"Contact phone (WA): 573001112233",
		"Contact email: ana@example.com",
		"Owner: Mr. Rey Kanvesky",
		"- Villa Grande → https://two.travel/villa-grande",
		"History:",
	} {
		if !strings.Contains(msg.Body, want) {
			t.Errorf("body missing %q:\n%s", want, msg.Body)
		}
	}
}

func TestNotifySalesNoSenderIsNoop(t *testing.T) {
	svc := NewService(nil, nil, nil)
	if err := svc.NotifySales(context.Background(), "Lead", session.New("x"), owners.Owner{}); err != nil {
		t.Fatalf("expected silent no-op, got %v", err)
	}
}

func TestNotifySalesDashesForMissingFields(t *testing.T) {
	stub := NewStubSender(nil)
	svc := NewService(stub, []string{"sales@two.travel"}, nil)

	if err := svc.NotifySales(context.Background(), "Lead", session.New("5730000"), owners.Owner{DisplayCity: "—"}); err != nil {
		t.Fatalf("NotifySales() error = %v", err)
	}
	body := stub.Sent[0].Body
	for _, want := range []string{"Contact name: -", "Contact email: -", "Top shown:\n-"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
}
