// Package crm mirrors qualified leads into the sales CRM.
package crm

import "context"

// ContactInput is the identity data upserted for a lead.
type ContactInput struct {
	Name     string
	Email    string
	Phone    string
	Language string
}

// DealInput describes a deal created on handoff.
type DealInput struct {
	ContactRef  string
	OwnerRef    string
	Title       string
	Description string
}

// Adapter is the narrow CRM contract the conversation engine calls.
// Upserts are idempotent keyed by email when one is present.
type Adapter interface {
	UpsertContact(ctx context.Context, in ContactInput) (string, error)
	CreateDeal(ctx context.Context, in DealInput) (string, error)
}

// Noop satisfies Adapter when no CRM is configured. It returns empty refs
// so callers skip dependent calls.
type Noop struct{}

func (Noop) UpsertContact(ctx context.Context, in ContactInput) (string, error) { return "", nil }
func (Noop) CreateDeal(ctx context.Context, in DealInput) (string, error)       { return "", nil }

var _ Adapter = Noop{}
