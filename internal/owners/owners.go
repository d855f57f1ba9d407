// Package owners resolves the human sales owner for a lead.
package owners

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Owner is the sales person a qualified lead is handed to.
type Owner struct {
	Name           string
	Ref            string // CRM owner id
	SchedulingLink string
	WhatsApp       string
	DisplayCity    string
}

// Resolver maps a city to its owner. Every city currently routes to the
// single global owner; the table exists so per-city routing is a config
// change, not a code change.
type Resolver struct {
	global Owner
}

// NewResolver creates a resolver with the global fallback owner.
func NewResolver(global Owner) *Resolver {
	return &Resolver{global: global}
}

var titleCaser = cases.Title(language.Und)

// For returns the owner for the given city, with the city prettified for
// display. An empty city yields an em dash, matching the sales summary
// format.
func (r *Resolver) For(city string) Owner {
	o := r.global
	if strings.TrimSpace(city) == "" {
		o.DisplayCity = "—"
		return o
	}
	o.DisplayCity = titleCaser.String(strings.ToLower(strings.TrimSpace(city)))
	return o
}
