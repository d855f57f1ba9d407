package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/micheltwotravel/bot-ventas/internal/normalize"
	"github.com/micheltwotravel/bot-ventas/internal/session"
)

type stepHandler func(e *Engine, ctx context.Context, s *session.Session, in Input) []Intent

// stepHandlers is the whole conversation flow. Adding a step means adding
// a row here, not threading a new branch through a dispatcher.
var stepHandlers = map[session.Step]stepHandler{
	session.StepLang:             (*Engine).handleLang,
	session.StepContactName:      (*Engine).handleContactName,
	session.StepContactEmail:     (*Engine).handleEmailChoice,
	session.StepContactEmailType: (*Engine).handleEmailEnter,
	session.StepCity:             (*Engine).handleCity,
	session.StepMenu:             (*Engine).handleMenu,
	session.StepVillaPax:         (*Engine).handleVillaPax,
	session.StepVillaCategory:    (*Engine).handleVillaCategory,
	session.StepBoatCategory:     (*Engine).handleBoatCategory,
	session.StepBoatPax:          (*Engine).handleBoatPax,
	session.StepWeddingGuests:    (*Engine).handleWeddingGuests,
	session.StepDate:             (*Engine).handleDate,
	session.StepPostResults:      (*Engine).handlePostResults,
}

func (e *Engine) handleLang(ctx context.Context, s *session.Session, in Input) []Intent {
	low := strings.ToLower(strings.TrimSpace(in.Text))
	switch {
	case in.SelectionID == selLangES || low == "español" || low == "espanol" || low == "es":
		s.Language = session.LangES
	case in.SelectionID == selLangEN || low == "english" || low == "en":
		s.Language = session.LangEN
	default:
		return []Intent{welcomeIntent(e.cfg.BotName)}
	}
	s.Step = session.StepContactName
	return []Intent{askNameIntent(s.IsSpanish(), e.cfg.BotName)}
}

func (e *Engine) handleContactName(ctx context.Context, s *session.Session, in Input) []Intent {
	name, ok := normalize.Name(in.Text, e.cfg.NameMinTokens)
	if !ok {
		if !e.cfg.Retry.Exhausted(s.Attempts("name")) {
			s.RecordAttempt("name")
			return []Intent{askNameIntent(s.IsSpanish(), e.cfg.BotName)}
		}
		name = strings.TrimSpace(in.Text)
	}
	s.Contact.Name = name
	s.ClearAttempts("name")
	s.Step = session.StepContactEmail
	return []Intent{emailChoiceIntent(s.IsSpanish(), name)}
}

func (e *Engine) handleEmailChoice(ctx context.Context, s *session.Session, in Input) []Intent {
	low := strings.ToLower(strings.TrimSpace(in.Text))
	switch {
	case in.SelectionID == selEmailEnter:
		s.Step = session.StepContactEmailType
		return []Intent{askEmailIntent(s.IsSpanish())}
	case in.SelectionID == selEmailUseWA || low == "usar whatsapp" || low == "use my whatsapp":
		s.Contact.Email = s.Identity + "@whatsapp"
	case in.SelectionID == selEmailSkip || low == "omitir" || low == "skip":
		s.Contact.Email = ""
	default:
		return []Intent{emailChoiceIntent(s.IsSpanish(), s.Contact.Name)}
	}
	s.Step = session.StepCity
	return []Intent{UpsertContact{}, cityListIntent(s.IsSpanish())}
}

// emailSkipWords are throwaway answers at the email prompt that mean
// "move on without one".
var emailSkipWords = map[string]struct{}{
	"": {}, "skip": {}, "omitir": {}, "saltar": {}, "no": {},
	"si": {}, "sí": {}, "yes": {}, "ok": {}, "dale": {}, "listo": {},
}

func (e *Engine) handleEmailEnter(ctx context.Context, s *session.Session, in Input) []Intent {
	email, ok := normalize.Email(in.Text)
	if !ok {
		low := strings.ToLower(strings.TrimSpace(in.Text))
		if _, skip := emailSkipWords[low]; skip {
			email = ""
		} else if !e.cfg.Retry.Exhausted(s.Attempts("email")) {
			s.RecordAttempt("email")
			return []Intent{askEmailIntent(s.IsSpanish())}
		} else {
			email = strings.TrimSpace(in.Text)
		}
	}
	s.Contact.Email = email
	s.ClearAttempts("email")
	s.Step = session.StepCity
	return []Intent{UpsertContact{}, cityListIntent(s.IsSpanish())}
}

func (e *Engine) handleCity(ctx context.Context, s *session.Session, in Input) []Intent {
	city, ok := cityBySelection[strings.ToUpper(in.SelectionID)]
	if !ok {
		return []Intent{cityListIntent(s.IsSpanish())}
	}
	s.Request.City = city
	s.Step = session.StepMenu
	return []Intent{menuListIntent(s.IsSpanish(), city)}
}

func (e *Engine) handleMenu(ctx context.Context, s *session.Session, in Input) []Intent {
	svc, ok := serviceBySelection[strings.ToUpper(in.SelectionID)]
	if !ok {
		return []Intent{menuListIntent(s.IsSpanish(), s.Request.City)}
	}

	s.Request.ServiceType = svc
	s.Request.CategoryTag = ""
	s.Request.PartySize = 0

	switch svc {
	case "villas":
		s.Step = session.StepVillaPax
		return []Intent{villaPaxListIntent(s.IsSpanish())}
	case "boats":
		s.Step = session.StepBoatCategory
		return []Intent{boatCategoryListIntent(s.IsSpanish())}
	case "weddings":
		s.Step = session.StepWeddingGuests
		return []Intent{weddingGuestsListIntent(s.IsSpanish())}
	case "islands":
		// Islands skip the funnel questions and go straight to results.
		return e.finishLookup(ctx, s, "Lead Islands")
	case "concierge":
		return e.handoff(ctx, s, "Talk to Team / Concierge", serviceDealTitle(s), "")
	default: // team
		return e.handoff(ctx, s, "Talk to Team", serviceDealTitle(s), "")
	}
}

func (e *Engine) handleVillaPax(ctx context.Context, s *session.Session, in Input) []Intent {
	pax, ok := normalize.PartySize(in.SelectionID, in.Text)
	if !ok {
		return []Intent{villaPaxListIntent(s.IsSpanish())}
	}
	s.Request.PartySize = pax
	s.Step = session.StepVillaCategory
	return []Intent{villaCategoryListIntent(s.IsSpanish())}
}

func (e *Engine) handleVillaCategory(ctx context.Context, s *session.Session, in Input) []Intent {
	tag, ok := villaTagBySelection[strings.ToUpper(in.SelectionID)]
	if !ok {
		return []Intent{villaCategoryListIntent(s.IsSpanish())}
	}
	s.Request.CategoryTag = tag
	s.Request.PendingService = "villas"
	s.Step = session.StepDate
	return []Intent{askDateIntent(s.IsSpanish())}
}

func (e *Engine) handleBoatCategory(ctx context.Context, s *session.Session, in Input) []Intent {
	tag, ok := boatTagBySelection[strings.ToUpper(in.SelectionID)]
	if !ok {
		return []Intent{boatCategoryListIntent(s.IsSpanish())}
	}
	s.Request.CategoryTag = tag
	s.Step = session.StepBoatPax
	return []Intent{boatPaxListIntent(s.IsSpanish())}
}

func (e *Engine) handleBoatPax(ctx context.Context, s *session.Session, in Input) []Intent {
	pax, ok := normalize.PartySize(in.SelectionID, in.Text)
	if !ok {
		return []Intent{boatPaxListIntent(s.IsSpanish())}
	}
	s.Request.PartySize = pax
	s.Request.PendingService = "boats"
	s.Step = session.StepDate
	return []Intent{askDateIntent(s.IsSpanish())}
}

func (e *Engine) handleWeddingGuests(ctx context.Context, s *session.Session, in Input) []Intent {
	pax, ok := normalize.PartySize(in.SelectionID, in.Text)
	if !ok {
		return []Intent{weddingGuestsListIntent(s.IsSpanish())}
	}
	s.Request.PartySize = pax
	s.Request.PendingService = "weddings"
	s.Step = session.StepDate
	return []Intent{askDateIntent(s.IsSpanish())}
}

func (e *Engine) handleDate(ctx context.Context, s *session.Session, in Input) []Intent {
	d, err := normalize.Date(in.Text, e.now())
	switch {
	case err == nil:
		s.Request.Date = d.String()
		s.Request.DateKnown = d.Known
		s.ClearAttempts("date")
	case errors.Is(err, normalize.ErrPastDate):
		// Past dates are never accepted, retry budget or not.
		return []Intent{pastDateIntent(s.IsSpanish()), askDateIntent(s.IsSpanish())}
	default:
		if !e.cfg.Retry.Exhausted(s.Attempts("date")) {
			s.RecordAttempt("date")
			return []Intent{askDateIntent(s.IsSpanish())}
		}
		s.Request.Date = strings.TrimSpace(in.Text)
		s.Request.DateKnown = s.Request.Date != ""
		s.ClearAttempts("date")
	}

	event := "Lead " + titleWord(s.Request.PendingService)
	return e.finishLookup(ctx, s, event)
}

func (e *Engine) handlePostResults(ctx context.Context, s *session.Session, in Input) []Intent {
	switch strings.ToUpper(in.SelectionID) {
	case selPostAdd, selPostMenu:
		s.Step = session.StepMenu
		return []Intent{menuListIntent(s.IsSpanish(), s.Request.City)}
	case selPostTalk:
		title := fmt.Sprintf("[%s] Talk to the Team via WhatsApp", titleWord(orDash(s.Request.City)))
		return e.handoff(ctx, s, "Talk to Team", title, topShownBlock(s.LastCandidates))
	default:
		return []Intent{postResultsIntent(s.IsSpanish(), true)}
	}
}

// finishLookup runs the catalog lookup for the current request, records
// history, and lands the session on post-results. An empty pool falls back
// to a human handoff instead of a dead end.
func (e *Engine) finishLookup(ctx context.Context, s *session.Session, event string) []Intent {
	es := s.IsSpanish()
	entries := e.rank(ctx, s)
	s.AppendHistory(s.Request.ServiceType)
	s.Request.PendingService = ""
	s.Step = session.StepPostResults

	intents := []Intent{UpsertContact{}}
	if len(entries) == 0 {
		owner := e.owners.For(s.Request.City)
		intents = append(intents,
			noResultsIntent(es),
			handoffIntent(es, owner),
		)
	} else {
		intents = append(intents, resultsIntent(es, s.Request.ServiceType, s.Request.City, entries))
	}
	intents = append(intents,
		NotifySales{Event: event},
		postResultsIntent(es, len(entries) > 0),
	)
	return intents
}

// handoff connects the contact with the city's owner and opens a CRM deal.
// extra is appended to the deal description, used for the top-shown block
// when the contact asks for the team after seeing results.
func (e *Engine) handoff(ctx context.Context, s *session.Session, event, title, extra string) []Intent {
	es := s.IsSpanish()
	owner := e.owners.For(s.Request.City)
	s.Step = session.StepPostResults

	return []Intent{
		UpsertContact{},
		handoffIntent(es, owner),
		CreateDeal{Title: title, Description: dealDescription(s, extra)},
		NotifySales{Event: event},
		postResultsIntent(es, false),
	}
}
