package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/micheltwotravel/bot-ventas/internal/catalog"
	"github.com/micheltwotravel/bot-ventas/internal/crm"
	"github.com/micheltwotravel/bot-ventas/internal/observability/metrics"
	"github.com/micheltwotravel/bot-ventas/internal/owners"
	"github.com/micheltwotravel/bot-ventas/internal/session"
	"github.com/micheltwotravel/bot-ventas/pkg/logging"
)

// Messenger renders message intents onto the chat channel.
type Messenger interface {
	SendText(ctx context.Context, to, body string) error
	SendButtons(ctx context.Context, to, body string, buttons []Button) error
	SendList(ctx context.Context, to, header, body, buttonLabel string, rows []ListRow) error
}

// Notifier is the narrow slice of the sales notification service the
// engine calls.
type Notifier interface {
	NotifySales(ctx context.Context, event string, snap *session.Session, owner owners.Owner) error
}

// Config tunes engine behavior without code changes.
type Config struct {
	BotName       string
	TopK          int
	NameMinTokens int
	Retry         session.RetryPolicy
	DefaultRegion string
}

// Deps are the engine's collaborators. Store and Messenger are required;
// the rest degrade to no-ops when nil.
type Deps struct {
	Store     session.Store
	Ranker    *catalog.Ranker
	Messenger Messenger
	CRM       crm.Adapter
	Notifier  Notifier
	Owners    *owners.Resolver
	Metrics   *metrics.BotMetrics
	Logger    *logging.Logger
}

// Engine advances the conversation one inbound event at a time. All state
// lives on the session; the engine itself is stateless and safe for
// concurrent use.
type Engine struct {
	store     session.Store
	ranker    *catalog.Ranker
	messenger Messenger
	crm       crm.Adapter
	notifier  Notifier
	owners    *owners.Resolver
	metrics   *metrics.BotMetrics
	logger    *logging.Logger
	locks     *session.KeyedMutex
	cfg       Config
	now       func() time.Time
}

// New wires an engine from its collaborators.
func New(d Deps, cfg Config) *Engine {
	if d.CRM == nil {
		d.CRM = crm.Noop{}
	}
	if d.Logger == nil {
		d.Logger = logging.Default()
	}
	if d.Owners == nil {
		d.Owners = owners.NewResolver(owners.Owner{})
	}
	if cfg.BotName == "" {
		cfg.BotName = "Luna"
	}
	if cfg.TopK < 1 {
		cfg.TopK = catalog.DefaultTopK
	}
	if cfg.NameMinTokens < 1 {
		cfg.NameMinTokens = 1
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry = session.DefaultRetryPolicy
	}
	return &Engine{
		store:     d.Store,
		ranker:    d.Ranker,
		messenger: d.Messenger,
		crm:       d.CRM,
		notifier:  d.Notifier,
		owners:    d.Owners,
		metrics:   d.Metrics,
		logger:    d.Logger,
		locks:     session.NewKeyedMutex(),
		cfg:       cfg,
		now:       time.Now,
	}
}

// restartWords recreate the session from scratch at any step.
var restartWords = map[string]struct{}{
	"hola": {}, "hello": {}, "hi": {}, "/start": {}, "start": {},
	"inicio": {}, "menu": {}, "menú": {},
}

// Process handles one inbound event for an identity. Work per identity is
// serialized; duplicate webhook deliveries of the same message id are
// dropped.
func (e *Engine) Process(ctx context.Context, identity string, in Input) error {
	id := session.NormalizeIdentity(identity, e.cfg.DefaultRegion)
	if id == "" {
		return fmt.Errorf("engine: empty identity")
	}

	e.locks.Lock(id)
	defer e.locks.Unlock(id)

	s, err := e.store.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("engine: load session: %w", err)
	}

	if s != nil && in.MessageID != "" && s.LastMessageID == in.MessageID {
		e.metrics.ObserveInbound("message", "duplicate")
		e.logger.Debug("engine: duplicate message dropped", "identity", id, "message_id", in.MessageID)
		return nil
	}

	lowered := strings.ToLower(strings.TrimSpace(in.Text))
	_, restart := restartWords[lowered]

	if s == nil || (restart && in.SelectionID == "") {
		s = session.New(id)
		s.LastMessageID = in.MessageID
		e.dispatch(ctx, s, []Intent{welcomeIntent(e.cfg.BotName)})
		return e.persist(ctx, s)
	}

	s.LastMessageID = in.MessageID
	from := s.Step

	handler, ok := stepHandlers[s.Step]
	if !ok {
		// Unknown step in a stored session, likely from an older record
		// shape. Start over rather than strand the contact.
		*s = *session.New(id)
		s.LastMessageID = in.MessageID
		e.dispatch(ctx, s, []Intent{welcomeIntent(e.cfg.BotName)})
		return e.persist(ctx, s)
	}

	intents := handler(e, ctx, s, in)
	if from != s.Step {
		e.metrics.ObserveTransition(string(from), string(s.Step))
	}
	e.metrics.ObserveInbound("message", "processed")

	e.dispatch(ctx, s, intents)
	return e.persist(ctx, s)
}

func (e *Engine) persist(ctx context.Context, s *session.Session) error {
	if err := e.store.Put(ctx, s); err != nil {
		return fmt.Errorf("engine: save session: %w", err)
	}
	return nil
}

// dispatch executes intents in order. Collaborator failures are logged and
// counted, never surfaced to the contact: a CRM outage must not stall the
// conversation.
func (e *Engine) dispatch(ctx context.Context, s *session.Session, intents []Intent) {
	for _, it := range intents {
		switch v := it.(type) {
		case SendText:
			if err := e.messenger.SendText(ctx, s.Identity, v.Body); err != nil {
				e.intentFailed("send_text", s.Identity, err)
			}
		case SendButtons:
			if err := e.messenger.SendButtons(ctx, s.Identity, v.Body, v.Buttons); err != nil {
				e.intentFailed("send_buttons", s.Identity, err)
			}
		case SendList:
			if err := e.messenger.SendList(ctx, s.Identity, v.Header, v.Body, v.ButtonLabel, v.Rows); err != nil {
				e.intentFailed("send_list", s.Identity, err)
			}
		case UpsertContact:
			ref, err := e.crm.UpsertContact(ctx, crm.ContactInput{
				Name:     s.Contact.Name,
				Email:    s.Contact.Email,
				Phone:    s.Identity,
				Language: string(s.Language),
			})
			if err != nil {
				e.intentFailed("upsert_contact", s.Identity, err)
				continue
			}
			if ref != "" {
				s.CRMContactRef = ref
			}
		case CreateDeal:
			if s.CRMContactRef == "" {
				ref, err := e.crm.UpsertContact(ctx, crm.ContactInput{
					Name:     s.Contact.Name,
					Email:    s.Contact.Email,
					Phone:    s.Identity,
					Language: string(s.Language),
				})
				if err != nil {
					e.intentFailed("upsert_contact", s.Identity, err)
				} else if ref != "" {
					s.CRMContactRef = ref
				}
			}
			owner := e.owners.For(s.Request.City)
			if _, err := e.crm.CreateDeal(ctx, crm.DealInput{
				ContactRef:  s.CRMContactRef,
				OwnerRef:    owner.Ref,
				Title:       v.Title,
				Description: v.Description,
			}); err != nil {
				e.intentFailed("create_deal", s.Identity, err)
			}
		case NotifySales:
			if e.notifier == nil {
				continue
			}
			owner := e.owners.For(s.Request.City)
			if err := e.notifier.NotifySales(ctx, v.Event, s, owner); err != nil {
				e.intentFailed("notify_sales", s.Identity, err)
			}
		}
	}
}

func (e *Engine) intentFailed(intent, identity string, err error) {
	e.metrics.ObserveIntentFailure(intent)
	e.logger.Error("engine: intent failed", "intent", intent, "identity", identity, "error", err)
}

// rank runs a catalog lookup and records the shown candidates on the
// session. A nil ranker behaves like an empty catalog.
func (e *Engine) rank(ctx context.Context, s *session.Session) []catalog.Entry {
	if e.ranker == nil {
		return nil
	}
	entries, err := e.ranker.Rank(ctx, catalog.Request{
		ServiceType: s.Request.ServiceType,
		City:        s.Request.City,
		PartySize:   s.Request.PartySize,
		CategoryTag: s.Request.CategoryTag,
		TopK:        e.cfg.TopK,
	})
	if err != nil {
		e.logger.Error("engine: catalog lookup failed", "service", s.Request.ServiceType, "city", s.Request.City, "error", err)
		return nil
	}
	e.metrics.ObserveRanking(s.Request.ServiceType, len(entries) == 0)

	s.LastCandidates = s.LastCandidates[:0]
	for _, entry := range entries {
		s.LastCandidates = append(s.LastCandidates, session.Candidate{
			Name:      entry.Name,
			URL:       entry.URL,
			PriceFrom: entry.PriceFrom,
		})
	}
	return entries
}
