package catalog

import (
	"context"
	"fmt"
	"sort"
)

const (
	// DefaultTopK limits how many offers are shown to the user.
	DefaultTopK = 3

	// capacityShortfall pushes too-small entries to the bottom of the
	// ranking without removing them from the pool.
	capacityShortfall = 9999

	// tagBonus rewards entries whose preference tags contain the
	// requested category tag.
	tagBonus = -10
)

// Request describes one catalog lookup.
type Request struct {
	ServiceType string
	City        string
	PartySize   int
	CategoryTag string
	TopK        int
}

// Ranker filters and scores catalog entries against a service request.
type Ranker struct {
	source Source
}

// NewRanker creates a ranker reading from the given source.
func NewRanker(source Source) *Ranker {
	return &Ranker{source: source}
}

type scoredEntry struct {
	score int
	price float64
	entry Entry
}

// Rank returns up to TopK entries ordered best-first. An empty service+city
// pool yields an empty result; the caller decides the fallback.
func (r *Ranker) Rank(ctx context.Context, req Request) ([]Entry, error) {
	rows, err := r.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog: rank: %w", err)
	}
	return RankEntries(rows, req), nil
}

// RankEntries applies the filter/score/sort pipeline to an already-loaded
// catalog. Split out so tests can run against fixed row sets.
func RankEntries(rows []Entry, req Request) []Entry {
	svc := CanonicalService(req.ServiceType)
	city := CanonicalCity(req.City)

	var pool []Entry
	for _, row := range rows {
		if CanonicalService(row.ServiceType) == svc && CanonicalCity(row.City) == city {
			pool = append(pool, row)
		}
	}
	if len(pool) == 0 {
		return nil
	}

	scored := make([]scoredEntry, 0, len(pool))
	for _, e := range pool {
		scored = append(scored, scoredEntry{
			score: scoreEntry(e, req),
			price: e.PriceFrom,
			entry: e,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score < scored[j].score
		}
		return scored[i].price < scored[j].price
	})

	topK := req.TopK
	if topK < 1 {
		topK = DefaultTopK
	}
	if topK > len(scored) {
		topK = len(scored)
	}

	out := make([]Entry, 0, topK)
	for _, s := range scored[:topK] {
		out = append(out, s.entry)
	}
	return out
}

// scoreEntry computes capacity_penalty + tag_bonus. Lower is better: a
// tight capacity fit beats a roomy one, an entry below the requested party
// size sinks below every adequate entry, and a matching category tag lifts
// the entry ahead of equal-fit rows.
func scoreEntry(e Entry, req Request) int {
	penalty := 0
	if req.PartySize > 0 && e.CapacityMax > 0 {
		gap := e.CapacityMax - req.PartySize
		if gap < 0 {
			penalty = capacityShortfall
		} else {
			penalty = gap
		}
	}

	bonus := 0
	if req.CategoryTag != "" && e.HasTag(req.CategoryTag) {
		bonus = tagBonus
	}
	return penalty + bonus
}
