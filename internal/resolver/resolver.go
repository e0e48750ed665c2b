// Package resolver maps free-text team names from source files onto
// catalog club ids and produces advisory suggestions for misses.
package resolver

import (
	"sort"

	"clubelo/ratings/internal/models"
	"clubelo/ratings/internal/normalize"

	"github.com/rs/zerolog/log"
)

// Suggestion defaults
const (
	DefaultCutoff = 0.7
	DefaultLimit  = 5
)

// Resolver resolves raw names with an exact lookup on normalized keys.
// Misses are remembered so they can be reported with suggestions.
type Resolver struct {
	byKey    map[string]int
	keys     []string // catalog insertion order
	unmapped map[string]struct{}
	cutoff   float64
	limit    int
}

// Option configures a Resolver
type Option func(*Resolver)

// WithCutoff sets the minimum similarity a suggestion must reach
func WithCutoff(cutoff float64) Option {
	return func(r *Resolver) {
		if cutoff > 0 && cutoff <= 1 {
			r.cutoff = cutoff
		}
	}
}

// WithLimit sets the maximum number of suggestions per name
func WithLimit(limit int) Option {
	return func(r *Resolver) {
		if limit > 0 {
			r.limit = limit
		}
	}
}

// New builds the reverse lookup from normalized club name to club id.
// When two clubs share a key the first one in catalog order wins.
func New(clubs []models.Club, opts ...Option) *Resolver {
	r := &Resolver{
		byKey:    make(map[string]int, len(clubs)),
		keys:     make([]string, 0, len(clubs)),
		unmapped: make(map[string]struct{}),
		cutoff:   DefaultCutoff,
		limit:    DefaultLimit,
	}
	for _, opt := range opts {
		opt(r)
	}

	for _, c := range clubs {
		key := normalize.Key(c.Name)
		if key == "" {
			continue
		}
		if existing, ok := r.byKey[key]; ok {
			log.Warn().
				Str("key", key).
				Int("kept_id", existing).
				Int("ignored_id", c.ID).
				Msg("Duplicate normalized club name in catalog")
			continue
		}
		r.byKey[key] = c.ID
		r.keys = append(r.keys, key)
	}

	return r
}

// Resolve returns the club id for a raw name. On a miss the raw name is
// recorded as unmapped and ok is false.
func (r *Resolver) Resolve(raw string) (int, bool) {
	id, ok := r.byKey[normalize.Key(raw)]
	if !ok {
		r.unmapped[raw] = struct{}{}
		return 0, false
	}
	return id, true
}

// Len returns the number of distinct keys known to the resolver
func (r *Resolver) Len() int {
	return len(r.keys)
}

// Unmapped returns the raw names that failed resolution, sorted
func (r *Resolver) Unmapped() []string {
	names := make([]string, 0, len(r.unmapped))
	for name := range r.unmapped {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Suggest returns up to limit known keys whose similarity to the normalized
// raw name is at least the cutoff, best first. Equal scores keep catalog order.
func (r *Resolver) Suggest(raw string) []string {
	key := normalize.Key(raw)

	type candidate struct {
		key   string
		score float64
	}
	var candidates []candidate
	for _, known := range r.keys {
		score := Similarity(key, known)
		if score >= r.cutoff {
			candidates = append(candidates, candidate{key: known, score: score})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if len(candidates) > r.limit {
		candidates = candidates[:r.limit]
	}

	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.key)
	}
	return out
}

// Diagnostics returns every unmapped name with its suggestions
func (r *Resolver) Diagnostics() []models.UnmappedName {
	names := r.Unmapped()
	diags := make([]models.UnmappedName, 0, len(names))
	for _, name := range names {
		diags = append(diags, models.UnmappedName{
			Name:        name,
			Suggestions: r.Suggest(name),
		})
	}
	return diags
}
