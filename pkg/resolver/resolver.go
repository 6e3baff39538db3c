package resolver

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/xrash/smetrics"

	"github.com/talentsift/talentsift/pkg/types"
)

const (
	// DefaultThreshold is the minimum Jaro-Winkler similarity for mapping a
	// surface form onto an existing canonical entity.
	DefaultThreshold = 0.85

	// DefaultAmbiguityBand is the width of the zone below the threshold in
	// which a match is logged and left unresolved instead of force-assigned.
	DefaultAmbiguityBand = 0.10
)

// Resolution is the outcome of resolving one raw surface form.
type Resolution struct {
	Original   string
	Entity     *types.Entity
	Confidence float64
	// Known is true when the surface form matched a seeded or previously
	// created canonical entity rather than creating a new one.
	Known bool
	// Created is true when this call created a new canonical entry.
	Created bool
}

// Resolver canonicalizes raw entity surface forms against a registry seeded
// from the ontology. Resolution is idempotent: resolving a canonical name
// returns the same entity.
//
// Lookups of existing entries are lock-free with respect to each other; only
// the creation of a new canonical id takes the write lock.
type Resolver struct {
	threshold     float64
	ambiguityBand float64
	logger        *slog.Logger

	mu sync.RWMutex
	// byNormalized maps the normalized canonical name or alias to its entity.
	byNormalized map[string]*types.Entity
	byID         map[string]*types.Entity
	// canonical keeps normalized canonical names per type for fuzzy matching.
	canonical map[types.EntityType][]string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithThreshold overrides the canonical-match similarity threshold.
func WithThreshold(t float64) Option {
	return func(r *Resolver) { r.threshold = t }
}

// WithAmbiguityBand overrides the ambiguity band width.
func WithAmbiguityBand(b float64) Option {
	return func(r *Resolver) { r.ambiguityBand = b }
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates a Resolver seeded from the given ontology. A nil ontology
// starts with an empty registry.
func New(ontology *Ontology, opts ...Option) *Resolver {
	r := &Resolver{
		threshold:     DefaultThreshold,
		ambiguityBand: DefaultAmbiguityBand,
		logger:        slog.Default(),
		byNormalized:  make(map[string]*types.Entity),
		byID:          make(map[string]*types.Entity),
		canonical:     make(map[types.EntityType][]string),
	}
	for _, opt := range opts {
		opt(r)
	}

	if ontology != nil {
		r.seed(ontology)
	}
	return r
}

func (r *Resolver) seed(o *Ontology) {
	for _, skill := range o.Skills {
		r.create(skill, types.EntitySkill)
	}
	for _, company := range o.Companies {
		r.create(company, types.EntityCompany)
	}
	for alias, canonical := range o.SkillVariations {
		r.seedAlias(alias, canonical, types.EntitySkill)
	}
	for alias, canonical := range o.CompanyVariations {
		r.seedAlias(alias, canonical, types.EntityCompany)
	}
}

// seedAlias registers an ontology alias during construction, creating the
// canonical entity if the ontology lists the alias before (or without) it.
func (r *Resolver) seedAlias(alias, canonical string, t types.EntityType) {
	entity, ok := r.byNormalized[Normalize(canonical)]
	if !ok {
		entity = r.create(canonical, t)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	entity.Aliases[alias] = struct{}{}
	r.byNormalized[Normalize(alias)] = entity
}

// Resolve maps a raw surface form to a canonical entity of the given type.
//
// Above the threshold the existing canonical entity is returned and the raw
// form is recorded as a new alias. Inside the ambiguity band the form is left
// unresolved and types.ErrResolutionAmbiguous is returned; processing should
// continue without the entity. Below the band a new canonical entry is
// created from the cleaned surface form.
func (r *Resolver) Resolve(raw string, entityType types.EntityType) (*Resolution, error) {
	original := strings.TrimSpace(raw)
	if original == "" {
		return nil, fmt.Errorf("empty surface form")
	}

	res, err := r.ResolveExisting(original, entityType)
	if err != nil || res != nil {
		return res, err
	}

	entity, created := r.createIfAbsent(cleanName(original), entityType, Normalize(original))
	return &Resolution{
		Original:   original,
		Entity:     entity,
		Confidence: 0.5,
		Known:      !created,
		Created:    created,
	}, nil
}

// ResolveExisting maps a surface form onto an existing canonical entity
// without ever creating one. On the query path an unknown term is simply
// not an entity, so nothing below the ambiguity band comes back: no match
// returns (nil, nil). Matching and alias recording behave exactly as in
// Resolve.
func (r *Resolver) ResolveExisting(raw string, entityType types.EntityType) (*Resolution, error) {
	original := strings.TrimSpace(raw)
	if original == "" {
		return nil, nil
	}
	norm := Normalize(original)

	// Exact hit on a canonical name or a recorded alias.
	r.mu.RLock()
	if entity, ok := r.byNormalized[norm]; ok {
		r.mu.RUnlock()
		return &Resolution{Original: original, Entity: entity, Confidence: 1.0, Known: true}, nil
	}
	best, bestScore := r.bestMatchLocked(norm, entityType)
	r.mu.RUnlock()

	if best != nil && bestScore >= r.threshold {
		r.recordAlias(best, original, norm)
		return &Resolution{Original: original, Entity: best, Confidence: bestScore, Known: true}, nil
	}

	if best != nil && bestScore >= r.threshold-r.ambiguityBand {
		r.logger.Warn("ambiguous entity resolution, leaving unresolved",
			"surface_form", original,
			"nearest", best.CanonicalName,
			"score", bestScore,
			"threshold", r.threshold)
		return nil, fmt.Errorf("%w: %q scored %.3f against %q",
			types.ErrResolutionAmbiguous, original, bestScore, best.CanonicalName)
	}

	return nil, nil
}

// bestMatchLocked scans canonical names of the given type under a held read
// lock and returns the highest Jaro-Winkler match.
func (r *Resolver) bestMatchLocked(norm string, entityType types.EntityType) (*types.Entity, float64) {
	var best *types.Entity
	var bestScore float64
	for _, name := range r.canonical[entityType] {
		score := smetrics.JaroWinkler(norm, name, 0.7, 4)
		if score > bestScore {
			bestScore = score
			best = r.byNormalized[name]
		}
	}
	return best, bestScore
}

// recordAlias registers a newly observed surface form for an existing entity.
func (r *Resolver) recordAlias(entity *types.Entity, original, norm string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !entity.HasAlias(original) {
		entity.Aliases[original] = struct{}{}
	}
	if _, ok := r.byNormalized[norm]; !ok {
		r.byNormalized[norm] = entity
	}
}

// createIfAbsent creates a new canonical entity unless another writer beat
// this one to it. Double-checked under the write lock.
func (r *Resolver) createIfAbsent(canonicalName string, entityType types.EntityType, norm string) (*types.Entity, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entity, ok := r.byNormalized[norm]; ok {
		return entity, false
	}
	return r.createLocked(canonicalName, entityType), true
}

// create seeds one canonical entity; only used during construction.
func (r *Resolver) create(canonicalName string, entityType types.EntityType) *types.Entity {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entity, ok := r.byNormalized[Normalize(canonicalName)]; ok {
		return entity
	}
	return r.createLocked(canonicalName, entityType)
}

func (r *Resolver) createLocked(canonicalName string, entityType types.EntityType) *types.Entity {
	norm := Normalize(canonicalName)
	entity := &types.Entity{
		ID:            uuid.NewString(),
		CanonicalName: canonicalName,
		Type:          entityType,
		Aliases:       map[string]struct{}{canonicalName: {}},
	}
	r.byNormalized[norm] = entity
	r.byID[entity.ID] = entity
	r.canonical[entityType] = append(r.canonical[entityType], norm)
	return entity
}

// Get returns a canonical entity by id.
func (r *Resolver) Get(id string) (*types.Entity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entity, ok := r.byID[id]
	return entity, ok
}

// Lookup returns the canonical entity for an already-normalized name or
// alias without fuzzy matching or side effects.
func (r *Resolver) Lookup(surface string) (*types.Entity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entity, ok := r.byNormalized[Normalize(surface)]
	return entity, ok
}

// Normalize lowercases and collapses a surface form for registry keys.
// Characters meaningful in skill names (+, #, .) are preserved.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	b.Grow(len(s))
	lastSpace := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '+', r == '#', r == '.':
			b.WriteRune(r)
			lastSpace = false
		default:
			if !lastSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			lastSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}

// cleanName title-cases an unknown surface form for use as a new canonical
// name, leaving all-caps tokens (AWS, SQL) alone.
func cleanName(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if w == strings.ToUpper(w) {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
