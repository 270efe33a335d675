package alias

import (
	"strings"
	"sync/atomic"

	"golang.org/x/text/unicode/norm"
)

// resolverFuzzyThreshold is the minimum combined similarity the resolver's
// fuzzy tier accepts. Distinct from DefaultFuzzyDistance, which generic
// company-line scoring uses as a distance ceiling.
const resolverFuzzyThreshold = 0.8

// MatchKind is the tier that produced a resolution.
type MatchKind string

const (
	MatchExact   MatchKind = "exact"
	MatchPartial MatchKind = "partial"
	MatchFuzzy   MatchKind = "fuzzy"
)

// Match is a successful resolution to an official business name.
type Match struct {
	OfficialName string
	Kind         MatchKind
	Confidence   float64
}

// Resolver resolves free-form vendor text against an alias configuration.
// The configuration is held behind an atomic pointer: Reload swaps in a new
// immutable snapshot while in-flight resolutions keep reading the one they
// started with.
type Resolver struct {
	cfg atomic.Pointer[Config]
}

// NewResolver returns a resolver reading from cfg. A nil cfg behaves like
// the empty default configuration.
func NewResolver(cfg *Config) *Resolver {
	r := &Resolver{}
	r.Reload(cfg)
	return r
}

// Reload replaces the configuration snapshot. Safe to call concurrently
// with Resolve.
func (r *Resolver) Reload(cfg *Config) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	r.cfg.Store(cfg)
}

// Config returns the current configuration snapshot.
func (r *Resolver) Config() *Config {
	return r.cfg.Load()
}

// Resolve matches text to an official name through three tiers evaluated in
// order, first hit wins: exact trigger equality, normalized substring
// match, then indicator-gated fuzzy similarity. Empty input resolves to
// nothing; resolution is a pure lookup with no side effects.
func (r *Resolver) Resolve(text string) (Match, bool) {
	cfg := r.cfg.Load()

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Match{}, false
	}
	lowered := strings.ToLower(trimmed)

	if m, ok := r.resolveExact(cfg, lowered); ok {
		return m, true
	}
	if m, ok := r.resolvePartial(cfg, trimmed); ok {
		return m, true
	}
	return r.resolveFuzzy(cfg, trimmed, lowered)
}

// resolveExact compares each trigger for case-insensitive equality against
// the whole input and against its whitespace-delimited tokens, so a known
// trigger embedded in statement boilerplate still counts as exact.
func (r *Resolver) resolveExact(cfg *Config, lowered string) (Match, bool) {
	if name, ok := cfg.ExactMatches[lowered]; ok {
		return Match{name, MatchExact, cfg.ConfidenceWeights.ExactMatch}, true
	}
	for _, token := range strings.Fields(lowered) {
		if name, ok := cfg.ExactMatches[token]; ok {
			return Match{name, MatchExact, cfg.ConfidenceWeights.ExactMatch}, true
		}
	}
	return Match{}, false
}

func (r *Resolver) resolvePartial(cfg *Config, text string) (Match, bool) {
	normalized := normalizeForPartial(text)
	for trigger, name := range cfg.PartialMatches {
		if strings.Contains(normalized, normalizeForPartial(trigger)) {
			return Match{name, MatchPartial, cfg.ConfidenceWeights.PartialMatch}, true
		}
	}
	return Match{}, false
}

// resolveFuzzy tries each fuzzy candidate whose gating indicators appear in
// the input and keeps the best similarity at or above the threshold.
func (r *Resolver) resolveFuzzy(cfg *Config, text, lowered string) (Match, bool) {
	bestScore := 0.0
	bestName := ""

	for _, name := range cfg.FuzzyCandidates {
		if !r.indicatorPresent(cfg, name, lowered) {
			continue
		}
		score := Similarity(text, name)
		if score >= resolverFuzzyThreshold && score > bestScore {
			bestScore = score
			bestName = name
		}
	}

	if bestName == "" {
		return Match{}, false
	}
	return Match{bestName, MatchFuzzy, cfg.ConfidenceWeights.FuzzyMatch}, true
}

// indicatorPresent reports whether at least one gating keyword for the
// official name occurs in the input. Names with no configured indicators
// never open the fuzzy gate, which bounds false positives.
func (r *Resolver) indicatorPresent(cfg *Config, name, lowered string) bool {
	for _, indicator := range cfg.Indicators[name] {
		if indicator == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(indicator)) {
			return true
		}
	}
	return false
}

// normalizeForPartial applies NFKC normalization, case folding and
// whitespace collapsing before substring comparison.
func normalizeForPartial(s string) string {
	folded := strings.ToLower(norm.NFKC.String(s))
	return strings.Join(strings.Fields(folded), " ")
}
