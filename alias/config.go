package alias

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
)

// Default confidence weights applied when the configuration file omits them.
const (
	defaultExactWeight   = 1.0
	defaultPartialWeight = 0.8
	defaultFuzzyWeight   = 0.6
)

// Weights maps each match kind to the confidence reported for it.
type Weights struct {
	ExactMatch   float64 `json:"exact_match"`
	PartialMatch float64 `json:"partial_match"`
	FuzzyMatch   float64 `json:"fuzzy_match"`
}

// Config is the externally supplied alias mapping. Official names are the
// only valid resolution targets; exact and partial triggers map onto them,
// fuzzy candidates opt official names into edit-distance matching, and
// indicators gate fuzzy matching behind required keywords.
type Config struct {
	OfficialNames     []string            `json:"official_names"`
	ExactMatches      map[string]string   `json:"exact_matches"`
	PartialMatches    map[string]string   `json:"partial_matches"`
	FuzzyCandidates   []string            `json:"fuzzy_candidates"`
	Indicators        map[string][]string `json:"indicators"`
	ConfidenceWeights Weights             `json:"confidence_weights"`
}

// DefaultConfig returns an empty configuration with default weights.
func DefaultConfig() *Config {
	return &Config{
		ExactMatches:   map[string]string{},
		PartialMatches: map[string]string{},
		Indicators:     map[string][]string{},
		ConfidenceWeights: Weights{
			ExactMatch:   defaultExactWeight,
			PartialMatch: defaultPartialWeight,
			FuzzyMatch:   defaultFuzzyWeight,
		},
	}
}

// fileWeights mirrors Weights with pointer fields so an omitted weight is
// distinguishable from an explicitly configured zero.
type fileWeights struct {
	ExactMatch   *float64 `json:"exact_match"`
	PartialMatch *float64 `json:"partial_match"`
	FuzzyMatch   *float64 `json:"fuzzy_match"`
}

type fileConfig struct {
	OfficialNames     []string            `json:"official_names"`
	ExactMatches      map[string]string   `json:"exact_matches"`
	PartialMatches    map[string]string   `json:"partial_matches"`
	FuzzyCandidates   []string            `json:"fuzzy_candidates"`
	Indicators        map[string][]string `json:"indicators"`
	ConfidenceWeights fileWeights         `json:"confidence_weights"`
}

// LoadConfig reads the alias configuration from a JSON file. A missing or
// malformed file degrades to the empty default configuration; it is never
// an error. Consistency problems are logged as warnings and the entries
// kept as-is.
func LoadConfig(path string) *Config {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: cannot read alias config %s: %v, using defaults", path, err)
		}
		return DefaultConfig()
	}

	var file fileConfig
	if err := json.Unmarshal(data, &file); err != nil {
		log.Printf("Warning: malformed alias config %s: %v, using defaults", path, err)
		return DefaultConfig()
	}

	cfg := DefaultConfig()
	cfg.OfficialNames = file.OfficialNames
	cfg.FuzzyCandidates = file.FuzzyCandidates
	if file.ExactMatches != nil {
		cfg.ExactMatches = file.ExactMatches
	}
	if file.PartialMatches != nil {
		cfg.PartialMatches = file.PartialMatches
	}
	if file.Indicators != nil {
		cfg.Indicators = file.Indicators
	}
	if file.ConfidenceWeights.ExactMatch != nil {
		cfg.ConfidenceWeights.ExactMatch = *file.ConfidenceWeights.ExactMatch
	}
	if file.ConfidenceWeights.PartialMatch != nil {
		cfg.ConfidenceWeights.PartialMatch = *file.ConfidenceWeights.PartialMatch
	}
	if file.ConfidenceWeights.FuzzyMatch != nil {
		cfg.ConfidenceWeights.FuzzyMatch = *file.ConfidenceWeights.FuzzyMatch
	}

	for _, w := range cfg.Warnings() {
		log.Printf("Warning: alias config %s: %s", path, w)
	}

	return cfg
}

// Warnings reports alias values that reference names missing from
// official_names. These are inconsistencies, not fatal errors: resolution
// still uses the entries as written.
func (c *Config) Warnings() []string {
	official := make(map[string]bool, len(c.OfficialNames))
	for _, name := range c.OfficialNames {
		official[name] = true
	}

	var warnings []string
	for trigger, name := range c.ExactMatches {
		if !official[name] {
			warnings = append(warnings, fmt.Sprintf("exact match %q -> %q: not an official name", trigger, name))
		}
	}
	for trigger, name := range c.PartialMatches {
		if !official[name] {
			warnings = append(warnings, fmt.Sprintf("partial match %q -> %q: not an official name", trigger, name))
		}
	}
	for _, name := range c.FuzzyCandidates {
		if !official[name] {
			warnings = append(warnings, fmt.Sprintf("fuzzy candidate %q: not an official name", name))
		}
	}
	return warnings
}
