package alias

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.OfficialNames = []string{"TD Bank", "Hydro-Québec", "Videotron"}
	cfg.ExactMatches = map[string]string{"banque-td": "TD Bank"}
	cfg.PartialMatches = map[string]string{"hydro": "Hydro-Québec"}
	cfg.FuzzyCandidates = []string{"Videotron"}
	cfg.Indicators = map[string][]string{"Videotron": {"videotron", "vidéotron"}}
	return cfg
}

func TestResolveExactWholeInput(t *testing.T) {
	r := NewResolver(testConfig())

	m, ok := r.Resolve("Banque-TD")
	assert.True(t, ok)
	assert.Equal(t, "TD Bank", m.OfficialName)
	assert.Equal(t, MatchExact, m.Kind)
	assert.InDelta(t, 1.0, m.Confidence, 1e-9)
}

func TestResolveExactEmbeddedToken(t *testing.T) {
	r := NewResolver(testConfig())

	// The trigger appears as one token of a longer statement line and still
	// counts as an exact match.
	m, ok := r.Resolve("statement from BANQUE-TD dated 2025-01-15")
	assert.True(t, ok)
	assert.Equal(t, "TD Bank", m.OfficialName)
	assert.Equal(t, MatchExact, m.Kind)
}

func TestResolvePartial(t *testing.T) {
	r := NewResolver(testConfig())

	m, ok := r.Resolve("HYDRO-QUEBEC Relevé de compte")
	assert.True(t, ok)
	assert.Equal(t, "Hydro-Québec", m.OfficialName)
	assert.Equal(t, MatchPartial, m.Kind)
	assert.InDelta(t, 0.8, m.Confidence, 1e-9)
}

func TestResolveTierPrecedence(t *testing.T) {
	cfg := testConfig()
	cfg.PartialMatches["banque"] = "Hydro-Québec"
	r := NewResolver(cfg)

	// Both an exact token and a partial trigger are present; the exact tier
	// runs first and wins.
	m, ok := r.Resolve("banque-td hydro")
	assert.True(t, ok)
	assert.Equal(t, "TD Bank", m.OfficialName)
	assert.Equal(t, MatchExact, m.Kind)
}

func TestResolveFuzzyWithIndicator(t *testing.T) {
	r := NewResolver(testConfig())

	m, ok := r.Resolve("Videotron inc")
	assert.True(t, ok)
	assert.Equal(t, "Videotron", m.OfficialName)
	assert.Equal(t, MatchFuzzy, m.Kind)
	assert.InDelta(t, 0.6, m.Confidence, 1e-9)
}

func TestResolveFuzzyGateClosed(t *testing.T) {
	cfg := testConfig()
	cfg.Indicators = map[string][]string{}
	r := NewResolver(cfg)

	// Same input as the fuzzy test, but with no indicators configured the
	// gate never opens.
	_, ok := r.Resolve("Videotron inc")
	assert.False(t, ok)
}

func TestResolveFuzzyBelowThreshold(t *testing.T) {
	cfg := testConfig()
	cfg.Indicators["Videotron"] = []string{"vid"}
	r := NewResolver(cfg)

	// Indicator present, but the text is too far from the candidate.
	_, ok := r.Resolve("vidange automobile enr")
	assert.False(t, ok)
}

func TestResolveEmptyInput(t *testing.T) {
	r := NewResolver(testConfig())

	_, ok := r.Resolve("")
	assert.False(t, ok)
	_, ok = r.Resolve("   \n\t ")
	assert.False(t, ok)
}

func TestResolveNoMatch(t *testing.T) {
	r := NewResolver(testConfig())

	_, ok := r.Resolve("Dépanneur du coin")
	assert.False(t, ok)
}

func TestResolverReload(t *testing.T) {
	r := NewResolver(nil)

	_, ok := r.Resolve("banque-td")
	assert.False(t, ok)

	r.Reload(testConfig())
	m, ok := r.Resolve("banque-td")
	assert.True(t, ok)
	assert.Equal(t, "TD Bank", m.OfficialName)

	// Reloading nil swaps back to the empty defaults.
	r.Reload(nil)
	_, ok = r.Resolve("banque-td")
	assert.False(t, ok)
}

func TestResolveCustomWeights(t *testing.T) {
	cfg := testConfig()
	cfg.ConfidenceWeights = Weights{ExactMatch: 0.95, PartialMatch: 0.7, FuzzyMatch: 0.5}
	r := NewResolver(cfg)

	m, _ := r.Resolve("banque-td")
	assert.InDelta(t, 0.95, m.Confidence, 1e-9)

	m, _ = r.Resolve("compte hydro résidentiel")
	assert.InDelta(t, 0.7, m.Confidence, 1e-9)
}
