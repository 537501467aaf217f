package recommend

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wayfarer/services"
)

func newTestOrchestrator(llm Completer) *Orchestrator {
	agg := NewCostAggregator(stubFlights{0, false}, stubHotels{0, false}, identityConverter{})
	return NewOrchestrator(DefaultCatalog(), agg, identityConverter{}, nil, nil, llm)
}

func basePrefs() Preferences {
	return Preferences{
		BudgetPerPerson: "1000-2000",
		People:          2,
		TravelFrom:      "Dallas",
		TravelType:      ScopeInternational,
		DestinationType: "beach",
		TravelDates:     "October",
	}
}

func TestRecommendRankedPipeline(t *testing.T) {
	o := newTestOrchestrator(nil)

	result, err := o.Recommend(context.Background(), basePrefs())
	require.NoError(t, err)

	assert.Equal(t, SourceRanked, result.Source)
	require.NotEmpty(t, result.Destinations)
	assert.LessOrEqual(t, len(result.Destinations), TopCandidates)
	assert.GreaterOrEqual(t, result.TotalFound, len(result.Destinations))

	for _, d := range result.Destinations {
		assert.Equal(t, CategoryBeach, d.Category)
		assert.Greater(t, d.Cost.TotalPerPerson, 0.0)
		assert.InDelta(t, d.Cost.FlightPerPerson+d.Cost.HotelPerPerson+d.Cost.LivingPerPerson,
			d.Cost.TotalPerPerson, 0.01)
	}

	// Catalog totals ascend, so the list is ordered cheapest first.
	for i := 1; i < len(result.Destinations); i++ {
		assert.LessOrEqual(t, result.Destinations[i-1].TotalCost, result.Destinations[i].TotalCost)
	}
	assert.NotEmpty(t, result.Tips)
}

func TestRecommendRejectsBadBudget(t *testing.T) {
	o := newTestOrchestrator(nil)
	prefs := basePrefs()
	prefs.BudgetPerPerson = "whatever works"

	_, err := o.Recommend(context.Background(), prefs)
	assert.Error(t, err)
}

func TestRecommendEmptyEnvelopeYieldsNoDestinations(t *testing.T) {
	o := newTestOrchestrator(nil)
	prefs := basePrefs()
	prefs.BudgetPerPerson = "10" // nothing fits under 10 total

	result, err := o.Recommend(context.Background(), prefs)
	require.NoError(t, err)
	assert.Empty(t, result.Destinations)
	assert.Zero(t, result.TotalFound)
}

func TestRecommendDataQualityReflectsFallbacks(t *testing.T) {
	// Stub pricers always fall back; living costs come from the catalog, so
	// the overall quality lands on partial fallback.
	o := newTestOrchestrator(nil)

	result, err := o.Recommend(context.Background(), basePrefs())
	require.NoError(t, err)
	assert.Equal(t, EstimatePartialFallback, result.DataQuality)
}

// fakeLLM returns a canned reply through the real Completer interface.
type fakeLLM struct {
	reply      string
	err        error
	configured bool
}

func (f *fakeLLM) Configured() bool { return f.configured }

func (f *fakeLLM) Complete(context.Context, string, []services.ChatTurn) (string, error) {
	return f.reply, f.err
}

func TestRecommendAIRerank(t *testing.T) {
	o := newTestOrchestrator(nil)

	// Get the deterministic order first, then ask the "model" to reverse it.
	base, err := o.Recommend(context.Background(), basePrefs())
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(base.Destinations), 2)

	last := base.Destinations[len(base.Destinations)-1]
	first := base.Destinations[0]
	reply := fmt.Sprintf(`{"destinations": [{"name": %q, "country": %q, "why_perfect": "Best value"}, {"name": %q, "country": %q, "why_perfect": "Runner up"}]}`,
		last.Name, last.Country, first.Name, first.Country)

	o = newTestOrchestrator(&fakeLLM{reply: reply, configured: true})
	result, err := o.Recommend(context.Background(), basePrefs())
	require.NoError(t, err)

	assert.Equal(t, SourceAI, result.Source)
	assert.Equal(t, last.Name, result.Destinations[0].Name)
	assert.Equal(t, "Best value", result.Destinations[0].WhyPerfect)
	// Destinations the model skipped keep their ranked positions at the end.
	assert.Len(t, result.Destinations, len(base.Destinations))
}

func TestRecommendKeepsRankedOrderOnBadAIReply(t *testing.T) {
	for _, llm := range []*fakeLLM{
		{reply: "Bali is lovely this time of year!", configured: true},
		{err: errors.New("rate limited"), configured: true},
		{configured: false},
	} {
		o := newTestOrchestrator(llm)
		result, err := o.Recommend(context.Background(), basePrefs())
		require.NoError(t, err)
		assert.Equal(t, SourceRanked, result.Source)
		require.NotEmpty(t, result.Destinations)
		for i := 1; i < len(result.Destinations); i++ {
			assert.LessOrEqual(t, result.Destinations[i-1].TotalCost, result.Destinations[i].TotalCost)
		}
	}
}
