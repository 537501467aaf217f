package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAIPlanCleanJSON(t *testing.T) {
	raw := `{"destinations": [{"name": "Bali, Indonesia", "country": "Indonesia", "why_perfect": "Fits the budget"}]}`

	outcome := ParseAIPlan(raw)
	require.True(t, outcome.Structured())
	require.Len(t, outcome.Plan.Destinations, 1)
	assert.Equal(t, "Bali, Indonesia", outcome.Plan.Destinations[0].Name)
	assert.Equal(t, "Fits the budget", outcome.Plan.Destinations[0].WhyPerfect)
}

func TestParseAIPlanCodeFenced(t *testing.T) {
	raw := "```json\n{\"destinations\": [{\"name\": \"Tokyo, Japan\", \"country\": \"Japan\"}]}\n```"

	outcome := ParseAIPlan(raw)
	require.True(t, outcome.Structured())
	assert.Equal(t, "Tokyo, Japan", outcome.Plan.Destinations[0].Name)
}

func TestParseAIPlanProseWrapped(t *testing.T) {
	raw := `Sure! Here are my picks:
{"destinations": [{"name": "Rome, Italy", "country": "Italy", "highlights": ["Colosseum"]}]}
Let me know if you want more options.`

	outcome := ParseAIPlan(raw)
	require.True(t, outcome.Structured())
	assert.Equal(t, []string{"Colosseum"}, outcome.Plan.Destinations[0].Highlights)
}

func TestParseAIPlanUnparseable(t *testing.T) {
	for _, raw := range []string{
		"I recommend visiting Bali because it is beautiful.",
		"",
		`{"destinations": "not an array"}`,
		`{"destinations": []}`,
		"{broken json",
	} {
		outcome := ParseAIPlan(raw)
		assert.False(t, outcome.Structured(), "input %q", raw)
		assert.Equal(t, raw, outcome.Raw)
	}
}
