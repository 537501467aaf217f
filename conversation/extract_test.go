package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"wayfarer/recommend"
)

func TestExtractTravelFrom(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"I'm traveling from Dallas", "Dallas"},
		{"from New York City", "New York City"},
		{"We live in Chicago", "Chicago"},
		{"I'm staying at Dallas", "Dallas"},
		{"Dallas", "Dallas"},
		{"San Francisco!", "San Francisco"},
		{"from Boston and we want somewhere warm", "Boston"},
		{"no city here 123", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ExtractTravelFrom(tt.in), "input %q", tt.in)
	}
}

func TestExtractTravelFromIsDeterministic(t *testing.T) {
	for i := 0; i < 10; i++ {
		assert.Equal(t, "Dallas", ExtractTravelFrom("I'm traveling from Dallas"))
	}
}

func TestExtractTravelType(t *testing.T) {
	assert.Equal(t, recommend.ScopeDomestic, ExtractTravelType("domestic please"))
	assert.Equal(t, recommend.ScopeDomestic, ExtractTravelType("somewhere local"))
	assert.Equal(t, recommend.ScopeDomestic, ExtractTravelType("staying within the country"))
	assert.Equal(t, recommend.ScopeInternational, ExtractTravelType("International!"))
	assert.Equal(t, recommend.ScopeInternational, ExtractTravelType("I want to go abroad"))
	assert.Equal(t, recommend.ScopeInternational, ExtractTravelType("overseas trip"))
	assert.Equal(t, recommend.Scope(""), ExtractTravelType("not sure yet"))
}

func TestExtractDestinationType(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a beach holiday", "beach"},
		{"somewhere by the ocean", "beach"},
		{"mountains and skiing", "mountain"},
		{"big city nightlife", "city"},
		{"ancient ruins and history", "historic"},
		{"a spiritual pilgrimage", "religious"},
		{"extreme adventure sports", "adventure"},
		{"just want to relax at a spa", "relaxing"},
		{"dunno", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ExtractDestinationType(tt.in), "input %q", tt.in)
	}
}

func TestExtractPeopleCount(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"2 people", 2},
		{"We are 4 travelers", 4},
		{"family of 5", 5},
		{"3", 3},
		{"just me", 1},
		{"traveling solo", 1},
		{"a couple", 2},
		{"everyone is coming", 0},
		{"0 people", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ExtractPeopleCount(tt.in), "input %q", tt.in)
	}
}

func TestExtractBudget(t *testing.T) {
	tests := []struct {
		in           string
		wantBudget   string
		wantCurrency string
	}{
		{"1000-2000", "1000-2000", "USD"},
		{"$1,500 - $2,500 per person", "1500-2500", "USD"},
		{"1500+", "1500+", "USD"},
		{"around 800 dollars", "800", "USD"},
		{"€1200", "1200", "EUR"},
		{"£900+", "900+", "GBP"},
		{"100000 yen", "100000", "JPY"},
		{"no idea", "", "USD"},
	}

	for _, tt := range tests {
		budget, currency := ExtractBudget(tt.in)
		assert.Equal(t, tt.wantBudget, budget, "input %q", tt.in)
		assert.Equal(t, tt.wantCurrency, currency, "input %q", tt.in)
	}
}

func TestExtractDates(t *testing.T) {
	dates, days := ExtractDates("sometime in October for 10 days")
	assert.Equal(t, "sometime in October for 10 days", dates)
	assert.Equal(t, 10, days)

	dates, days = ExtractDates("next month")
	assert.NotEmpty(t, dates)
	assert.Zero(t, days)

	dates, days = ExtractDates("5 nights over christmas")
	assert.NotEmpty(t, dates)
	assert.Equal(t, 5, days)

	dates, _ = ExtractDates("whenever really")
	assert.Empty(t, dates)

	// "maybe" must not read as the month "may".
	dates, days = ExtractDates("maybe sometime")
	assert.Empty(t, dates)
	assert.Zero(t, days)

	dates, _ = ExtractDates("early May")
	assert.Equal(t, "early May", dates)
}

func TestExtractPreferences(t *testing.T) {
	prefs, answered := ExtractPreferences("great food and snorkeling")
	assert.True(t, answered)
	assert.Equal(t, "great food and snorkeling", prefs)

	prefs, answered = ExtractPreferences("no")
	assert.True(t, answered)
	assert.Empty(t, prefs)

	prefs, answered = ExtractPreferences("None.")
	assert.True(t, answered)
	assert.Empty(t, prefs)

	_, answered = ExtractPreferences("   ")
	assert.False(t, answered)
}
