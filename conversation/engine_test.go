package conversation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wayfarer/recommend"
)

type countingRecommender struct {
	calls int
	last  recommend.Preferences
}

func (r *countingRecommender) Recommend(_ context.Context, prefs recommend.Preferences) (*recommend.Result, error) {
	r.calls++
	r.last = prefs
	return &recommend.Result{
		Destinations: []recommend.Destination{
			{
				Ranked: recommend.Ranked{
					Candidate: recommend.Candidate{Name: "Bali, Indonesia", Country: "Indonesia"},
					TotalCost: 1200,
					Currency:  prefs.Currency,
				},
				Cost: recommend.Estimate{TotalPerPerson: 1200, Currency: prefs.Currency, Source: recommend.EstimateFullFallback},
			},
		},
		TotalFound: 1,
		Source:     recommend.SourceRanked,
	}, nil
}

func newTestEngine() (*Engine, *countingRecommender) {
	rec := &countingRecommender{}
	return NewEngine(NewMemoryStore(time.Hour), rec), rec
}

func turn(t *testing.T, e *Engine, sessionID, message string) *Reply {
	t.Helper()
	reply, err := e.HandleMessage(context.Background(), sessionID, message)
	require.NoError(t, err)
	return reply
}

func TestEngineFullDialogue(t *testing.T) {
	e, rec := newTestEngine()

	reply := turn(t, e, "", "hi")
	require.NotEmpty(t, reply.SessionID)
	assert.Equal(t, StepTravelFrom, reply.Step)
	id := reply.SessionID

	reply = turn(t, e, id, "I'm traveling from Dallas")
	assert.Equal(t, StepTravelType, reply.Step)

	reply = turn(t, e, id, "international")
	assert.Equal(t, StepDestinationType, reply.Step)

	reply = turn(t, e, id, "beach")
	assert.Equal(t, StepPeopleCount, reply.Step)

	reply = turn(t, e, id, "2 people")
	assert.Equal(t, StepBudget, reply.Step)

	reply = turn(t, e, id, "1000-2000")
	assert.Equal(t, StepDates, reply.Step)

	reply = turn(t, e, id, "October, 7 days")
	assert.Equal(t, StepPreferences, reply.Step)

	reply = turn(t, e, id, "no")
	assert.Equal(t, StepRecommendations, reply.Step)
	assert.True(t, reply.Done)
	require.NotNil(t, reply.Recommendations)
	assert.Contains(t, reply.Message, "Bali, Indonesia")

	assert.Equal(t, 1, rec.calls)
	assert.Equal(t, "Dallas", rec.last.TravelFrom)
	assert.Equal(t, recommend.ScopeInternational, rec.last.TravelType)
	assert.Equal(t, "beach", rec.last.DestinationType)
	assert.Equal(t, 2, rec.last.People)
	assert.Equal(t, "1000-2000", rec.last.BudgetPerPerson)
	assert.Equal(t, 7, rec.last.DurationDays)
}

func TestEngineReAsksOnUnextractableAnswer(t *testing.T) {
	e, _ := newTestEngine()

	id := turn(t, e, "", "hello").SessionID
	turn(t, e, id, "from Dallas")

	// Gibberish at the travel-type step keeps the dialogue there.
	reply := turn(t, e, id, "hmm not sure")
	assert.Equal(t, StepTravelType, reply.Step)
	assert.Contains(t, reply.Message, "domestic or international")

	reply = turn(t, e, id, "domestic then")
	assert.Equal(t, StepDestinationType, reply.Step)
}

func TestEngineRejectsInvalidBudgetAndRecovers(t *testing.T) {
	e, _ := newTestEngine()

	id := turn(t, e, "", "hello").SessionID
	turn(t, e, id, "from Austin")
	turn(t, e, id, "domestic")
	turn(t, e, id, "mountains")
	turn(t, e, id, "4 people")

	reply := turn(t, e, id, "money is no object")
	assert.Equal(t, StepBudget, reply.Step)

	reply = turn(t, e, id, "$2,000 - $3,000")
	assert.Equal(t, StepDates, reply.Step)
}

func TestEngineRepeatedFinalTurnDoesNotRerun(t *testing.T) {
	e, rec := newTestEngine()

	id := turn(t, e, "", "hello").SessionID
	for _, msg := range []string{"from Dallas", "international", "beach", "2 people", "1000-2000", "October", "no"} {
		turn(t, e, id, msg)
	}
	require.Equal(t, 1, rec.calls)

	// Asking again replays the cached result.
	reply := turn(t, e, id, "show me again")
	assert.True(t, reply.Done)
	require.NotNil(t, reply.Recommendations)
	assert.Equal(t, 1, rec.calls)
}

func TestEngineUnknownSession(t *testing.T) {
	e, _ := newTestEngine()

	_, err := e.HandleMessage(context.Background(), "nonexistent", "hi")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestEngineBoundsTranscript(t *testing.T) {
	e, _ := newTestEngine()

	id := turn(t, e, "", "hello").SessionID
	for i := 0; i < 30; i++ {
		turn(t, e, id, "???")
	}

	session, err := e.store.Get(context.Background(), id)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(session.Messages), MaxMessages)
}
