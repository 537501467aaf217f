package conversation

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"wayfarer/recommend"
)

// Step names the dialogue states. Each step owns one slot except welcome
// and recommendations, which bracket the flow.
type Step string

const (
	StepWelcome         Step = "welcome"
	StepTravelFrom      Step = "travel_from"
	StepTravelType      Step = "travel_type"
	StepDestinationType Step = "destination_type"
	StepPeopleCount     Step = "people_count"
	StepBudget          Step = "budget"
	StepDates           Step = "dates"
	StepPreferences     Step = "additional_preferences"
	StepRecommendations Step = "recommendations"
)

// MaxMessages bounds the per-session transcript. Older turns are dropped
// first.
const MaxMessages = 20

type Message struct {
	Role    string    `json:"role"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// Slots holds everything the dialogue collects. A zero value means the slot
// is still open, except PrefsCaptured which marks the optional preferences
// question as asked-and-answered even when the answer was "no".
type Slots struct {
	TravelFrom      string          `json:"travel_from,omitempty"`
	TravelType      recommend.Scope `json:"travel_type,omitempty"`
	DestinationType string          `json:"destination_type,omitempty"`
	PeopleCount     int             `json:"people_count,omitempty"`
	Budget          string          `json:"budget,omitempty"`
	Currency        string          `json:"currency,omitempty"`
	TravelDates     string          `json:"travel_dates,omitempty"`
	DurationDays    int             `json:"duration_days,omitempty"`
	Preferences     string          `json:"additional_preferences,omitempty"`
	PrefsCaptured   bool            `json:"prefs_captured,omitempty"`
}

// Complete reports whether every required slot is filled. Additional
// preferences are optional but must have been asked.
func (s Slots) Complete() bool {
	return s.TravelFrom != "" &&
		s.TravelType != "" &&
		s.DestinationType != "" &&
		s.PeopleCount > 0 &&
		s.Budget != "" &&
		s.TravelDates != "" &&
		s.PrefsCaptured
}

// Fingerprint identifies the slot values that feed a recommendation run, so
// a repeated final message reuses the cached result instead of re-running
// the pipeline.
func (s Slots) Fingerprint() string {
	return fmt.Sprintf("%s|%s|%s|%s|%s|%s|%d|%d|%s",
		s.TravelType, s.DestinationType, s.Budget, s.Currency,
		s.TravelFrom, s.TravelDates, s.PeopleCount, s.DurationDays, s.Preferences)
}

type Session struct {
	ID              string            `json:"id"`
	Step            Step              `json:"step"`
	Slots           Slots             `json:"slots"`
	Messages        []Message         `json:"messages"`
	Recommendations *recommend.Result `json:"recommendations,omitempty"`
	RecFingerprint  string            `json:"rec_fingerprint,omitempty"`

	// SelectedDestination is set when the user commits to one entry of
	// Recommendations, for itinerary generation.
	SelectedDestination *recommend.Destination `json:"selected_destination,omitempty"`
	CreatedAt           time.Time              `json:"created_at"`
	UpdatedAt           time.Time              `json:"updated_at"`
}

// Clone returns a copy that shares no mutable state with s, so a stored
// session cannot be changed through a handed-out pointer.
func (s *Session) Clone() *Session {
	copied := *s
	if s.Messages != nil {
		copied.Messages = make([]Message, len(s.Messages))
		copy(copied.Messages, s.Messages)
	}
	if s.Recommendations != nil {
		rec := *s.Recommendations
		rec.Destinations = make([]recommend.Destination, len(s.Recommendations.Destinations))
		copy(rec.Destinations, s.Recommendations.Destinations)
		rec.Tips = append([]string(nil), s.Recommendations.Tips...)
		copied.Recommendations = &rec
	}
	if s.SelectedDestination != nil {
		sel := *s.SelectedDestination
		copied.SelectedDestination = &sel
	}
	return &copied
}

func NewSession() *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        uuid.New().String(),
		Step:      StepWelcome,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *Session) Record(role, content string) {
	s.Messages = append(s.Messages, Message{Role: role, Content: content, At: time.Now().UTC()})
	if len(s.Messages) > MaxMessages {
		s.Messages = s.Messages[len(s.Messages)-MaxMessages:]
	}
	s.UpdatedAt = time.Now().UTC()
}

// NextStep returns the first step whose slot is still open, in fixed order.
func (s *Session) NextStep() Step {
	switch {
	case s.Slots.TravelFrom == "":
		return StepTravelFrom
	case s.Slots.TravelType == "":
		return StepTravelType
	case s.Slots.DestinationType == "":
		return StepDestinationType
	case s.Slots.PeopleCount <= 0:
		return StepPeopleCount
	case s.Slots.Budget == "":
		return StepBudget
	case s.Slots.TravelDates == "":
		return StepDates
	case !s.Slots.PrefsCaptured:
		return StepPreferences
	default:
		return StepRecommendations
	}
}
