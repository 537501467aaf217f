package conversation

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"wayfarer/logger"
	"wayfarer/metrics"
	"wayfarer/recommend"
)

// Recommender runs the recommendation pipeline once all slots are filled.
type Recommender interface {
	Recommend(ctx context.Context, prefs recommend.Preferences) (*recommend.Result, error)
}

// Reply is one engine turn back to the user.
type Reply struct {
	SessionID       string            `json:"session_id"`
	Message         string            `json:"message"`
	Step            Step              `json:"step"`
	DataCollected   Slots             `json:"data_collected"`
	Done            bool              `json:"done"`
	Recommendations *recommend.Result `json:"recommendations,omitempty"`
}

var prompts = map[Step]string{
	StepTravelFrom:      "Where will you be traveling from?",
	StepTravelType:      "Would you like to travel domestically or internationally?",
	StepDestinationType: "What kind of destination are you after? For example beach, mountain, city, historic, religious, adventure, or relaxing.",
	StepPeopleCount:     "How many people are traveling?",
	StepBudget:          "What's your budget per person? You can give a range like 1000-2000, a minimum like 1500+, or a cap like 800.",
	StepDates:           "When are you planning to travel, and for how long?",
	StepPreferences:     "Any additional preferences? Food, activities, pace - or just say no.",
}

var retryPrompts = map[Step]string{
	StepTravelFrom:      "I didn't catch the city. Where are you traveling from? For example: \"from Dallas\".",
	StepTravelType:      "Please choose domestic or international.",
	StepDestinationType: "I didn't recognize that type. Try beach, mountain, city, historic, religious, adventure, or relaxing.",
	StepPeopleCount:     "How many travelers? A number works, for example \"2 people\".",
	StepBudget:          "I couldn't read a budget. Try something like \"1000-2000\", \"1500+\", or \"800\".",
	StepDates:           "When would you like to go? A month like \"October\" or \"next month, 5 days\" works.",
}

const welcomeMessage = "Welcome! I'll help you plan your next trip. " +
	"I'll ask a few quick questions and then suggest destinations with real cost estimates."

// Engine drives the slot-filling dialogue. Each turn advances at most one
// step, and a finished session replays its cached recommendations instead
// of re-running the pipeline.
type Engine struct {
	store       SessionStore
	recommender Recommender
	log         *zap.Logger
}

func NewEngine(store SessionStore, recommender Recommender) *Engine {
	return &Engine{
		store:       store,
		recommender: recommender,
		log:         logger.Named("conversation"),
	}
}

// HandleMessage processes one user turn. An empty session ID starts a new
// session; an unknown one returns ErrSessionNotFound.
func (e *Engine) HandleMessage(ctx context.Context, sessionID, message string) (*Reply, error) {
	var session *Session
	if sessionID == "" {
		session = NewSession()
	} else {
		var err error
		session, err = e.store.Get(ctx, sessionID)
		if err != nil {
			return nil, err
		}
	}

	session.Record("user", message)
	metrics.ChatTurns.WithLabelValues(string(session.Step)).Inc()

	reply, err := e.advance(ctx, session, message)
	if err != nil {
		return nil, err
	}

	session.Record("assistant", reply.Message)
	if err := e.store.Put(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	reply.SessionID = session.ID
	reply.Step = session.Step
	reply.DataCollected = session.Slots
	return reply, nil
}

func (e *Engine) advance(ctx context.Context, session *Session, message string) (*Reply, error) {
	switch session.Step {
	case StepWelcome:
		session.Step = StepTravelFrom
		return &Reply{Message: welcomeMessage + "\n\n" + prompts[StepTravelFrom]}, nil

	case StepTravelFrom:
		if place := ExtractTravelFrom(message); place != "" {
			session.Slots.TravelFrom = place
			return e.moveOn(ctx, session, fmt.Sprintf("Great, traveling from %s.", place))
		}

	case StepTravelType:
		if scope := ExtractTravelType(message); scope != "" {
			session.Slots.TravelType = scope
			return e.moveOn(ctx, session, fmt.Sprintf("Got it, %s travel.", scope))
		}

	case StepDestinationType:
		if category := ExtractDestinationType(message); category != "" {
			session.Slots.DestinationType = category
			return e.moveOn(ctx, session, fmt.Sprintf("%s destinations, nice choice.", titleWord(category)))
		}

	case StepPeopleCount:
		if n := ExtractPeopleCount(message); n > 0 {
			session.Slots.PeopleCount = n
			return e.moveOn(ctx, session, fmt.Sprintf("Planning for %d.", n))
		}

	case StepBudget:
		if budget, currency := ExtractBudget(message); budget != "" {
			if _, err := recommend.ParseEnvelope(budget); err == nil {
				session.Slots.Budget = budget
				session.Slots.Currency = currency
				return e.moveOn(ctx, session, fmt.Sprintf("Budget noted: %s %s per person.", budget, currency))
			}
		}

	case StepDates:
		if dates, days := ExtractDates(message); dates != "" {
			session.Slots.TravelDates = dates
			session.Slots.DurationDays = days
			return e.moveOn(ctx, session, "Dates noted.")
		}

	case StepPreferences:
		prefs, answered := ExtractPreferences(message)
		if answered {
			session.Slots.Preferences = prefs
			session.Slots.PrefsCaptured = true
			return e.moveOn(ctx, session, "")
		}

	case StepRecommendations:
		return e.recommend(ctx, session, "")
	}

	// No slot extracted: stay on the step and re-ask.
	retry, ok := retryPrompts[session.Step]
	if !ok {
		retry = prompts[session.Step]
	}
	return &Reply{Message: retry}, nil
}

// moveOn advances to the next open step and either asks its question or, if
// the dialogue is complete, produces recommendations.
func (e *Engine) moveOn(ctx context.Context, session *Session, ack string) (*Reply, error) {
	session.Step = session.NextStep()
	if session.Step == StepRecommendations {
		return e.recommend(ctx, session, ack)
	}

	message := prompts[session.Step]
	if ack != "" {
		message = ack + " " + message
	}
	return &Reply{Message: message}, nil
}

func (e *Engine) recommend(ctx context.Context, session *Session, ack string) (*Reply, error) {
	fingerprint := session.Slots.Fingerprint()
	if session.Recommendations == nil || session.RecFingerprint != fingerprint {
		result, err := e.recommender.Recommend(ctx, recommend.Preferences{
			BudgetPerPerson: session.Slots.Budget,
			People:          session.Slots.PeopleCount,
			TravelFrom:      session.Slots.TravelFrom,
			TravelType:      session.Slots.TravelType,
			DestinationType: session.Slots.DestinationType,
			TravelDates:     session.Slots.TravelDates,
			DurationDays:    session.Slots.DurationDays,
			Currency:        session.Slots.Currency,
			Preferences:     session.Slots.Preferences,
		})
		if err != nil {
			e.log.Error("recommendation run failed", zap.String("session", session.ID), zap.Error(err))
			return nil, err
		}
		session.Recommendations = result
		session.RecFingerprint = fingerprint
	}

	message := session.Recommendations.Summary()
	if ack != "" {
		message = ack + "\n\n" + message
	}
	return &Reply{
		Message:         message,
		Done:            true,
		Recommendations: session.Recommendations,
	}, nil
}

func titleWord(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
