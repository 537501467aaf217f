package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wayfarer/conversation"
	"wayfarer/recommend"
	"wayfarer/services"
)

// newTestRouter wires the whole stack with no credentials anywhere, so every
// gateway runs in fallback mode. That is the degraded path the API must
// survive.
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	currency := services.NewCurrencyClient("", time.Second)
	weather := services.NewWeatherClient("", time.Second)
	holidays := services.NewHolidayClient("", time.Second)
	travel := services.NewTravelClient("", "", "test", time.Second)

	catalog := recommend.DefaultCatalog()
	aggregator := recommend.NewCostAggregator(travel, travel, currency)
	orchestrator := recommend.NewOrchestrator(catalog, aggregator, currency, weather, holidays, nil)

	sessions := conversation.NewMemoryStore(time.Hour)
	engine := conversation.NewEngine(sessions, orchestrator)
	h := New(engine, sessions, orchestrator, currency, weather, holidays, travel, nil)

	r := gin.New()
	api := r.Group("/api")
	api.GET("/health", h.Health)
	api.POST("/chat", h.Chat)
	api.GET("/session/:id", h.Session)
	api.DELETE("/session/:id", h.ResetSession)
	api.POST("/recommendations", h.Recommendations)
	api.GET("/currency/rates", h.CurrencyRates)
	api.GET("/currency/convert", h.CurrencyConvert)
	api.GET("/weather/:city", h.CurrentWeather)
	api.GET("/holidays/:country", h.Holidays)
	api.POST("/flights", h.SearchFlights)
	api.POST("/hotels", h.SearchHotels)
	api.GET("/activities/:destination", h.Activities)
	api.POST("/itinerary", h.Itinerary)
	api.GET("/download/:id", h.Download)
	api.GET("/plans/:id", h.TripPlan)
	api.GET("/session/:id/plan", h.SessionPlan)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "disabled", body["database"])
}

func TestRecommendationsSurvivesAllGatewaysDown(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/recommendations", gin.H{
		"budget_per_person": "1000-2000",
		"people_count":      2,
		"travel_from":       "Dallas",
		"travel_type":       "international",
		"destination_type":  "beach",
		"travel_dates":      "October",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result recommend.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, recommend.SourceRanked, result.Source)
	require.NotEmpty(t, result.Destinations)
	// No live pricing anywhere, so data quality must flag the fallbacks.
	assert.NotEqual(t, recommend.EstimateLive, result.DataQuality)
	for _, d := range result.Destinations {
		assert.Greater(t, d.Cost.TotalPerPerson, 0.0)
	}
}

func TestRecommendationsRejectsBadInput(t *testing.T) {
	r := newTestRouter(t)

	// Missing required fields.
	w := doJSON(t, r, http.MethodPost, "/api/recommendations", gin.H{"travel_from": "Dallas"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown travel type.
	w = doJSON(t, r, http.MethodPost, "/api/recommendations", gin.H{
		"budget_per_person": "1000-2000",
		"travel_from":       "Dallas",
		"travel_type":       "interstellar",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unparseable budget.
	w = doJSON(t, r, http.MethodPost, "/api/recommendations", gin.H{
		"budget_per_person": "plenty",
		"travel_from":       "Dallas",
		"travel_type":       "domestic",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatFlowEndToEnd(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/chat", gin.H{"message": "hi"})
	require.Equal(t, http.StatusOK, w.Code)

	var reply conversation.Reply
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reply))
	require.NotEmpty(t, reply.SessionID)
	id := reply.SessionID

	for _, msg := range []string{"from Dallas", "international", "beach", "2 people", "1000-2000", "October, 7 days"} {
		w = doJSON(t, r, http.MethodPost, "/api/chat", gin.H{"session_id": id, "message": msg})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/api/chat", gin.H{"session_id": id, "message": "no"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reply))
	assert.True(t, reply.Done)
	require.NotNil(t, reply.Recommendations)
	assert.NotEmpty(t, reply.Recommendations.Destinations)
}

func TestChatUnknownSession(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/chat", gin.H{"session_id": "nope", "message": "hi"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/chat", gin.H{"message": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCurrencyEndpoints(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/currency/rates?base=EUR", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var rates struct {
		Base   string             `json:"base"`
		Rates  map[string]float64 `json:"rates"`
		Source string             `json:"source"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rates))
	assert.Equal(t, "EUR", rates.Base)
	assert.Equal(t, services.SourceFallback, rates.Source)
	assert.Equal(t, 1.0, rates.Rates["EUR"])

	w = doJSON(t, r, http.MethodGet, "/api/currency/convert?from=USD&to=EUR&amount=100", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/currency/convert?from=USD&to=XYZ&amount=100", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/currency/convert?from=USD&to=EUR&amount=-5", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWeatherAndHolidaysFallbacks(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/weather/Bali", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var weather services.Weather
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &weather))
	assert.Equal(t, services.SourceFallback, weather.Source)

	w = doJSON(t, r, http.MethodGet, "/api/holidays/ID", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var holidays struct {
		Source   string             `json:"source"`
		Holidays []services.Holiday `json:"holidays"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &holidays))
	assert.Equal(t, services.SourceFallback, holidays.Source)
	assert.NotEmpty(t, holidays.Holidays)
}

func TestFlightAndHotelSearchValidation(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/flights", gin.H{
		"origin": "DALLAS", "destination": "DPS",
		"departure_date": "2026-10-15",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/flights", gin.H{
		"origin": "DFW", "destination": "DPS",
		"departure_date": "2026-10-15", "return_date": "2026-10-10",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/flights", gin.H{
		"origin": "DFW", "destination": "DPS",
		"departure_date": "2026-10-15", "return_date": "2026-10-22",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var flights struct {
		Flights []services.Flight `json:"flights"`
		Source  string            `json:"source"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &flights))
	assert.Equal(t, services.SourceFallback, flights.Source)
	assert.NotEmpty(t, flights.Flights)

	w = doJSON(t, r, http.MethodPost, "/api/hotels", gin.H{
		"city_code": "DPS", "check_in": "2026-10-15", "check_out": "2026-10-22",
	})
	require.Equal(t, http.StatusOK, w.Code)
}

func TestItineraryPDFRoundTrip(t *testing.T) {
	r := newTestRouter(t)

	// Drive a session to completion first.
	w := doJSON(t, r, http.MethodPost, "/api/chat", gin.H{"message": "hi"})
	require.Equal(t, http.StatusOK, w.Code)
	var reply conversation.Reply
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reply))
	id := reply.SessionID

	for _, msg := range []string{"from Dallas", "international", "beach", "2 people", "1000-2000", "October", "no"} {
		w = doJSON(t, r, http.MethodPost, "/api/chat", gin.H{"session_id": id, "message": msg})
		require.Equal(t, http.StatusOK, w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/itinerary", gin.H{
		"session_id": id, "traveler_name": "Sam",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var itin ItineraryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &itin))
	require.NotEmpty(t, itin.ItineraryID)

	w = doJSON(t, r, http.MethodGet, itin.PDFURL, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))

	// Selecting one destination records it on the session.
	w = doJSON(t, r, http.MethodPost, "/api/itinerary", gin.H{
		"session_id": id, "traveler_name": "Sam", "destination_index": 0,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/session/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var session conversation.Session
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
	require.NotNil(t, session.SelectedDestination)
	assert.Equal(t, session.Recommendations.Destinations[0].Name, session.SelectedDestination.Name)
}

func TestItineraryRequiresFinishedSession(t *testing.T) {
	r := newTestRouter(t)

	// Fresh session with no recommendations yet.
	w := doJSON(t, r, http.MethodPost, "/api/chat", gin.H{"message": "hi"})
	var reply conversation.Reply
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reply))

	w = doJSON(t, r, http.MethodPost, "/api/itinerary", gin.H{"session_id": reply.SessionID})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/itinerary", gin.H{"session_id": "missing"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessionLifecycle(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/chat", gin.H{"message": "hi"})
	var reply conversation.Reply
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reply))
	id := reply.SessionID

	w = doJSON(t, r, http.MethodGet, "/api/session/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var session conversation.Session
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
	assert.Equal(t, conversation.StepTravelFrom, session.Step)

	w = doJSON(t, r, http.MethodDelete, "/api/session/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/session/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPlanLookupsWithoutDatabase(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/plans/some-id", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/session/some-id/plan", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
