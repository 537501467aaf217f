package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroqComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req groqRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3-70b-8192", req.Model)
		require.NotEmpty(t, req.Messages)
		assert.Equal(t, "system", req.Messages[0].Role)

		w.Write([]byte(`{"choices": [{"message": {"content": "hello traveler"}}]}`))
	}))
	defer srv.Close()

	c := NewGroqClient("test-key", "llama3-70b-8192", srv.URL, time.Second)
	require.True(t, c.Configured())

	reply, err := c.Complete(context.Background(), "be helpful", []ChatTurn{{Role: "user", Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, "hello traveler", reply)
}

func TestGroqCompleteErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": "rate limited"}`))
	}))
	defer srv.Close()

	c := NewGroqClient("test-key", "llama3-70b-8192", srv.URL, time.Second)
	_, err := c.Complete(context.Background(), "sys", nil)
	assert.Error(t, err)
}

func TestGroqUnconfigured(t *testing.T) {
	c := NewGroqClient("", "llama3-70b-8192", "https://api.groq.com/openai/v1", time.Second)
	assert.False(t, c.Configured())

	_, err := c.Complete(context.Background(), "sys", nil)
	assert.Error(t, err)
}

func TestHolidaysUpcomingSpansYearBoundary(t *testing.T) {
	c := NewHolidayClient("", time.Second)

	// 365 days ahead always crosses into next year, so New Year's Day from
	// the following year must appear.
	holidays, source := c.Upcoming(context.Background(), "US", 365)
	assert.Equal(t, SourceFallback, source)
	require.NotEmpty(t, holidays)

	nextYear := time.Now().AddDate(1, 0, 0).Format("2006") + "-01-01"
	found := false
	for _, h := range holidays {
		if h.Date == nextYear {
			found = true
		}
	}
	assert.True(t, found, "expected New Year's Day %s in %v", nextYear, holidays)
}

func TestWeatherFallback(t *testing.T) {
	c := NewWeatherClient("", time.Second)

	w := c.Current(context.Background(), "Bali")
	assert.Equal(t, SourceFallback, w.Source)
	assert.Equal(t, "Bali", w.Location)

	f := c.ForecastDays(context.Background(), "Bali", 3)
	assert.Equal(t, SourceFallback, f.Source)
	assert.Len(t, f.Days, 3)

	s := c.Summary(context.Background(), "Bali")
	require.NotNil(t, s)
	assert.Equal(t, "Bali", s.Current.Location)
}
