package database

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &Store{db: db, log: zap.NewNop()}, mock
}

func planColumns() []string {
	return []string{"id", "session_id", "slots_json", "recommendations_json", "created_at"}
}

func TestSaveTripPlan(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO trip_plans").
		WithArgs("plan-1", "sess-1", `{"travel_from":"Dallas"}`, `{"destinations":[]}`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.SaveTripPlan(context.Background(), &TripPlan{
		ID:                  "plan-1",
		SessionID:           "sess-1",
		SlotsJSON:           `{"travel_from":"Dallas"}`,
		RecommendationsJSON: `{"destinations":[]}`,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTripPlan(t *testing.T) {
	store, mock := newMockStore(t)
	created := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM trip_plans WHERE id").
		WithArgs("plan-1").
		WillReturnRows(sqlmock.NewRows(planColumns()).
			AddRow("plan-1", "sess-1", "{}", "{}", created))

	plan, err := store.GetTripPlan(context.Background(), "plan-1")
	require.NoError(t, err)
	assert.Equal(t, "plan-1", plan.ID)
	assert.Equal(t, "sess-1", plan.SessionID)
	assert.Equal(t, created, plan.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTripPlanMissing(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("FROM trip_plans WHERE id").
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	_, err := store.GetTripPlan(context.Background(), "nope")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestLatestTripPlanForSession(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("ORDER BY created_at DESC LIMIT 1").
		WithArgs("sess-1").
		WillReturnRows(sqlmock.NewRows(planColumns()).
			AddRow("plan-2", "sess-1", "{}", "{}", time.Now()))

	plan, err := store.LatestTripPlanForSession(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "plan-2", plan.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveAndGetItinerary(t *testing.T) {
	store, mock := newMockStore(t)
	pdf := []byte("%PDF-1.4")

	mock.ExpectExec("INSERT INTO itineraries").
		WithArgs("itin-1", "plan-1", "Top pick: Bali", pdf, "Alex").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.SaveItinerary(context.Background(), &Itinerary{
		ID:           "itin-1",
		PlanID:       "plan-1",
		Summary:      "Top pick: Bali",
		PDFData:      pdf,
		TravelerName: "Alex",
	})
	require.NoError(t, err)

	mock.ExpectQuery("FROM itineraries WHERE id").
		WithArgs("itin-1").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "plan_id", "summary", "pdf_data", "traveler_name", "created_at"}).
			AddRow("itin-1", "plan-1", "Top pick: Bali", pdf, "Alex", time.Now()))

	itin, err := store.GetItinerary(context.Background(), "itin-1")
	require.NoError(t, err)
	assert.Equal(t, "plan-1", itin.PlanID)
	assert.Equal(t, pdf, itin.PDFData)
	assert.NoError(t, mock.ExpectationsWereMet())
}
