package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"wayfarer/logger"
)

// Store persists completed trip plans and generated itineraries. It is
// optional: a nil *Store skips persistence, the API keeps working.
type Store struct {
	db  *sql.DB
	log *zap.Logger
}

type TripPlan struct {
	ID                  string    `json:"id"`
	SessionID           string    `json:"session_id"`
	SlotsJSON           string    `json:"slots_json"`
	RecommendationsJSON string    `json:"recommendations_json"`
	CreatedAt           time.Time `json:"created_at"`
}

type Itinerary struct {
	ID           string    `json:"id"`
	PlanID       string    `json:"plan_id"`
	Summary      string    `json:"summary"`
	PDFData      []byte    `json:"pdf_data,omitempty"`
	TravelerName string    `json:"traveler_name"`
	CreatedAt    time.Time `json:"created_at"`
}

// Open connects, retries while the database comes up, and migrates. An
// empty DSN returns (nil, nil): persistence is simply off.
func Open(dsn string) (*Store, error) {
	if dsn == "" {
		logger.Warn("DATABASE_URL not set, trip plan persistence disabled")
		return nil, nil
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	log := logger.Named("database")
	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		log.Info("waiting for database", zap.Int("attempt", i+1), zap.Error(err))
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("connect after retries: %w", err)
	}

	s := &Store{db: db, log: log}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	log.Info("database connected and migrated")
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS trip_plans (
			id                   TEXT PRIMARY KEY,
			session_id           TEXT NOT NULL,
			slots_json           TEXT NOT NULL,
			recommendations_json TEXT NOT NULL,
			created_at           TIMESTAMPTZ DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS itineraries (
			id            TEXT PRIMARY KEY,
			plan_id       TEXT NOT NULL REFERENCES trip_plans(id),
			summary       TEXT,
			pdf_data      BYTEA,
			traveler_name TEXT,
			created_at    TIMESTAMPTZ DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_trip_plans_session_id
			ON trip_plans(session_id)`,

		`CREATE INDEX IF NOT EXISTS idx_itineraries_plan_id
			ON itineraries(plan_id)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

func (s *Store) SaveTripPlan(ctx context.Context, p *TripPlan) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO trip_plans (id, session_id, slots_json, recommendations_json)
		VALUES ($1, $2, $3, $4)`,
		p.ID, p.SessionID, p.SlotsJSON, p.RecommendationsJSON)
	return err
}

func (s *Store) GetTripPlan(ctx context.Context, id string) (*TripPlan, error) {
	p := &TripPlan{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, session_id, slots_json, recommendations_json, created_at
		FROM trip_plans WHERE id = $1`, id).
		Scan(&p.ID, &p.SessionID, &p.SlotsJSON, &p.RecommendationsJSON, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Store) LatestTripPlanForSession(ctx context.Context, sessionID string) (*TripPlan, error) {
	p := &TripPlan{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, session_id, slots_json, recommendations_json, created_at
		FROM trip_plans WHERE session_id = $1
		ORDER BY created_at DESC LIMIT 1`, sessionID).
		Scan(&p.ID, &p.SessionID, &p.SlotsJSON, &p.RecommendationsJSON, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Store) SaveItinerary(ctx context.Context, i *Itinerary) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO itineraries (id, plan_id, summary, pdf_data, traveler_name)
		VALUES ($1, $2, $3, $4, $5)`,
		i.ID, i.PlanID, i.Summary, i.PDFData, i.TravelerName)
	return err
}

func (s *Store) GetItinerary(ctx context.Context, id string) (*Itinerary, error) {
	i := &Itinerary{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, plan_id, summary, pdf_data, traveler_name, created_at
		FROM itineraries WHERE id = $1`, id).
		Scan(&i.ID, &i.PlanID, &i.Summary, &i.PDFData, &i.TravelerName, &i.CreatedAt)
	if err != nil {
		return nil, err
	}
	return i, nil
}
