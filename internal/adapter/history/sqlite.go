// Package history persists executed searches per user in SQLite.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/couchcryptid/facility-finder/internal/domain"
	"github.com/couchcryptid/facility-finder/internal/observability"
)

const schema = `
CREATE TABLE IF NOT EXISTS searches (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	address    TEXT NOT NULL,
	radius_km  REAL NOT NULL,
	category   TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_searches_user_created ON searches (user_id, created_at DESC);
`

// Store implements domain.HistoryStore on an embedded SQLite database.
type Store struct {
	db      *sql.DB
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewStore opens (or creates) the database at path and applies the schema.
func NewStore(path string, metrics *observability.Metrics, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	// modernc.org/sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY churn under concurrent saves.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply history schema: %w", err)
	}
	return &Store{db: db, metrics: metrics, logger: logger}, nil
}

// Save records one executed search for a user.
func (s *Store) Save(ctx context.Context, userID string, q domain.SearchQuery) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO searches (id, user_id, address, radius_km, category, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), userID, q.Address, q.RadiusKm, q.Category, domain.Now().UTC(),
	)
	if err != nil {
		s.metrics.HistorySaves.WithLabelValues("error").Inc()
		return fmt.Errorf("save search: %w", err)
	}
	s.metrics.HistorySaves.WithLabelValues("success").Inc()
	return nil
}

// List returns a user's searches, newest first.
func (s *Store) List(ctx context.Context, userID string) ([]domain.HistoryRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, address, radius_km, category, created_at FROM searches WHERE user_id = ? ORDER BY created_at DESC, id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list searches: %w", err)
	}
	defer rows.Close()

	var records []domain.HistoryRecord
	for rows.Next() {
		var rec domain.HistoryRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Query.Address, &rec.Query.RadiusKm, &rec.Query.Category, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan search row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate search rows: %w", err)
	}
	return records, nil
}

// CheckReadiness reports whether the database is reachable.
func (s *Store) CheckReadiness(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("history db unreachable: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
