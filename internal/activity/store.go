package activity

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store provides database operations for the activity log.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new activity store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// BatchInsert writes a batch of events in a single round trip.
func (s *Store) BatchInsert(ctx context.Context, events []Event) error {
	if len(events) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, ev := range events {
		batch.Queue(
			`INSERT INTO activity_log (id, user_id, kind, detail, created_at)
			 VALUES ($1, $2, $3, $4, $5)`,
			ev.ID, ev.UserID, ev.Kind, ev.Detail, ev.CreatedAt,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range events {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("inserting activity event: %w", err)
		}
	}
	return nil
}

// ListByUser returns the user's most recent events, newest first.
func (s *Store) ListByUser(ctx context.Context, userID string, limit int) ([]*Event, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, kind, detail, created_at
		 FROM activity_log WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing activity: %w", err)
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		ev := &Event{}
		if err := rows.Scan(&ev.ID, &ev.UserID, &ev.Kind, &ev.Detail, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning activity event: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}
