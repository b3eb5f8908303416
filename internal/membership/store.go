package membership

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a user has no membership record.
var ErrNotFound = errors.New("membership not found")

// PGStore provides database operations for memberships.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore creates a new membership store backed by the given connection pool.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

const membershipColumns = `id, user_id, plan_id, plan_name, duration_months,
	price, start_date, end_date, purchased_at, billing_ref`

func scanMembership(row pgx.Row) (*Membership, error) {
	var m Membership
	err := row.Scan(
		&m.ID,
		&m.UserID,
		&m.PlanID,
		&m.PlanName,
		&m.DurationMonths,
		&m.Price,
		&m.StartDate,
		&m.EndDate,
		&m.PurchasedAt,
		&m.BillingRef,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Upsert writes the user's membership, replacing any existing record. No
// history is retained.
func (s *PGStore) Upsert(ctx context.Context, m *Membership) (*Membership, error) {
	query := fmt.Sprintf(`INSERT INTO memberships
		(user_id, plan_id, plan_name, duration_months, price, start_date, end_date, purchased_at, billing_ref)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id) DO UPDATE SET
			plan_id = EXCLUDED.plan_id,
			plan_name = EXCLUDED.plan_name,
			duration_months = EXCLUDED.duration_months,
			price = EXCLUDED.price,
			start_date = EXCLUDED.start_date,
			end_date = EXCLUDED.end_date,
			purchased_at = EXCLUDED.purchased_at,
			billing_ref = EXCLUDED.billing_ref
		RETURNING %s`, membershipColumns)

	out, err := scanMembership(s.pool.QueryRow(ctx, query,
		m.UserID, m.PlanID, m.PlanName, m.DurationMonths, m.Price,
		m.StartDate, m.EndDate, m.PurchasedAt, m.BillingRef,
	))
	if err != nil {
		return nil, fmt.Errorf("upserting membership: %w", err)
	}
	return out, nil
}

// GetByUser retrieves the user's membership row regardless of expiry; the
// service layer decides whether an expired row is discarded.
func (s *PGStore) GetByUser(ctx context.Context, userID string) (*Membership, error) {
	query := fmt.Sprintf(`SELECT %s FROM memberships WHERE user_id = $1`, membershipColumns)
	m, err := scanMembership(s.pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting membership: %w", err)
	}
	return m, nil
}

// DeleteByUser removes the user's membership if present.
func (s *PGStore) DeleteByUser(ctx context.Context, userID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM memberships WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("deleting membership: %w", err)
	}
	return nil
}

// DeleteExpired removes memberships whose end date has passed. Run
// periodically alongside session cleanup.
func (s *PGStore) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM memberships WHERE end_date < now()`)
	if err != nil {
		return 0, fmt.Errorf("deleting expired memberships: %w", err)
	}
	return tag.RowsAffected(), nil
}
