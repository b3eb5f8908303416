package catalog

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a class or plan does not exist.
var ErrNotFound = errors.New("not found")

// Store provides database operations for the read-only class and plan catalogs.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new catalog store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// classColumns is the full column list used in class SELECT statements. The
// enrolled count comes from live bookings rather than a stored counter.
const classColumns = `c.id, c.name, c.type, c.instructor, c.day, c.time,
	c.duration_minutes, c.capacity,
	(SELECT COUNT(*) FROM bookings b WHERE b.class_id = c.id) AS enrolled,
	c.level, c.description, c.created_at`

func scanClass(row pgx.Row) (*Class, error) {
	var c Class
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Type,
		&c.Instructor,
		&c.Day,
		&c.Time,
		&c.Duration,
		&c.Capacity,
		&c.Enrolled,
		&c.Level,
		&c.Description,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateClass inserts a new class offering. Used by seeding, not by request
// handlers.
func (s *Store) CreateClass(ctx context.Context, in CreateClassInput) (*Class, error) {
	query := fmt.Sprintf(`INSERT INTO classes AS c
		(name, type, instructor, day, time, duration_minutes, capacity, level, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING %s`, classColumns)

	row := s.pool.QueryRow(ctx, query,
		in.Name, in.Type, in.Instructor, in.Day, in.Time,
		in.Duration, in.Capacity, in.Level, in.Description,
	)
	c, err := scanClass(row)
	if err != nil {
		return nil, fmt.Errorf("creating class: %w", err)
	}
	return c, nil
}

// GetClass retrieves a class offering by ID.
func (s *Store) GetClass(ctx context.Context, id string) (*Class, error) {
	query := fmt.Sprintf(`SELECT %s FROM classes c WHERE c.id = $1`, classColumns)
	c, err := scanClass(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting class: %w", err)
	}
	return c, nil
}

// encodeCursor produces a base64-encoded cursor from a timestamp and ID.
func encodeCursor(createdAt time.Time, id string) string {
	raw := fmt.Sprintf("%s|%s", createdAt.Format(time.RFC3339Nano), id)
	return base64.StdEncoding.EncodeToString([]byte(raw))
}

// decodeCursor parses a base64-encoded cursor into a timestamp and ID.
func decodeCursor(cursor string) (time.Time, string, error) {
	data, err := base64.StdEncoding.DecodeString(cursor)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("decoding cursor: %w", err)
	}
	parts := strings.SplitN(string(data), "|", 2)
	if len(parts) != 2 {
		return time.Time{}, "", fmt.Errorf("invalid cursor format")
	}
	t, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return time.Time{}, "", fmt.Errorf("parsing cursor timestamp: %w", err)
	}
	return t, parts[1], nil
}

// ListClasses returns a page of classes ordered by created_at DESC, id DESC
// with cursor-based pagination, optionally filtered by day, type, and a
// free-text query over name and instructor.
func (s *Store) ListClasses(ctx context.Context, params ClassListParams) ([]*Class, string, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	args := []interface{}{}
	argIdx := 1
	whereClauses := []string{}

	if params.Cursor != "" {
		cursorTime, cursorID, err := decodeCursor(params.Cursor)
		if err != nil {
			return nil, "", fmt.Errorf("invalid cursor: %w", err)
		}
		whereClauses = append(whereClauses,
			fmt.Sprintf("(c.created_at, c.id) < ($%d, $%d)", argIdx, argIdx+1))
		args = append(args, cursorTime, cursorID)
		argIdx += 2
	}

	if params.Day != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("c.day = $%d", argIdx))
		args = append(args, params.Day)
		argIdx++
	}

	if params.Type != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("c.type = $%d", argIdx))
		args = append(args, params.Type)
		argIdx++
	}

	if params.Query != "" {
		pattern := "%" + params.Query + "%"
		whereClauses = append(whereClauses,
			fmt.Sprintf("(c.name ILIKE $%d OR c.instructor ILIKE $%d)", argIdx, argIdx))
		args = append(args, pattern)
		argIdx++
	}

	where := ""
	if len(whereClauses) > 0 {
		where = "WHERE " + strings.Join(whereClauses, " AND ")
	}

	query := fmt.Sprintf(`SELECT %s FROM classes c %s ORDER BY c.created_at DESC, c.id DESC LIMIT $%d`,
		classColumns, where, argIdx)
	args = append(args, limit+1) // fetch one extra to determine next cursor

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, "", fmt.Errorf("listing classes: %w", err)
	}
	defer rows.Close()

	var classes []*Class
	for rows.Next() {
		c, err := scanClass(rows)
		if err != nil {
			return nil, "", fmt.Errorf("scanning class: %w", err)
		}
		classes = append(classes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("iterating classes: %w", err)
	}

	var nextCursor string
	if len(classes) > limit {
		last := classes[limit-1]
		nextCursor = encodeCursor(last.CreatedAt, last.ID)
		classes = classes[:limit]
	}

	return classes, nextCursor, nil
}

const planColumns = `id, name, duration_months, price, price_per_month, features, created_at`

func scanPlan(row pgx.Row) (*Plan, error) {
	var p Plan
	var featuresJSON []byte
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.DurationMonths,
		&p.Price,
		&p.PricePerMonth,
		&featuresJSON,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(featuresJSON) > 0 {
		if err := json.Unmarshal(featuresJSON, &p.Features); err != nil {
			return nil, fmt.Errorf("unmarshaling features: %w", err)
		}
	}
	if p.Features == nil {
		p.Features = []string{}
	}
	return &p, nil
}

// CreatePlan inserts a new membership plan. Used by seeding.
func (s *Store) CreatePlan(ctx context.Context, in CreatePlanInput) (*Plan, error) {
	features := in.Features
	if features == nil {
		features = []string{}
	}
	featuresJSON, err := json.Marshal(features)
	if err != nil {
		return nil, fmt.Errorf("marshaling features: %w", err)
	}

	query := fmt.Sprintf(`INSERT INTO plans
		(id, name, duration_months, price, price_per_month, features)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s`, planColumns)

	p, err := scanPlan(s.pool.QueryRow(ctx, query,
		in.ID, in.Name, in.DurationMonths, in.Price, in.PricePerMonth, featuresJSON,
	))
	if err != nil {
		return nil, fmt.Errorf("creating plan: %w", err)
	}
	return p, nil
}

// GetPlan retrieves a membership plan by ID.
func (s *Store) GetPlan(ctx context.Context, id string) (*Plan, error) {
	query := fmt.Sprintf(`SELECT %s FROM plans WHERE id = $1`, planColumns)
	p, err := scanPlan(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting plan: %w", err)
	}
	return p, nil
}

// ListPlans returns all membership plans ordered by duration.
func (s *Store) ListPlans(ctx context.Context) ([]*Plan, error) {
	query := fmt.Sprintf(`SELECT %s FROM plans ORDER BY duration_months ASC, id ASC`, planColumns)
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing plans: %w", err)
	}
	defer rows.Close()

	var plans []*Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning plan: %w", err)
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}
