package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrAlreadyBooked is returned when the user already holds a booking for the
// class. Enforced by the (user_id, class_id) unique index, not a pre-check.
var ErrAlreadyBooked = errors.New("class already booked")

// PGStore provides database operations for bookings.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore creates a new booking store backed by the given connection pool.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

const bookingColumns = `id, user_id, class_id, class_name, instructor, day,
	time, duration_minutes, type, booked_at`

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.ClassID,
		&b.ClassName,
		&b.Instructor,
		&b.Day,
		&b.Time,
		&b.Duration,
		&b.Type,
		&b.BookedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create inserts a new booking and returns the stored row.
func (s *PGStore) Create(ctx context.Context, b *Booking) (*Booking, error) {
	query := fmt.Sprintf(`INSERT INTO bookings
		(user_id, class_id, class_name, instructor, day, time, duration_minutes, type, booked_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING %s`, bookingColumns)

	out, err := scanBooking(s.pool.QueryRow(ctx, query,
		b.UserID, b.ClassID, b.ClassName, b.Instructor, b.Day,
		b.Time, b.Duration, b.Type, b.BookedAt,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrAlreadyBooked
		}
		return nil, fmt.Errorf("creating booking: %w", err)
	}
	return out, nil
}

// Delete removes the user's booking by id. Deleting an absent booking is a
// no-op, not an error.
func (s *PGStore) Delete(ctx context.Context, userID, bookingID string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM bookings WHERE id = $1 AND user_id = $2`, bookingID, userID)
	if err != nil {
		return fmt.Errorf("deleting booking: %w", err)
	}
	return nil
}

// ListByUser returns the user's bookings, newest first.
func (s *PGStore) ListByUser(ctx context.Context, userID string) ([]*Booking, error) {
	query := fmt.Sprintf(`SELECT %s FROM bookings WHERE user_id = $1
		ORDER BY booked_at DESC, id DESC`, bookingColumns)
	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// CountByClass returns the number of bookings held against a class.
func (s *PGStore) CountByClass(ctx context.Context, classID string) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM bookings WHERE class_id = $1`, classID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting bookings: %w", err)
	}
	return n, nil
}

// ExistsByUserClass reports whether the user holds a booking for the class.
func (s *PGStore) ExistsByUserClass(ctx context.Context, userID, classID string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM bookings WHERE user_id = $1 AND class_id = $2)`,
		userID, classID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking booking existence: %w", err)
	}
	return exists, nil
}
