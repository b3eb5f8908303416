package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alecgard/brofit/internal/catalog"
	"github.com/alecgard/brofit/internal/membership"
)

var (
	// ErrMembershipRequired is returned when booking without an active membership.
	ErrMembershipRequired = errors.New("active membership required")
	// ErrClassNotFound is returned when the class does not exist in the catalog.
	ErrClassNotFound = errors.New("class not found")
	// ErrClassFull is returned when the class has no remaining capacity.
	ErrClassFull = errors.New("class is full")
)

// Store is the persistence interface the service operates on.
type Store interface {
	Create(ctx context.Context, b *Booking) (*Booking, error)
	Delete(ctx context.Context, userID, bookingID string) error
	ListByUser(ctx context.Context, userID string) ([]*Booking, error)
	CountByClass(ctx context.Context, classID string) (int, error)
	ExistsByUserClass(ctx context.Context, userID, classID string) (bool, error)
}

// MembershipSource resolves a user's current membership. Implementations
// return membership.ErrNotFound when the user has none.
type MembershipSource interface {
	Get(ctx context.Context, userID string) (*membership.Membership, error)
}

// ClassSource resolves class IDs against the class catalog.
type ClassSource interface {
	GetClass(ctx context.Context, id string) (*catalog.Class, error)
}

// Service implements the booking rules: an active membership gates booking,
// a user holds at most one booking per class, and capacity is enforced at
// booking time. Cancellation never invalidates other state.
type Service struct {
	store       Store
	memberships MembershipSource
	classes     ClassSource
	now         func() time.Time
}

// NewService creates a booking service.
func NewService(store Store, memberships MembershipSource, classes ClassSource) *Service {
	return &Service{
		store:       store,
		memberships: memberships,
		classes:     classes,
		now:         time.Now,
	}
}

// Book creates a booking for the user on the given class.
func (s *Service) Book(ctx context.Context, userID, classID string) (*Booking, error) {
	m, err := s.memberships.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, membership.ErrNotFound) {
			return nil, ErrMembershipRequired
		}
		return nil, fmt.Errorf("checking membership: %w", err)
	}
	if !m.ActiveAt(s.now()) {
		return nil, ErrMembershipRequired
	}

	class, err := s.classes.GetClass(ctx, classID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, ErrClassNotFound
		}
		return nil, fmt.Errorf("resolving class: %w", err)
	}

	if class.Capacity > 0 {
		count, err := s.store.CountByClass(ctx, classID)
		if err != nil {
			return nil, fmt.Errorf("checking capacity: %w", err)
		}
		if count >= class.Capacity {
			return nil, ErrClassFull
		}
	}

	return s.store.Create(ctx, &Booking{
		UserID:     userID,
		ClassID:    class.ID,
		ClassName:  class.Name,
		Instructor: class.Instructor,
		Day:        class.Day,
		Time:       class.Time,
		Duration:   class.Duration,
		Type:       class.Type,
		BookedAt:   s.now(),
	})
}

// Cancel removes the user's booking. Cancelling a booking that does not
// exist succeeds with no change.
func (s *Service) Cancel(ctx context.Context, userID, bookingID string) error {
	return s.store.Delete(ctx, userID, bookingID)
}

// List returns the user's bookings, newest first. Bookings survive
// membership expiry or cancellation.
func (s *Service) List(ctx context.Context, userID string) ([]*Booking, error) {
	return s.store.ListByUser(ctx, userID)
}

// IsBooked reports whether the user holds a booking for the class.
func (s *Service) IsBooked(ctx context.Context, userID, classID string) (bool, error) {
	return s.store.ExistsByUserClass(ctx, userID, classID)
}
