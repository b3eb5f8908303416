package booking

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alecgard/brofit/internal/catalog"
	"github.com/alecgard/brofit/internal/membership"
)

// fakeStore keeps bookings in memory and enforces (user, class) uniqueness
// the way the unique index does.
type fakeStore struct {
	bookings []*Booking
	nextID   int
}

func (f *fakeStore) Create(_ context.Context, b *Booking) (*Booking, error) {
	for _, existing := range f.bookings {
		if existing.UserID == b.UserID && existing.ClassID == b.ClassID {
			return nil, ErrAlreadyBooked
		}
	}
	f.nextID++
	cp := *b
	cp.ID = fmt.Sprintf("b-%d", f.nextID)
	f.bookings = append(f.bookings, &cp)
	return &cp, nil
}

func (f *fakeStore) Delete(_ context.Context, userID, bookingID string) error {
	out := f.bookings[:0]
	for _, b := range f.bookings {
		if b.UserID == userID && b.ID == bookingID {
			continue
		}
		out = append(out, b)
	}
	f.bookings = out
	return nil
}

func (f *fakeStore) ListByUser(_ context.Context, userID string) ([]*Booking, error) {
	var out []*Booking
	for _, b := range f.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeStore) CountByClass(_ context.Context, classID string) (int, error) {
	n := 0
	for _, b := range f.bookings {
		if b.ClassID == classID {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) ExistsByUserClass(_ context.Context, userID, classID string) (bool, error) {
	for _, b := range f.bookings {
		if b.UserID == userID && b.ClassID == classID {
			return true, nil
		}
	}
	return false, nil
}

type fakeMemberships struct {
	byUser map[string]*membership.Membership
}

func (f *fakeMemberships) Get(_ context.Context, userID string) (*membership.Membership, error) {
	m, ok := f.byUser[userID]
	if !ok {
		return nil, membership.ErrNotFound
	}
	return m, nil
}

type fakeClasses struct {
	classes map[string]*catalog.Class
}

func (f *fakeClasses) GetClass(_ context.Context, id string) (*catalog.Class, error) {
	c, ok := f.classes[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return c, nil
}

var testNow = time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

func activeMembership() *membership.Membership {
	return &membership.Membership{
		UserID:   "u1",
		PlanID:   "basic",
		EndDate:  testNow.AddDate(0, 1, 0),
		PlanName: "Basic",
	}
}

func newTestService(store *fakeStore, m *membership.Membership) *Service {
	members := &fakeMemberships{byUser: map[string]*membership.Membership{}}
	if m != nil {
		members.byUser[m.UserID] = m
	}
	classes := &fakeClasses{classes: map[string]*catalog.Class{
		"c1": {ID: "c1", Name: "Morning Yoga", Type: "yoga", Instructor: "Sarah Chen", Day: "Monday", Time: "07:00", Duration: 60, Capacity: 20},
		"c2": {ID: "c2", Name: "HIIT Blast", Type: "hiit", Instructor: "Marcus Reed", Day: "Tuesday", Time: "18:00", Duration: 45, Capacity: 2},
	}}
	svc := NewService(store, members, classes)
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestBookSnapshotsClassDetails(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store, activeMembership())

	b, err := svc.Book(context.Background(), "u1", "c1")
	if err != nil {
		t.Fatalf("Book failed: %v", err)
	}

	if b.ClassName != "Morning Yoga" || b.Instructor != "Sarah Chen" {
		t.Errorf("class details not snapshotted: %+v", b)
	}
	if b.Day != "Monday" || b.Time != "07:00" || b.Duration != 60 || b.Type != "yoga" {
		t.Errorf("schedule details not snapshotted: %+v", b)
	}
	if !b.BookedAt.Equal(testNow) {
		t.Errorf("booked_at = %v, want %v", b.BookedAt, testNow)
	}
}

func TestBookWithoutMembership(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store, nil)

	_, err := svc.Book(context.Background(), "u1", "c1")
	if err != ErrMembershipRequired {
		t.Fatalf("expected ErrMembershipRequired, got %v", err)
	}
	if len(store.bookings) != 0 {
		t.Error("no booking should be created without a membership")
	}
}

func TestBookWithExpiredMembership(t *testing.T) {
	expired := activeMembership()
	expired.EndDate = testNow.Add(-time.Hour)
	store := &fakeStore{}
	svc := newTestService(store, expired)

	_, err := svc.Book(context.Background(), "u1", "c1")
	if err != ErrMembershipRequired {
		t.Fatalf("expected ErrMembershipRequired for expired membership, got %v", err)
	}
}

func TestBookSameClassTwice(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store, activeMembership())

	if _, err := svc.Book(context.Background(), "u1", "c1"); err != nil {
		t.Fatal(err)
	}
	_, err := svc.Book(context.Background(), "u1", "c1")
	if err != ErrAlreadyBooked {
		t.Fatalf("expected ErrAlreadyBooked, got %v", err)
	}
	if len(store.bookings) != 1 {
		t.Errorf("booking list length changed: got %d, want 1", len(store.bookings))
	}
}

func TestBookUnknownClass(t *testing.T) {
	svc := newTestService(&fakeStore{}, activeMembership())

	_, err := svc.Book(context.Background(), "u1", "nope")
	if err != ErrClassNotFound {
		t.Fatalf("expected ErrClassNotFound, got %v", err)
	}
}

func TestBookClassFull(t *testing.T) {
	store := &fakeStore{}
	// Two other members fill the 2-person class.
	store.bookings = append(store.bookings,
		&Booking{ID: "x1", UserID: "other1", ClassID: "c2"},
		&Booking{ID: "x2", UserID: "other2", ClassID: "c2"},
	)
	svc := newTestService(store, activeMembership())

	_, err := svc.Book(context.Background(), "u1", "c2")
	if err != ErrClassFull {
		t.Fatalf("expected ErrClassFull, got %v", err)
	}
}

func TestCancelIdempotent(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store, activeMembership())

	b, err := svc.Book(context.Background(), "u1", "c1")
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.Cancel(context.Background(), "u1", b.ID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if len(store.bookings) != 0 {
		t.Fatal("booking should be removed")
	}

	// Cancelling again, and cancelling an id that never existed, both succeed.
	if err := svc.Cancel(context.Background(), "u1", b.ID); err != nil {
		t.Errorf("repeat cancel should succeed, got %v", err)
	}
	if err := svc.Cancel(context.Background(), "u1", "never-existed"); err != nil {
		t.Errorf("cancel of unknown id should succeed, got %v", err)
	}
	if len(store.bookings) != 0 {
		t.Error("booking list should be unchanged")
	}
}

func TestCancelOnlyOwnBookings(t *testing.T) {
	store := &fakeStore{}
	store.bookings = append(store.bookings, &Booking{ID: "other-b", UserID: "other", ClassID: "c1"})
	svc := newTestService(store, activeMembership())

	if err := svc.Cancel(context.Background(), "u1", "other-b"); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if len(store.bookings) != 1 {
		t.Error("another user's booking must not be deleted")
	}
}

func TestIsBooked(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store, activeMembership())

	booked, err := svc.IsBooked(context.Background(), "u1", "c1")
	if err != nil || booked {
		t.Fatalf("expected not booked, got %v / %v", booked, err)
	}

	if _, err := svc.Book(context.Background(), "u1", "c1"); err != nil {
		t.Fatal(err)
	}

	booked, err = svc.IsBooked(context.Background(), "u1", "c1")
	if err != nil || !booked {
		t.Fatalf("expected booked, got %v / %v", booked, err)
	}
}

// Bookings made while a membership was active survive its expiry.
func TestBookingsSurviveMembershipExpiry(t *testing.T) {
	m := activeMembership()
	store := &fakeStore{}
	svc := newTestService(store, m)

	if _, err := svc.Book(context.Background(), "u1", "c1"); err != nil {
		t.Fatal(err)
	}

	svc.now = func() time.Time { return m.EndDate.AddDate(0, 0, 7) }

	list, err := svc.List(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Errorf("expected booking to survive membership expiry, got %d bookings", len(list))
	}
}
