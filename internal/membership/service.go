package membership

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alecgard/brofit/internal/catalog"
	"github.com/alecgard/brofit/internal/crypto"
)

// ErrUnknownPlan is returned when a purchase names a plan that does not exist.
var ErrUnknownPlan = errors.New("unknown plan")

// Store is the persistence interface the service operates on.
type Store interface {
	Upsert(ctx context.Context, m *Membership) (*Membership, error)
	GetByUser(ctx context.Context, userID string) (*Membership, error)
	DeleteByUser(ctx context.Context, userID string) error
}

// PlanSource resolves plan IDs against the plan catalog.
type PlanSource interface {
	GetPlan(ctx context.Context, id string) (*catalog.Plan, error)
}

// Service implements membership purchase, cancellation, and lookup for one
// explicit user at a time. The user id is always passed in; there is no
// ambient session state.
type Service struct {
	store  Store
	plans  PlanSource
	cipher *crypto.Cipher
	now    func() time.Time
}

// NewService creates a membership service. cipher may be nil, in which case
// billing references are stored unencrypted.
func NewService(store Store, plans PlanSource, cipher *crypto.Cipher) *Service {
	return &Service{
		store:  store,
		plans:  plans,
		cipher: cipher,
		now:    time.Now,
	}
}

// Purchase buys the named plan for the user. Any existing membership is
// replaced outright; there is no proration, merging, or history.
func (s *Service) Purchase(ctx context.Context, userID string, in PurchaseInput) (*Membership, error) {
	plan, err := s.plans.GetPlan(ctx, in.PlanID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, ErrUnknownPlan
		}
		return nil, fmt.Errorf("resolving plan: %w", err)
	}

	ref, err := s.cipher.Encrypt(maskCard(in.CardHolder, in.CardNumber))
	if err != nil {
		return nil, fmt.Errorf("encrypting billing ref: %w", err)
	}

	now := s.now()
	m := &Membership{
		UserID:         userID,
		PlanID:         plan.ID,
		PlanName:       plan.Name,
		DurationMonths: plan.DurationMonths,
		Price:          plan.Price,
		StartDate:      now,
		EndDate:        now.AddDate(0, plan.DurationMonths, 0),
		PurchasedAt:    now,
		BillingRef:     ref,
	}

	return s.store.Upsert(ctx, m)
}

// Cancel removes the user's membership. Succeeds even when none exists.
func (s *Service) Cancel(ctx context.Context, userID string) error {
	return s.store.DeleteByUser(ctx, userID)
}

// Get returns the user's membership. Expired records are discarded lazily:
// a record past its end date is deleted and ErrNotFound returned.
func (s *Service) Get(ctx context.Context, userID string) (*Membership, error) {
	m, err := s.store.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !m.ActiveAt(s.now()) {
		if err := s.store.DeleteByUser(ctx, userID); err != nil {
			return nil, err
		}
		return nil, ErrNotFound
	}
	return m, nil
}

// maskCard builds the stored billing reference: holder name plus the last
// four digits of the card number. The full number is dropped.
func maskCard(holder, number string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)

	last4 := digits
	if len(digits) > 4 {
		last4 = digits[len(digits)-4:]
	}
	return fmt.Sprintf("%s/****%s", holder, last4)
}
