package membership

import (
	"math"
	"time"
)

// Membership is a time-bounded entitlement granting booking rights. A user
// holds at most one membership at a time; purchasing replaces any existing
// record outright.
type Membership struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	PlanID         string    `json:"plan_id"`
	PlanName       string    `json:"plan_name"`
	DurationMonths int       `json:"duration"`
	Price          float64   `json:"price"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	PurchasedAt    time.Time `json:"purchased_at"`
	BillingRef     string    `json:"-"` // encrypted at rest, never serialized
}

// ActiveAt reports whether the membership grants booking rights at the given
// instant. A membership is active strictly before its end date.
func (m *Membership) ActiveAt(now time.Time) bool {
	if m == nil {
		return false
	}
	return m.EndDate.After(now)
}

// DaysRemainingAt returns the number of whole or partial days left until the
// end date, floored at zero.
func (m *Membership) DaysRemainingAt(now time.Time) int {
	if m == nil {
		return 0
	}
	remaining := m.EndDate.Sub(now)
	if remaining <= 0 {
		return 0
	}
	return int(math.Ceil(remaining.Hours() / 24))
}

// PurchaseInput holds the fields of a checkout request. The card number is
// never stored; only a masked reference survives, encrypted.
type PurchaseInput struct {
	PlanID     string `json:"plan_id"`
	CardHolder string `json:"card_holder"`
	CardNumber string `json:"card_number"`
}
