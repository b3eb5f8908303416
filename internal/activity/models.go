package activity

import "time"

// Event kinds recorded in the activity log.
const (
	KindRegistered          = "registered"
	KindLoggedIn            = "logged_in"
	KindMembershipPurchased = "membership_purchased"
	KindMembershipCancelled = "membership_cancelled"
	KindClassBooked         = "class_booked"
	KindBookingCancelled    = "booking_cancelled"
)

// Event is a single entry in a user's activity feed.
type Event struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Kind      string    `json:"kind"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"created_at"`
}
