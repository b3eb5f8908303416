package booking

import "time"

// Booking is a user's claim on one class offering's schedule slot. Class
// details are snapshotted at booking time so the record stays meaningful if
// the catalog changes.
type Booking struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	ClassID    string    `json:"class_id"`
	ClassName  string    `json:"class_name"`
	Instructor string    `json:"instructor"`
	Day        string    `json:"day"`
	Time       string    `json:"time"`
	Duration   int       `json:"duration"` // minutes
	Type       string    `json:"type"`
	BookedAt   time.Time `json:"booked_at"`
}
