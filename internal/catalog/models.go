package catalog

import "time"

// Class represents one schedule slot in the class catalog. Enrolled is
// computed from confirmed bookings at read time; everything else is static
// reference data never mutated by the booking flow.
type Class struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Instructor  string    `json:"instructor"`
	Day         string    `json:"day"`
	Time        string    `json:"time"`
	Duration    int       `json:"duration"` // minutes
	Capacity    int       `json:"capacity"`
	Enrolled    int       `json:"enrolled"`
	Level       string    `json:"level"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Plan represents a purchasable membership plan.
type Plan struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	DurationMonths int       `json:"duration"` // months
	Price          float64   `json:"price"`
	PricePerMonth  float64   `json:"price_per_month"`
	Features       []string  `json:"features"`
	CreatedAt      time.Time `json:"created_at"`
}

// CreateClassInput holds the fields required to register a class offering.
type CreateClassInput struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Instructor  string `json:"instructor"`
	Day         string `json:"day"`
	Time        string `json:"time"`
	Duration    int    `json:"duration"`
	Capacity    int    `json:"capacity"`
	Level       string `json:"level"`
	Description string `json:"description"`
}

// CreatePlanInput holds the fields required to register a membership plan.
type CreatePlanInput struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	DurationMonths int      `json:"duration"`
	Price          float64  `json:"price"`
	PricePerMonth  float64  `json:"price_per_month"`
	Features       []string `json:"features"`
}

// ClassListParams controls listing, filtering and pagination of classes.
type ClassListParams struct {
	Cursor string `json:"cursor"`
	Limit  int    `json:"limit"`
	Day    string `json:"day"`
	Type   string `json:"type"`
	Query  string `json:"query"` // matches name or instructor
}
