package model

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Booking is the durable record written under the slot lock. Identity is
// the (Date, Time) pair: at most one non-cancelled booking may exist per
// pair, which is the invariant the reservation protocol protects.
type Booking struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	BookedAt string `json:"bookedAt"`
	Status   string `json:"status" validate:"required,oneof=pending confirmed cancelled"`
}

// BookingRequest is the client payload for the booking endpoint.
type BookingRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=100"`
	Email string `json:"email" validate:"required,email"`
	Date  string `json:"date" validate:"required"`
	Time  string `json:"time" validate:"required"`
}

// DayAvailability is the slots-query response: the day's free slots after
// subtracting the occupancy index, as a point-in-time snapshot.
type DayAvailability struct {
	Date       string   `json:"date"`
	Slots      []string `json:"slots"`
	IsWeekend  bool     `json:"isWeekend"`
	IsBookable bool     `json:"isBookable"`
	// Error keeps failed responses in the same shape clients already parse.
	Error string `json:"error,omitempty"`
}
