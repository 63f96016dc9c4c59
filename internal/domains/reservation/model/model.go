package model

import "time"

const (
	EntityName = "reservation"

	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Reservation is a read-only projection of a record held by the external
// reservation service. Start and End are naive local wall-clock instants; the
// wallclock codec owns the wire conversion.
type Reservation struct {
	ID         string
	ResourceID string
	Kind       string
	GuestName  string
	GuestEmail string
	GuestPhone string
	PartySize  int
	Start      time.Time
	End        time.Time
	Status     string
	TotalPrice float64
	CreatedAt  string
	UpdatedAt  string
}

// ValidStatus reports whether s is one of the three reservation states.
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusConfirmed || s == StatusCancelled
}

// Occupies reports whether the reservation blocks the given time range.
// Cancelled reservations never occupy anything; ranges are half-open, so a
// booking ending exactly when another starts does not collide.
func (r Reservation) Occupies(start, end time.Time) bool {
	if r.Status == StatusCancelled {
		return false
	}

	return r.Start.Before(end) && start.Before(r.End)
}
