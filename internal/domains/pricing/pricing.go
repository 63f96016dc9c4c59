// Package pricing derives stay durations and totals for the booking draft.
package pricing

import (
	"math"
	"time"
)

const hoursPerNight = 24

// Nights returns the billable night count between check-in and check-out.
// The count is a ceiling, never a rounding: any partial day counts as a full
// night, so every valid (start < end) range bills at least one.
func Nights(checkIn, checkOut time.Time) int {
	diff := checkOut.Sub(checkIn)
	if diff < 0 {
		diff = -diff
	}

	return int(math.Ceil(diff.Hours() / hoursPerNight))
}

// StayTotal multiplies the night count by the nightly rate.
func StayTotal(checkIn, checkOut time.Time, pricePerNight float64) float64 {
	return float64(Nights(checkIn, checkOut)) * pricePerNight
}

// Hours returns the occupancy duration of a same-day booking. Table bookings
// are billed by occupancy only; there is no derived total.
func Hours(start, end time.Time) float64 {
	return end.Sub(start).Hours()
}
