// Package timeline projects reservations onto a fixed-bucket grid as
// percentage-based slots. The grid has two granularities: an hour grid for a
// single restaurant day and a day grid for a rolling hotel window.
package timeline

import (
	"time"

	"concierge/internal/domains/reservation/model"
	"concierge/shared/wallclock"
)

const (
	GranularityHour = "hour"
	GranularityDay  = "day"

	// dayInset keeps day-grid endpoints off the cell borders: a stay starting
	// and ending inside the window renders from mid-cell to mid-cell.
	dayInset = 0.5

	// minWidthFactor is half a bucket. Zero-width slots are unclickable, so
	// every projected slot gets at least this share of the grid.
	minWidthFactor = 0.5
)

// Window is a fixed run of equal buckets starting at a local instant.
type Window struct {
	granularity string
	start       time.Time
	buckets     int
	bucketSize  time.Duration
}

// HourWindow covers a single day from openHour with one bucket per hour.
func HourWindow(day time.Time, openHour, buckets int) Window {
	return Window{
		granularity: GranularityHour,
		start:       time.Date(day.Year(), day.Month(), day.Day(), openHour, 0, 0, 0, day.Location()),
		buckets:     buckets,
		bucketSize:  time.Hour,
	}
}

// DayWindow covers a rolling run of calendar days from local midnight of start.
func DayWindow(start time.Time, days int) Window {
	return Window{
		granularity: GranularityDay,
		start:       time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location()),
		buckets:     days,
		bucketSize:  24 * time.Hour,
	}
}

func (w Window) Granularity() string { return w.granularity }
func (w Window) Start() time.Time    { return w.start }
func (w Window) Size() int           { return w.buckets }

// Buckets returns the start instant of every cell, in order.
func (w Window) Buckets() []time.Time {
	out := make([]time.Time, w.buckets)
	for i := range out {
		out[i] = w.bucketStart(i)
	}

	return out
}

func (w Window) bucketStart(i int) time.Time {
	if w.granularity == GranularityDay {
		return w.start.AddDate(0, 0, i)
	}

	return w.start.Add(time.Duration(i) * w.bucketSize)
}

// end is the exclusive right edge of the window.
func (w Window) end() time.Time {
	return w.bucketStart(w.buckets)
}

// Slot is a reservation positioned on the grid. LeftPercent and WidthPercent
// are relative to the full window width; a reservation spanning the whole
// window renders as left 0, width 100.
type Slot struct {
	ReservationID string  `json:"reservation_id"`
	ResourceID    string  `json:"resource_id"`
	Status        string  `json:"status"`
	GuestName     string  `json:"guest_name"`
	LeftPercent   float64 `json:"left_percent"`
	WidthPercent  float64 `json:"width_percent"`
	Clipped       bool    `json:"clipped"`
}

// MinWidthPercent is the floor applied to every slot's width.
func (w Window) MinWidthPercent() float64 {
	return minWidthFactor / float64(w.buckets) * percent
}

const percent = 100

// Project lays the given reservations onto the window. Reservations entirely
// outside the window are dropped; ones crossing an edge are clipped flush to
// that edge (position 0 on the left, position N on the right), so a stay
// covering the whole window fills it exactly.
func (w Window) Project(reservations []model.Reservation) []Slot {
	slots := make([]Slot, 0, len(reservations))
	for _, r := range reservations {
		slot, ok := w.project(r)
		if !ok {
			continue
		}

		slots = append(slots, slot)
	}

	return slots
}

func (w Window) project(r model.Reservation) (Slot, bool) {
	var startPos, endPos float64
	var clipped, ok bool

	if w.granularity == GranularityDay {
		startPos, endPos, clipped, ok = w.dayPositions(r)
	} else {
		startPos, endPos, clipped, ok = w.hourPositions(r)
	}

	if !ok {
		return Slot{}, false
	}

	n := float64(w.buckets)

	width := (endPos - startPos) / n * percent
	if min := w.MinWidthPercent(); width < min {
		width = min
	}

	return Slot{
		ReservationID: r.ID,
		ResourceID:    r.ResourceID,
		Status:        r.Status,
		GuestName:     r.GuestName,
		LeftPercent:   startPos / n * percent,
		WidthPercent:  width,
		Clipped:       clipped,
	}, true
}

// dayPositions resolves a stay to day-grid cell positions. Check-in and
// check-out days inside the window sit mid-cell; days outside it clip to the
// window edges. A stay is kept only when at least one endpoint lands on a cell
// or the stay straddles the whole window.
func (w Window) dayPositions(r model.Reservation) (startPos, endPos float64, clipped, ok bool) {
	startIdx := w.dayIndex(r.Start)
	endIdx := w.dayIndex(r.End)

	if startIdx < 0 && endIdx < 0 {
		spans := r.Start.Before(w.start) && r.End.After(w.end())
		if !spans {
			return 0, 0, false, false
		}

		return 0, float64(w.buckets), true, true
	}

	startPos = 0
	if startIdx >= 0 {
		startPos = float64(startIdx) + dayInset
	} else {
		clipped = true
	}

	endPos = float64(w.buckets)
	if endIdx >= 0 {
		endPos = float64(endIdx) + dayInset
	} else {
		clipped = true
	}

	return startPos, endPos, clipped, true
}

// dayIndex returns the cell whose calendar day matches t, or -1.
func (w Window) dayIndex(t time.Time) int {
	for i := 0; i < w.buckets; i++ {
		if wallclock.SameDay(w.bucketStart(i), t) {
			return i
		}
	}

	return -1
}

// hourPositions resolves a booking to fractional hour-grid positions, clamping
// either end to the window edge when it falls outside.
func (w Window) hourPositions(r model.Reservation) (startPos, endPos float64, clipped, ok bool) {
	if !r.End.After(w.start) || !r.Start.Before(w.end()) {
		return 0, 0, false, false
	}

	n := float64(w.buckets)

	startPos = r.Start.Sub(w.start).Hours()
	if startPos < 0 {
		startPos = 0
		clipped = true
	}

	endPos = r.End.Sub(w.start).Hours()
	if endPos > n {
		endPos = n
		clipped = true
	}

	return startPos, endPos, clipped, true
}
