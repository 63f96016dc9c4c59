package timeline_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"concierge/internal/domains/reservation/model"
	"concierge/internal/domains/timeline"
)

func day(d int) time.Time {
	return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC)
}

func at(d, h, m int) time.Time {
	return time.Date(2025, 6, d, h, m, 0, 0, time.UTC)
}

func TestDayWindow_Project(t *testing.T) {
	window := timeline.DayWindow(day(1), 14)

	tests := []struct {
		name        string
		reservation model.Reservation
		wantDrop    bool
		wantLeft    float64
		wantWidth   float64
		wantClipped bool
	}{
		{
			name:        "stay fully inside the window",
			reservation: model.Reservation{ID: "a", Start: day(3), End: day(6)},
			wantLeft:    (2 + 0.5) / 14 * 100,
			wantWidth:   3.0 / 14 * 100,
		},
		{
			name:        "check-in before the window clips left",
			reservation: model.Reservation{ID: "b", Start: day(1).AddDate(0, 0, -3), End: day(4)},
			wantLeft:    0,
			wantWidth:   (3 + 0.5) / 14 * 100,
			wantClipped: true,
		},
		{
			name:        "check-out after the window clips right",
			reservation: model.Reservation{ID: "c", Start: day(12), End: day(20)},
			wantLeft:    (11 + 0.5) / 14 * 100,
			wantWidth:   (14 - 11.5) / 14 * 100,
			wantClipped: true,
		},
		{
			name:        "stay spanning the whole window fills it",
			reservation: model.Reservation{ID: "d", Start: day(1).AddDate(0, 0, -2), End: day(1).AddDate(0, 0, 20)},
			wantLeft:    0,
			wantWidth:   100,
			wantClipped: true,
		},
		{
			name:        "stay entirely before the window is dropped",
			reservation: model.Reservation{ID: "e", Start: day(1).AddDate(0, 0, -10), End: day(1).AddDate(0, 0, -5)},
			wantDrop:    true,
		},
		{
			name:        "stay entirely after the window is dropped",
			reservation: model.Reservation{ID: "f", Start: day(1).AddDate(0, 0, 20), End: day(1).AddDate(0, 0, 25)},
			wantDrop:    true,
		},
		{
			name:        "checkout on the first window day renders a stub",
			reservation: model.Reservation{ID: "g", Start: day(1).AddDate(0, 0, -2), End: day(1)},
			wantLeft:    0,
			wantWidth:   0.5 / 14 * 100,
			wantClipped: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots := window.Project([]model.Reservation{tt.reservation})

			if tt.wantDrop {
				assert.Empty(t, slots)

				return
			}

			require.Len(t, slots, 1)
			assert.Equal(t, tt.reservation.ID, slots[0].ReservationID)
			assert.InDelta(t, tt.wantLeft, slots[0].LeftPercent, 0.0001)
			assert.InDelta(t, tt.wantWidth, slots[0].WidthPercent, 0.0001)
			assert.Equal(t, tt.wantClipped, slots[0].Clipped)
		})
	}
}

func TestHourWindow_Project(t *testing.T) {
	// 13 hourly cells from 07:00, so the window ends at 20:00.
	window := timeline.HourWindow(day(1), 7, 13)

	tests := []struct {
		name        string
		reservation model.Reservation
		wantDrop    bool
		wantLeft    float64
		wantWidth   float64
		wantClipped bool
	}{
		{
			name:        "dinner booking inside the window",
			reservation: model.Reservation{ID: "a", Start: at(1, 19, 0), End: at(1, 20, 0)},
			wantLeft:    12.0 / 13 * 100,
			wantWidth:   1.0 / 13 * 100,
		},
		{
			name:        "half-hour start lands mid-cell",
			reservation: model.Reservation{ID: "b", Start: at(1, 12, 30), End: at(1, 14, 0)},
			wantLeft:    5.5 / 13 * 100,
			wantWidth:   1.5 / 13 * 100,
		},
		{
			name:        "booking starting before opening clips left",
			reservation: model.Reservation{ID: "c", Start: at(1, 6, 0), End: at(1, 9, 0)},
			wantLeft:    0,
			wantWidth:   2.0 / 13 * 100,
			wantClipped: true,
		},
		{
			name:        "booking past closing clips right",
			reservation: model.Reservation{ID: "d", Start: at(1, 19, 0), End: at(1, 22, 0)},
			wantLeft:    12.0 / 13 * 100,
			wantWidth:   1.0 / 13 * 100,
			wantClipped: true,
		},
		{
			name:        "booking covering the whole service fills the window",
			reservation: model.Reservation{ID: "e", Start: at(1, 6, 0), End: at(1, 21, 0)},
			wantLeft:    0,
			wantWidth:   100,
			wantClipped: true,
		},
		{
			name:        "booking before opening is dropped",
			reservation: model.Reservation{ID: "f", Start: at(1, 5, 0), End: at(1, 7, 0)},
			wantDrop:    true,
		},
		{
			name:        "booking after closing is dropped",
			reservation: model.Reservation{ID: "g", Start: at(1, 20, 0), End: at(1, 22, 0)},
			wantDrop:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots := window.Project([]model.Reservation{tt.reservation})

			if tt.wantDrop {
				assert.Empty(t, slots)

				return
			}

			require.Len(t, slots, 1)
			assert.InDelta(t, tt.wantLeft, slots[0].LeftPercent, 0.0001)
			assert.InDelta(t, tt.wantWidth, slots[0].WidthPercent, 0.0001)
			assert.Equal(t, tt.wantClipped, slots[0].Clipped)
		})
	}
}

func TestWindow_MinWidth(t *testing.T) {
	window := timeline.HourWindow(day(1), 7, 13)

	// A 5-minute booking is below the half-cell floor.
	slots := window.Project([]model.Reservation{
		{ID: "tiny", Start: at(1, 12, 0), End: at(1, 12, 5)},
	})

	require.Len(t, slots, 1)
	assert.InDelta(t, window.MinWidthPercent(), slots[0].WidthPercent, 0.0001)
	assert.InDelta(t, 0.5/13*100, window.MinWidthPercent(), 0.0001)
}

func TestWindow_Buckets(t *testing.T) {
	hourWindow := timeline.HourWindow(day(1), 7, 13)
	hourBuckets := hourWindow.Buckets()

	require.Len(t, hourBuckets, 13)
	assert.Equal(t, at(1, 7, 0), hourBuckets[0])
	assert.Equal(t, at(1, 19, 0), hourBuckets[12])

	dayWindow := timeline.DayWindow(day(1), 14)
	dayBuckets := dayWindow.Buckets()

	require.Len(t, dayBuckets, 14)
	assert.Equal(t, day(1), dayBuckets[0])
	assert.Equal(t, day(14), dayBuckets[13])
}
