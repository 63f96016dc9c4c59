package wallclock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"concierge/shared/wallclock"
)

func TestCodec_RoundTrip(t *testing.T) {
	jakarta, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	codecs := map[string]wallclock.Codec{
		"utc":     wallclock.NewCodec(time.UTC),
		"jakarta": wallclock.NewCodec(jakarta),
	}

	instants := []time.Time{
		time.Date(2025, 3, 15, 19, 30, 0, 0, time.UTC),
		time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC),
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	for name, codec := range codecs {
		t.Run(name, func(t *testing.T) {
			for _, instant := range instants {
				local := time.Date(instant.Year(), instant.Month(), instant.Day(),
					instant.Hour(), instant.Minute(), instant.Second(), 0, codec.Location())

				back, err := codec.FromWire(codec.ToWire(local))
				require.NoError(t, err)

				assert.Equal(t, local.Year(), back.Year())
				assert.Equal(t, local.Month(), back.Month())
				assert.Equal(t, local.Day(), back.Day())
				assert.Equal(t, local.Hour(), back.Hour())
				assert.Equal(t, local.Minute(), back.Minute())
				assert.Equal(t, local.Second(), back.Second())
			}
		})
	}
}

func TestCodec_ToWireKeepsWallClockFields(t *testing.T) {
	jakarta, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	codec := wallclock.NewCodec(jakarta)

	// 19:30 Jakarta must serialize as 19:30Z, not shifted to 12:30Z.
	local := time.Date(2025, 3, 15, 19, 30, 0, 0, jakarta)
	assert.Equal(t, "2025-03-15T19:30:00Z", codec.ToWire(local))
}

func TestCodec_FromWireKeepsWallClockFields(t *testing.T) {
	jakarta, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	codec := wallclock.NewCodec(jakarta)

	parsed, err := codec.FromWire("2025-03-15T19:30:00Z")
	require.NoError(t, err)

	assert.Equal(t, 19, parsed.Hour())
	assert.Equal(t, 30, parsed.Minute())
	assert.Equal(t, jakarta, parsed.Location())
}

func TestCodec_ParseDay(t *testing.T) {
	codec := wallclock.NewCodec(time.UTC)

	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "date only",
			input: "2025-06-01",
			want:  time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "full timestamp collapses to its day",
			input: "2025-06-01T15:04:05Z",
			want:  time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "garbage",
			input:   "not-a-date",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := codec.ParseDay(tt.input)

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want))
		})
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	b := time.Date(2025, 6, 1, 23, 59, 59, 0, time.UTC)
	c := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	assert.True(t, wallclock.SameDay(a, b))
	assert.False(t, wallclock.SameDay(b, c))
}

func TestLoad(t *testing.T) {
	codec, err := wallclock.Load("")
	assert.NoError(t, err)
	assert.Equal(t, time.UTC, codec.Location())

	_, err = wallclock.Load("Not/AZone")
	assert.Error(t, err)
}
