// Package wallclock converts between the engine's local reservation times and
// the wire representation used by the reservation service.
//
// The wire format is RFC3339 in UTC, but the conversion is deliberately naive:
// the wall-clock fields (year/month/day/hour/minute/second) cross the wire
// unchanged, with no zone shift in either direction. The reservation service
// stores and compares the same naive values, so a zone-aware conversion here
// would shift every displayed time by the local UTC offset.
package wallclock

import (
	"fmt"
	"strings"
	"time"
)

const (
	wireFormat = time.RFC3339
	dayFormat  = "2006-01-02"
)

// Codec carries the location all local instants are expressed in. The location
// is injected at construction; nothing in this package reads ambient state.
type Codec struct {
	loc *time.Location
}

func NewCodec(loc *time.Location) Codec {
	if loc == nil {
		loc = time.UTC
	}

	return Codec{loc: loc}
}

// Load resolves an IANA zone name into a Codec, falling back to UTC on an
// empty name.
func Load(name string) (Codec, error) {
	if name == "" {
		return NewCodec(time.UTC), nil
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return Codec{}, fmt.Errorf("loading timezone %q: %w", name, err)
	}

	return NewCodec(loc), nil
}

func (c Codec) Location() *time.Location {
	return c.loc
}

// ToWire reinterprets the wall-clock fields of t as UTC and formats the result.
// It never applies a zone conversion.
func (c Codec) ToWire(t time.Time) string {
	year, month, day := t.Date()
	hour, minute, second := t.Clock()

	return time.Date(year, month, day, hour, minute, second, t.Nanosecond(), time.UTC).Format(wireFormat)
}

// FromWire is the exact inverse of ToWire: the UTC fields of the wire string
// become a local instant with identical fields.
func (c Codec) FromWire(value string) (time.Time, error) {
	parsed, err := time.Parse(wireFormat, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing wire timestamp %q: %w", value, err)
	}

	utc := parsed.UTC()

	return time.Date(utc.Year(), utc.Month(), utc.Day(), utc.Hour(), utc.Minute(), utc.Second(), utc.Nanosecond(), c.loc), nil
}

// ToWireDay collapses a local instant to the date-only wire form.
func (c Codec) ToWireDay(t time.Time) string {
	return t.Format(dayFormat)
}

// ParseDay reads a date-only value ("2006-01-02", or any wire timestamp whose
// date part is wanted) into local midnight of that calendar day.
func (c Codec) ParseDay(value string) (time.Time, error) {
	if idx := strings.IndexByte(value, 'T'); idx >= 0 {
		value = value[:idx]
	}

	parsed, err := time.ParseInLocation(dayFormat, value, c.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing wire day %q: %w", value, err)
	}

	return parsed, nil
}

// Day strips the time of day, leaving local midnight.
func (c Codec) Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, c.loc)
}

// At places a clock time on the given calendar day.
func (c Codec) At(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, c.loc)
}

// DayKey returns a comparable identifier for the calendar day of t. Two
// instants share a key iff they fall on the same local year/month/day.
func DayKey(t time.Time) string {
	return t.Format(dayFormat)
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
