// Package model holds the booking draft state machine. A draft is the staging
// record of a reservation being composed or edited; it never touches the
// network itself, the service layer does.
package model

import (
	"time"

	"concierge/internal/domains/availability"
	catalogModel "concierge/internal/domains/catalog/model"
	"concierge/internal/domains/pricing"
	reservationModel "concierge/internal/domains/reservation/model"
	"concierge/shared/failure"
	"concierge/shared/wallclock"
)

const (
	EntityName = "draft"

	ModeCreate = "create"
	ModeEdit   = "edit"

	StateIdle       = "idle"
	StateEditing    = "editing"
	StateSubmitting = "submitting"
)

// Contact is the guest identity attached to a draft.
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (c Contact) complete() bool {
	return c.Name != "" && c.Email != "" && c.Phone != ""
}

// Draft is one in-progress booking. All mutation goes through the setters
// below; every setter refuses to run outside the editing state, and most
// refuse to run while the read-only lock is held.
type Draft struct {
	Kind               string
	Mode               string
	State              string
	ReservationID      string
	ResourceID         string
	OriginalResourceID string
	PartySize          int
	Start              time.Time
	End                time.Time
	Contact            Contact
	Status             string
	Available          availability.Set

	// Locked is the read-only lock raised when an availability refresh
	// fails. It rejects mutation and submission until a refresh succeeds
	// or the draft is reset. The time range and party size stay editable
	// while locked; those edits drive the refresh that can clear it.
	Locked    bool
	LastError string
}

// OpenCreate starts a fresh draft in create mode.
func OpenCreate(kind string, start, end time.Time, partySize int) Draft {
	return Draft{
		Kind:      kind,
		Mode:      ModeCreate,
		State:     StateEditing,
		PartySize: partySize,
		Start:     start,
		End:       end,
		Status:    reservationModel.StatusPending,
	}
}

// OpenEdit starts a draft seeded from an existing reservation. The original
// resource id is captured once and survives every later mutation, so the
// availability layer can keep that resource selectable.
func OpenEdit(r reservationModel.Reservation) Draft {
	return Draft{
		Kind:               r.Kind,
		Mode:               ModeEdit,
		State:              StateEditing,
		ReservationID:      r.ID,
		ResourceID:         r.ResourceID,
		OriginalResourceID: r.ResourceID,
		PartySize:          r.PartySize,
		Start:              r.Start,
		End:                r.End,
		Contact: Contact{
			Name:  r.GuestName,
			Email: r.GuestEmail,
			Phone: r.GuestPhone,
		},
		Status: r.Status,
	}
}

func (d *Draft) guard() error {
	if err := d.guardActive(); err != nil {
		return err
	}

	if d.Locked {
		return failure.DraftLocked
	}

	return nil
}

func (d *Draft) guardActive() error {
	if d.State != StateEditing {
		return failure.NoActiveDraft
	}

	return nil
}

// SetPartySize is exempt from the read-only lock: changing it re-triggers the
// availability refresh whose success clears the lock.
func (d *Draft) SetPartySize(n int) error {
	if err := d.guardActive(); err != nil {
		return err
	}

	if n <= 0 {
		return failure.BadRequestFromString("party size must be positive")
	}

	d.PartySize = n

	return nil
}

// SetTimeRange is exempt from the read-only lock, like SetPartySize.
func (d *Draft) SetTimeRange(start, end time.Time) error {
	if err := d.guardActive(); err != nil {
		return err
	}

	if !start.Before(end) {
		return failure.BadRequestFromString("start time must be before end time")
	}

	d.Start = start
	d.End = end

	return nil
}

// SetResource selects a resource. Once an availability set has been applied
// the selection must come from it; before the first refresh any id is taken.
func (d *Draft) SetResource(id string) error {
	if err := d.guard(); err != nil {
		return err
	}

	if len(d.Available.Entries) > 0 && !d.Available.Contains(id) {
		return failure.BadRequestFromString("resource is not available for the selected time range")
	}

	d.ResourceID = id

	return nil
}

func (d *Draft) SetContactName(v string) error {
	if err := d.guard(); err != nil {
		return err
	}

	d.Contact.Name = v

	return nil
}

func (d *Draft) SetContactEmail(v string) error {
	if err := d.guard(); err != nil {
		return err
	}

	d.Contact.Email = v

	return nil
}

func (d *Draft) SetContactPhone(v string) error {
	if err := d.guard(); err != nil {
		return err
	}

	d.Contact.Phone = v

	return nil
}

func (d *Draft) SetStatus(s string) error {
	if err := d.guard(); err != nil {
		return err
	}

	if !reservationModel.ValidStatus(s) {
		return failure.BadRequestFromString("unknown reservation status")
	}

	d.Status = s

	return nil
}

// ApplyAvailability installs a refresh outcome. A failed refresh raises the
// read-only lock; a successful one clears it. When the current selection is
// missing from the fresh set it is cleared, except for the edit-mode original
// which Merge and Fallback always keep in the set.
func (d *Draft) ApplyAvailability(set availability.Set, refreshErr error) {
	d.Available = set

	if refreshErr != nil {
		d.Locked = true
		d.LastError = refreshErr.Error()
	} else {
		d.Locked = false
		d.LastError = ""
	}

	if d.ResourceID != "" && !set.Contains(d.ResourceID) {
		d.ResourceID = ""
	}
}

// BeginSubmit validates the draft and moves it to the submitting state.
// Validation failures never leave the process.
func (d *Draft) BeginSubmit() error {
	if err := d.guard(); err != nil {
		return err
	}

	if !d.Contact.complete() {
		return failure.BadRequestFromString("guest name, email, and phone are required")
	}

	if d.ResourceID == "" {
		return failure.BadRequestFromString("a resource must be selected")
	}

	if d.PartySize <= 0 {
		return failure.BadRequestFromString("party size must be positive")
	}

	if !d.Start.Before(d.End) {
		return failure.BadRequestFromString("start time must be before end time")
	}

	if d.Kind == catalogModel.KindTable {
		if !wallclock.SameDay(d.Start, d.End) {
			return failure.BadRequestFromString("table bookings must start and end on the same day")
		}

		if entry, ok := d.Available.Find(d.ResourceID); ok && d.PartySize > entry.Capacity {
			return failure.BadRequestFromString("party size exceeds the table capacity")
		}
	}

	d.State = StateSubmitting

	return nil
}

// FinishSubmit resolves a submission. Success clears the draft back to idle;
// failure returns it to editing with every field intact.
func (d *Draft) FinishSubmit(success bool) {
	if success {
		*d = Draft{State: StateIdle}

		return
	}

	d.State = StateEditing
}

// Reset abandons the draft, clearing the read-only lock with it.
func (d *Draft) Reset() {
	*d = Draft{State: StateIdle}
}

// TotalPrice derives the room total from the selected resource's nightly
// rate. Tables have no derived total.
func (d *Draft) TotalPrice() float64 {
	if d.Kind != catalogModel.KindRoom || d.ResourceID == "" {
		return 0
	}

	entry, ok := d.Available.Find(d.ResourceID)
	if !ok {
		return 0
	}

	return pricing.StayTotal(d.Start, d.End, entry.PricePerUnit)
}

// ToReservation materializes the draft for persistence.
func (d *Draft) ToReservation() reservationModel.Reservation {
	return reservationModel.Reservation{
		ID:         d.ReservationID,
		ResourceID: d.ResourceID,
		Kind:       d.Kind,
		GuestName:  d.Contact.Name,
		GuestEmail: d.Contact.Email,
		GuestPhone: d.Contact.Phone,
		PartySize:  d.PartySize,
		Start:      d.Start,
		End:        d.End,
		Status:     d.Status,
		TotalPrice: d.TotalPrice(),
	}
}
