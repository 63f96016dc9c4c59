package dto

import (
	"time"

	"concierge/internal/domains/availability"
	"concierge/internal/domains/draft/model"
	"concierge/shared/wallclock"
)

type OpenSessionResponse struct {
	SessionID string `json:"session_id"`
}

type OpenCreateRequest struct {
	Kind      string `json:"kind"       validate:"required,oneof=table room"`
	Start     string `json:"start"      validate:"omitempty"`
	End       string `json:"end"        validate:"omitempty"`
	PartySize int    `json:"party_size" validate:"omitempty,positive"`
}

type OpenEditRequest struct {
	ReservationID string `json:"reservation_id" validate:"required"`
}

// UpdateDraftRequest carries one or more field changes. Absent fields are left
// untouched; each present field goes through its own setter.
type UpdateDraftRequest struct {
	PartySize  *int    `json:"party_size"  validate:"omitempty,positive"`
	Start      *string `json:"start"       validate:"omitempty"`
	End        *string `json:"end"         validate:"omitempty"`
	ResourceID *string `json:"resource_id" validate:"omitempty"`
	GuestName  *string `json:"guest_name"  validate:"omitempty,max=100"`
	GuestEmail *string `json:"guest_email" validate:"omitempty,email,max=100"`
	GuestPhone *string `json:"guest_phone" validate:"omitempty,max=20"`
	Status     *string `json:"status"      validate:"omitempty,oneof=pending confirmed cancelled"`
}

type EntryResponse struct {
	ID           string  `json:"id"`
	Label        string  `json:"label"`
	Location     string  `json:"location"`
	Capacity     int     `json:"capacity"`
	PricePerUnit float64 `json:"price_per_unit"`
	Tag          string  `json:"tag"`
}

type AvailableSetResponse struct {
	Entries  []EntryResponse `json:"entries"`
	Fallback bool            `json:"fallback"`
}

func (r *AvailableSetResponse) FromModel(set availability.Set) {
	r.Fallback = set.Fallback
	r.Entries = make([]EntryResponse, len(set.Entries))
	for i, entry := range set.Entries {
		r.Entries[i] = EntryResponse{
			ID:           entry.ID,
			Label:        entry.Label,
			Location:     entry.Location,
			Capacity:     entry.Capacity,
			PricePerUnit: entry.PricePerUnit,
			Tag:          entry.Tag,
		}
	}
}

type ContactResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type DraftResponse struct {
	State              string               `json:"state"`
	Mode               string               `json:"mode,omitempty"`
	Kind               string               `json:"kind,omitempty"`
	ReservationID      string               `json:"reservation_id,omitempty"`
	ResourceID         string               `json:"resource_id,omitempty"`
	OriginalResourceID string               `json:"original_resource_id,omitempty"`
	PartySize          int                  `json:"party_size,omitempty"`
	Start              string               `json:"start,omitempty"`
	End                string               `json:"end,omitempty"`
	Contact            ContactResponse      `json:"contact"`
	Status             string               `json:"status,omitempty"`
	TotalPrice         float64              `json:"total_price"`
	Nights             int                  `json:"nights,omitempty"`
	Available          AvailableSetResponse `json:"available"`
	Locked             bool                 `json:"locked"`
	LastError          string               `json:"last_error,omitempty"`
}

func (r *DraftResponse) FromModel(draft model.Draft, nights int, codec wallclock.Codec) {
	r.State = draft.State
	r.Mode = draft.Mode
	r.Kind = draft.Kind
	r.ReservationID = draft.ReservationID
	r.ResourceID = draft.ResourceID
	r.OriginalResourceID = draft.OriginalResourceID
	r.PartySize = draft.PartySize
	r.Start = formatTime(draft.Start, codec)
	r.End = formatTime(draft.End, codec)
	r.Contact = ContactResponse{
		Name:  draft.Contact.Name,
		Email: draft.Contact.Email,
		Phone: draft.Contact.Phone,
	}
	r.Status = draft.Status
	r.TotalPrice = draft.TotalPrice()
	r.Nights = nights
	r.Locked = draft.Locked
	r.LastError = draft.LastError
	r.Available.FromModel(draft.Available)
}

func formatTime(t time.Time, codec wallclock.Codec) string {
	if t.IsZero() {
		return ""
	}

	return codec.ToWire(t)
}
