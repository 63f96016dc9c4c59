package dto

import (
	"concierge/internal/domains/reservation/model"
	"concierge/internal/domains/timeline"
	"concierge/shared/wallclock"
)

type CreateReservationRequest struct {
	ResourceID string  `json:"resource_id" validate:"required"`
	Kind       string  `json:"kind"        validate:"required,oneof=table room"`
	GuestName  string  `json:"guest_name"  validate:"required,max=100"`
	GuestEmail string  `json:"guest_email" validate:"required,email,max=100"`
	GuestPhone string  `json:"guest_phone" validate:"required,max=20"`
	PartySize  int     `json:"party_size"  validate:"required,positive"`
	Start      string  `json:"start_time"  validate:"required"`
	End        string  `json:"end_time"    validate:"required"`
	Status     string  `json:"status"      validate:"omitempty,oneof=pending confirmed cancelled"`
	TotalPrice float64 `json:"total_price" validate:"omitempty,gte=0"`
}

func (c *CreateReservationRequest) ToModel(codec wallclock.Codec) (model.Reservation, error) {
	start, err := codec.FromWire(c.Start)
	if err != nil {
		return model.Reservation{}, err
	}

	end, err := codec.FromWire(c.End)
	if err != nil {
		return model.Reservation{}, err
	}

	status := model.StatusPending
	if c.Status != "" {
		status = c.Status
	}

	return model.Reservation{
		ResourceID: c.ResourceID,
		Kind:       c.Kind,
		GuestName:  c.GuestName,
		GuestEmail: c.GuestEmail,
		GuestPhone: c.GuestPhone,
		PartySize:  c.PartySize,
		Start:      start,
		End:        end,
		Status:     status,
		TotalPrice: c.TotalPrice,
	}, nil
}

type UpdateReservationRequest struct {
	ResourceID string  `json:"resource_id" validate:"omitempty"`
	GuestName  string  `json:"guest_name"  validate:"omitempty,max=100"`
	GuestEmail string  `json:"guest_email" validate:"omitempty,email,max=100"`
	GuestPhone string  `json:"guest_phone" validate:"omitempty,max=20"`
	PartySize  int     `json:"party_size"  validate:"omitempty,positive"`
	Start      string  `json:"start_time"  validate:"omitempty"`
	End        string  `json:"end_time"    validate:"omitempty"`
	Status     string  `json:"status"      validate:"omitempty,oneof=pending confirmed cancelled"`
	TotalPrice float64 `json:"total_price" validate:"omitempty,gte=0"`
}

// Apply folds the present fields of the request into an existing reservation.
func (u *UpdateReservationRequest) Apply(existing model.Reservation, codec wallclock.Codec) (model.Reservation, error) {
	if u.ResourceID != "" {
		existing.ResourceID = u.ResourceID
	}

	if u.GuestName != "" {
		existing.GuestName = u.GuestName
	}

	if u.GuestEmail != "" {
		existing.GuestEmail = u.GuestEmail
	}

	if u.GuestPhone != "" {
		existing.GuestPhone = u.GuestPhone
	}

	if u.PartySize != 0 {
		existing.PartySize = u.PartySize
	}

	if u.Start != "" {
		start, err := codec.FromWire(u.Start)
		if err != nil {
			return model.Reservation{}, err
		}

		existing.Start = start
	}

	if u.End != "" {
		end, err := codec.FromWire(u.End)
		if err != nil {
			return model.Reservation{}, err
		}

		existing.End = end
	}

	if u.Status != "" {
		existing.Status = u.Status
	}

	if u.TotalPrice != 0 {
		existing.TotalPrice = u.TotalPrice
	}

	return existing, nil
}

type ReservationResponse struct {
	ID         string  `json:"id"`
	ResourceID string  `json:"resource_id"`
	Kind       string  `json:"kind"`
	GuestName  string  `json:"guest_name"`
	GuestEmail string  `json:"guest_email"`
	GuestPhone string  `json:"guest_phone"`
	PartySize  int     `json:"party_size"`
	Start      string  `json:"start_time"`
	End        string  `json:"end_time"`
	Status     string  `json:"status"`
	TotalPrice float64 `json:"total_price"`
	CreatedAt  string  `json:"created_at,omitempty"`
	UpdatedAt  string  `json:"updated_at,omitempty"`
}

func (r *ReservationResponse) FromModel(mod model.Reservation, codec wallclock.Codec) {
	r.ID = mod.ID
	r.ResourceID = mod.ResourceID
	r.Kind = mod.Kind
	r.GuestName = mod.GuestName
	r.GuestEmail = mod.GuestEmail
	r.GuestPhone = mod.GuestPhone
	r.PartySize = mod.PartySize
	r.Start = codec.ToWire(mod.Start)
	r.End = codec.ToWire(mod.End)
	r.Status = mod.Status
	r.TotalPrice = mod.TotalPrice
	r.CreatedAt = mod.CreatedAt
	r.UpdatedAt = mod.UpdatedAt
}

type GetReservationsResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
	TotalData    int                   `json:"total_data"`
}

func (r *GetReservationsResponse) FromModels(models []model.Reservation, codec wallclock.Codec) {
	r.TotalData = len(models)
	r.Reservations = make([]ReservationResponse, len(models))
	for i, mod := range models {
		r.Reservations[i].FromModel(mod, codec)
	}
}

// TimelineResponse is the projected grid for one resource kind: bucket labels
// plus percentage-positioned slots grouped per resource.
type TimelineResponse struct {
	Granularity     string                     `json:"granularity"`
	Buckets         []string                   `json:"buckets"`
	MinWidthPercent float64                    `json:"min_width_percent"`
	Lanes           map[string][]timeline.Slot `json:"lanes"`
}

func (r *TimelineResponse) FromWindow(window timeline.Window, slots []timeline.Slot, codec wallclock.Codec) {
	r.Granularity = window.Granularity()
	r.MinWidthPercent = window.MinWidthPercent()

	buckets := window.Buckets()
	r.Buckets = make([]string, len(buckets))
	for i, bucket := range buckets {
		if window.Granularity() == timeline.GranularityDay {
			r.Buckets[i] = codec.ToWireDay(bucket)
		} else {
			r.Buckets[i] = bucket.Format("15:04")
		}
	}

	r.Lanes = make(map[string][]timeline.Slot)
	for _, slot := range slots {
		r.Lanes[slot.ResourceID] = append(r.Lanes[slot.ResourceID], slot)
	}
}
