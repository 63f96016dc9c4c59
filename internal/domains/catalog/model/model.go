package model

const (
	EntityName = "resource"

	KindTable = "table"
	KindRoom  = "room"
)

// Amenities are the static comfort flags the reservation service reports for
// hotel rooms; tables carry all-false amenities.
type Amenities struct {
	Wifi            bool `json:"wifi"`
	AirConditioning bool `json:"air_conditioning"`
	TV              bool `json:"tv"`
	Minibar         bool `json:"minibar"`
	Balcony         bool `json:"balcony"`
}

// Resource is a bookable unit: a restaurant table or a hotel room.
// PricePerUnit is per night for rooms and unused for tables.
type Resource struct {
	ID           string    `json:"id"`
	Kind         string    `json:"kind"`
	Label        string    `json:"label"`
	Location     string    `json:"location"`
	Capacity     int       `json:"capacity"`
	PricePerUnit float64   `json:"price_per_unit"`
	Amenities    Amenities `json:"amenities"`
	Active       bool      `json:"active"`
}

// Fits reports whether the resource can seat the given party at all,
// regardless of any reservation overlap.
func (r Resource) Fits(partySize int) bool {
	return r.Active && r.Capacity >= partySize
}
