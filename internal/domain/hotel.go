package domain

import "slices"

// Hotel is the canonical record every supplier maps into.
// Pointer fields are nil when the value is unknown; sequences are empty (never nil)
// when a supplier has nothing for them.
type Hotel struct {
	ID                string    `json:"id"`
	DestinationID     string    `json:"destination_id"`
	Name              *string   `json:"name"`
	Location          Location  `json:"location"`
	Description       *string   `json:"description"`
	Amenities         Amenities `json:"amenities"`
	Images            Images    `json:"images"`
	BookingConditions []string  `json:"booking_conditions"`
}

type Location struct {
	Lat     *float64 `json:"lat"`
	Lng     *float64 `json:"lng"`
	Address *string  `json:"address"`
	City    *string  `json:"city"`
	Country *string  `json:"country"`
}

type Amenities struct {
	General []string `json:"general"`
	Room    []string `json:"room"`
}

type Image struct {
	Link        string `json:"link"`
	Description string `json:"description"`
}

type Images struct {
	Rooms     []Image `json:"rooms"`
	Site      []Image `json:"site"`
	Amenities []Image `json:"amenities"`
}

// Key is the business identity shared by every supplier's copy of a hotel.
type Key struct {
	ID            string
	DestinationID string
}

func (h Hotel) Key() Key { return Key{ID: h.ID, DestinationID: h.DestinationID} }

// SourcedHotel tags a normalized hotel with the supplier that produced it.
// It only lives between normalization and merge.
type SourcedHotel struct {
	Hotel
	Supplier string
	Priority int
}

// NewHotel returns a hotel with the given identity and every sequence set to empty.
func NewHotel(id, destinationID string) Hotel {
	return Hotel{
		ID:                id,
		DestinationID:     destinationID,
		Amenities:         Amenities{General: []string{}, Room: []string{}},
		Images:            Images{Rooms: []Image{}, Site: []Image{}, Amenities: []Image{}},
		BookingConditions: []string{},
	}
}

// Clone returns a deep copy of h; nil and empty sequences keep their form.
func (h Hotel) Clone() Hotel {
	c := h
	c.Name = clonePtr(h.Name)
	c.Description = clonePtr(h.Description)
	c.Location = Location{
		Lat:     clonePtr(h.Location.Lat),
		Lng:     clonePtr(h.Location.Lng),
		Address: clonePtr(h.Location.Address),
		City:    clonePtr(h.Location.City),
		Country: clonePtr(h.Location.Country),
	}
	c.Amenities = Amenities{General: slices.Clone(h.Amenities.General), Room: slices.Clone(h.Amenities.Room)}
	c.Images = Images{
		Rooms:     slices.Clone(h.Images.Rooms),
		Site:      slices.Clone(h.Images.Site),
		Amenities: slices.Clone(h.Images.Amenities),
	}
	c.BookingConditions = slices.Clone(h.BookingConditions)
	return c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
