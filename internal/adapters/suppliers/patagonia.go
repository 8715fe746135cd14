package suppliers

import "hotel_merge/internal/domain"

const (
	PatagoniaName       = "patagonia"
	PatagoniaPriority   = 2
	DefaultPatagoniaURL = "https://5f2be0b4ffc88500167b85a0.mockapi.io/suppliers/patagonia"
)

func NewPatagonia(c *Client, endpoint string) *Source {
	if endpoint == "" {
		endpoint = DefaultPatagoniaURL
	}
	return &Source{name: PatagoniaName, priority: PatagoniaPriority, endpoint: endpoint, client: c, normalize: normalizePatagonia}
}

// Patagonia lists room amenities only and has the richest amenity images.
func normalizePatagonia(raw map[string]any) domain.Hotel {
	h := domain.NewHotel(idStr(raw, "id"), idStr(raw, "destination"))
	h.Name = optStr(raw, "name")
	h.Description = optStr(raw, "info")
	h.Location = domain.Location{
		Lat:     optFloat(raw, "lat"),
		Lng:     optFloat(raw, "lng"),
		Address: optStr(raw, "address"),
	}
	h.Amenities.Room = amenityList(raw, "amenities")
	h.Images.Rooms = imageList(raw, "images.rooms", "url", "description")
	h.Images.Amenities = imageList(raw, "images.amenities", "url", "description")
	return h
}
