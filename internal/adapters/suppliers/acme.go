package suppliers

import "hotel_merge/internal/domain"

const (
	AcmeName       = "acme"
	AcmePriority   = 1
	DefaultAcmeURL = "https://5f2be0b4ffc88500167b85a0.mockapi.io/suppliers/acme"
)

func NewAcme(c *Client, endpoint string) *Source {
	if endpoint == "" {
		endpoint = DefaultAcmeURL
	}
	return &Source{name: AcmeName, priority: AcmePriority, endpoint: endpoint, client: c, normalize: normalizeAcme}
}

// Acme sends a flat record with PascalCase keys. Facilities are taken as
// property-wide amenities; it has no room amenities, images or booking conditions.
func normalizeAcme(raw map[string]any) domain.Hotel {
	h := domain.NewHotel(idStr(raw, "Id"), idStr(raw, "DestinationId"))
	h.Name = optStr(raw, "Name")
	h.Description = optStr(raw, "Description")
	h.Location = domain.Location{
		Lat:     optFloat(raw, "Latitude"),
		Lng:     optFloat(raw, "Longitude"),
		Address: optStr(raw, "Address"),
		City:    optStr(raw, "City"),
		Country: optStr(raw, "Country"),
	}
	h.Amenities.General = amenityList(raw, "Facilities")
	return h
}
