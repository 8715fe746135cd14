package suppliers

import "hotel_merge/internal/domain"

const (
	PaperFliesName       = "paperflies"
	PaperFliesPriority   = 3
	DefaultPaperFliesURL = "https://5f2be0b4ffc88500167b85a0.mockapi.io/suppliers/paperflies"
)

func NewPaperFlies(c *Client, endpoint string) *Source {
	if endpoint == "" {
		endpoint = DefaultPaperFliesURL
	}
	return &Source{name: PaperFliesName, priority: PaperFliesPriority, endpoint: endpoint, client: c, normalize: normalizePaperFlies}
}

// PaperFlies nests location, amenities and images. Images carry a caption,
// booking conditions are full sentences of which only the first is kept.
func normalizePaperFlies(raw map[string]any) domain.Hotel {
	h := domain.NewHotel(idStr(raw, "hotel_id"), idStr(raw, "destination_id"))
	h.Name = optStr(raw, "hotel_name")
	h.Description = optStr(raw, "details")
	h.Location = domain.Location{
		Address: optStr(raw, "location.address"),
		Country: optStr(raw, "location.country"),
	}
	h.Amenities = domain.Amenities{
		General: amenityList(raw, "amenities.general"),
		Room:    amenityList(raw, "amenities.room"),
	}
	h.Images.Rooms = imageList(raw, "images.rooms", "link", "caption")
	h.Images.Site = imageList(raw, "images.site", "link", "caption")

	for _, c := range stringList(raw, "booking_conditions") {
		if s := firstSentence(c); s != "" {
			h.BookingConditions = append(h.BookingConditions, s)
		}
	}
	return h
}
