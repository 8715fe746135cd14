package app

import (
	"cmp"
	"slices"

	"hotel_merge/internal/domain"
)

// Group buckets records by business identity (exact id + destination id).
// Groups come out in the order their key first appeared; members keep arrival order.
func Group(records []domain.SourcedHotel) [][]domain.SourcedHotel {
	index := make(map[domain.Key]int, len(records))
	var groups [][]domain.SourcedHotel
	for _, r := range records {
		k := r.Key()
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], r)
	}
	return groups
}

// Provenance maps a merged field to the supplier whose value was taken.
// Fields no member had a value for are missing.
type Provenance map[string]string

// Merge composes one hotel out of a group sharing the same identity.
// Members are ranked by priority (highest first, ties keep arrival order) and every
// field takes the value of the first member that has one. Sequences are taken
// whole from a single member, never combined.
func Merge(group []domain.SourcedHotel) (domain.Hotel, Provenance) {
	ordered := precedence(group)
	merged := domain.NewHotel("", "")
	prov := make(Provenance, len(mergeFields))
	for _, f := range mergeFields {
		for _, m := range ordered {
			if f.take(&merged, &m.Hotel) {
				prov[f.name] = m.Supplier
				break
			}
		}
	}
	return merged, prov
}

func precedence(group []domain.SourcedHotel) []domain.SourcedHotel {
	out := slices.Clone(group)
	slices.SortStableFunc(out, func(a, b domain.SourcedHotel) int {
		return cmp.Compare(b.Priority, a.Priority)
	})
	return out
}

// mergeField copies one field from src into dst when src has it; take reports
// whether it did.
type mergeField struct {
	name string
	take func(dst, src *domain.Hotel) bool
}

var mergeFields = []mergeField{
	{"id", str(func(h *domain.Hotel) *string { return &h.ID })},
	{"destination_id", str(func(h *domain.Hotel) *string { return &h.DestinationID })},
	{"name", opt(func(h *domain.Hotel) **string { return &h.Name })},
	{"location.lat", opt(func(h *domain.Hotel) **float64 { return &h.Location.Lat })},
	{"location.lng", opt(func(h *domain.Hotel) **float64 { return &h.Location.Lng })},
	{"location.address", opt(func(h *domain.Hotel) **string { return &h.Location.Address })},
	{"location.city", opt(func(h *domain.Hotel) **string { return &h.Location.City })},
	{"location.country", opt(func(h *domain.Hotel) **string { return &h.Location.Country })},
	{"description", opt(func(h *domain.Hotel) **string { return &h.Description })},
	{"amenities.general", seq(func(h *domain.Hotel) *[]string { return &h.Amenities.General })},
	{"amenities.room", seq(func(h *domain.Hotel) *[]string { return &h.Amenities.Room })},
	{"images.rooms", seq(func(h *domain.Hotel) *[]domain.Image { return &h.Images.Rooms })},
	{"images.site", seq(func(h *domain.Hotel) *[]domain.Image { return &h.Images.Site })},
	{"images.amenities", seq(func(h *domain.Hotel) *[]domain.Image { return &h.Images.Amenities })},
	{"booking_conditions", seq(func(h *domain.Hotel) *[]string { return &h.BookingConditions })},
}

// str: present = non-empty.
func str(field func(*domain.Hotel) *string) func(dst, src *domain.Hotel) bool {
	return func(dst, src *domain.Hotel) bool {
		v := *field(src)
		if v == "" {
			return false
		}
		*field(dst) = v
		return true
	}
}

// opt: present = non-nil. The value is copied so the result shares nothing with src.
func opt[T any](field func(*domain.Hotel) **T) func(dst, src *domain.Hotel) bool {
	return func(dst, src *domain.Hotel) bool {
		v := *field(src)
		if v == nil {
			return false
		}
		c := *v
		*field(dst) = &c
		return true
	}
}

// seq: present = non-empty.
func seq[T any](field func(*domain.Hotel) *[]T) func(dst, src *domain.Hotel) bool {
	return func(dst, src *domain.Hotel) bool {
		v := *field(src)
		if len(v) == 0 {
			return false
		}
		*field(dst) = slices.Clone(v)
		return true
	}
}
