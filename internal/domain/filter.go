package domain

import (
	"sort"
	"strings"
)

// MatchAllToken is the filter value that disables filtering (compared case-insensitively).
const MatchAllToken = "none"

// Filter selects catalog entries by hotel and destination identifiers.
// A hotel matches when its id is in HotelIDs AND its destination id is in DestinationIDs.
// A nil set leaves its dimension unconstrained.
type Filter struct {
	HotelIDs       map[string]struct{}
	DestinationIDs map[string]struct{}
	all            bool
}

// MatchAll returns a filter that selects the whole catalog.
func MatchAll() Filter { return Filter{all: true} }

// NewFilter builds a filter from identifier sets. If either set holds the "none"
// token the filter matches everything, regardless of the other set. A nil slice
// leaves that dimension unconstrained; an empty non-nil one matches nothing.
func NewFilter(hotelIDs, destinationIDs []string) Filter {
	f := Filter{
		HotelIDs:       toSet(hotelIDs),
		DestinationIDs: toSet(destinationIDs),
	}
	f.all = hasMatchAll(hotelIDs) || hasMatchAll(destinationIDs) ||
		(hotelIDs == nil && destinationIDs == nil)
	return f
}

// ParseFilter splits two comma-separated identifier lists.
// Empty identifiers (e.g. "a,,b" or "") are rejected with a QueryError.
func ParseFilter(hotelIDs, destinationIDs string) (Filter, error) {
	hs, err := splitIDs("hotel_ids", hotelIDs)
	if err != nil {
		return Filter{}, err
	}
	ds, err := splitIDs("destination_ids", destinationIDs)
	if err != nil {
		return Filter{}, err
	}
	return NewFilter(hs, ds), nil
}

// ParseQueryFilter is ParseFilter for optional parameters: an omitted
// parameter (has* false) leaves its dimension unconstrained.
func ParseQueryFilter(hotelIDs string, hasHotels bool, destinationIDs string, hasDestinations bool) (Filter, error) {
	var hs, ds []string
	var err error
	if hasHotels {
		if hs, err = splitIDs("hotel_ids", hotelIDs); err != nil {
			return Filter{}, err
		}
	}
	if hasDestinations {
		if ds, err = splitIDs("destination_ids", destinationIDs); err != nil {
			return Filter{}, err
		}
	}
	return NewFilter(hs, ds), nil
}

// MatchesAll reports whether the filter selects the whole catalog.
func (f Filter) MatchesAll() bool { return f.all }

// Match reports whether h is selected by the filter.
func (f Filter) Match(h Hotel) bool {
	if f.all {
		return true
	}
	return in(f.HotelIDs, h.ID) && in(f.DestinationIDs, h.DestinationID)
}

func in(set map[string]struct{}, id string) bool {
	if set == nil {
		return true
	}
	_, ok := set[id]
	return ok
}

// CacheKey renders the filter in a stable form usable as a cache key suffix.
func (f Filter) CacheKey() string {
	if f.all {
		return "all"
	}
	return keyPart(f.HotelIDs) + ":" + keyPart(f.DestinationIDs)
}

func keyPart(set map[string]struct{}) string {
	if set == nil {
		return "*"
	}
	return strings.Join(sortedKeys(set), ",")
}

func splitIDs(param, raw string) ([]string, error) {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		id := strings.TrimSpace(p)
		if id == "" {
			return nil, &QueryError{Param: param, Value: raw, Reason: "empty identifier"}
		}
		out = append(out, id)
	}
	return out, nil
}

func hasMatchAll(ids []string) bool {
	for _, id := range ids {
		if strings.EqualFold(id, MatchAllToken) {
			return true
		}
	}
	return false
}

func toSet(ids []string) map[string]struct{} {
	if ids == nil {
		return nil
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
