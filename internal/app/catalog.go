package app

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"hotel_merge/internal/adapters/observability"
	"hotel_merge/internal/domain"
)

// Catalog is the deduplicated set of hotels of one run.
// It is filled once through Insert and only read afterwards.
type Catalog struct {
	hotels []domain.Hotel
	index  map[domain.Key]int
}

func NewCatalog() *Catalog {
	return &Catalog{index: make(map[domain.Key]int)}
}

// BuildCatalog groups records by identity and inserts every group.
func BuildCatalog(records []domain.SourcedHotel) (*Catalog, error) {
	c := NewCatalog()
	for _, g := range Group(records) {
		if err := c.Insert(g); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Insert adds exactly one hotel for a group of records sharing one identity.
// A single record is taken as is; larger groups are merged.
func (c *Catalog) Insert(group []domain.SourcedHotel) error {
	if len(group) == 0 {
		return errors.New("catalog: empty group")
	}
	key := group[0].Key()
	for _, r := range group[1:] {
		if r.Key() != key {
			return fmt.Errorf("catalog: group mixes %v and %v", key, r.Key())
		}
	}
	if _, ok := c.index[key]; ok {
		return fmt.Errorf("%w: id=%s destination_id=%s", domain.ErrDuplicateHotel, key.ID, key.DestinationID)
	}

	observability.ObserveMergeGroup(len(group))
	h := group[0].Hotel
	if len(group) > 1 {
		var prov Provenance
		h, prov = Merge(group)
		for field, supplier := range prov {
			observability.ObserveFieldWin(field, supplier)
		}
		log.Debug().
			Str("id", key.ID).
			Str("destination_id", key.DestinationID).
			Int("members", len(group)).
			Interface("provenance", prov).
			Msg("hotel merged")
	}

	c.index[key] = len(c.hotels)
	c.hotels = append(c.hotels, h)
	return nil
}

// Find returns copies of the hotels selected by f, in catalog order, so callers
// cannot change the catalog through them. The result is never nil.
func (c *Catalog) Find(f domain.Filter) []domain.Hotel {
	out := make([]domain.Hotel, 0, len(c.hotels))
	for _, h := range c.hotels {
		if f.Match(h) {
			out = append(out, h.Clone())
		}
	}
	return out
}

func (c *Catalog) All() []domain.Hotel { return c.Find(domain.MatchAll()) }

func (c *Catalog) Len() int { return len(c.hotels) }
