package suppliers

import (
	"context"
	"fmt"

	"hotel_merge/internal/domain"
)

// Source is a supplier reachable over HTTP whose records are mapped by a
// supplier-specific normalize function.
type Source struct {
	name      string
	priority  int
	endpoint  string
	client    *Client
	normalize func(raw map[string]any) domain.Hotel
}

func (s *Source) Name() string     { return s.name }
func (s *Source) Priority() int    { return s.priority }
func (s *Source) Endpoint() string { return s.endpoint }

func (s *Source) Fetch(ctx context.Context) (domain.Payload, error) {
	records, dropped, err := s.client.GetRecords(ctx, s.name, s.endpoint)
	if err != nil {
		return domain.Payload{}, err
	}
	return domain.Payload{Records: records, Dropped: dropped}, nil
}

// Normalize rejects records without an id or destination id; everything else
// is left to the supplier mapping, which never fails.
func (s *Source) Normalize(raw map[string]any) (domain.Hotel, error) {
	h := s.normalize(raw)
	if h.ID == "" || h.DestinationID == "" {
		return domain.Hotel{}, fmt.Errorf("%w: %s record without id/destination (id=%q destination=%q)",
			domain.ErrMalformedRecord, s.name, h.ID, h.DestinationID)
	}
	return h, nil
}
