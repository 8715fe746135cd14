package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_merge/internal/domain"
)

// Reconciler is what the query layer needs from HotelService.
type Reconciler interface {
	Reconcile(ctx context.Context, f domain.Filter) ([]domain.Hotel, Report, error)
	Suppliers() []SupplierInfo
}

// QueryService answers hotel queries, caching complete results.
type QueryService struct {
	hotels   Reconciler
	cache    domain.Cache
	cacheTTL time.Duration
}

// NewQueryService: a nil cache disables caching.
func NewQueryService(r Reconciler, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{hotels: r, cache: c, cacheTTL: ttl}
}

func (s *QueryService) FindHotels(ctx context.Context, f domain.Filter) ([]domain.Hotel, error) {
	key := "hotels:" + f.CacheKey()
	if s.cache != nil {
		var cached []domain.Hotel
		if ok, _ := s.cache.Get(ctx, key, &cached); ok {
			return cached, nil
		}
	}

	hotels, rep, err := s.hotels.Reconcile(ctx, f)
	if err != nil {
		return nil, err
	}
	// a partial run is served but not cached, so the next request retries the failed suppliers
	if s.cache != nil && rep.Complete() && s.cacheTTL > 0 {
		if err := s.cache.Set(ctx, key, hotels, int(s.cacheTTL.Seconds())); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache set failed")
		}
	}
	return hotels, nil
}

func (s *QueryService) Suppliers() []SupplierInfo { return s.hotels.Suppliers() }
