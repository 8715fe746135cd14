package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"hotel_merge/internal/adapters/observability"
	"hotel_merge/internal/domain"
)

// HotelService runs the whole pipeline: fetch every supplier, normalize,
// merge into a Catalog and answer a query against it.
type HotelService struct {
	suppliers []domain.Supplier
	workers   int
}

// NewHotelService keeps suppliers in the given (declared) order; merge ties are
// broken by that order. workers bounds concurrent fetches.
func NewHotelService(suppliers []domain.Supplier, workers int) *HotelService {
	if workers <= 0 {
		workers = 1
	}
	return &HotelService{suppliers: suppliers, workers: workers}
}

type SupplierInfo struct {
	Name     string `json:"name"`
	Priority int    `json:"priority"`
}

func (s *HotelService) Suppliers() []SupplierInfo {
	out := make([]SupplierInfo, 0, len(s.suppliers))
	for _, sup := range s.suppliers {
		out = append(out, SupplierInfo{Name: sup.Name(), Priority: sup.Priority()})
	}
	return out
}

// SupplierReport is the outcome of one supplier in a run.
type SupplierReport struct {
	Supplier string `json:"supplier"`
	Fetched  int    `json:"fetched"`
	Accepted int    `json:"accepted"`
	Skipped  int    `json:"skipped"`
	Err      error  `json:"-"`
}

type Report struct {
	RunID     string           `json:"run_id"`
	Suppliers []SupplierReport `json:"suppliers"`
	Hotels    int              `json:"hotels"`
}

func (r Report) Failed() int {
	n := 0
	for _, s := range r.Suppliers {
		if s.Err != nil {
			n++
		}
	}
	return n
}

// AllFailed reports whether there were suppliers and none of them delivered.
func (r Report) AllFailed() bool {
	return len(r.Suppliers) > 0 && r.Failed() == len(r.Suppliers)
}

// Complete reports whether every supplier delivered.
func (r Report) Complete() bool { return r.Failed() == 0 }

// Load fetches all suppliers and builds the run's catalog. A failing supplier
// contributes nothing; the run goes on with the others. The error is only set
// when ctx ends before fetching could start or the catalog cannot be built.
func (s *HotelService) Load(ctx context.Context) (*Catalog, Report, error) {
	rep := Report{RunID: uuid.NewString()}
	logger := log.With().Str("run_id", rep.RunID).Logger()

	results, err := s.fetchAll(ctx)
	if err != nil {
		return nil, rep, err
	}

	var records []domain.SourcedHotel
	for i, sup := range s.suppliers {
		res := results[i]
		sr := SupplierReport{
			Supplier: sup.Name(),
			Fetched:  res.payload.Len(),
			Skipped:  res.payload.Dropped,
			Err:      res.err,
		}
		if res.err != nil {
			observability.ObserveSupplierFailure(sup.Name(), res.err)
			logger.Warn().Err(res.err).Str("supplier", sup.Name()).Msg("supplier fetch failed")
			rep.Suppliers = append(rep.Suppliers, sr)
			continue
		}

		if res.payload.Dropped > 0 {
			logger.Warn().
				Str("supplier", sup.Name()).
				Int("dropped", res.payload.Dropped).
				Msg("non-object entries dropped from payload")
		}
		for _, raw := range res.payload.Records {
			h, err := sup.Normalize(raw)
			if err != nil {
				sr.Skipped++
				logger.Debug().Err(err).Str("supplier", sup.Name()).Msg("record skipped")
				continue
			}
			sr.Accepted++
			records = append(records, domain.SourcedHotel{Hotel: h, Supplier: sup.Name(), Priority: sup.Priority()})
		}
		observability.ObserveSupplierRecords(sup.Name(), "ok", sr.Accepted)
		observability.ObserveSupplierRecords(sup.Name(), "skipped", sr.Skipped)
		logger.Info().
			Str("supplier", sup.Name()).
			Int("fetched", sr.Fetched).
			Int("accepted", sr.Accepted).
			Int("skipped", sr.Skipped).
			Msg("supplier fetched")
		rep.Suppliers = append(rep.Suppliers, sr)
	}

	cat, err := BuildCatalog(records)
	if err != nil {
		return nil, rep, err
	}
	rep.Hotels = cat.Len()
	logger.Info().
		Int("records", len(records)).
		Int("hotels", rep.Hotels).
		Int("failed_suppliers", rep.Failed()).
		Msg("catalog built")
	return cat, rep, nil
}

// Reconcile builds a fresh catalog and returns the hotels matching f.
// When every supplier failed the result is empty and the error is ErrAllSuppliersFailed,
// also wrapping ctx's error when the context ended.
func (s *HotelService) Reconcile(ctx context.Context, f domain.Filter) ([]domain.Hotel, Report, error) {
	cat, rep, err := s.Load(ctx)
	if err != nil {
		return nil, rep, err
	}
	hotels := cat.Find(f)
	if rep.AllFailed() {
		// a run cut short by ctx reports why, so callers can tell a timeout from an outage
		if ctxErr := ctx.Err(); ctxErr != nil {
			return hotels, rep, fmt.Errorf("%w: %w", domain.ErrAllSuppliersFailed, ctxErr)
		}
		return hotels, rep, domain.ErrAllSuppliersFailed
	}
	return hotels, rep, nil
}

type fetchResult struct {
	payload domain.Payload
	err     error
}

// fetchAll fetches concurrently; results are indexed by declared supplier order,
// not by completion order.
func (s *HotelService) fetchAll(ctx context.Context) ([]fetchResult, error) {
	results := make([]fetchResult, len(s.suppliers))
	sem := semaphore.NewWeighted(int64(s.workers))
	var wg sync.WaitGroup

	for i, sup := range s.suppliers {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return nil, err
		}
		wg.Add(1)
		go func(i int, sup domain.Supplier) {
			defer wg.Done()
			defer sem.Release(1)
			p, err := sup.Fetch(ctx)
			results[i] = fetchResult{payload: p, err: err}
		}(i, sup)
	}

	wg.Wait()
	return results, nil
}
