package app_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel_merge/internal/app"
	"hotel_merge/internal/domain"
)

// fakeSupplier serves canned raw records shaped {"id","dest","name","city"}.
type fakeSupplier struct {
	name     string
	priority int
	records  []map[string]any
	err      error
	delay    time.Duration
	dropped  int
}

func (f *fakeSupplier) Name() string  { return f.name }
func (f *fakeSupplier) Priority() int { return f.priority }

func (f *fakeSupplier) Fetch(ctx context.Context) (domain.Payload, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return domain.Payload{}, domain.Unavailable(f.name, ctx.Err())
		}
	}
	if f.err != nil {
		return domain.Payload{}, f.err
	}
	return domain.Payload{Records: f.records, Dropped: f.dropped}, nil
}

func (f *fakeSupplier) Normalize(raw map[string]any) (domain.Hotel, error) {
	id, _ := raw["id"].(string)
	dest, _ := raw["dest"].(string)
	if id == "" || dest == "" {
		return domain.Hotel{}, fmt.Errorf("%w: %s", domain.ErrMalformedRecord, f.name)
	}
	h := domain.NewHotel(id, dest)
	if s, ok := raw["name"].(string); ok {
		h.Name = &s
	}
	if s, ok := raw["city"].(string); ok {
		h.Location.City = &s
	}
	return h, nil
}

func rec(id, dest string, kv ...string) map[string]any {
	m := map[string]any{"id": id, "dest": dest}
	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i]] = kv[i+1]
	}
	return m
}

func TestReconcile_MergesAcrossSuppliers(t *testing.T) {
	acme := &fakeSupplier{name: "acme", priority: 1, records: []map[string]any{
		rec("iJhz", "5432", "name", "Beach Villas Singapore", "city", "Singapore"),
		rec("SjyX", "5432", "name", "InterContinental"),
	}}
	paperflies := &fakeSupplier{name: "paperflies", priority: 3, records: []map[string]any{
		rec("iJhz", "5432", "name", "Beach Villas"),
	}}
	patagonia := &fakeSupplier{name: "patagonia", priority: 2, records: []map[string]any{
		rec("iJhz", "5432", "city", "Sentosa"),
		rec("f8c9", "1122", "name", "Hilton Tokyo"),
	}}
	svc := app.NewHotelService([]domain.Supplier{acme, paperflies, patagonia}, 3)

	hs, rep, err := svc.Reconcile(context.Background(), domain.NewFilter([]string{"iJhz"}, []string{"5432"}))
	require.NoError(t, err)
	require.Len(t, hs, 1)
	assert.Equal(t, "Beach Villas", *hs[0].Name)
	assert.Equal(t, "Sentosa", *hs[0].Location.City)

	assert.NotEmpty(t, rep.RunID)
	assert.True(t, rep.Complete())
	assert.Equal(t, 3, rep.Hotels)

	all, _, err := svc.Reconcile(context.Background(), domain.MatchAll())
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestReconcile_FailedSupplierIsLeftOut(t *testing.T) {
	acme := &fakeSupplier{name: "acme", priority: 1, records: []map[string]any{
		rec("iJhz", "5432", "name", "Acme Name"),
	}}
	paperflies := &fakeSupplier{name: "paperflies", priority: 3,
		err: domain.Unavailable("paperflies", errors.New("connection refused"))}
	svc := app.NewHotelService([]domain.Supplier{acme, paperflies}, 2)

	hs, rep, err := svc.Reconcile(context.Background(), domain.MatchAll())
	require.NoError(t, err)
	require.Len(t, hs, 1)
	assert.Equal(t, "Acme Name", *hs[0].Name)

	assert.Equal(t, 1, rep.Failed())
	assert.False(t, rep.Complete())
	assert.False(t, rep.AllFailed())
	assert.ErrorIs(t, rep.Suppliers[1].Err, domain.ErrSourceUnavailable)
}

func TestReconcile_AllSuppliersFailed(t *testing.T) {
	svc := app.NewHotelService([]domain.Supplier{
		&fakeSupplier{name: "acme", priority: 1, err: domain.Unavailable("acme", errors.New("down"))},
		&fakeSupplier{name: "patagonia", priority: 2, err: domain.Malformed("patagonia", errors.New("bad json"))},
	}, 2)

	hs, rep, err := svc.Reconcile(context.Background(), domain.MatchAll())
	assert.ErrorIs(t, err, domain.ErrAllSuppliersFailed)
	assert.Empty(t, hs)
	assert.True(t, rep.AllFailed())
}

func TestReconcile_NoSuppliers(t *testing.T) {
	hs, rep, err := app.NewHotelService(nil, 1).Reconcile(context.Background(), domain.MatchAll())
	require.NoError(t, err)
	assert.NotNil(t, hs)
	assert.Empty(t, hs)
	assert.False(t, rep.AllFailed())
}

func TestLoad_SkipsRecordsWithoutIdentity(t *testing.T) {
	acme := &fakeSupplier{name: "acme", priority: 1, records: []map[string]any{
		rec("iJhz", "5432"),
		rec("", "5432"),
		rec("SjyX", ""),
	}}
	cat, rep, err := app.NewHotelService([]domain.Supplier{acme}, 1).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, cat.Len())
	require.Len(t, rep.Suppliers, 1)
	assert.Equal(t, app.SupplierReport{Supplier: "acme", Fetched: 3, Accepted: 1, Skipped: 2}, rep.Suppliers[0])
}

func TestLoad_CountsDroppedEntriesAsFetchedAndSkipped(t *testing.T) {
	// a payload like [obj, 42, "x", null]: three entries never became records
	acme := &fakeSupplier{name: "acme", priority: 1, dropped: 3, records: []map[string]any{
		rec("a", "1"),
	}}
	patagonia := &fakeSupplier{name: "patagonia", priority: 2, dropped: 1, records: []map[string]any{
		rec("b", "1"),
		rec("", "1"),
	}}
	cat, rep, err := app.NewHotelService([]domain.Supplier{acme, patagonia}, 2).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, cat.Len())
	assert.Equal(t, []app.SupplierReport{
		{Supplier: "acme", Fetched: 4, Accepted: 1, Skipped: 3},
		{Supplier: "patagonia", Fetched: 3, Accepted: 1, Skipped: 2},
	}, rep.Suppliers)
	assert.True(t, rep.Complete())
}

func TestReconcile_DeadlineIsReported(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	svc := app.NewHotelService([]domain.Supplier{
		&fakeSupplier{name: "acme", priority: 1, delay: time.Second},
		&fakeSupplier{name: "patagonia", priority: 2, delay: time.Second},
	}, 2)

	hs, rep, err := svc.Reconcile(ctx, domain.MatchAll())
	assert.ErrorIs(t, err, domain.ErrAllSuppliersFailed)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Empty(t, hs)
	assert.True(t, rep.AllFailed())
}

func TestLoad_TieBreakFollowsDeclaredOrderNotCompletion(t *testing.T) {
	// same priority: the first declared supplier wins even when it answers last
	slow := &fakeSupplier{name: "slow", priority: 2, delay: 50 * time.Millisecond, records: []map[string]any{
		rec("h1", "d1", "name", "Slow"),
	}}
	fast := &fakeSupplier{name: "fast", priority: 2, records: []map[string]any{
		rec("h1", "d1", "name", "Fast"),
	}}
	svc := app.NewHotelService([]domain.Supplier{slow, fast}, 2)

	for i := 0; i < 3; i++ {
		cat, _, err := svc.Load(context.Background())
		require.NoError(t, err)
		require.Equal(t, 1, cat.Len())
		assert.Equal(t, "Slow", *cat.All()[0].Name)
	}
}

func TestLoad_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc := app.NewHotelService([]domain.Supplier{
		&fakeSupplier{name: "a", priority: 1},
		&fakeSupplier{name: "b", priority: 2},
	}, 1)

	_, _, err := svc.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSuppliers_DeclaredOrder(t *testing.T) {
	svc := app.NewHotelService([]domain.Supplier{
		&fakeSupplier{name: "acme", priority: 1},
		&fakeSupplier{name: "paperflies", priority: 3},
		&fakeSupplier{name: "patagonia", priority: 2},
	}, 0)
	assert.Equal(t, []app.SupplierInfo{
		{Name: "acme", Priority: 1},
		{Name: "paperflies", Priority: 3},
		{Name: "patagonia", Priority: 2},
	}, svc.Suppliers())
}
