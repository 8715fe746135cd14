package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel_merge/internal/domain"
)

func TestParseFilter(t *testing.T) {
	tests := []struct {
		name      string
		hotels    string
		dests     string
		matchAll  bool
		wantHotel []string
		wantDest  []string
	}{
		{name: "single", hotels: "iJhz", dests: "5432", wantHotel: []string{"iJhz"}, wantDest: []string{"5432"}},
		{name: "lists with spaces", hotels: "iJhz, SjyX", dests: "5432 ,1122", wantHotel: []string{"iJhz", "SjyX"}, wantDest: []string{"5432", "1122"}},
		{name: "none hotels", hotels: "none", dests: "5432", matchAll: true},
		{name: "none destinations upper", hotels: "iJhz", dests: "NONE", matchAll: true},
		{name: "none mixed in list", hotels: "iJhz,None", dests: "5432", matchAll: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := domain.ParseFilter(tt.hotels, tt.dests)
			require.NoError(t, err)
			assert.Equal(t, tt.matchAll, f.MatchesAll())
			for _, id := range tt.wantHotel {
				assert.Contains(t, f.HotelIDs, id)
			}
			for _, id := range tt.wantDest {
				assert.Contains(t, f.DestinationIDs, id)
			}
		})
	}
}

func TestParseFilter_EmptyIdentifier(t *testing.T) {
	for _, in := range [][2]string{{"", "5432"}, {"iJhz", ""}, {"a,,b", "1"}, {"a", "1, "}} {
		_, err := domain.ParseFilter(in[0], in[1])
		require.Error(t, err, "input %q", in)
		assert.True(t, errors.Is(err, domain.ErrInvalidQuery))

		var qe *domain.QueryError
		require.ErrorAs(t, err, &qe)
		assert.Equal(t, "empty identifier", qe.Reason)
	}
}

func TestFilter_MatchIsConjunctive(t *testing.T) {
	f := domain.NewFilter([]string{"h1"}, []string{"d1"})

	assert.True(t, f.Match(domain.NewHotel("h1", "d1")))
	assert.False(t, f.Match(domain.NewHotel("h1", "d2")))
	assert.False(t, f.Match(domain.NewHotel("h2", "d1")))
	assert.True(t, domain.MatchAll().Match(domain.NewHotel("h2", "d9")))
}

func TestFilter_CacheKeyIsOrderIndependent(t *testing.T) {
	a := domain.NewFilter([]string{"b", "a"}, []string{"2", "1"})
	b := domain.NewFilter([]string{"a", "b"}, []string{"1", "2"})

	assert.Equal(t, a.CacheKey(), b.CacheKey())
	assert.Equal(t, "a,b:1,2", a.CacheKey())
	assert.Equal(t, "all", domain.NewFilter([]string{"none"}, nil).CacheKey())
}

func TestSupplierError_Is(t *testing.T) {
	err := domain.Unavailable("acme", errors.New("dial tcp: refused"))

	assert.True(t, errors.Is(err, domain.ErrSourceUnavailable))
	assert.False(t, errors.Is(err, domain.ErrMalformedPayload))
	assert.Contains(t, err.Error(), "acme")
	assert.True(t, errors.Is(domain.Malformed("acme", nil), domain.ErrMalformedPayload))
}

func TestParseQueryFilter_OmittedDimension(t *testing.T) {
	a := domain.NewHotel("iJhz", "5432")
	b := domain.NewHotel("SjyX", "1122")

	f, err := domain.ParseQueryFilter("iJhz", true, "", false)
	require.NoError(t, err)
	assert.False(t, f.MatchesAll())
	assert.True(t, f.Match(a))
	assert.False(t, f.Match(b))
	assert.Equal(t, "iJhz:*", f.CacheKey())

	f, err = domain.ParseQueryFilter("", false, "", false)
	require.NoError(t, err)
	assert.True(t, f.MatchesAll())
	assert.Equal(t, "all", f.CacheKey())

	_, err = domain.ParseQueryFilter("", true, "1122", true)
	assert.ErrorIs(t, err, domain.ErrInvalidQuery)
}

func TestHotel_CloneKeepsEmptySequences(t *testing.T) {
	name := "Beach Villas"
	h := domain.NewHotel("iJhz", "5432")
	h.Name = &name
	h.BookingConditions = []string{"Pets are not allowed"}

	c := h.Clone()
	assert.Equal(t, h, c)
	assert.NotNil(t, c.Images.Site)
	assert.Empty(t, c.Images.Site)
	assert.Nil(t, c.Description)

	*c.Name = "changed"
	c.BookingConditions[0] = "changed"
	assert.Equal(t, "Beach Villas", name)
	assert.Equal(t, "Pets are not allowed", h.BookingConditions[0])
}
