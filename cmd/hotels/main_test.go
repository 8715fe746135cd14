package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel_merge/internal/domain"
)

func serve(t *testing.T, status int, body string) string {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return ts.URL
}

func setSuppliers(t *testing.T, acme, paperflies, patagonia string) {
	t.Helper()
	t.Setenv("SUPPLIERS_FILE", "")
	t.Setenv("APP_ENV", "prod")
	t.Setenv("ACME_URL", acme)
	t.Setenv("PAPERFLIES_URL", paperflies)
	t.Setenv("PATAGONIA_URL", patagonia)
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestHotels_MergesAcrossSuppliers(t *testing.T) {
	setSuppliers(t,
		serve(t, 200, `[{"Id":"iJhz","DestinationId":5432,"Name":"Beach Villas Singapore","Description":"old desc","Facilities":[]}]`),
		serve(t, 200, `[{"hotel_id":"iJhz","destination_id":5432,"hotel_name":"Beach Villas","details":"new desc","amenities":{"general":["wifi"],"room":[]}}]`),
		serve(t, 200, `[{"id":"SjyX","destination":5432,"name":"InterContinental"}]`),
	)

	out, _, err := execute(t, "iJhz", "5432")
	require.NoError(t, err)

	var hotels []domain.Hotel
	require.NoError(t, json.Unmarshal([]byte(out), &hotels))
	require.Len(t, hotels, 1)
	assert.Equal(t, "iJhz", hotels[0].ID)
	assert.Equal(t, "new desc", *hotels[0].Description)
	assert.Equal(t, []string{"wifi"}, hotels[0].Amenities.General)

	out, _, err = execute(t, "none", "none", "--pretty")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &hotels))
	assert.Len(t, hotels, 2)
	assert.Contains(t, out, "\n  {")
}

func TestHotels_PartialFailureStillSucceeds(t *testing.T) {
	setSuppliers(t,
		serve(t, 200, `[{"Id":"iJhz","DestinationId":5432}]`),
		serve(t, 404, `not found`),
		serve(t, 200, `{"not":"an array"}`),
	)

	out, stderr, err := execute(t, "iJhz", "5432")
	require.NoError(t, err)
	assert.JSONEq(t, `[{
		"id":"iJhz","destination_id":"5432","name":null,
		"location":{"lat":null,"lng":null,"address":null,"city":null,"country":null},
		"description":null,
		"amenities":{"general":[],"room":[]},
		"images":{"rooms":[],"site":[],"amenities":[]},
		"booking_conditions":[]
	}]`, out)
	assert.Contains(t, stderr, "supplier fetch failed")
}

func TestHotels_AllSuppliersFailed(t *testing.T) {
	down := serve(t, http.StatusNotFound, ``)
	setSuppliers(t, down, down, down)

	out, _, err := execute(t, "none", "none", "--timeout", "5s")
	assert.ErrorIs(t, err, domain.ErrAllSuppliersFailed)
	assert.Equal(t, exitFailure, exitCode(err))
	assert.JSONEq(t, `[]`, out)
}

func TestHotels_InvalidArguments(t *testing.T) {
	_, _, err := execute(t, "iJhz,,SjyX", "5432")
	assert.ErrorIs(t, err, domain.ErrInvalidQuery)
	assert.Equal(t, exitInvalidQuery, exitCode(err))

	_, _, err = execute(t, "iJhz")
	assert.Error(t, err)
}
