// internal/adapters/http_server/handlers.go
package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"hotel_merge/internal/app"
	"hotel_merge/internal/domain"
)

// HotelFinder is the query side the handlers serve.
type HotelFinder interface {
	FindHotels(ctx context.Context, f domain.Filter) ([]domain.Hotel, error)
	Suppliers() []app.SupplierInfo
}

type Handlers struct{ Q HotelFinder }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/hotels", h.findHotels)
	s.mux.Get("/v1/suppliers", h.listSuppliers)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		// Log but don't fail the whole response; return empty ETag and best-effort body.
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	// If client already has this version, short-circuit.
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag) // include ETag on 304
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write response body")
	}
}

func (h *Handlers) findHotels(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f, err := domain.ParseQueryFilter(q.Get("hotel_ids"), q.Has("hotel_ids"), q.Get("destination_ids"), q.Has("destination_ids"))
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid query", err.Error())
		return
	}

	hotels, err := h.Q.FindHotels(r.Context(), f)
	switch {
	case err == nil:
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		// checked first: a run cut short by the deadline also reports ErrAllSuppliersFailed
		writeProblem(w, http.StatusGatewayTimeout, "Timeout", "suppliers did not answer in time")
		return
	case errors.Is(err, domain.ErrAllSuppliersFailed):
		writeProblem(w, http.StatusServiceUnavailable, "Suppliers unavailable", "no supplier could be fetched")
		return
	default:
		log.Error().Err(err).Msg("find hotels failed")
		writeProblem(w, http.StatusInternalServerError, "Internal error", "")
		return
	}
	writeJSON(w, r, hotels)
}

func (h *Handlers) listSuppliers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, h.Q.Suppliers())
}
