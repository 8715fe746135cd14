// internal/adapters/suppliers/client.go
package suppliers

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"hotel_merge/internal/adapters/observability"
	"hotel_merge/internal/domain"
)

const maxAttempts = 4

// Client downloads supplier payloads. One Client is shared by every supplier.
type Client struct {
	hc *http.Client
	rl *rate.Limiter
}

// NewClient: timeout bounds one HTTP attempt; rps is shared by all suppliers.
func NewClient(timeout time.Duration, rps float64) *Client {
	if rps <= 0 {
		rps = 5
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		hc: &http.Client{Timeout: timeout},
		rl: rate.NewLimiter(rate.Limit(rps), max(1, int(math.Ceil(rps)))),
	}
}

// GetRecords fetches url and decodes it as a JSON array of objects.
// Elements that are not objects are dropped; their count is returned as skipped.
// Transport failures and failure statuses are ErrSourceUnavailable; an unparseable
// body is ErrMalformedPayload.
func (c *Client) GetRecords(ctx context.Context, supplier, url string) (records []map[string]any, skipped int, err error) {
	body, err := c.get(ctx, supplier, url)
	if err != nil {
		return nil, 0, domain.Unavailable(supplier, err)
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber() // keep ids like 5432 in their textual form
	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, 0, domain.Malformed(supplier, err)
	}
	// the body must hold exactly one JSON value
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, 0, domain.Malformed(supplier, errors.New("unexpected data after JSON array"))
	}
	items, ok := payload.([]any)
	if !ok {
		return nil, 0, domain.Malformed(supplier, fmt.Errorf("expected JSON array, got %T", payload))
	}

	records = make([]map[string]any, 0, len(items))
	for _, it := range items {
		obj, ok := it.(map[string]any)
		if !ok {
			skipped++
			continue
		}
		records = append(records, obj)
	}
	return records, skipped, nil
}

// get performs a GET with client-side rate limiting and retries, returning the body.
// Retries on network errors, 429 and transient 5xx, honoring Retry-After when provided.
func (c *Client) get(ctx context.Context, supplier, url string) ([]byte, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return nil, err
	}

	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		body, wait, err := c.attempt(ctx, supplier, url)
		if err == nil {
			return body, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if wait < 0 {
			return nil, err
		}
		lastErr = err
		if wait == 0 {
			wait = backoff(i)
		}
		if i == maxAttempts-1 || !sleepCtx(ctx, wait) {
			break
		}
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return nil, lastErr
}

// attempt issues one request. wait is the server-requested delay before a retry,
// 0 for "use backoff" and -1 when the failure must not be retried.
func (c *Client) attempt(ctx context.Context, supplier, url string) (body []byte, wait time.Duration, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, -1, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "hotel-merge/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal(supplier, 0, time.Since(start))
		// network error: retry with backoff
		return nil, 0, err
	}
	defer resp.Body.Close()
	observability.ObserveExternal(supplier, resp.StatusCode, time.Since(start))

	switch resp.StatusCode {
	case http.StatusOK:
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, 0, fmt.Errorf("read body: %w", err)
		}
		return b, 0, nil

	case http.StatusTooManyRequests, http.StatusInternalServerError,
		http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		// Prefer server-provided Retry-After; otherwise exponential backoff.
		return nil, retryAfter(resp), fmt.Errorf("remote %d", resp.StatusCode)

	default:
		// read a small error body for diagnostics
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, -1, fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff returns an exponential delay (200ms, 400ms, 800ms...) with up to +50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}
