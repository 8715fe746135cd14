package domain

import "context"

// Supplier is one external hotel data source.
type Supplier interface {
	Name() string
	// Priority ranks the supplier during merge; higher wins.
	Priority() int
	// Fetch retrieves the raw records. Failures are *SupplierError values.
	Fetch(ctx context.Context) (Payload, error)
	// Normalize maps one raw record to the canonical shape. It is pure and
	// fails only when the record cannot be identified (ErrMalformedRecord).
	Normalize(raw map[string]any) (Hotel, error)
}

// Payload is one supplier response: the records that are JSON objects and the
// number of array elements that were not.
type Payload struct {
	Records []map[string]any
	Dropped int
}

// Len is the number of elements the supplier sent.
func (p Payload) Len() int { return len(p.Records) + p.Dropped }

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
}
