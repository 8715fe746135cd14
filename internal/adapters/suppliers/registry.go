package suppliers

import (
	"fmt"
	"sort"

	"hotel_merge/internal/domain"
)

// constructors in declared order; merge tie-breaks follow this order.
var constructors = []struct {
	name string
	new  func(*Client, string) *Source
}{
	{AcmeName, NewAcme},
	{PaperFliesName, NewPaperFlies},
	{PatagoniaName, NewPatagonia},
}

// Names lists the known suppliers in declared order.
func Names() []string {
	out := make([]string, 0, len(constructors))
	for _, c := range constructors {
		out = append(out, c.name)
	}
	return out
}

// Build returns the enabled suppliers in declared order. endpoints overrides default
// URLs by supplier name; names in disabled are left out. Unknown names are an error.
func Build(c *Client, endpoints map[string]string, disabled map[string]bool) ([]domain.Supplier, error) {
	known := make(map[string]bool, len(constructors))
	for _, ctor := range constructors {
		known[ctor.name] = true
	}
	var unknown []string
	for name := range endpoints {
		if !known[name] {
			unknown = append(unknown, name)
		}
	}
	for name := range disabled {
		if !known[name] {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("unknown suppliers: %v", unknown)
	}

	out := make([]domain.Supplier, 0, len(constructors))
	for _, ctor := range constructors {
		if disabled[ctor.name] {
			continue
		}
		out = append(out, ctor.new(c, endpoints[ctor.name]))
	}
	return out, nil
}
