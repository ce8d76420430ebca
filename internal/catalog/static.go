package catalog

import (
	"context"
	"fmt"
)

// Static is an in-memory Client mapping trim ids to raw size strings. It
// stands in for the external catalog in tests and database-less development
// runs.
type Static struct {
	Sizes map[int64]string
}

// ResolveTireInfo parses the configured size string for the trim id, or
// fails with ErrInvalidTrim for unknown ids.
func (s Static) ResolveTireInfo(_ context.Context, trimID int64) (Dimensions, error) {
	raw, ok := s.Sizes[trimID]
	if !ok {
		return Dimensions{}, fmt.Errorf("trim %d: %w", trimID, ErrInvalidTrim)
	}
	dims, err := ParseSize(raw)
	if err != nil {
		return Dimensions{}, fmt.Errorf("trim %d: %w", trimID, ErrInvalidTrim)
	}
	return dims, nil
}
