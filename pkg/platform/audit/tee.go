package audit

import (
	"context"
	"errors"
)

type tee []Store

// Tee appends every event to each store in order. All stores are attempted;
// their errors are joined.
func Tee(stores ...Store) Store {
	return tee(stores)
}

func (t tee) Append(ctx context.Context, event Event) error {
	var errs []error
	for _, s := range t {
		if err := s.Append(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
