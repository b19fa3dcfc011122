package repository

import (
	"context"
	"errors"
)

// ErrListerUnavailable is returned when the listing tool cannot be invoked at all.
var ErrListerUnavailable = errors.New("storage lister unavailable")

// StorageLister lists files of the remote store matching glob patterns.
// Each returned line is one raw line of listing output.
type StorageLister interface {
	List(ctx context.Context, patterns []string) ([]string, error)
}
