package pagination

import (
	"context"

	"github.com/amp-labs/amp-flux/future"
)

// Service is the network boundary the model fetches pages from.
type Service interface {
	// FetchPage asynchronously returns up to size items starting at offset,
	// along with the size of the whole collection.
	FetchPage(ctx context.Context, offset, size int) *future.Future[Page]
}

// ServiceFunc adapts a blocking fetch function to Service. Each call runs on
// its own goroutine.
type ServiceFunc func(ctx context.Context, offset, size int) (Page, error)

func (f ServiceFunc) FetchPage(ctx context.Context, offset, size int) *future.Future[Page] {
	return future.GoContext(ctx, func(ctx context.Context) (Page, error) {
		return f(ctx, offset, size)
	})
}
