// Package network simulates the remote collection the pager reads from.
//
// A Stub fabricates a fixed-size list of items and serves it page by page
// after an artificial delay, on a background worker pool when one is given.
// Failures can be injected per offset.
package network

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/amp-labs/amp-flux/bgworker"
	"github.com/amp-labs/amp-flux/future"
	"github.com/amp-labs/amp-flux/logger"
	"github.com/amp-labs/amp-flux/pagination"
	"go.uber.org/atomic"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// DefaultTotal is the size of the simulated collection.
	DefaultTotal = 23
	// DefaultDelay is the simulated latency of every fetch.
	DefaultDelay = 500 * time.Millisecond
)

// ErrInvalidRequest is returned for negative offsets or non-positive sizes.
var ErrInvalidRequest = errors.New("invalid page request")

// Stub is an in-memory pagination.Service.
type Stub struct {
	total    int
	delay    time.Duration
	failures func(offset int) error
	pool     *bgworker.Pool
	phrases  []string
	requests *atomic.Int64
}

var _ pagination.Service = (*Stub)(nil)

// Option configures a Stub.
type Option func(*Stub)

// WithTotal sets the number of items in the collection. Negative values are ignored.
func WithTotal(total int) Option {
	return func(s *Stub) {
		if total >= 0 {
			s.total = total
		}
	}
}

// WithDelay sets the latency of each fetch. Zero answers immediately.
func WithDelay(delay time.Duration) Option {
	return func(s *Stub) {
		if delay >= 0 {
			s.delay = delay
		}
	}
}

// WithFailures makes a fetch fail whenever fn returns an error for its offset.
func WithFailures(fn func(offset int) error) Option {
	return func(s *Stub) {
		s.failures = fn
	}
}

// WithPool runs fetches on pool instead of on a goroutine each.
func WithPool(pool *bgworker.Pool) Option {
	return func(s *Stub) {
		s.pool = pool
	}
}

// WithCorpus replaces the embedded phrases used for item text.
func WithCorpus(phrases []string) Option {
	return func(s *Stub) {
		if len(phrases) > 0 {
			s.phrases = phrases
		}
	}
}

// NewStub returns a stub serving DefaultTotal items with DefaultDelay.
func NewStub(opts ...Option) *Stub {
	s := &Stub{
		total:    DefaultTotal,
		delay:    DefaultDelay,
		requests: atomic.NewInt64(0),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.phrases == nil {
		s.phrases = defaultCorpus()
	}

	return s
}

// FailOnceAt returns a failure function for WithFailures that fails the first
// fetch at offset with a network error, and nothing after that.
func FailOnceAt(offset int) func(int) error {
	fired := atomic.NewBool(false)

	return func(o int) error {
		if o != offset || !fired.CompareAndSwap(false, true) {
			return nil
		}

		return fmt.Errorf("%w: simulated failure at offset %d", pagination.ErrNetwork, offset)
	}
}

// Total returns the size of the collection.
func (s *Stub) Total() int {
	return s.total
}

// Requests returns how many fetches have been started.
func (s *Stub) Requests() int64 {
	return s.requests.Load()
}

// FetchPage implements pagination.Service.
func (s *Stub) FetchPage(ctx context.Context, offset, size int) *future.Future[pagination.Page] {
	if s.pool == nil {
		return future.GoContext(ctx, func(ctx context.Context) (pagination.Page, error) {
			return s.fetch(ctx, offset, size)
		})
	}

	fut, promise := future.New[pagination.Page]()

	err := s.pool.Go(ctx, func() {
		defer func() {
			if r := recover(); r != nil {
				promise.Failure(fmt.Errorf("%w: %v\n%s", future.ErrPanic, r, debug.Stack()))
			}
		}()

		promise.Complete(s.fetch(ctx, offset, size))
	})
	if err != nil {
		promise.Failure(pagination.NewError(pagination.KindNetwork, err))
	}

	return fut
}

func (s *Stub) fetch(ctx context.Context, offset, size int) (pagination.Page, error) {
	s.requests.Inc()

	if offset < 0 || size <= 0 {
		return pagination.Page{}, fmt.Errorf("%w: offset %d, size %d", ErrInvalidRequest, offset, size)
	}

	if err := s.wait(ctx); err != nil {
		return pagination.Page{}, err
	}

	if s.failures != nil {
		if err := s.failures(offset); err != nil {
			logger.Get(ctx).Debug("Simulated fetch failure", "offset", offset, "error", err)

			return pagination.Page{}, err
		}
	}

	end := min(offset+size, s.total)
	caser := cases.Title(language.English)

	var page pagination.DataSource

	for i := offset; i < end; i++ {
		page = append(page, pagination.Item{
			Index: i,
			Text:  fmt.Sprintf("%s #%d", caser.String(s.phrases[i%len(s.phrases)]), i+1),
		})
	}

	logger.Get(ctx).Debug("Served page", "offset", offset, "size", size, "items", len(page), "total", s.total)

	return pagination.Page{Items: page, Total: s.total}, nil
}

func (s *Stub) wait(ctx context.Context) error {
	if s.delay == 0 {
		if err := ctx.Err(); err != nil {
			return pagination.NewError(pagination.KindCanceled, err)
		}

		return nil
	}

	timer := time.NewTimer(s.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return pagination.NewError(pagination.KindCanceled, ctx.Err())
	case <-timer.C:
		return nil
	}
}
