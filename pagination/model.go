// Package pagination drives a paginated list through a state machine.
//
// The lifecycle (first page, more pages, reload, failure) is a transition
// table over closed State and Action sets. A Model owns a store for that
// table and performs the fetches the actions ask for. Every dispatch and
// every fetch completion runs on the model's loop, one at a time.
package pagination

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/amp-labs/amp-flux/dispatcher"
	"github.com/amp-labs/amp-flux/future"
	"github.com/amp-labs/amp-flux/logger"
	"github.com/amp-labs/amp-flux/loop"
	"github.com/amp-labs/amp-flux/observable"
	"github.com/amp-labs/amp-flux/statemachine"
	"github.com/amp-labs/amp-flux/store"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/atomic"
)

var errNoFuture = errors.New("service returned no future")

// Model is a paginated list: a pagination store plus the side effects of its
// actions.
type Model struct {
	name       string
	dispatcher *dispatcher.Dispatcher
	store      *store.Store[State, Action]
	service    Service
	loop       *loop.Loop
	ownsLoop   bool
	pageSize   int
	overlap    OverlapPolicy
	recovery   bool
	closed     *atomic.Bool

	// generation and inFlight are only read and written on the loop.
	// inFlight counts pending fetches of the current generation; results of
	// an older generation are dropped.
	generation uint64
	inFlight   int
}

var _ io.Closer = (*Model)(nil)

// New builds a model in the Initial state. Nothing is fetched until
// StartLoading is applied.
func New(svc Service, opts ...Option) *Model {
	o := &options{
		name:     defaultName,
		pageSize: DefaultPageSize,
		overlap:  OverlapReject,
	}

	for _, opt := range opts {
		opt(o)
	}

	if o.dispatcher == nil {
		o.dispatcher = dispatcher.Default()
	}

	transitions := Transitions()
	if o.recovery {
		transitions = RecoveryTransitions()
	}

	m := &Model{
		name:       o.name,
		dispatcher: o.dispatcher,
		service:    svc,
		loop:       o.loop,
		pageSize:   o.pageSize,
		overlap:    o.overlap,
		recovery:   o.recovery,
		closed:     atomic.NewBool(false),
	}

	if m.loop == nil {
		m.loop = loop.New(context.Background(), o.name)
		m.ownsLoop = true
	}

	m.store = store.New[State, Action](o.dispatcher, Family, State(Initial{}), transitions,
		store.WithName(o.name),
		store.WithMachineOptions(statemachine.WithLogger(statemachine.NewDefaultLogger())))

	for _, outcome := range []string{outcomeSuccess, outcomeFailure} {
		fetchDuration.WithLabelValues(o.name, outcome)
	}

	return m
}

// Name returns the model's name.
func (m *Model) Name() string {
	return m.name
}

// PageSize returns the number of items requested per fetch.
func (m *Model) PageSize() int {
	return m.pageSize
}

// State returns the current state.
func (m *Model) State() State { //nolint:ireturn
	return m.store.State()
}

// CurrentState returns the observable current state. Subscribers are called
// on the model's loop.
func (m *Model) CurrentState() observable.Observable[State] { //nolint:ireturn
	return m.store.CurrentState()
}

// Apply dispatches action and starts the fetch it calls for, if any. It
// returns once the action has been dispatched; the fetch result is applied
// later, on the loop. The only errors are the loop's: it is stopped, or ctx
// is done. An action whose ctx is done before the loop reaches it is never
// dispatched; one already running completes even though Apply returns
// ctx.Err().
func (m *Model) Apply(ctx context.Context, action Action) error {
	if action == nil {
		return nil
	}

	return m.loop.Do(ctx, func(ctx context.Context) {
		m.apply(ctx, action)
	})
}

// ItemShown tells the model the item at index is about to be displayed. When
// it is the last loaded item and the model is Idle, the next page is
// requested.
func (m *Model) ItemShown(ctx context.Context, index int) error {
	return m.loop.Do(ctx, func(ctx context.Context) {
		idle, ok := m.store.State().(Idle)
		if !ok || index < len(idle.DataSource)-1 {
			return
		}

		m.apply(ctx, LoadNextPage{})
	})
}

// Close detaches the model from its dispatcher and stops its loop if the
// model created it. Fetches still in flight complete but are not applied.
func (m *Model) Close() error {
	if !m.closed.CompareAndSwap(false, true) {
		return nil
	}

	err := m.store.Close()

	if m.ownsLoop {
		m.loop.Stop()
	}

	return err
}

// apply runs on the loop.
func (m *Model) apply(ctx context.Context, action Action) {
	before := m.store.State().Name()

	m.dispatcher.Dispatch(ctx, action)

	// A Reload or Retry that moved the model to a first-page state restarts
	// the list: the fetch it asks for replaces whatever is in flight.
	restart := m.store.State().Name() != before

	switch action.(type) {
	case StartLoading, LoadNextPage:
		m.fetch(ctx, action.Name(), len(Items(m.store.State())), false)
	case Reload:
		m.fetch(ctx, action.Name(), 0, restart)
	case Retry:
		if m.recovery {
			m.fetch(ctx, action.Name(), 0, restart)
		}
	}
}

// fetch runs on the loop. The request outlives the caller's ctx: a pending
// fetch is never cancelled by what happens after it was issued, but when
// supersede is set its result is discarded.
func (m *Model) fetch(ctx context.Context, trigger string, offset int, supersede bool) {
	if supersede {
		if m.inFlight > 0 {
			logger.Get(ctx).Debug("Superseding fetches in flight",
				"model", m.name,
				"trigger", trigger,
				"pending", m.inFlight)
		}

		m.generation++
		m.inFlight = 0
	} else if m.inFlight > 0 && m.overlap == OverlapReject {
		fetchesRejected.WithLabelValues(m.name, trigger).Inc()

		logger.Get(ctx).Debug("Fetch already in flight, skipping",
			"model", m.name,
			"trigger", trigger,
			"offset", offset)

		return
	}

	m.inFlight++
	generation := m.generation

	ctx = logger.With(context.WithoutCancel(ctx), "fetchId", uuid.NewString())
	ctx, span := startFetchSpan(ctx, m.name, trigger, offset, m.pageSize)
	start := time.Now()

	logger.Get(ctx).Debug("Fetching page",
		"model", m.name,
		"trigger", trigger,
		"offset", offset,
		"size", m.pageSize)

	fut := m.service.FetchPage(ctx, offset, m.pageSize)
	if fut == nil {
		fut = future.Completed(Page{}, errNoFuture)
	}

	fut.OnResult(func(result future.Result[Page]) {
		err := m.loop.Post(func(context.Context) {
			if generation != m.generation {
				fetchesDropped.WithLabelValues(m.name, trigger).Inc()
				span.SetAttributes(attribute.Bool("superseded", true))
				span.End()

				logger.Get(ctx).Debug("Dropping superseded fetch result",
					"model", m.name,
					"trigger", trigger,
					"offset", offset)

				return
			}

			m.inFlight--

			if m.closed.Load() {
				span.End()

				return
			}

			m.complete(ctx, span, trigger, offset, start, result)
		})
		if err != nil {
			span.RecordError(err)
			span.End()

			logger.Get(ctx).Warn("Dropping fetch result",
				"model", m.name,
				"trigger", trigger,
				"error", err)
		}
	})
}

// complete turns a fetch result into the follow-up action and applies it. It
// runs on the loop.
func (m *Model) complete(
	ctx context.Context,
	span trace.Span,
	trigger string,
	offset int,
	start time.Time,
	result future.Result[Page],
) {
	defer span.End()

	var (
		next    Action
		outcome = outcomeSuccess
	)

	page, err := result.Get()

	switch {
	case err != nil:
		fetchErr := AsError(err)
		outcome = outcomeFailure
		next = LoadingFailed{Err: fetchErr}

		span.RecordError(fetchErr)
		span.SetStatus(codes.Error, fetchErr.Error())

		logger.Get(ctx).Warn("Page fetch failed",
			"model", m.name,
			"trigger", trigger,
			"offset", offset,
			"kind", fetchErr.Kind.String(),
			"error", fetchErr)
	case len(page.Items) == 0 || offset+len(page.Items) >= page.Total:
		// An empty page means the service has nothing past offset.
		next = LoadedAll{Page: page.Items}
	default:
		next = LoadedThereIsMore{Page: page.Items}
	}

	fetchesTotal.WithLabelValues(m.name, trigger, outcome).Inc()
	fetchDuration.WithLabelValues(m.name, outcome).Observe(time.Since(start).Seconds())

	span.SetAttributes(
		attribute.Int("items", len(page.Items)),
		attribute.Int("total", page.Total),
		attribute.String("result", next.Name()),
	)

	m.apply(ctx, next)
}
