package pagination

import (
	"errors"
	"fmt"
	"strings"

	"github.com/amp-labs/amp-flux/dispatcher"
	"github.com/amp-labs/amp-flux/loop"
)

const (
	// DefaultPageSize is the number of items requested per fetch.
	DefaultPageSize = 5

	defaultName = "pagination"
)

// ErrUnknownOverlapPolicy is returned when parsing an unrecognized policy name.
var ErrUnknownOverlapPolicy = errors.New("unknown overlap policy")

// OverlapPolicy decides what happens when a fetch is requested while another
// one has not completed yet.
type OverlapPolicy int

const (
	// OverlapReject skips the new fetch. The action is still dispatched.
	OverlapReject OverlapPolicy = iota
	// OverlapAllow starts every requested fetch, so several may be in flight.
	OverlapAllow
)

func (p OverlapPolicy) String() string {
	switch p {
	case OverlapReject:
		return "reject"
	case OverlapAllow:
		return "allow"
	default:
		return fmt.Sprintf("OverlapPolicy(%d)", int(p))
	}
}

// ParseOverlapPolicy parses "reject" or "allow" (case-insensitive).
func ParseOverlapPolicy(s string) (OverlapPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "reject", "":
		return OverlapReject, nil
	case "allow":
		return OverlapAllow, nil
	default:
		return OverlapReject, fmt.Errorf("%w: %q", ErrUnknownOverlapPolicy, s)
	}
}

// UnmarshalText lets OverlapPolicy be read straight from configuration.
func (p *OverlapPolicy) UnmarshalText(text []byte) error {
	policy, err := ParseOverlapPolicy(string(text))
	if err != nil {
		return err
	}

	*p = policy

	return nil
}

type options struct {
	name       string
	dispatcher *dispatcher.Dispatcher
	loop       *loop.Loop
	pageSize   int
	overlap    OverlapPolicy
	recovery   bool
}

// Option configures a Model.
type Option func(*options)

// WithName names the model. The name labels its store, loop, logs and metrics.
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithDispatcher sets the dispatcher the model's actions go through. The
// default is dispatcher.Default().
func WithDispatcher(d *dispatcher.Dispatcher) Option {
	return func(o *options) {
		o.dispatcher = d
	}
}

// WithLoop runs the model on an existing loop. The model does not stop a loop
// it did not create.
func WithLoop(l *loop.Loop) Option {
	return func(o *options) {
		o.loop = l
	}
}

// WithPageSize sets the number of items per fetch. Non-positive sizes are ignored.
func WithPageSize(size int) Option {
	return func(o *options) {
		if size > 0 {
			o.pageSize = size
		}
	}
}

// WithOverlapPolicy sets how overlapping fetch requests are handled.
func WithOverlapPolicy(policy OverlapPolicy) Option {
	return func(o *options) {
		o.overlap = policy
	}
}

// WithRecovery enables the Retry transition out of Failed.
func WithRecovery() Option {
	return func(o *options) {
		o.recovery = true
	}
}
