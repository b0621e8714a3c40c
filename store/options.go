package store

import "github.com/amp-labs/amp-flux/statemachine"

type options struct {
	name        string
	machineOpts []statemachine.Option
}

// Option configures a Store.
type Option func(*options)

// WithName overrides the store name used for logs and metrics. It is also
// passed to the machine.
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithMachineOptions passes options through to the underlying state machine.
func WithMachineOptions(opts ...statemachine.Option) Option {
	return func(o *options) {
		o.machineOpts = append(o.machineOpts, opts...)
	}
}
