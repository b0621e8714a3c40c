package statemachine

const defaultName = "statemachine"

type options struct {
	name   string
	logger Logger
}

// Option configures a Machine.
type Option func(*options)

// WithName sets the name used in logs, metrics and spans.
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithLogger sets the transition logging hook. Without it the machine does
// not log.
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}
