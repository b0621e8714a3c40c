package statemachine

import (
	"context"

	"github.com/amp-labs/amp-flux/logger"
)

// Logger provides logging hooks for state machine transitions.
type Logger interface {
	TransitionExecuted(ctx context.Context, machine, from, to, action string, index int)
	TransitionUnmatched(ctx context.Context, machine, state, action string)
}

// DefaultLogger implements Logger on top of the logger package.
type DefaultLogger struct{}

// NewDefaultLogger creates a new default logger.
func NewDefaultLogger() *DefaultLogger {
	return &DefaultLogger{}
}

func (l *DefaultLogger) TransitionExecuted(ctx context.Context, machine, from, to, action string, index int) {
	logger.Get(ctx).InfoContext(ctx, "Transition executed",
		"machine", machine,
		"from", from,
		"to", to,
		"action", action,
		"transition_index", index,
	)
}

// TransitionUnmatched logs at debug level: an unmatched pair is defined
// behavior, not an error.
func (l *DefaultLogger) TransitionUnmatched(ctx context.Context, machine, state, action string) {
	logger.Get(ctx).DebugContext(ctx, "No transition matched",
		"machine", machine,
		"state", state,
		"action", action,
	)
}
