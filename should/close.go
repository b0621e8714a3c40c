// Package should runs cleanup that ought to succeed and logs, rather than
// returns, its failure. It is meant for defer statements.
package should

import (
	"io"

	"github.com/amp-labs/amp-flux/logger"
)

// Close closes closer and logs msg at error level if that fails.
//
//	defer should.Close(model, "closing pagination model")
func Close(closer io.Closer, msg string) {
	if closer == nil {
		return
	}

	if err := closer.Close(); err != nil {
		logger.Get().Error(msg, "error", err)
	}
}
