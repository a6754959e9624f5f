// Package dialog is the user-notification surface the components talk to:
// blocking alerts for failures and yes/no confirmations.
package dialog

import (
	"context"

	"github.com/dmitrijs2005/photowall/internal/logging"
)

type Dialog interface {
	// Alert shows msg to the user.
	Alert(ctx context.Context, msg string)
	// Confirm asks the user a yes/no question.
	Confirm(ctx context.Context, msg string) bool
}

// Headless is used where there is no one to ask: the request that triggered
// an action is its confirmation, and alerts are only logged.
type Headless struct {
	Logger logging.Logger
}

func (h Headless) Alert(ctx context.Context, msg string) {
	if h.Logger != nil {
		h.Logger.Warn(ctx, "alert", "message", msg)
	}
}

func (h Headless) Confirm(ctx context.Context, msg string) bool {
	return true
}
