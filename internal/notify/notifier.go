// Package notify delivers formatted text to the club's channels. The
// ledger core only produces report data; delivery is best-effort and a
// failure here never rolls back or blocks a ledger mutation.
package notify

import (
	"context"

	"courtledger-backend/internal/logger"
)

// Notifier pushes a block of text to one destination.
type Notifier interface {
	Send(ctx context.Context, text string) error
	Name() string
}

// Fanout delivers to every configured notifier, logging failures instead
// of propagating them.
type Fanout struct {
	notifiers []Notifier
}

func NewFanout(notifiers ...Notifier) *Fanout {
	return &Fanout{notifiers: notifiers}
}

func (f *Fanout) Send(ctx context.Context, text string) {
	for _, n := range f.notifiers {
		if err := n.Send(ctx, text); err != nil {
			logger.Error("Notification delivery failed", "notifier", n.Name(), "error", err)
		}
	}
}
