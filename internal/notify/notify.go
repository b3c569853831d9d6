// Package notify delivers operator notifications for guestbook events
// (pending moderation, daily digests) to chat platforms.
package notify

import (
	"context"
	"fmt"

	"github.com/zulandar/guestbook/internal/models"
	"go.uber.org/zap"
)

// Notification is one operator-facing event.
type Notification struct {
	Title string
	Body  string
}

// Adapter is the interface that platform-specific implementations must
// satisfy. Each adapter delivers notifications to a single chat platform.
type Adapter interface {
	// Send delivers a notification to the platform.
	Send(ctx context.Context, n Notification) error

	// Close gracefully shuts down the adapter connection.
	Close() error
}

// Notifier dispatches guestbook events to an adapter. Every send is
// best-effort: failures are logged and never propagated to the submission
// path.
type Notifier struct {
	adapter Adapter
	log     *zap.Logger
}

// New creates a Notifier over the given adapter.
func New(adapter Adapter, log *zap.Logger) *Notifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &Notifier{adapter: adapter, log: log}
}

// MessagePending notifies the operator that a new message awaits
// moderation. Implements guestbook.PendingNotifier.
func (n *Notifier) MessagePending(ctx context.Context, msg *models.Message) {
	n.send(ctx, Notification{
		Title: fmt.Sprintf("Guestbook message %d pending moderation", msg.ID),
		Body:  firstLine(msg.Text, 200),
	})
}

// Close shuts down the underlying adapter.
func (n *Notifier) Close() error {
	return n.adapter.Close()
}

func (n *Notifier) send(ctx context.Context, note Notification) {
	if err := n.adapter.Send(ctx, note); err != nil {
		n.log.Warn("notification failed", zap.String("title", note.Title), zap.Error(err))
	}
}

// firstLine truncates text to its first line, capped at width runes.
func firstLine(text string, width int) string {
	for i, r := range text {
		if r == '\n' {
			text = text[:i]
			break
		}
	}
	runes := []rune(text)
	if len(runes) > width {
		return string(runes[:width]) + "..."
	}
	return text
}
