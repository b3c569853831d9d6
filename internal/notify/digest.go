package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/zulandar/guestbook/internal/guestbook"
	"go.uber.org/zap"
)

// cronParser uses standard 5-field cron expressions (minute, hour, dom, month, dow).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// DigestReport holds the counts for one digest notification.
type DigestReport struct {
	Date      string // UTC calendar date
	Submitted int64  // messages accepted today
	Pending   int64  // messages awaiting moderation
	Approved  int64  // gallery size
}

// BuildDigest queries the store for the digest counts as of now.
func BuildDigest(store *guestbook.Store, now time.Time) (*DigestReport, error) {
	submitted, err := store.CountToday(now)
	if err != nil {
		return nil, fmt.Errorf("notify: digest: %w", err)
	}
	pending, err := store.CountPending()
	if err != nil {
		return nil, fmt.Errorf("notify: digest: %w", err)
	}
	approved, err := store.CountApproved()
	if err != nil {
		return nil, fmt.Errorf("notify: digest: %w", err)
	}
	return &DigestReport{
		Date:      now.UTC().Format("2006-01-02"),
		Submitted: submitted,
		Pending:   pending,
		Approved:  approved,
	}, nil
}

// Notification renders the report for delivery.
func (r *DigestReport) Notification() Notification {
	return Notification{
		Title: fmt.Sprintf("Guestbook digest for %s", r.Date),
		Body: fmt.Sprintf("%d submitted today, %d pending moderation, %d in the gallery",
			r.Submitted, r.Pending, r.Approved),
	}
}

// RunDigest sends a digest on the given cron schedule until ctx is
// cancelled. It returns immediately with an error when expr does not parse.
func (n *Notifier) RunDigest(ctx context.Context, store *guestbook.Store, expr string) error {
	sched, err := cronParser.Parse(expr)
	if err != nil {
		return fmt.Errorf("notify: parse digest schedule %q: %w", expr, err)
	}

	for {
		next := sched.Next(time.Now())
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(time.Until(next)):
		}

		report, err := BuildDigest(store, time.Now())
		if err != nil {
			n.log.Warn("digest build failed", zap.Error(err))
			continue
		}
		n.send(ctx, report.Notification())
	}
}
