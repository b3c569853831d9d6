package guestbook

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/zulandar/guestbook/internal/models"
	"github.com/zulandar/guestbook/internal/printer"
	"github.com/zulandar/guestbook/internal/ratelimit"
	"github.com/zulandar/guestbook/internal/sanitize"
	"go.uber.org/zap"
)

// PendingNotifier is told about newly accepted messages so an operator can
// moderate them. Implementations must be best-effort: the submission
// outcome never depends on the notification.
type PendingNotifier interface {
	MessagePending(ctx context.Context, msg *models.Message)
}

// Service runs the submission pipeline: sanitize, rate-check, quota-check,
// persist, print.
type Service struct {
	store    *Store
	limiter  ratelimit.Limiter
	printer  printer.Client
	notifier PendingNotifier
	ceiling  int
	maxLen   int
	log      *zap.Logger
	now      func() time.Time
}

// ServiceOpts holds dependencies and limits for a Service.
type ServiceOpts struct {
	Store        *Store
	Limiter      ratelimit.Limiter
	Printer      printer.Client
	Notifier     PendingNotifier // optional
	DailyCeiling int             // default 30
	MaxLength    int             // code points, default 10000
	Log          *zap.Logger     // optional
}

// NewService creates the submission pipeline.
func NewService(opts ServiceOpts) *Service {
	if opts.DailyCeiling <= 0 {
		opts.DailyCeiling = 30
	}
	if opts.MaxLength <= 0 {
		opts.MaxLength = 10000
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	return &Service{
		store:    opts.Store,
		limiter:  opts.Limiter,
		printer:  opts.Printer,
		notifier: opts.Notifier,
		ceiling:  opts.DailyCeiling,
		maxLen:   opts.MaxLength,
		log:      opts.Log,
		now:      time.Now,
	}
}

// Submit runs one submission through the pipeline. remoteAddr is the
// submitter's network address; only its fingerprint is stored.
//
// Persisting is the point of no return: when the returned message is
// non-nil a row exists, even if err wraps printer.ErrUnavailable, since
// printing is best-effort and never rolls back the persist.
func (s *Service) Submit(ctx context.Context, text, remoteAddr string) (*models.Message, error) {
	if utf8.RuneCountInString(text) > s.maxLen {
		return nil, ErrPayloadTooLarge
	}

	clean := strings.TrimSpace(sanitize.Clean(text))
	if clean == "" {
		return nil, ErrEmptyContent
	}

	if !s.limiter.Allow(remoteAddr) {
		return nil, ErrRateLimited
	}

	msg, err := s.store.InsertUnderLimit(clean, s.now(), Fingerprint(remoteAddr), s.ceiling)
	if err != nil {
		return nil, err
	}
	s.log.Info("message accepted",
		zap.Uint("id", msg.ID),
		zap.String("fingerprint", msg.IPHash),
		zap.Int("length", utf8.RuneCountInString(clean)))

	if s.notifier != nil {
		s.notifier.MessagePending(ctx, msg)
	}

	if err := s.printer.Print(ctx, clean); err != nil {
		s.log.Warn("printer delivery failed, message kept",
			zap.Uint("id", msg.ID), zap.Error(err))
		return msg, err
	}
	return msg, nil
}
