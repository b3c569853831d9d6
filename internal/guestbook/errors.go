// Package guestbook implements the submission pipeline and message store.
package guestbook

import "errors"

// Terminal submission and moderation outcomes. Anything else coming out of
// the store is an infrastructure failure and fails the whole request.
var (
	// ErrPayloadTooLarge is returned before sanitization when the raw
	// message exceeds the configured length.
	ErrPayloadTooLarge = errors.New("guestbook: message too long")

	// ErrEmptyContent is returned when nothing printable survives
	// sanitization and trimming.
	ErrEmptyContent = errors.New("guestbook: no printable content")

	// ErrRateLimited is returned when the submitter exceeded the
	// per-address window.
	ErrRateLimited = errors.New("guestbook: rate limited")

	// ErrDailyLimit is returned when today's accepted-message ceiling has
	// been reached.
	ErrDailyLimit = errors.New("guestbook: daily message limit reached")

	// ErrNotFound is returned when a moderation target does not exist or
	// was already approved.
	ErrNotFound = errors.New("guestbook: message not found")
)
