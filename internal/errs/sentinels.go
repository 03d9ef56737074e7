// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a unique constraint violation (e.g., username taken).
	ErrAlreadyExists = errors.New("already exists")

	// ErrUnauthorized indicates failed authentication/authorization.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRateLimited indicates temporary sign-in lock due to rate limiting.
	ErrRateLimited = errors.New("rate limited")

	// ErrBoardFull indicates the message board has no free ornament positions left.
	ErrBoardFull = errors.New("tree is full")

	// ErrNoGifts indicates an unwrap was requested on an empty gift queue.
	ErrNoGifts = errors.New("no gifts to unwrap")

	// ErrUnwrapBusy indicates an unwrap is already in flight for this page.
	ErrUnwrapBusy = errors.New("unwrap already in progress")
)
