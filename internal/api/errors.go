package api

import "errors"

// API errors. Where the remote wiki signals a condition through an API
// error code, the client maps it to one of these sentinels so callers can
// branch with errors.Is instead of string matching.
var (
	// ErrEditConflict is returned when a save lost a race against another
	// editor. The caller should refetch and retry or give up on the page.
	ErrEditConflict = errors.New("edit conflict")

	// ErrBlocked is returned when the bot account is blocked on the wiki.
	ErrBlocked = errors.New("account is blocked")

	// ErrNotLoggedIn is returned when a write is attempted without login.
	ErrNotLoggedIn = errors.New("not logged in")

	// ErrBadResponse is returned when a query response is missing fields
	// the API contract promises.
	ErrBadResponse = errors.New("malformed API response")
)
