// Package log provides logging with automatic masking of wiki credentials,
// built on top of the standard slog package.
//
// A bot logs in with a BotPassword and handles login, CSRF and rollback
// tokens on every write; any of these leaking into a shared logfile is a
// compromised account. The MaskingHandler wraps an arbitrary slog.Handler
// and redacts attribute values whose key or shape identifies them as
// credentials, so masking holds even in verbose mode.
//
// Usage:
//
//	logger := log.NewLogger(os.Stderr, true) // verbose=true
//	logger.Info("logged in", "lgpassword", pw) // value is masked
//	slog.SetDefault(logger)
package log
