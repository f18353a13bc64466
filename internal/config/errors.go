package config

import "errors"

// Configuration validation errors, returned by Config.Validate.
// Sentinel errors keep errors.Is usable by callers while the messages
// stay actionable for the CLI user.
var (
	// ErrNoLangCode is returned when no origin language code is given.
	ErrNoLangCode = errors.New("no language code: use --lang to select the origin site")

	// ErrInvalidQuerySize is returned when the batch query size is outside 1..500.
	// 500 is the API maximum even for clients with apihighlimits.
	ErrInvalidQuerySize = errors.New("invalid query size: must be between 1 and 500")

	// ErrInvalidOpenSubjects is returned when the open-subject bound is not positive.
	ErrInvalidOpenSubjects = errors.New("invalid open subjects: must be positive")

	// ErrInvalidConcurrency is returned when the fetch concurrency is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidThrottle is returned when the save throttle is negative.
	ErrInvalidThrottle = errors.New("invalid throttle: must be non-negative")

	// ErrInvalidMaxlag is returned when maxlag is negative.
	ErrInvalidMaxlag = errors.New("invalid maxlag: must be non-negative")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInteractiveConcurrency is returned when interactive conflict
	// resolution is combined with parallel fetching.
	ErrInteractiveConcurrency = errors.New("interactive mode requires --concurrency 1 (or use --autonomous)")
)
