package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values. Where a MediaWiki API limit applies the
// default sits at the limit for unflagged clients.
const (
	// DefaultMaxQuerySize is the number of titles per batched query
	// request. 50 is the API maximum for clients without the apihighlimits
	// right; bots with the right may raise it to 500 via --query-size.
	DefaultMaxQuerySize = 50

	// DefaultMaxOpenSubjects bounds how many origin pages are resolved
	// simultaneously. More open subjects give bigger, more efficient
	// batches at the cost of memory and of work lost on interruption.
	DefaultMaxOpenSubjects = 100

	// DefaultConcurrency is how many sites may be queried in parallel.
	// Reads are cheap for the wiki; 4 keeps the bot well under the
	// connection limits the Wikimedia sites ask clients to respect.
	DefaultConcurrency = 4

	// DefaultThrottle is the minimum delay between page saves.
	// Write throttling is a bot-policy requirement on most wikis.
	DefaultThrottle = 10 * time.Second

	// DefaultMaxlag is the maxlag politeness parameter sent with every
	// request. 5 seconds is the value Wikimedia documentation recommends
	// for bots.
	DefaultMaxlag = 5

	// DefaultUserAgent identifies the bot in API requests, as the
	// Wikimedia User-Agent policy requires.
	DefaultUserAgent = "wikibot/1.0 (https://github.com/gowikibot/wikibot)"

	// AppName is the application name used for XDG directory paths.
	AppName = "wikibot"
)

// Config holds all runtime options for a bot run. It is populated from CLI
// flags plus the project file and passed by dependency injection; there is
// no global configuration state.
type Config struct {
	// FamilyName selects the wiki family, e.g. "wikipedia".
	FamilyName string

	// LangCode is the language code of the origin site, e.g. "en".
	LangCode string

	// MaxQuerySize caps titles per batched query request.
	MaxQuerySize int

	// MaxOpenSubjects caps simultaneously tracked origin pages.
	MaxOpenSubjects int

	// Concurrency caps parallel per-site fetches.
	Concurrency int

	// Throttle is the minimum delay between page saves.
	Throttle time.Duration

	// Maxlag is the maxlag parameter value, in seconds.
	Maxlag int

	// UserAgent identifies the bot in requests.
	UserAgent string

	// Autonomous disables interactive conflict prompts; conflicts are
	// settled by policy or recorded unresolved.
	Autonomous bool

	// DryRun computes and reports changes without saving any page.
	DryRun bool

	// FollowRedirects makes the engine treat a redirect origin as its
	// target instead of skipping it.
	FollowRedirects bool

	// Hints are extra starting points in "code:Title" (or "code", or
	// "all") form, merged into every subject.
	Hints []string

	// Verbose enables slog.LevelDebug output.
	Verbose bool

	// ProjectFilePath is an explicit path to the .wikibot file. Empty
	// means search the usual locations.
	ProjectFilePath string

	// Project holds the loaded project file. Populated by the loader.
	Project *File

	// JSONReport and MarkdownReport select the report format.
	// Mutually exclusive; default is the plain text report.
	JSONReport     bool
	MarkdownReport bool

	// ReportFile writes the report to a file instead of stdout.
	ReportFile string

	// DBDir is the directory holding the run-history database.
	DBDir string

	// SaveHistory enables persisting run results to the database.
	SaveHistory bool

	// GeneratorArgs are the page-source arguments, e.g. "-cat:Physics".
	GeneratorArgs []string
}

// NewConfig creates a Config with defaults. Many defaults are non-zero, so
// construction goes through here rather than relying on zero values.
func NewConfig() *Config {
	return &Config{
		FamilyName:      "wikipedia",
		MaxQuerySize:    DefaultMaxQuerySize,
		MaxOpenSubjects: DefaultMaxOpenSubjects,
		Concurrency:     DefaultConcurrency,
		Throttle:        DefaultThrottle,
		Maxlag:          DefaultMaxlag,
		UserAgent:       DefaultUserAgent,
	}
}

// XDGDataDir returns the XDG data directory for wikibot.
// On Linux: ~/.local/share/wikibot
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for wikibot.
// On Linux: ~/.config/wikibot
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks the configuration, returning the first problem found.
// It runs once after flag parsing, before any network traffic.
func (c *Config) Validate() error {
	if c.LangCode == "" {
		return ErrNoLangCode
	}
	if c.MaxQuerySize <= 0 || c.MaxQuerySize > 500 {
		return ErrInvalidQuerySize
	}
	if c.MaxOpenSubjects <= 0 {
		return ErrInvalidOpenSubjects
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.Throttle < 0 {
		return ErrInvalidThrottle
	}
	if c.Maxlag < 0 {
		return ErrInvalidMaxlag
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	// Interactive prompts cannot be multiplexed across parallel fetch
	// loops in a way a human can follow.
	if !c.Autonomous && c.Concurrency > 1 {
		return ErrInteractiveConcurrency
	}
	return nil
}
