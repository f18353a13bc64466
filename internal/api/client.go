package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	mwclient "cgt.name/pkg/go-mwclient"
	"cgt.name/pkg/go-mwclient/params"
	"github.com/antonholmquist/jason"

	"github.com/gowikibot/wikibot/internal/family"
)

// Client talks to one site's api.php endpoint.
type Client struct {
	site family.Site
	mw   *mwclient.Client

	logger   *slog.Logger
	throttle time.Duration
	loggedIn bool

	// mu serializes writes so the save throttle holds across goroutines.
	mu        sync.Mutex
	lastWrite time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithThrottle sets the minimum delay between page saves.
func WithThrottle(d time.Duration) Option {
	return func(c *Client) {
		c.throttle = d
	}
}

// New creates a Client for the given site. maxlag is the politeness
// parameter in seconds; 0 disables it (useful in tests against a local
// wiki).
func New(site family.Site, userAgent string, maxlag int, opts ...Option) (*Client, error) {
	mw, err := mwclient.New(site.APIURL(), userAgent)
	if err != nil {
		return nil, fmt.Errorf("failed to create API client for %s: %w", site, err)
	}
	if maxlag > 0 {
		mw.Maxlag.On = true
		mw.Maxlag.Timeout = strconv.Itoa(maxlag)
		mw.Maxlag.Retries = 3
	}

	c := &Client{
		site: site,
		mw:   mw,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c, nil
}

// Site returns the site this client is bound to.
func (c *Client) Site() family.Site {
	return c.site
}

// Login authenticates with a BotPassword. Reads work anonymously, so
// Login is only required before saving.
func (c *Client) Login(ctx context.Context, username, password string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.mw.Login(username, password); err != nil {
		return fmt.Errorf("login to %s failed: %w", c.site, err)
	}
	c.loggedIn = true
	c.logger.Info("logged in", "site", c.site.Key(), "user", username)
	return nil
}

// GetWikitext fetches the current wikitext and base timestamp of a page.
// The timestamp feeds SavePage's edit-conflict detection.
func (c *Client) GetWikitext(ctx context.Context, title string) (text, timestamp string, err error) {
	if err := ctx.Err(); err != nil {
		return "", "", err
	}
	text, timestamp, err = c.mw.GetPageByName(title)
	if err != nil {
		return "", "", fmt.Errorf("failed to fetch %s on %s: %w", title, c.site, err)
	}
	return text, timestamp, nil
}

// SavePage writes new wikitext to a page. baseTimestamp must be the
// timestamp returned by GetWikitext for the revision the new text was
// derived from; the wiki rejects the save with an edit conflict if the
// page changed in between.
func (c *Client) SavePage(ctx context.Context, title, text, summary, baseTimestamp string, minor bool) error {
	if !c.loggedIn {
		return ErrNotLoggedIn
	}
	if err := c.waitForThrottle(ctx); err != nil {
		return err
	}

	p := params.Values{
		"title":         title,
		"text":          text,
		"summary":       summary,
		"bot":           "",
		"basetimestamp": baseTimestamp,
	}
	if minor {
		p["minor"] = ""
	}

	err := c.mw.Edit(p)
	if err != nil {
		if errors.Is(err, mwclient.ErrEditNoChange) {
			// The wiki already has this exact text. Not a failure.
			return nil
		}
		var apiErr mwclient.APIError
		if errors.As(err, &apiErr) {
			switch apiErr.Code {
			case "editconflict":
				return fmt.Errorf("saving %s on %s: %w", title, c.site, ErrEditConflict)
			case "blocked", "autoblocked":
				return fmt.Errorf("saving %s on %s: %w", title, c.site, ErrBlocked)
			}
		}
		return fmt.Errorf("saving %s on %s: %w", title, c.site, err)
	}

	c.logger.Info("page saved",
		"site", c.site.Key(),
		"title", title,
		"summary", summary,
	)
	return nil
}

// waitForThrottle blocks until the save throttle allows another write,
// or the context is cancelled.
func (c *Client) waitForThrottle(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.throttle > 0 && !c.lastWrite.IsZero() {
		wait := c.throttle - time.Since(c.lastWrite)
		if wait > 0 {
			c.logger.Debug("throttling write", "site", c.site.Key(), "wait", wait)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
	}
	c.lastWrite = time.Now()
	return nil
}

// Query starts an auto-continuing API query. The generator package
// drives these lazily, one continuation round-trip at a time.
func (c *Client) Query(p params.Values) *mwclient.Query {
	return c.mw.NewQuery(p)
}

// query runs an auto-continuing query and passes every response to the
// collector. It is the shared plumbing for FetchPages and the generator
// iterators.
func (c *Client) query(ctx context.Context, p params.Values, collect func(resp *jason.Object) error) error {
	q := c.mw.NewQuery(p)
	for q.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := collect(q.Resp()); err != nil {
			return err
		}
	}
	return q.Err()
}
