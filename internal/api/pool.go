package api

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gowikibot/wikibot/internal/family"
)

// Pool hands out one Client per site, creating them on first use.
// Clients are cached for the lifetime of the run so cookies, tokens and
// throttle state survive across batches.
type Pool struct {
	userAgent string
	maxlag    int
	throttle  time.Duration
	logger    *slog.Logger

	// credentials, when set, are applied to every client before its
	// first write. Login is lazy: read-only runs never authenticate.
	username string
	password string

	mu      sync.Mutex
	clients map[string]*Client
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithPoolLogger sets the logger handed to every client.
func WithPoolLogger(logger *slog.Logger) PoolOption {
	return func(p *Pool) {
		p.logger = logger
	}
}

// WithPoolThrottle sets the per-site save throttle.
func WithPoolThrottle(d time.Duration) PoolOption {
	return func(p *Pool) {
		p.throttle = d
	}
}

// WithCredentials sets the bot account used for writes on every site.
func WithCredentials(username, password string) PoolOption {
	return func(p *Pool) {
		p.username = username
		p.password = password
	}
}

// NewPool creates a Pool.
func NewPool(userAgent string, maxlag int, opts ...PoolOption) *Pool {
	p := &Pool{
		userAgent: userAgent,
		maxlag:    maxlag,
		clients:   make(map[string]*Client),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// For returns the client for a site, creating it if needed.
func (p *Pool) For(site family.Site) (*Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if c, ok := p.clients[site.Key()]; ok {
		return c, nil
	}
	c, err := New(site, p.userAgent, p.maxlag,
		WithLogger(p.logger),
		WithThrottle(p.throttle),
	)
	if err != nil {
		return nil, err
	}
	p.clients[site.Key()] = c
	return c, nil
}

// LoginFor makes sure the client for a site is authenticated. A no-op
// when the pool has no credentials or the client is already logged in.
func (p *Pool) LoginFor(ctx context.Context, site family.Site) (*Client, error) {
	c, err := p.For(site)
	if err != nil {
		return nil, err
	}
	if p.username == "" || c.loggedIn {
		return c, nil
	}
	if err := c.Login(ctx, p.username, p.password); err != nil {
		return nil, err
	}
	return c, nil
}
