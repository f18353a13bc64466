// Package api wraps the MediaWiki web API for one or more sites.
//
// Transport is delegated to cgt.name/pkg/go-mwclient, which handles
// cookies, tokens, maxlag retries and API error decoding. This package
// adds what the bot framework needs on top: batched page metadata
// fetches with continuation, redirect and normalization bookkeeping,
// write throttling, and a per-site client pool.
//
// All blocking operations take a context. go-mwclient itself is not
// context-aware, so cancellation is honored at request boundaries: a
// cancelled context stops before the next HTTP round-trip.
package api
