package api

import (
	"context"
	"fmt"
	"strings"

	"cgt.name/pkg/go-mwclient/params"
	"github.com/antonholmquist/jason"

	"github.com/gowikibot/wikibot/internal/family"
	"github.com/gowikibot/wikibot/internal/model"
)

// apiMaxTitles is the hard per-request title limit for clients without
// the apihighlimits right.
const apiMaxTitles = 50

// BatchResult holds the outcome of one batched page fetch. Alongside the
// resolved pages it carries the API's normalization and redirect reports,
// so callers can map each requested title to the page that answered it.
type BatchResult struct {
	// Site is the wiki the batch was fetched from.
	Site family.Site

	// Pages are the resolved pages in response order.
	Pages []*model.Page

	// Normalized maps requested titles to their normalized form.
	Normalized map[string]string

	// Redirects maps redirect sources to their targets, as resolved
	// server-side by the redirects parameter.
	Redirects map[string]string

	// Requests counts HTTP round-trips spent on this batch, including
	// continuation requests.
	Requests int
}

// Resolve follows a requested title through normalization and the
// redirect chain to the title of the page that answered it.
func (b *BatchResult) Resolve(requested string) string {
	title := requested
	if n, ok := b.Normalized[title]; ok {
		title = n
	}
	// The server reports each redirect hop separately; chains are short
	// but bounded here anyway in case of a reported cycle.
	for range b.Redirects {
		t, ok := b.Redirects[title]
		if !ok {
			break
		}
		title = t
	}
	return title
}

// Redirected reports whether the requested title reached its page
// through at least one redirect hop.
func (b *BatchResult) Redirected(requested string) bool {
	title := requested
	if n, ok := b.Normalized[title]; ok {
		title = n
	}
	_, ok := b.Redirects[title]
	return ok
}

// FetchPages loads metadata for a set of titles in as few requests as
// possible: info, language links and the disambiguation page property,
// with redirects resolved server-side. Titles beyond the per-request
// limit are split into further batches transparently.
func (c *Client) FetchPages(ctx context.Context, titles []string) (*BatchResult, error) {
	result := &BatchResult{
		Site:       c.site,
		Normalized: make(map[string]string),
		Redirects:  make(map[string]string),
	}
	seen := make(map[string]*model.Page)

	for chunk := range chunkTitles(titles, apiMaxTitles) {
		p := params.Values{
			"action":    "query",
			"titles":    strings.Join(chunk, "|"),
			"prop":      "info|langlinks|pageprops",
			"lllimit":   "max",
			"ppprop":    "disambiguation",
			"redirects": "",
		}
		err := c.query(ctx, p, func(resp *jason.Object) error {
			result.Requests++
			return c.collectPages(resp, result, seen)
		})
		if err != nil {
			return nil, fmt.Errorf("batch fetch on %s failed: %w", c.site, err)
		}
	}

	c.logger.Debug("batch fetched",
		"site", c.site.Key(),
		"titles", len(titles),
		"pages", len(result.Pages),
		"requests", result.Requests,
	)
	return result, nil
}

// collectPages merges one query response into the batch result. With
// continuation, the same page can arrive in several responses carrying
// different slices of its language links; entries are merged by title.
func (c *Client) collectPages(resp *jason.Object, result *BatchResult, seen map[string]*model.Page) error {
	for _, kind := range []string{"normalized", "redirects"} {
		mappings, err := resp.GetObjectArray("query", kind)
		if err != nil {
			continue // absent when nothing was rewritten
		}
		for _, m := range mappings {
			from, ferr := m.GetString("from")
			to, terr := m.GetString("to")
			if ferr != nil || terr != nil {
				return fmt.Errorf("%w: %s entry without from/to", ErrBadResponse, kind)
			}
			if kind == "normalized" {
				result.Normalized[from] = to
			} else {
				result.Redirects[from] = to
			}
		}
	}

	pagesArray, err := resp.GetObjectArray("query", "pages")
	if err != nil {
		// A continuation response may carry only mapping data.
		return nil
	}

	for _, pageObj := range pagesArray {
		title, err := pageObj.GetString("title")
		if err != nil {
			return fmt.Errorf("%w: page without title", ErrBadResponse)
		}

		page, ok := seen[title]
		if !ok {
			page = &model.Page{Site: c.site, Title: title}
			if ns, err := pageObj.GetInt64("ns"); err == nil {
				page.Namespace = int(ns)
			}
			if missing, err := pageObj.GetBoolean("missing"); err == nil {
				page.Missing = missing
			}
			if redirect, err := pageObj.GetBoolean("redirect"); err == nil {
				page.IsRedirect = redirect
			}
			if touched, err := pageObj.GetString("touched"); err == nil {
				page.Touched = touched
			}
			if _, err := pageObj.GetString("pageprops", "disambiguation"); err == nil {
				page.IsDisambig = true
			}
			seen[title] = page
			result.Pages = append(result.Pages, page)
		}

		langlinks, err := pageObj.GetObjectArray("langlinks")
		if err != nil {
			continue // no links on this page, or none in this slice
		}
		for _, ll := range langlinks {
			code, cerr := ll.GetString("lang")
			target, terr := ll.GetString("title")
			if cerr != nil || terr != nil {
				return fmt.Errorf("%w: langlink without lang/title", ErrBadResponse)
			}
			page.LangLinks = append(page.LangLinks, model.LangLink{
				Code:  code,
				Title: model.NormalizeTitle(model.SectionlessTitle(target)),
			})
		}
	}
	return nil
}

// chunkTitles yields consecutive slices of at most size titles.
func chunkTitles(titles []string, size int) func(func([]string) bool) {
	return func(yield func([]string) bool) {
		for start := 0; start < len(titles); start += size {
			end := min(start+size, len(titles))
			if !yield(titles[start:end]) {
				return
			}
		}
	}
}
