package model

import (
	"github.com/gowikibot/wikibot/internal/family"
)

// Page represents a remote wiki page, identified by its site, title and
// namespace. The local object is a cache of metadata fetched via the API;
// a page belongs to exactly one site for its whole lifetime.
type Page struct {
	// Site is the wiki this page lives on.
	Site family.Site `json:"site"`

	// Title is the canonical page title including any namespace prefix,
	// as normalized by the remote wiki (NFC, spaces, first letter upper).
	Title string `json:"title"`

	// Namespace is the MediaWiki namespace number (0 = articles).
	Namespace int `json:"namespace"`

	// Missing is true when the wiki reports no page under this title.
	Missing bool `json:"missing,omitempty"`

	// IsRedirect is true when the page is a redirect. RedirectTarget
	// holds the destination title when the API reported one.
	IsRedirect     bool   `json:"is_redirect,omitempty"`
	RedirectTarget string `json:"redirect_target,omitempty"`

	// IsDisambig is true when the page carries the disambiguation
	// page property.
	IsDisambig bool `json:"is_disambig,omitempty"`

	// LangLinks are the interwiki links recorded on the page, as
	// reported by prop=langlinks.
	LangLinks []LangLink `json:"langlinks,omitempty"`

	// Touched is the last-modified timestamp from prop=info, kept in
	// API form (ISO 8601). Used as the base timestamp for edit
	// conflict detection when saving.
	Touched string `json:"touched,omitempty"`
}

// Ref returns the page's identity key.
func (p *Page) Ref() PageRef {
	return PageRef{Site: p.Site.Key(), Title: p.Title}
}

// SameAs reports whether two pages denote the same remote resource.
func (p *Page) SameAs(other *Page) bool {
	return p.Site.Equal(other.Site) && p.Title == other.Title
}

// String returns "site:Title", e.g. "wikipedia:de:Berlin".
func (p *Page) String() string {
	return p.Site.Key() + ":" + p.Title
}

// PageRef is a comparable value identifying a page across the run.
// It is the map key for the todo/pending/done bookkeeping sets.
type PageRef struct {
	Site  string `json:"site"`
	Title string `json:"title"`
}

// String returns "site:Title".
func (r PageRef) String() string {
	return r.Site + ":" + r.Title
}
