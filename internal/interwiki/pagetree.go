package interwiki

import (
	"github.com/gowikibot/wikibot/internal/family"
	"github.com/gowikibot/wikibot/internal/model"
)

// PageTree is a multimap from site to pages, preserving both the order
// sites were first seen and the order pages were added per site.
// A page lives under exactly its own site; Add enforces that by keying
// on the page's Site field, so the invariant holds structurally.
type PageTree struct {
	order []family.Site
	pages map[string][]*model.Page
	refs  map[model.PageRef]bool
}

// NewPageTree creates an empty PageTree.
func NewPageTree() *PageTree {
	return &PageTree{
		pages: make(map[string][]*model.Page),
		refs:  make(map[model.PageRef]bool),
	}
}

// Add inserts a page under its site. It returns false when the page is
// already present; duplicates are never stored.
func (t *PageTree) Add(p *model.Page) bool {
	ref := p.Ref()
	if t.refs[ref] {
		return false
	}
	key := p.Site.Key()
	if _, ok := t.pages[key]; !ok {
		t.order = append(t.order, p.Site)
	}
	t.pages[key] = append(t.pages[key], p)
	t.refs[ref] = true
	return true
}

// Pages returns the pages queued for a site, in insertion order.
// The returned slice is owned by the tree; callers must not mutate it.
func (t *PageTree) Pages(site family.Site) []*model.Page {
	return t.pages[site.Key()]
}

// PopSite removes and returns all pages queued for a site.
func (t *PageTree) PopSite(site family.Site) []*model.Page {
	key := site.Key()
	pages := t.pages[key]
	if pages == nil {
		return nil
	}
	delete(t.pages, key)
	for i, s := range t.order {
		if s.Key() == key {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	for _, p := range pages {
		delete(t.refs, p.Ref())
	}
	return pages
}

// Sites returns the sites with queued pages, in first-seen order.
func (t *PageTree) Sites() []family.Site {
	return t.order
}

// SiteCount returns how many pages are queued for a site.
func (t *PageTree) SiteCount(site family.Site) int {
	return len(t.pages[site.Key()])
}

// Len returns the total number of queued pages.
func (t *PageTree) Len() int {
	return len(t.refs)
}

// Empty reports whether no page is queued.
func (t *PageTree) Empty() bool {
	return len(t.refs) == 0
}
