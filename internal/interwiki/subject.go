package interwiki

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/gowikibot/wikibot/internal/api"
	"github.com/gowikibot/wikibot/internal/config"
	"github.com/gowikibot/wikibot/internal/family"
	"github.com/gowikibot/wikibot/internal/model"
)

// Subject tracks the interwiki resolution of one origin page. Every page
// the subject has ever learned about is in exactly one of three states:
// queued for fetching (todo), requested but not yet answered (pending),
// or fetched and judged (done or dropped). The partition is maintained
// structurally: pages move between the sets only through WhatsNextFor
// and BatchLoaded.
type Subject struct {
	fam      *family.Family
	famCfg   config.FamilyConfig
	resolver Resolver
	logger   *slog.Logger

	followRedirects bool

	originSite  family.Site
	originTitle string
	origin      *model.Page

	skipped    bool
	skipReason string

	// mu guards all bookkeeping below. Batches from different sites may
	// be dispatched to the same subject concurrently.
	mu       sync.Mutex
	todo     *PageTree
	pending  map[model.PageRef]bool
	known    map[model.PageRef]bool
	done     map[string][]*model.Page
	doneRefs map[model.PageRef]*model.Page

	// deferred holds pages fetched before the origin itself arrived;
	// origin-relative policy checks run once the origin is known.
	deferred []*model.Page

	// linkedFromOrigin marks pages the origin links to directly. Direct
	// links outrank transitively discovered candidates in conflicts.
	linkedFromOrigin map[model.PageRef]bool

	conflicts []model.Conflict
	fetched   int
}

// SubjectOption configures a Subject.
type SubjectOption func(*Subject)

// WithSubjectLogger sets a custom logger.
func WithSubjectLogger(logger *slog.Logger) SubjectOption {
	return func(s *Subject) {
		s.logger = logger
	}
}

// WithFollowRedirects makes a redirect origin resolve to its target
// instead of skipping the subject.
func WithFollowRedirects(follow bool) SubjectOption {
	return func(s *Subject) {
		s.followRedirects = follow
	}
}

// NewSubject creates a Subject for one origin page and seeds its work
// queue with the origin plus any hint-translated pages.
func NewSubject(fam *family.Family, famCfg config.FamilyConfig, resolver Resolver,
	originSite family.Site, title string, hints []string, opts ...SubjectOption) *Subject {

	s := &Subject{
		fam:              fam,
		famCfg:           famCfg,
		resolver:         resolver,
		originSite:       originSite,
		originTitle:      model.NormalizeTitle(title),
		todo:             NewPageTree(),
		pending:          make(map[model.PageRef]bool),
		known:            make(map[model.PageRef]bool),
		done:             make(map[string][]*model.Page),
		doneRefs:         make(map[model.PageRef]*model.Page),
		linkedFromOrigin: make(map[model.PageRef]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.resolver == nil {
		s.resolver = AutoResolver{}
	}

	s.enqueue(originSite, s.originTitle, false)
	s.applyHints(hints)
	return s
}

// Origin returns the origin's site and title. The title reflects any
// redirect the subject has followed.
func (s *Subject) Origin() model.PageRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.PageRef{Site: s.originSite.Key(), Title: s.originTitle}
}

// applyHints translates hint strings into queued pages. Supported forms:
// "code:Title", bare "code" (origin title on that code's wiki) and "all"
// (origin title on every known code). Unknown codes are logged and
// dropped.
func (s *Subject) applyHints(hints []string) {
	for _, hint := range hints {
		hint = strings.TrimSpace(hint)
		if hint == "" {
			continue
		}
		if hint == "all" {
			for _, code := range s.fam.Codes {
				if code == s.originSite.Code {
					continue
				}
				s.enqueue(family.Site{Family: s.fam, Code: code}, s.originTitle, false)
			}
			continue
		}

		code, title, hasTitle := strings.Cut(hint, ":")
		canonical, err := s.fam.Canonical(code)
		if err != nil {
			s.logger.Debug("dropping hint with unknown code", "hint", hint, "origin", s.originTitle)
			continue
		}
		site := family.Site{Family: s.fam, Code: canonical}
		if !hasTitle || strings.TrimSpace(title) == "" {
			s.enqueue(site, s.originTitle, false)
			continue
		}
		s.enqueue(site, model.NormalizeTitle(model.SectionlessTitle(title)), false)
	}
}

// enqueue adds a page to the todo set unless it is already known or on
// the ignore list. Returns whether the page was added.
func (s *Subject) enqueue(site family.Site, title string, fromOrigin bool) bool {
	if title == "" {
		return false
	}
	ref := model.PageRef{Site: site.Key(), Title: title}
	if fromOrigin {
		s.linkedFromOrigin[ref] = true
	}
	if s.known[ref] {
		return false
	}
	if s.famCfg.IgnoredTitle(site.Code, title) {
		s.logger.Debug("ignoring listed title", "page", ref)
		return false
	}
	s.known[ref] = true
	s.todo.Add(&model.Page{Site: site, Title: title})
	return true
}

// WhatsNextFor moves every page queued for a site from todo to pending
// and returns their titles, at most limit of them (0 means no limit).
func (s *Subject) WhatsNextFor(site family.Site, limit int) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	queued := s.todo.Pages(site)
	if limit <= 0 || limit > len(queued) {
		limit = len(queued)
	}
	if limit == len(queued) {
		queued = s.todo.PopSite(site)
	} else {
		// Partial drain: take the front of the queue, requeue the rest.
		all := s.todo.PopSite(site)
		queued = all[:limit]
		for _, p := range all[limit:] {
			s.todo.Add(p)
		}
	}

	titles := make([]string, 0, len(queued))
	for _, p := range queued {
		s.pending[p.Ref()] = true
		titles = append(titles, p.Title)
	}
	return titles
}

// QueuedFor returns how many pages the subject has queued for a site.
func (s *Subject) QueuedFor(site family.Site) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.todo.SiteCount(site)
}

// QueuedSites returns the sites the subject still wants fetched.
func (s *Subject) QueuedSites() []family.Site {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]family.Site(nil), s.todo.Sites()...)
}

// BatchLoaded consumes a fetched batch: every page this subject had
// pending on the batch's site is resolved, passed through the policy
// chain, and either accepted into done (with its language links enqueued
// as new work) or dropped.
func (s *Subject) BatchLoaded(batch *api.BatchResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byTitle := make(map[string]*model.Page, len(batch.Pages))
	for _, p := range batch.Pages {
		byTitle[p.Title] = p
	}

	siteKey := batch.Site.Key()
	for ref := range s.pending {
		if s.skipped {
			return nil
		}
		if ref.Site != siteKey {
			continue
		}
		delete(s.pending, ref)

		final := batch.Resolve(ref.Title)
		page := byTitle[final]
		if page == nil {
			s.logger.Debug("requested title absent from batch", "page", ref)
			continue
		}
		s.fetched++

		isOrigin := ref.Site == s.originSite.Key() && ref.Title == s.originTitle
		if isOrigin {
			if err := s.loadOrigin(page, batch.Redirected(ref.Title)); err != nil {
				return err
			}
			continue
		}
		if err := s.judge(page); err != nil {
			return err
		}
	}
	return nil
}

// loadOrigin applies origin-specific policy, then flushes pages that
// arrived before the origin through the regular policy chain.
func (s *Subject) loadOrigin(page *model.Page, redirected bool) error {
	if page.Missing {
		s.skip("origin page does not exist")
		return nil
	}
	if redirected {
		if !s.followRedirects {
			s.skip(fmt.Sprintf("origin is a redirect to %s", page.Title))
			return nil
		}
		s.originTitle = page.Title
	}
	s.origin = page
	s.accept(page, true)

	deferred := s.deferred
	s.deferred = nil
	for _, d := range deferred {
		if err := s.judge(d); err != nil {
			return err
		}
	}
	return nil
}

// judge runs the policy chain on a fetched non-origin page.
func (s *Subject) judge(page *model.Page) error {
	if page.Missing {
		s.logger.Debug("dropping missing page", "page", page.Ref())
		return nil
	}
	if s.famCfg.IgnoredTitle(page.Site.Code, page.Title) {
		s.logger.Debug("ignoring listed title", "page", page.Ref())
		return nil
	}
	if _, ok := s.doneRefs[page.Ref()]; ok {
		return nil // reached through another path already
	}

	if s.origin == nil {
		// Origin not loaded yet; origin-relative checks must wait.
		s.deferred = append(s.deferred, page)
		return nil
	}

	if page.IsDisambig != s.origin.IsDisambig {
		reason := "is a disambiguation page"
		if s.origin.IsDisambig {
			reason = "is not a disambiguation page"
		}
		ok, err := s.resolver.ConfirmMismatch(s.origin, page, reason)
		if err != nil {
			return err
		}
		if !ok {
			s.logger.Debug("dropping disambiguation mismatch", "page", page.Ref())
			return nil
		}
	}

	if page.Namespace != s.origin.Namespace {
		reason := fmt.Sprintf("is in namespace %d, not %d", page.Namespace, s.origin.Namespace)
		ok, err := s.resolver.ConfirmMismatch(s.origin, page, reason)
		if err != nil {
			return err
		}
		if !ok {
			s.logger.Debug("dropping namespace mismatch", "page", page.Ref())
			return nil
		}
	}

	s.accept(page, false)
	return nil
}

// accept marks a page done and enqueues its language links as new work.
func (s *Subject) accept(page *model.Page, isOrigin bool) {
	ref := page.Ref()
	s.doneRefs[ref] = page
	s.done[page.Site.Key()] = append(s.done[page.Site.Key()], page)
	s.known[ref] = true

	for _, link := range page.LangLinks {
		canonical, err := s.fam.Canonical(link.Code)
		if err != nil {
			s.logger.Debug("dropping link with unknown code",
				"page", ref, "link", link.String())
			continue
		}
		site := family.Site{Family: s.fam, Code: canonical}
		s.enqueue(site, link.Title, isOrigin)
	}
}

// skip abandons the subject. Queued work is cleared so IsDone holds.
func (s *Subject) skip(reason string) {
	s.skipped = true
	s.skipReason = reason
	s.todo = NewPageTree()
	s.pending = make(map[model.PageRef]bool)
	s.logger.Debug("subject skipped", "origin", s.originTitle, "reason", reason)
}

// OriginPage returns the loaded origin page, or nil when the origin was
// never fetched.
func (s *Subject) OriginPage() *model.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.origin
}

// AbortSite drops every in-flight request for a site, for use when the
// site's fetch failed. The subject continues with partial results.
func (s *Subject) AbortSite(site family.Site) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := site.Key()
	for ref := range s.pending {
		if ref.Site == key {
			delete(s.pending, ref)
		}
	}
}

// IsDone reports whether the closure is complete: nothing queued and
// nothing in flight.
func (s *Subject) IsDone() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.skipped || (s.todo.Empty() && len(s.pending) == 0)
}

// Result finalizes the subject: one page is chosen per site, conflicts
// are settled or recorded, and the outcome is returned. Only valid once
// IsDone holds.
func (s *Subject) Result() (*model.PageResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := &model.PageResult{
		Origin:       model.PageRef{Site: s.originSite.Key(), Title: s.originTitle},
		PagesFetched: s.fetched,
	}
	if s.skipped {
		res.Status = model.StatusSkipped
		res.Reason = s.skipReason
		return res, nil
	}
	if s.origin == nil {
		res.Status = model.StatusFailed
		res.Reason = "origin page was never loaded"
		return res, nil
	}

	// Deterministic site order: family code order.
	codes := make([]string, 0, len(s.done))
	for key := range s.done {
		_, code, _ := strings.Cut(key, ":")
		codes = append(codes, code)
	}
	s.fam.SortCodes(codes)

	for _, code := range codes {
		site := family.Site{Family: s.fam, Code: code}
		candidates := s.done[site.Key()]

		if site.Equal(s.originSite) {
			// Never emit a self-link; a different page turning up on
			// the origin's own site is a conflict worth surfacing.
			for _, c := range candidates {
				if !c.SameAs(s.origin) {
					res.Conflicts = append(res.Conflicts, model.Conflict{
						Site:       site.Key(),
						Candidates: []string{s.origin.Title, c.Title},
					})
				}
			}
			continue
		}

		chosen, conflict, err := s.choose(site, candidates)
		if err != nil {
			return nil, err
		}
		if conflict != nil {
			res.Conflicts = append(res.Conflicts, *conflict)
			continue
		}
		if chosen != nil {
			res.Links = append(res.Links, model.LangLink{Code: code, Title: chosen.Title})
		}
	}

	if len(res.Conflicts) > 0 {
		res.Status = model.StatusConflicted
	}
	return res, nil
}

// choose picks one page among a site's candidates. Preference order:
// sole candidate, sole candidate linked directly from the origin, the
// resolver's pick, otherwise a recorded conflict.
func (s *Subject) choose(site family.Site, candidates []*model.Page) (*model.Page, *model.Conflict, error) {
	switch len(candidates) {
	case 0:
		return nil, nil, nil
	case 1:
		return candidates[0], nil, nil
	}

	var direct []*model.Page
	for _, c := range candidates {
		if s.linkedFromOrigin[c.Ref()] {
			direct = append(direct, c)
		}
	}
	if len(direct) == 1 {
		return direct[0], nil, nil
	}

	picked, err := s.resolver.PickPage(s.origin, site, candidates)
	if err != nil {
		return nil, nil, err
	}
	if picked != nil {
		return picked, nil, nil
	}

	titles := make([]string, 0, len(candidates))
	for _, c := range candidates {
		titles = append(titles, c.Title)
	}
	return nil, &model.Conflict{Site: site.Key(), Candidates: titles}, nil
}
