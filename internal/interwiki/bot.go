package interwiki

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gowikibot/wikibot/internal/api"
	"github.com/gowikibot/wikibot/internal/config"
	"github.com/gowikibot/wikibot/internal/family"
	"github.com/gowikibot/wikibot/internal/model"
	"github.com/gowikibot/wikibot/internal/textlib"
)

// ErrLinksChanged is returned when the origin page's interwiki links
// changed between the scan and the save.
var ErrLinksChanged = errors.New("interwiki links changed since scan")

// PageFetcher loads page metadata in batches. api.Client implements it;
// tests substitute fakes.
type PageFetcher interface {
	FetchPages(ctx context.Context, titles []string) (*api.BatchResult, error)
}

// PageStore reads and writes page wikitext. api.Client implements it.
type PageStore interface {
	GetWikitext(ctx context.Context, title string) (text, timestamp string, err error)
	SavePage(ctx context.Context, title, text, summary, baseTimestamp string, minor bool) error
}

// TitleSource yields origin page titles. Iterators from the generator
// package satisfy it; Next returns io.EOF when exhausted.
type TitleSource interface {
	Next(ctx context.Context) (string, error)
}

// Bot schedules interwiki resolution across many concurrently tracked
// subjects. The scheduling goal is network efficiency: rather than
// resolving one origin at a time, the bot keeps up to MaxOpenSubjects
// origins open and each round fetches, per selected site, one batch
// containing queued pages from all of them.
type Bot struct {
	cfg        *config.Config
	fam        *family.Family
	famCfg     config.FamilyConfig
	originSite family.Site
	resolver   Resolver
	logger     *slog.Logger

	fetcherFor func(family.Site) (PageFetcher, error)
	storeFor   func(ctx context.Context, site family.Site) (PageStore, error)

	source   TitleSource
	subjects []*Subject

	mu          sync.Mutex
	apiRequests int
}

// BotOption configures a Bot.
type BotOption func(*Bot)

// WithBotLogger sets a custom logger.
func WithBotLogger(logger *slog.Logger) BotOption {
	return func(b *Bot) {
		b.logger = logger
	}
}

// WithResolver sets the conflict resolver. Default is AutoResolver.
func WithResolver(r Resolver) BotOption {
	return func(b *Bot) {
		b.resolver = r
	}
}

// WithStore sets the factory for write access to a site. Without one the
// bot can only run dry.
func WithStore(storeFor func(ctx context.Context, site family.Site) (PageStore, error)) BotOption {
	return func(b *Bot) {
		b.storeFor = storeFor
	}
}

// NewBot creates a Bot. fetcherFor supplies read access per site; source
// yields the origin titles to process.
func NewBot(cfg *config.Config, fam *family.Family, originSite family.Site,
	fetcherFor func(family.Site) (PageFetcher, error), source TitleSource, opts ...BotOption) *Bot {

	b := &Bot{
		cfg:        cfg,
		fam:        fam,
		famCfg:     cfg.Project.FamilyConfig(fam.Name),
		originSite: originSite,
		fetcherFor: fetcherFor,
		source:     source,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	if b.resolver == nil {
		b.resolver = AutoResolver{}
	}
	return b
}

// Run drives all subjects to their fixed point and returns the run
// summary. It stops early only on context cancellation or a resolver
// failure; per-site fetch errors and per-page save errors are recorded
// and the run continues.
func (b *Bot) Run(ctx context.Context) (*model.RunSummary, error) {
	summary := &model.RunSummary{
		Family:     b.fam.Name,
		OriginSite: b.originSite.Key(),
		DryRun:     b.cfg.DryRun,
		Started:    time.Now(),
	}
	defer func() {
		summary.Finished = time.Now()
		summary.APIRequests = b.apiRequests
	}()

	for {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		if err := b.refill(ctx); err != nil {
			return summary, err
		}
		if len(b.subjects) == 0 {
			break
		}

		sites := b.selectQuerySites()
		if len(sites) > 0 {
			if err := b.fetchRound(ctx, sites); err != nil {
				return summary, err
			}
		}

		if err := b.reap(ctx, summary); err != nil {
			return summary, err
		}
	}

	b.logger.Info("run complete",
		"origins", len(summary.Results),
		"api_requests", b.apiRequests,
		"elapsed", time.Since(summary.Started).Round(time.Millisecond),
	)
	return summary, nil
}

// refill opens new subjects from the title source until the open-subject
// bound is reached or the source is exhausted.
func (b *Bot) refill(ctx context.Context) error {
	for b.source != nil && len(b.subjects) < b.cfg.MaxOpenSubjects {
		title, err := b.source.Next(ctx)
		if errors.Is(err, io.EOF) {
			b.source = nil
			break
		}
		if err != nil {
			return fmt.Errorf("page generator failed: %w", err)
		}
		s := NewSubject(b.fam, b.famCfg, b.resolver, b.originSite, title, b.cfg.Hints,
			WithSubjectLogger(b.logger),
			WithFollowRedirects(b.cfg.FollowRedirects),
		)
		b.subjects = append(b.subjects, s)
	}
	return nil
}

// selectQuerySites ranks sites by how many pages are queued for them
// across all open subjects and returns the top Concurrency sites. More
// queued pages per request means fewer round-trips overall, so the
// busiest site is always the best next query.
func (b *Bot) selectQuerySites() []family.Site {
	counts := make(map[string]int)
	bySiteKey := make(map[string]family.Site)
	var order []string

	for _, s := range b.subjects {
		for _, site := range s.QueuedSites() {
			key := site.Key()
			if _, ok := counts[key]; !ok {
				order = append(order, key)
				bySiteKey[key] = site
			}
			counts[key] += s.QueuedFor(site)
		}
	}

	// Stable: equal counts keep first-seen order.
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	n := min(b.cfg.Concurrency, len(order))
	sites := make([]family.Site, 0, n)
	for _, key := range order[:n] {
		sites = append(sites, bySiteKey[key])
	}
	return sites
}

// fetchRound fetches one batch per selected site, in parallel, and
// dispatches each loaded batch to the subjects that queued pages in it.
func (b *Bot) fetchRound(ctx context.Context, sites []family.Site) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.cfg.Concurrency)

	for _, site := range sites {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			var titles []string
			var contributors []*Subject
			remaining := b.cfg.MaxQuerySize
			for _, s := range b.subjects {
				if remaining == 0 {
					break
				}
				got := s.WhatsNextFor(site, remaining)
				if len(got) == 0 {
					continue
				}
				titles = append(titles, got...)
				contributors = append(contributors, s)
				remaining -= len(got)
			}
			if len(titles) == 0 {
				return nil
			}

			fetcher, err := b.fetcherFor(site)
			if err != nil {
				b.abortSite(site, contributors, err)
				return nil
			}
			batch, err := fetcher.FetchPages(ctx, titles)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				b.abortSite(site, contributors, err)
				return nil
			}

			b.mu.Lock()
			b.apiRequests += batch.Requests
			b.mu.Unlock()

			b.logger.Debug("batch dispatched",
				"site", site.Key(),
				"titles", len(titles),
				"subjects", len(contributors),
			)
			for _, s := range contributors {
				if err := s.BatchLoaded(batch); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}

// abortSite drops the in-flight titles of a failed site fetch so the
// affected subjects can still finish with partial results.
func (b *Bot) abortSite(site family.Site, contributors []*Subject, cause error) {
	b.logger.Error("site fetch failed, dropping its queued pages",
		"site", site.Key(),
		"error", cause,
	)
	for _, s := range contributors {
		s.AbortSite(site)
	}
}

// reap finalizes and removes every completed subject.
func (b *Bot) reap(ctx context.Context, summary *model.RunSummary) error {
	active := b.subjects[:0]
	for _, s := range b.subjects {
		if !s.IsDone() {
			active = append(active, s)
			continue
		}
		res, err := b.finalize(ctx, s)
		if err != nil {
			return err
		}
		summary.Results = append(summary.Results, *res)
	}
	b.subjects = active
	return nil
}

// finalize turns a completed subject into a PageResult, saving the origin
// page when its links changed and the run is not dry.
func (b *Bot) finalize(ctx context.Context, s *Subject) (*model.PageResult, error) {
	res, err := s.Result()
	if err != nil {
		return nil, err
	}
	if res.Status == model.StatusSkipped || res.Status == model.StatusFailed {
		return res, nil
	}

	origin := s.OriginPage()
	changes := Compare(origin.LangLinks, res.Links, b.fam)
	res.Adds = changes.Adds
	res.Removes = changes.Removes
	res.Modifies = changes.Modifies

	if changes.Empty() {
		if res.Status != model.StatusConflicted {
			res.Status = model.StatusUnchanged
		}
		return res, nil
	}

	if b.cfg.DryRun || b.storeFor == nil {
		if res.Status != model.StatusConflicted {
			res.Status = model.StatusWouldUpdate
		}
		return res, nil
	}

	if err := b.save(ctx, res, changes, origin.LangLinks); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		res.Status = model.StatusFailed
		res.Reason = err.Error()
		return res, nil
	}
	if res.Status != model.StatusConflicted {
		res.Status = model.StatusUpdated
	}
	return res, nil
}

// save rewrites the origin page's interwiki block and writes it back.
// The wikitext is fetched fresh here, later than the batch snapshot the
// diff was computed from. When the links in that wikitext no longer
// match the snapshot, someone edited them in between and the save is
// abandoned with ErrLinksChanged instead of clobbering their work.
func (b *Bot) save(ctx context.Context, res *model.PageResult, changes Changes, snapshot []model.LangLink) error {
	store, err := b.storeFor(ctx, b.originSite)
	if err != nil {
		return err
	}
	text, baseTimestamp, err := store.GetWikitext(ctx, res.Origin.Title)
	if err != nil {
		return err
	}
	if !sameLinkSet(textlib.ExtractLinks(text, b.fam.IsRecognized), snapshot) {
		return fmt.Errorf("%w: %s", ErrLinksChanged, res.Origin.Title)
	}
	newText := textlib.ReplaceLinks(text, res.Links, b.fam.IsRecognized)
	if newText == text {
		return nil
	}
	return store.SavePage(ctx, res.Origin.Title, newText, changes.Summary(), baseTimestamp, true)
}

// sameLinkSet compares two link sets ignoring order.
func sameLinkSet(a, b []model.LangLink) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[model.LangLink]bool, len(a))
	for _, l := range a {
		seen[l] = true
	}
	for _, l := range b {
		if !seen[l] {
			return false
		}
	}
	return true
}
