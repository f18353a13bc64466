package interwiki

import (
	"testing"

	"github.com/gowikibot/wikibot/internal/api"
	"github.com/gowikibot/wikibot/internal/config"
	"github.com/gowikibot/wikibot/internal/family"
	"github.com/gowikibot/wikibot/internal/model"
)

// fakeWiki holds per-site page fixtures for engine tests, keyed by site
// key and title. Redirects are per-site source-to-target maps.
type fakeWiki struct {
	pages     map[string]map[string]*model.Page
	redirects map[string]map[string]string
}

func newFakeWiki() *fakeWiki {
	return &fakeWiki{
		pages:     make(map[string]map[string]*model.Page),
		redirects: make(map[string]map[string]string),
	}
}

// addPage registers a page with its language links.
func (w *fakeWiki) addPage(p *model.Page) {
	key := p.Site.Key()
	if w.pages[key] == nil {
		w.pages[key] = make(map[string]*model.Page)
	}
	w.pages[key][p.Title] = p
}

// addRedirect registers a server-resolved redirect on a site.
func (w *fakeWiki) addRedirect(site family.Site, from, to string) {
	key := site.Key()
	if w.redirects[key] == nil {
		w.redirects[key] = make(map[string]string)
	}
	w.redirects[key][from] = to
}

// batchFor builds the batch a real fetch of the given titles would
// produce: redirects resolved, present pages returned, absent titles
// reported as missing.
func (w *fakeWiki) batchFor(site family.Site, titles []string) *api.BatchResult {
	batch := &api.BatchResult{
		Site:       site,
		Normalized: make(map[string]string),
		Redirects:  w.redirects[site.Key()],
		Requests:   1,
	}
	seen := make(map[string]bool)
	for _, title := range titles {
		final := batch.Resolve(title)
		if seen[final] {
			continue
		}
		seen[final] = true
		if p, ok := w.pages[site.Key()][final]; ok {
			batch.Pages = append(batch.Pages, p)
			continue
		}
		batch.Pages = append(batch.Pages, &model.Page{Site: site, Title: final, Missing: true})
	}
	return batch
}

// drive runs a subject against the fake wiki until its closure is done.
func drive(t *testing.T, s *Subject, w *fakeWiki) {
	t.Helper()
	for round := 0; !s.IsDone(); round++ {
		if round > 50 {
			t.Fatal("subject did not converge")
		}
		for _, site := range s.QueuedSites() {
			titles := s.WhatsNextFor(site, 0)
			if len(titles) == 0 {
				continue
			}
			if err := s.BatchLoaded(w.batchFor(site, titles)); err != nil {
				t.Fatalf("BatchLoaded: %v", err)
			}
		}
	}
}

// linkSet flattens result links to "code:Title" strings.
func linkSet(links []model.LangLink) []string {
	out := make([]string, 0, len(links))
	for _, l := range links {
		out = append(out, l.String())
	}
	return out
}

// TestSubjectClosure verifies the happy path: the closure over mutually
// consistent pages yields one link per foreign site and no self-link.
func TestSubjectClosure(t *testing.T) {
	t.Parallel()

	fam := testFamily()
	en := testSite(t, fam, "en")
	de := testSite(t, fam, "de")
	fr := testSite(t, fam, "fr")

	w := newFakeWiki()
	w.addPage(&model.Page{Site: en, Title: "Berlin", LangLinks: []model.LangLink{
		{Code: "de", Title: "Berlin"}, {Code: "fr", Title: "Berlin"},
	}})
	w.addPage(&model.Page{Site: de, Title: "Berlin", LangLinks: []model.LangLink{
		{Code: "en", Title: "Berlin"}, {Code: "fr", Title: "Berlin"},
	}})
	w.addPage(&model.Page{Site: fr, Title: "Berlin", LangLinks: []model.LangLink{
		{Code: "en", Title: "Berlin"}, {Code: "de", Title: "Berlin"},
	}})

	s := NewSubject(fam, config.FamilyConfig{}, AutoResolver{}, en, "Berlin", nil)
	drive(t, s, w)

	res, err := s.Result()
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	if got, want := linkSet(res.Links), []string{"de:Berlin", "fr:Berlin"}; !equalStrings(got, want) {
		t.Errorf("Links = %v, want %v", got, want)
	}
	if len(res.Conflicts) != 0 {
		t.Errorf("unexpected conflicts: %v", res.Conflicts)
	}
	if res.PagesFetched != 3 {
		t.Errorf("PagesFetched = %d, want 3", res.PagesFetched)
	}
}

// TestSubjectTransitiveDiscovery verifies that links found on foreign
// pages but not on the origin still enter the closure.
func TestSubjectTransitiveDiscovery(t *testing.T) {
	t.Parallel()

	fam := testFamily()
	en := testSite(t, fam, "en")
	de := testSite(t, fam, "de")
	ja := testSite(t, fam, "ja")

	w := newFakeWiki()
	w.addPage(&model.Page{Site: en, Title: "Tokyo", LangLinks: []model.LangLink{
		{Code: "de", Title: "Tokio"},
	}})
	w.addPage(&model.Page{Site: de, Title: "Tokio", LangLinks: []model.LangLink{
		{Code: "ja", Title: "東京"},
	}})
	w.addPage(&model.Page{Site: ja, Title: "東京"})

	s := NewSubject(fam, config.FamilyConfig{}, AutoResolver{}, en, "Tokyo", nil)
	drive(t, s, w)

	res, err := s.Result()
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	if got, want := linkSet(res.Links), []string{"de:Tokio", "ja:東京"}; !equalStrings(got, want) {
		t.Errorf("Links = %v, want %v", got, want)
	}
}

// TestSubjectMissingOrigin verifies that a nonexistent origin skips the
// subject.
func TestSubjectMissingOrigin(t *testing.T) {
	t.Parallel()

	fam := testFamily()
	en := testSite(t, fam, "en")

	s := NewSubject(fam, config.FamilyConfig{}, AutoResolver{}, en, "No such page", nil)
	drive(t, s, newFakeWiki())

	res, err := s.Result()
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	if res.Status != model.StatusSkipped {
		t.Errorf("Status = %v, want skipped", res.Status)
	}
	if res.Reason == "" {
		t.Error("skip reason should be set")
	}
}

// TestSubjectRedirectOrigin tests both redirect policies for the origin.
func TestSubjectRedirectOrigin(t *testing.T) {
	t.Parallel()

	newWiki := func(fam *family.Family) *fakeWiki {
		en, _ := fam.Site("en")
		de, _ := fam.Site("de")
		w := newFakeWiki()
		w.addRedirect(en, "NYC", "New York City")
		w.addPage(&model.Page{Site: en, Title: "New York City", LangLinks: []model.LangLink{
			{Code: "de", Title: "New York City"},
		}})
		w.addPage(&model.Page{Site: de, Title: "New York City"})
		return w
	}

	t.Run("redirect origin is skipped by default", func(t *testing.T) {
		t.Parallel()
		fam := testFamily()
		en := testSite(t, fam, "en")
		s := NewSubject(fam, config.FamilyConfig{}, AutoResolver{}, en, "NYC", nil)
		drive(t, s, newWiki(fam))

		res, err := s.Result()
		if err != nil {
			t.Fatalf("Result: %v", err)
		}
		if res.Status != model.StatusSkipped {
			t.Errorf("Status = %v, want skipped", res.Status)
		}
	})

	t.Run("followed redirect retargets the origin", func(t *testing.T) {
		t.Parallel()
		fam := testFamily()
		en := testSite(t, fam, "en")
		s := NewSubject(fam, config.FamilyConfig{}, AutoResolver{}, en, "NYC", nil,
			WithFollowRedirects(true))
		drive(t, s, newWiki(fam))

		if got := s.Origin().Title; got != "New York City" {
			t.Errorf("origin title = %q, want redirect target", got)
		}
		res, err := s.Result()
		if err != nil {
			t.Fatalf("Result: %v", err)
		}
		if got, want := linkSet(res.Links), []string{"de:New York City"}; !equalStrings(got, want) {
			t.Errorf("Links = %v, want %v", got, want)
		}
	})
}

// TestSubjectDisambigMismatch verifies that a disambiguation page linked
// from an article is dropped when the resolver declines it.
func TestSubjectDisambigMismatch(t *testing.T) {
	t.Parallel()

	fam := testFamily()
	en := testSite(t, fam, "en")
	de := testSite(t, fam, "de")

	w := newFakeWiki()
	w.addPage(&model.Page{Site: en, Title: "Mercury", LangLinks: []model.LangLink{
		{Code: "de", Title: "Merkur"},
	}})
	w.addPage(&model.Page{Site: de, Title: "Merkur", IsDisambig: true})

	s := NewSubject(fam, config.FamilyConfig{}, AutoResolver{}, en, "Mercury", nil)
	drive(t, s, w)

	res, err := s.Result()
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	if len(res.Links) != 0 {
		t.Errorf("disambiguation mismatch should be dropped, got %v", res.Links)
	}
}

// TestSubjectNamespaceMismatch verifies that a page in a different
// namespace is dropped when the resolver declines it.
func TestSubjectNamespaceMismatch(t *testing.T) {
	t.Parallel()

	fam := testFamily()
	en := testSite(t, fam, "en")
	de := testSite(t, fam, "de")

	w := newFakeWiki()
	w.addPage(&model.Page{Site: en, Title: "Physics", LangLinks: []model.LangLink{
		{Code: "de", Title: "Kategorie:Physik"},
	}})
	w.addPage(&model.Page{Site: de, Title: "Kategorie:Physik", Namespace: 14})

	s := NewSubject(fam, config.FamilyConfig{}, AutoResolver{}, en, "Physics", nil)
	drive(t, s, w)

	res, err := s.Result()
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	if len(res.Links) != 0 {
		t.Errorf("namespace mismatch should be dropped, got %v", res.Links)
	}
}

// TestSubjectConflict verifies that two transitively found candidates on
// one site produce a recorded conflict under the autonomous resolver.
func TestSubjectConflict(t *testing.T) {
	t.Parallel()

	fam := testFamily()
	en := testSite(t, fam, "en")
	de := testSite(t, fam, "de")
	fr := testSite(t, fam, "fr")
	ja := testSite(t, fam, "ja")

	w := newFakeWiki()
	w.addPage(&model.Page{Site: en, Title: "Subject", LangLinks: []model.LangLink{
		{Code: "fr", Title: "Sujet"}, {Code: "ja", Title: "主題"},
	}})
	w.addPage(&model.Page{Site: fr, Title: "Sujet", LangLinks: []model.LangLink{
		{Code: "de", Title: "Thema X"},
	}})
	w.addPage(&model.Page{Site: ja, Title: "主題", LangLinks: []model.LangLink{
		{Code: "de", Title: "Thema Y"},
	}})
	w.addPage(&model.Page{Site: de, Title: "Thema X"})
	w.addPage(&model.Page{Site: de, Title: "Thema Y"})

	s := NewSubject(fam, config.FamilyConfig{}, AutoResolver{}, en, "Subject", nil)
	drive(t, s, w)

	res, err := s.Result()
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	if res.Status != model.StatusConflicted {
		t.Errorf("Status = %v, want conflicted", res.Status)
	}
	if len(res.Conflicts) != 1 || res.Conflicts[0].Site != de.Key() {
		t.Fatalf("Conflicts = %v, want one on %s", res.Conflicts, de.Key())
	}
	if len(res.Conflicts[0].Candidates) != 2 {
		t.Errorf("Candidates = %v, want both titles", res.Conflicts[0].Candidates)
	}
	// The conflicted site must not appear in the emitted links.
	for _, l := range res.Links {
		if l.Code == "de" {
			t.Errorf("conflicted site leaked into links: %v", res.Links)
		}
	}
}

// TestSubjectDirectLinkWins verifies that a candidate linked directly
// from the origin outranks a transitively discovered one.
func TestSubjectDirectLinkWins(t *testing.T) {
	t.Parallel()

	fam := testFamily()
	en := testSite(t, fam, "en")
	de := testSite(t, fam, "de")
	fr := testSite(t, fam, "fr")

	w := newFakeWiki()
	w.addPage(&model.Page{Site: en, Title: "Subject", LangLinks: []model.LangLink{
		{Code: "de", Title: "Thema X"}, {Code: "fr", Title: "Sujet"},
	}})
	w.addPage(&model.Page{Site: fr, Title: "Sujet", LangLinks: []model.LangLink{
		{Code: "de", Title: "Thema Y"},
	}})
	w.addPage(&model.Page{Site: de, Title: "Thema X"})
	w.addPage(&model.Page{Site: de, Title: "Thema Y"})

	s := NewSubject(fam, config.FamilyConfig{}, AutoResolver{}, en, "Subject", nil)
	drive(t, s, w)

	res, err := s.Result()
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	var deTitle string
	for _, l := range res.Links {
		if l.Code == "de" {
			deTitle = l.Title
		}
	}
	if deTitle != "Thema X" {
		t.Errorf("de link = %q, want the directly linked Thema X", deTitle)
	}
	if len(res.Conflicts) != 0 {
		t.Errorf("unexpected conflicts: %v", res.Conflicts)
	}
}

// TestSubjectIgnoreList verifies that listed titles are never followed.
func TestSubjectIgnoreList(t *testing.T) {
	t.Parallel()

	fam := testFamily()
	en := testSite(t, fam, "en")
	de := testSite(t, fam, "de")

	w := newFakeWiki()
	w.addPage(&model.Page{Site: en, Title: "Subject", LangLinks: []model.LangLink{
		{Code: "de", Title: "Spam"},
	}})
	w.addPage(&model.Page{Site: de, Title: "Spam"})

	famCfg := config.FamilyConfig{
		IgnoreTitles: map[string][]string{"de": {"Spam"}},
	}
	s := NewSubject(fam, famCfg, AutoResolver{}, en, "Subject", nil)
	drive(t, s, w)

	res, err := s.Result()
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	if len(res.Links) != 0 {
		t.Errorf("ignored title leaked into links: %v", res.Links)
	}
}

// TestSubjectHints verifies hint translation into queued pages.
func TestSubjectHints(t *testing.T) {
	t.Parallel()

	fam := testFamily()
	en := testSite(t, fam, "en")
	de := testSite(t, fam, "de")
	fr := testSite(t, fam, "fr")

	t.Run("explicit and bare hints", func(t *testing.T) {
		t.Parallel()
		s := NewSubject(fam, config.FamilyConfig{}, AutoResolver{}, en, "Berlin",
			[]string{"fr:Berlin (ville)", "de", "xx:Dropped"})

		if got := s.QueuedFor(fr); got != 1 {
			t.Errorf("QueuedFor(fr) = %d, want 1", got)
		}
		if got := s.QueuedFor(de); got != 1 {
			t.Errorf("QueuedFor(de) = %d, want 1", got)
		}

		frTitles := s.WhatsNextFor(fr, 0)
		if len(frTitles) != 1 || frTitles[0] != "Berlin (ville)" {
			t.Errorf("fr hint title = %v, want [Berlin (ville)]", frTitles)
		}
		deTitles := s.WhatsNextFor(de, 0)
		if len(deTitles) != 1 || deTitles[0] != "Berlin" {
			t.Errorf("bare hint should use origin title, got %v", deTitles)
		}
	})

	t.Run("all seeds every foreign code", func(t *testing.T) {
		t.Parallel()
		s := NewSubject(fam, config.FamilyConfig{}, AutoResolver{}, en, "Berlin",
			[]string{"all"})

		// de, fr, ja but never the origin site itself.
		if got := len(s.QueuedSites()); got != 4 {
			t.Errorf("QueuedSites = %d sites, want 4 (origin + 3 foreign)", got)
		}
		if got := s.QueuedFor(en); got != 1 {
			t.Errorf("QueuedFor(en) = %d, want only the origin page", got)
		}
	})
}

// TestWhatsNextForPartialDrain verifies the limit semantics.
func TestWhatsNextForPartialDrain(t *testing.T) {
	t.Parallel()

	fam := testFamily()
	en := testSite(t, fam, "en")
	de := testSite(t, fam, "de")

	s := NewSubject(fam, config.FamilyConfig{}, AutoResolver{}, en, "Subject",
		[]string{"de:A", "de:B", "de:C"})

	first := s.WhatsNextFor(de, 2)
	if len(first) != 2 {
		t.Fatalf("first drain = %v, want 2 titles", first)
	}
	if got := s.QueuedFor(de); got != 1 {
		t.Errorf("QueuedFor(de) after partial drain = %d, want 1", got)
	}
	second := s.WhatsNextFor(de, 0)
	if len(second) != 1 {
		t.Errorf("second drain = %v, want the remaining title", second)
	}
	if s.IsDone() {
		t.Error("subject with pending fetches must not be done")
	}
}

// equalStrings compares two string slices.
func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
