package api

import (
	"io"
	"log/slog"
	"testing"

	"github.com/antonholmquist/jason"

	"github.com/gowikibot/wikibot/internal/family"
	"github.com/gowikibot/wikibot/internal/model"
)

// testClient builds a Client bound to en.wikipedia without any network
// plumbing, for exercising response parsing directly.
func testClient(t *testing.T) *Client {
	t.Helper()

	site, err := family.Wikipedia().Site("en")
	if err != nil {
		t.Fatal(err)
	}
	return &Client{
		site:   site,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// parseResponse decodes a raw JSON API response for the collector.
func parseResponse(t *testing.T, raw string) *jason.Object {
	t.Helper()

	obj, err := jason.NewObjectFromBytes([]byte(raw))
	if err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	return obj
}

func TestChunkTitles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		titles []string
		size   int
		want   [][]string
	}{
		{
			name:   "under the limit",
			titles: []string{"A", "B"},
			size:   50,
			want:   [][]string{{"A", "B"}},
		},
		{
			name:   "exact multiple",
			titles: []string{"A", "B", "C", "D"},
			size:   2,
			want:   [][]string{{"A", "B"}, {"C", "D"}},
		},
		{
			name:   "remainder chunk",
			titles: []string{"A", "B", "C"},
			size:   2,
			want:   [][]string{{"A", "B"}, {"C"}},
		},
		{
			name:   "empty input",
			titles: nil,
			size:   50,
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got [][]string
			for chunk := range chunkTitles(tt.titles, tt.size) {
				got = append(got, chunk)
			}

			if len(got) != len(tt.want) {
				t.Fatalf("got %d chunks, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if len(got[i]) != len(tt.want[i]) {
					t.Fatalf("chunk %d has %d titles, want %d", i, len(got[i]), len(tt.want[i]))
				}
				for j := range got[i] {
					if got[i][j] != tt.want[i][j] {
						t.Errorf("chunk %d title %d = %q, want %q", i, j, got[i][j], tt.want[i][j])
					}
				}
			}
		})
	}
}

func TestBatchResultResolve(t *testing.T) {
	t.Parallel()

	b := &BatchResult{
		Normalized: map[string]string{"berlin": "Berlin"},
		Redirects: map[string]string{
			"Berlin":  "Berlin, Germany",
			"Cologne": "Köln",
		},
	}

	tests := []struct {
		name      string
		requested string
		want      string
	}{
		{"normalization then redirect", "berlin", "Berlin, Germany"},
		{"redirect only", "Cologne", "Köln"},
		{"untouched title", "Hamburg", "Hamburg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := b.Resolve(tt.requested); got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.requested, got, tt.want)
			}
		})
	}

	t.Run("redirect chain", func(t *testing.T) {
		t.Parallel()

		chained := &BatchResult{
			Redirects: map[string]string{"A": "B", "B": "C"},
		}
		if got := chained.Resolve("A"); got != "C" {
			t.Errorf("Resolve(A) = %q, want C", got)
		}
	})

	t.Run("redirected flag", func(t *testing.T) {
		t.Parallel()

		if !b.Redirected("Cologne") {
			t.Error("Redirected(Cologne) = false, want true")
		}
		if !b.Redirected("berlin") {
			t.Error("Redirected(berlin) should see through normalization")
		}
		if b.Redirected("Hamburg") {
			t.Error("Redirected(Hamburg) = true, want false")
		}
	})
}

func TestCollectPages(t *testing.T) {
	t.Parallel()

	c := testClient(t)

	t.Run("full response", func(t *testing.T) {
		t.Parallel()

		resp := parseResponse(t, `{
			"query": {
				"normalized": [{"from": "berlin", "to": "Berlin"}],
				"redirects": [{"from": "Köln", "to": "Cologne"}],
				"pages": [
					{
						"pageid": 1,
						"ns": 0,
						"title": "Berlin",
						"touched": "2026-08-01T00:00:00Z",
						"langlinks": [
							{"lang": "de", "title": "Berlin"},
							{"lang": "fr", "title": "Berlin#Histoire"}
						]
					},
					{"ns": 0, "title": "Nonexistent", "missing": true},
					{
						"ns": 0,
						"title": "Mercury",
						"pageprops": {"disambiguation": ""}
					},
					{"ns": 0, "title": "Old name", "redirect": true}
				]
			}
		}`)

		result := &BatchResult{
			Site:       c.site,
			Normalized: make(map[string]string),
			Redirects:  make(map[string]string),
		}
		seen := make(map[string]*model.Page)

		if err := c.collectPages(resp, result, seen); err != nil {
			t.Fatalf("collectPages() error = %v", err)
		}

		if result.Normalized["berlin"] != "Berlin" {
			t.Errorf("Normalized[berlin] = %q", result.Normalized["berlin"])
		}
		if result.Redirects["Köln"] != "Cologne" {
			t.Errorf("Redirects[Köln] = %q", result.Redirects["Köln"])
		}
		if len(result.Pages) != 4 {
			t.Fatalf("got %d pages, want 4", len(result.Pages))
		}

		berlin := seen["Berlin"]
		if berlin == nil {
			t.Fatal("Berlin not collected")
		}
		if berlin.Touched != "2026-08-01T00:00:00Z" {
			t.Errorf("Touched = %q", berlin.Touched)
		}
		if len(berlin.LangLinks) != 2 {
			t.Fatalf("got %d langlinks, want 2", len(berlin.LangLinks))
		}
		// Section anchors are stripped from link targets.
		if berlin.LangLinks[1].Title != "Berlin" {
			t.Errorf("fr link title = %q, want %q", berlin.LangLinks[1].Title, "Berlin")
		}

		if !seen["Nonexistent"].Missing {
			t.Error("missing flag not set")
		}
		if !seen["Mercury"].IsDisambig {
			t.Error("disambiguation page property not detected")
		}
		if !seen["Old name"].IsRedirect {
			t.Error("redirect flag not set")
		}
	})

	t.Run("continuation merges langlinks", func(t *testing.T) {
		t.Parallel()

		result := &BatchResult{
			Site:       c.site,
			Normalized: make(map[string]string),
			Redirects:  make(map[string]string),
		}
		seen := make(map[string]*model.Page)

		first := parseResponse(t, `{
			"query": {
				"pages": [{
					"ns": 0,
					"title": "Berlin",
					"langlinks": [{"lang": "de", "title": "Berlin"}]
				}]
			}
		}`)
		second := parseResponse(t, `{
			"query": {
				"pages": [{
					"ns": 0,
					"title": "Berlin",
					"langlinks": [{"lang": "fr", "title": "Berlin"}]
				}]
			}
		}`)

		for _, resp := range []*jason.Object{first, second} {
			if err := c.collectPages(resp, result, seen); err != nil {
				t.Fatalf("collectPages() error = %v", err)
			}
		}

		if len(result.Pages) != 1 {
			t.Fatalf("got %d pages, want 1 merged page", len(result.Pages))
		}
		if len(result.Pages[0].LangLinks) != 2 {
			t.Errorf("got %d langlinks after merge, want 2", len(result.Pages[0].LangLinks))
		}
	})

	t.Run("mapping-only response", func(t *testing.T) {
		t.Parallel()

		resp := parseResponse(t, `{
			"query": {
				"normalized": [{"from": "a b", "to": "A b"}]
			}
		}`)

		result := &BatchResult{
			Site:       c.site,
			Normalized: make(map[string]string),
			Redirects:  make(map[string]string),
		}
		if err := c.collectPages(resp, result, make(map[string]*model.Page)); err != nil {
			t.Fatalf("collectPages() error = %v", err)
		}
		if len(result.Pages) != 0 {
			t.Errorf("mapping-only response should add no pages")
		}
	})

	t.Run("malformed langlink", func(t *testing.T) {
		t.Parallel()

		resp := parseResponse(t, `{
			"query": {
				"pages": [{
					"ns": 0,
					"title": "Berlin",
					"langlinks": [{"lang": "de"}]
				}]
			}
		}`)

		result := &BatchResult{
			Site:       c.site,
			Normalized: make(map[string]string),
			Redirects:  make(map[string]string),
		}
		err := c.collectPages(resp, result, make(map[string]*model.Page))
		if err == nil {
			t.Fatal("collectPages() should reject a langlink without a title")
		}
	})
}
