package family

import (
	"errors"
	"reflect"
	"testing"
)

// TestCanonical tests code resolution through the obsolete table and
// BCP 47 fallback.
func TestCanonical(t *testing.T) {
	t.Parallel()

	fam := Wikipedia()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{"live code passes through", "en", "en", nil},
		{"input is lowercased and trimmed", " EN ", "en", nil},
		{"obsolete dk maps to da", "dk", "da", nil},
		{"obsolete jp maps to ja", "jp", "ja", nil},
		{"BCP 47 spelling pt-BR resolves", "pt-BR", "pt-br", nil},
		{"closed code is an error", "tokipona", "", ErrUnknownCode},
		{"unknown code is an error", "xx", "", ErrUnknownCode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := fam.Canonical(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Canonical(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Canonical(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Canonical(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestIsRecognized verifies that both live and retired codes count as
// interwiki prefixes, unlike IsKnown which only admits live wikis.
func TestIsRecognized(t *testing.T) {
	t.Parallel()

	fam := Wikipedia()

	tests := []struct {
		name string
		code string
		want bool
	}{
		{"live code", "en", true},
		{"obsolete code with successor", "dk", true},
		{"closed code", "tokipona", true},
		{"unknown code", "xx", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := fam.IsRecognized(tt.code); got != tt.want {
				t.Errorf("IsRecognized(%q) = %v, want %v", tt.code, got, tt.want)
			}
			if tt.code == "dk" && fam.IsKnown(tt.code) {
				t.Errorf("IsKnown(%q) = true, want false for a retired code", tt.code)
			}
		})
	}
}

// TestSiteURLs verifies endpoint construction for member sites.
func TestSiteURLs(t *testing.T) {
	t.Parallel()

	fam := Wikipedia()
	site, err := fam.Site("de")
	if err != nil {
		t.Fatalf("Site(de) unexpected error: %v", err)
	}

	if got, want := site.Key(), "wikipedia:de"; got != want {
		t.Errorf("Key() = %q, want %q", got, want)
	}
	if got, want := site.APIURL(), "https://de.wikipedia.org/w/api.php"; got != want {
		t.Errorf("APIURL() = %q, want %q", got, want)
	}
	if got, want := site.ArticleURL("Berlin"), "https://de.wikipedia.org/wiki/Berlin"; got != want {
		t.Errorf("ArticleURL() = %q, want %q", got, want)
	}
}

// TestSiteEqual verifies identity across families and codes.
func TestSiteEqual(t *testing.T) {
	t.Parallel()

	wp := Wikipedia()
	wikt := Wiktionary()

	wpEN, _ := wp.Site("en")
	wpEN2, _ := wp.Site("en")
	wpDE, _ := wp.Site("de")
	wiktEN, _ := wikt.Site("en")

	if !wpEN.Equal(wpEN2) {
		t.Error("same family and code should be equal")
	}
	if wpEN.Equal(wpDE) {
		t.Error("different codes should not be equal")
	}
	if wpEN.Equal(wiktEN) {
		t.Error("different families should not be equal")
	}
}

// TestSortCodes tests the three ordering policies.
func TestSortCodes(t *testing.T) {
	t.Parallel()

	t.Run("alphabetical by code", func(t *testing.T) {
		t.Parallel()
		fam := &Family{Name: "test", Codes: []string{"de", "en", "fr"}, Order: SortByCode}
		codes := []string{"fr", "de", "en"}
		fam.SortCodes(codes)
		if want := []string{"de", "en", "fr"}; !reflect.DeepEqual(codes, want) {
			t.Errorf("SortCodes = %v, want %v", codes, want)
		}
	})

	t.Run("collated order", func(t *testing.T) {
		t.Parallel()
		fam := &Family{Name: "test", Codes: []string{"de", "en", "fr"}, Order: SortByCollatedCode}
		codes := []string{"fr", "de", "en"}
		fam.SortCodes(codes)
		if want := []string{"de", "en", "fr"}; !reflect.DeepEqual(codes, want) {
			t.Errorf("SortCodes = %v, want %v", codes, want)
		}
	})

	t.Run("leading codes pinned first", func(t *testing.T) {
		t.Parallel()
		fam := &Family{
			Name:         "test",
			Codes:        []string{"de", "en", "eo", "fr"},
			Order:        SortLeadingFirst,
			LeadingCodes: []string{"eo", "de"},
		}
		codes := []string{"fr", "de", "en", "eo"}
		fam.SortCodes(codes)
		if want := []string{"eo", "de", "en", "fr"}; !reflect.DeepEqual(codes, want) {
			t.Errorf("SortCodes = %v, want %v", codes, want)
		}
	})
}

// TestValidate tests family definition checks.
func TestValidate(t *testing.T) {
	t.Parallel()

	t.Run("builtin families are valid", func(t *testing.T) {
		t.Parallel()
		if err := Wikipedia().Validate(); err != nil {
			t.Errorf("Wikipedia definition invalid: %v", err)
		}
		if err := Wiktionary().Validate(); err != nil {
			t.Errorf("Wiktionary definition invalid: %v", err)
		}
	})

	t.Run("empty family is rejected", func(t *testing.T) {
		t.Parallel()
		fam := &Family{Name: "empty"}
		if !errors.Is(fam.Validate(), ErrEmptyFamily) {
			t.Error("expected ErrEmptyFamily")
		}
	})

	t.Run("obsolete mapping to unknown code is rejected", func(t *testing.T) {
		t.Parallel()
		fam := &Family{
			Name:     "test",
			Codes:    []string{"en"},
			Obsolete: map[string]string{"xx": "yy"},
		}
		if !errors.Is(fam.Validate(), ErrUnknownCode) {
			t.Error("expected ErrUnknownCode")
		}
	})
}

// TestByName verifies family lookup.
func TestByName(t *testing.T) {
	t.Parallel()

	t.Run("wikipedia resolves", func(t *testing.T) {
		t.Parallel()
		fam, err := ByName("wikipedia")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if fam.Name != "wikipedia" {
			t.Errorf("Name = %q, want wikipedia", fam.Name)
		}
	})

	t.Run("unknown family is an error", func(t *testing.T) {
		t.Parallel()
		if _, err := ByName("nosuchfamily"); !errors.Is(err, ErrUnknownFamily) {
			t.Errorf("expected ErrUnknownFamily, got %v", err)
		}
	})
}

// TestGeneric verifies single-site family construction.
func TestGeneric(t *testing.T) {
	t.Parallel()

	fam := Generic("companywiki", "en", "wiki.example.com")
	if err := fam.Validate(); err != nil {
		t.Fatalf("generic family invalid: %v", err)
	}
	site, err := fam.Site("en")
	if err != nil {
		t.Fatalf("Site(en) unexpected error: %v", err)
	}
	if got, want := site.APIURL(), "https://wiki.example.com/w/api.php"; got != want {
		t.Errorf("APIURL() = %q, want %q", got, want)
	}
}
