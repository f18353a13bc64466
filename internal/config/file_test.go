package config

import "testing"

func TestFileFamilyConfig(t *testing.T) {
	t.Parallel()

	t.Run("nil file", func(t *testing.T) {
		t.Parallel()

		var f *File
		got := f.FamilyConfig("wikipedia")
		if got.SortOrder != "" || len(got.ExtraCodes) != 0 {
			t.Errorf("nil file should yield zero FamilyConfig, got %+v", got)
		}
	})

	t.Run("unknown family", func(t *testing.T) {
		t.Parallel()

		f := &File{Families: map[string]FamilyConfig{
			"wikipedia": {SortOrder: "collated"},
		}}
		got := f.FamilyConfig("wiktionary")
		if got.SortOrder != "" {
			t.Errorf("unknown family should yield zero FamilyConfig, got %+v", got)
		}
	})

	t.Run("known family", func(t *testing.T) {
		t.Parallel()

		f := &File{Families: map[string]FamilyConfig{
			"wikipedia": {
				SortOrder:  "leading",
				ExtraCodes: []string{"xx"},
			},
		}}
		got := f.FamilyConfig("wikipedia")
		if got.SortOrder != "leading" {
			t.Errorf("SortOrder = %q, want %q", got.SortOrder, "leading")
		}
		if len(got.ExtraCodes) != 1 || got.ExtraCodes[0] != "xx" {
			t.Errorf("ExtraCodes = %v, want [xx]", got.ExtraCodes)
		}
	})
}

func TestFamilyConfigIgnoredTitle(t *testing.T) {
	t.Parallel()

	fc := FamilyConfig{
		IgnoreTitles: map[string][]string{
			"de": {"Hauptseite"},
			"*":  {"Sandbox"},
		},
	}

	tests := []struct {
		name  string
		code  string
		title string
		want  bool
	}{
		{"per-code match", "de", "Hauptseite", true},
		{"per-code miss on other code", "fr", "Hauptseite", false},
		{"wildcard matches any code", "fr", "Sandbox", true},
		{"wildcard matches listed code too", "de", "Sandbox", true},
		{"no match", "de", "Berlin", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := fc.IgnoredTitle(tt.code, tt.title); got != tt.want {
				t.Errorf("IgnoredTitle(%q, %q) = %v, want %v", tt.code, tt.title, got, tt.want)
			}
		})
	}

	t.Run("empty config ignores nothing", func(t *testing.T) {
		t.Parallel()

		var empty FamilyConfig
		if empty.IgnoredTitle("en", "Berlin") {
			t.Error("empty FamilyConfig should not ignore any title")
		}
	})
}
