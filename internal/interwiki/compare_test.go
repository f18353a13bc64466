package interwiki

import (
	"reflect"
	"testing"

	"github.com/gowikibot/wikibot/internal/model"
)

// TestCompare tests diffing of old and new link sets.
func TestCompare(t *testing.T) {
	t.Parallel()

	fam := testFamily()

	tests := []struct {
		name     string
		oldLinks []model.LangLink
		newLinks []model.LangLink
		want     Changes
	}{
		{
			name:     "identical sets",
			oldLinks: []model.LangLink{{Code: "de", Title: "Berlin"}},
			newLinks: []model.LangLink{{Code: "de", Title: "Berlin"}},
			want:     Changes{},
		},
		{
			name:     "pure addition",
			oldLinks: nil,
			newLinks: []model.LangLink{{Code: "fr", Title: "Berlin"}, {Code: "de", Title: "Berlin"}},
			want:     Changes{Adds: []string{"de", "fr"}},
		},
		{
			name:     "pure removal",
			oldLinks: []model.LangLink{{Code: "ja", Title: "ベルリン"}},
			newLinks: nil,
			want:     Changes{Removes: []string{"ja"}},
		},
		{
			name:     "retargeted link is a modify",
			oldLinks: []model.LangLink{{Code: "de", Title: "Berlin (Begriffsklärung)"}},
			newLinks: []model.LangLink{{Code: "de", Title: "Berlin"}},
			want:     Changes{Modifies: []string{"de"}},
		},
		{
			name: "mixed diff",
			oldLinks: []model.LangLink{
				{Code: "de", Title: "Alt"},
				{Code: "fr", Title: "Berlin"},
			},
			newLinks: []model.LangLink{
				{Code: "de", Title: "Neu"},
				{Code: "ja", Title: "ベルリン"},
			},
			want: Changes{
				Adds:     []string{"ja"},
				Removes:  []string{"fr"},
				Modifies: []string{"de"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Compare(tt.oldLinks, tt.newLinks, fam)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Compare() = %+v, want %+v", got, tt.want)
			}
			if got.Empty() != tt.want.Empty() {
				t.Errorf("Empty() = %v, want %v", got.Empty(), tt.want.Empty())
			}
		})
	}
}

// TestChangesSummary tests edit summary rendering.
func TestChangesSummary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		changes Changes
		want    string
	}{
		{
			name:    "empty diff has no summary",
			changes: Changes{},
			want:    "",
		},
		{
			name:    "adds only",
			changes: Changes{Adds: []string{"de", "fr"}},
			want:    "robot: adding de, fr",
		},
		{
			name: "all three sections",
			changes: Changes{
				Adds:     []string{"fr", "ja"},
				Removes:  []string{"de"},
				Modifies: []string{"en"},
			},
			want: "robot: adding fr, ja; removing de; modifying en",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.changes.Summary(); got != tt.want {
				t.Errorf("Summary() = %q, want %q", got, tt.want)
			}
		})
	}
}
