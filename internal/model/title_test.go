package model

import "testing"

// TestNormalizeTitle tests MediaWiki title normalization rules.
func TestNormalizeTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain title unchanged", "Berlin", "Berlin"},
		{"underscores become spaces", "New_York_City", "New York City"},
		{"surrounding whitespace trimmed", "  Berlin  ", "Berlin"},
		{"inner whitespace collapsed", "New   York", "New York"},
		{"first letter uppercased", "berlin", "Berlin"},
		{"only first letter affected", "iPod", "IPod"},
		{"non-ASCII first letter uppercased", "österreich", "Österreich"},
		{"already uppercase kept", "Österreich", "Österreich"},
		{"empty string stays empty", "", ""},
		{"mixed underscores and spaces", " foo_bar  baz ", "Foo bar baz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeTitle(tt.input); got != tt.want {
				t.Errorf("NormalizeTitle(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestSectionlessTitle verifies that fragment anchors are stripped.
func TestSectionlessTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no fragment unchanged", "Berlin", "Berlin"},
		{"fragment stripped", "Berlin#History", "Berlin"},
		{"only first hash cuts", "C#Sharp#Usage", "C"},
		{"fragment only leaves empty title", "#History", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := SectionlessTitle(tt.input); got != tt.want {
				t.Errorf("SectionlessTitle(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
