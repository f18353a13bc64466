package model

import (
	"errors"
	"fmt"
	"strings"
)

// LangLink errors.
var (
	// ErrInvalidLangLink is returned when a link is not of the form "code:Title".
	ErrInvalidLangLink = errors.New("invalid interwiki link format")
	// ErrEmptyLinkTitle is returned when the title part of a link is empty.
	ErrEmptyLinkTitle = errors.New("interwiki link title cannot be empty")
)

// LangLink is an interwiki link: a pointer from a page on one site to the
// "same" page on another language edition of the family.
type LangLink struct {
	// Code is the target language code, e.g. "fr".
	Code string `json:"code"`

	// Title is the target page title.
	Title string `json:"title"`
}

// ParseLangLink parses "code:Title" into a LangLink. The code is lowercased
// and the title is normalized; no family membership check is done here.
func ParseLangLink(s string) (LangLink, error) {
	code, title, ok := strings.Cut(s, ":")
	if !ok {
		return LangLink{}, fmt.Errorf("%w: %q", ErrInvalidLangLink, s)
	}
	code = strings.ToLower(strings.TrimSpace(code))
	title = NormalizeTitle(title)
	if code == "" {
		return LangLink{}, fmt.Errorf("%w: %q", ErrInvalidLangLink, s)
	}
	if title == "" {
		return LangLink{}, fmt.Errorf("%w: %q", ErrEmptyLinkTitle, s)
	}
	return LangLink{Code: code, Title: title}, nil
}

// String returns the link in "code:Title" form.
func (l LangLink) String() string {
	return l.Code + ":" + l.Title
}

// Wikitext returns the link as it appears in page source, "[[code:Title]]".
func (l LangLink) Wikitext() string {
	return "[[" + l.Code + ":" + l.Title + "]]"
}

// LinksByCode indexes links by language code. Later entries win on
// duplicate codes, matching how MediaWiki renders duplicate interwikis.
func LinksByCode(links []LangLink) map[string]string {
	m := make(map[string]string, len(links))
	for _, l := range links {
		m[l.Code] = l.Title
	}
	return m
}
