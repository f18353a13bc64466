package family

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Family errors.
var (
	// ErrUnknownCode is returned when a language code is not a member of the family.
	ErrUnknownCode = errors.New("unknown language code for family")
	// ErrEmptyFamily is returned when a family has no language codes at all.
	ErrEmptyFamily = errors.New("family has no language codes")
)

// SortOrder selects how interwiki links are ordered when written to a page.
// Different wiki communities have settled on different conventions, so the
// order is a per-family (and sometimes per-site) policy.
type SortOrder int

const (
	// SortByCode orders links alphabetically by language code.
	// This is the convention on the majority of Wikipedia editions.
	SortByCode SortOrder = iota

	// SortByCollatedCode orders links by language code using Unicode
	// collation rules rather than raw byte order. The two differ for
	// codes containing non-ASCII characters (e.g. "be-x-old" variants
	// normalized by communities with localized prefixes).
	SortByCollatedCode

	// SortLeadingFirst keeps a fixed list of codes at the front and
	// orders the remainder alphabetically. Some editions pin their own
	// code or a historically privileged set at the top.
	SortLeadingFirst
)

// Family describes a group of MediaWiki sites sharing configuration,
// such as Wikipedia across all its language editions.
type Family struct {
	// Name is the family identifier, e.g. "wikipedia".
	Name string

	// Domain is the shared parent domain, e.g. "wikipedia.org".
	// Site hosts are built as "<code>.<Domain>" unless Hosts overrides.
	Domain string

	// Codes lists the language codes with a live wiki in this family.
	Codes []string

	// Hosts maps language codes to explicit hosts for sites that do not
	// follow the "<code>.<Domain>" pattern (e.g. single-host wikis).
	Hosts map[string]string

	// Obsolete maps retired language codes to their replacement code.
	// An empty replacement means the wiki was closed with no successor.
	Obsolete map[string]string

	// Order is the interwiki link sort policy for this family.
	Order SortOrder

	// LeadingCodes lists codes pinned to the front when Order is
	// SortLeadingFirst. Ignored otherwise.
	LeadingCodes []string

	// knownCodes caches membership lookups. Built lazily by IsKnown.
	knownCodes map[string]bool
}

// IsKnown reports whether code identifies a live wiki in the family.
// Obsolete codes are not known; use Canonical to map them first.
func (f *Family) IsKnown(code string) bool {
	if f.knownCodes == nil {
		f.knownCodes = make(map[string]bool, len(f.Codes))
		for _, c := range f.Codes {
			f.knownCodes[c] = true
		}
	}
	return f.knownCodes[code]
}

// IsRecognized reports whether code is a live or obsolete member of the
// family. Wikitext scanners need this wider check: an obsolete prefix
// like "dk" still marks an interwiki link that must be rewritten, not
// ordinary page text.
func (f *Family) IsRecognized(code string) bool {
	if f.IsKnown(code) {
		return true
	}
	_, ok := f.Obsolete[code]
	return ok
}

// Canonical resolves a language code to its canonical form, following the
// obsolete-code table. It returns ErrUnknownCode if the code (after
// resolution) is not a member of the family, or if an obsolete code maps
// to a closed wiki.
func (f *Family) Canonical(code string) (string, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if repl, ok := f.Obsolete[code]; ok {
		if repl == "" {
			return "", fmt.Errorf("%w: %q is closed", ErrUnknownCode, code)
		}
		code = repl
	}
	if !f.IsKnown(code) {
		// BCP 47 canonicalization catches spellings like "pt-BR" for "pt-br".
		if tag, err := language.Parse(code); err == nil {
			lowered := strings.ToLower(tag.String())
			if f.IsKnown(lowered) {
				return lowered, nil
			}
		}
		return "", fmt.Errorf("%w: %q in %s", ErrUnknownCode, code, f.Name)
	}
	return code, nil
}

// Site returns the member site for the given language code.
// The code must already be canonical; use Canonical first for user input.
func (f *Family) Site(code string) (Site, error) {
	canonical, err := f.Canonical(code)
	if err != nil {
		return Site{}, err
	}
	return Site{Family: f, Code: canonical}, nil
}

// SortCodes sorts language codes in place according to the family's
// interwiki ordering policy.
func (f *Family) SortCodes(codes []string) {
	switch f.Order {
	case SortByCollatedCode:
		c := collate.New(language.Und)
		sort.Slice(codes, func(i, j int) bool {
			return c.CompareString(codes[i], codes[j]) < 0
		})
	case SortLeadingFirst:
		rank := make(map[string]int, len(f.LeadingCodes))
		for i, code := range f.LeadingCodes {
			rank[code] = i + 1
		}
		sort.Slice(codes, func(i, j int) bool {
			ri, rj := rank[codes[i]], rank[codes[j]]
			if ri != rj {
				// Unranked codes (0) sort after all ranked ones.
				if ri == 0 {
					return false
				}
				if rj == 0 {
					return true
				}
				return ri < rj
			}
			return codes[i] < codes[j]
		})
	default:
		slices.Sort(codes)
	}
}

// Validate checks that the family definition is usable.
func (f *Family) Validate() error {
	if len(f.Codes) == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyFamily, f.Name)
	}
	for obsolete, repl := range f.Obsolete {
		if repl != "" && !f.IsKnown(repl) {
			return fmt.Errorf("%w: obsolete code %q maps to unknown %q", ErrUnknownCode, obsolete, repl)
		}
	}
	return nil
}

// host returns the HTTP host for a language code.
func (f *Family) host(code string) string {
	if h, ok := f.Hosts[code]; ok {
		return h
	}
	return code + "." + f.Domain
}
