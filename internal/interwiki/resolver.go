package interwiki

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/gowikibot/wikibot/internal/family"
	"github.com/gowikibot/wikibot/internal/model"
)

// Resolver settles the judgement calls the engine cannot make on its own:
// which of several candidate pages on one site is the right one, and
// whether a page that fails a policy check (disambiguation or namespace
// mismatch) should be accepted anyway.
type Resolver interface {
	// PickPage chooses among candidate pages on one site. Returning nil
	// with no error skips the site and records a conflict.
	PickPage(origin *model.Page, site family.Site, candidates []*model.Page) (*model.Page, error)

	// ConfirmMismatch decides whether a candidate that mismatches the
	// origin (reason says how) should be accepted regardless.
	ConfirmMismatch(origin, candidate *model.Page, reason string) (bool, error)
}

// AutoResolver settles everything by policy: mismatches are rejected and
// multi-candidate sites are left as recorded conflicts. This is the only
// resolver usable with parallel fetching.
type AutoResolver struct{}

// PickPage always declines, leaving candidate selection to the subject's
// own preference rules and the conflict record.
func (AutoResolver) PickPage(_ *model.Page, _ family.Site, _ []*model.Page) (*model.Page, error) {
	return nil, nil
}

// ConfirmMismatch always rejects.
func (AutoResolver) ConfirmMismatch(_, _ *model.Page, _ string) (bool, error) {
	return false, nil
}

// TerminalResolver asks a human on an interactive terminal. Prompts are
// serialized with a mutex so concurrent subjects cannot interleave
// questions.
type TerminalResolver struct {
	in  *bufio.Reader
	out io.Writer
	mu  sync.Mutex
}

// NewTerminalResolver creates a TerminalResolver reading answers from in
// and writing prompts to out (typically os.Stdin and os.Stdout).
func NewTerminalResolver(in io.Reader, out io.Writer) *TerminalResolver {
	return &TerminalResolver{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// PickPage lists the candidates and reads a number, or "n" for none.
func (r *TerminalResolver) PickPage(origin *model.Page, site family.Site, candidates []*model.Page) (*model.Page, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintf(r.out, "Conflict for %s on %s:\n", origin, site)
	for i, c := range candidates {
		marker := ""
		if c.IsDisambig {
			marker = " (disambiguation)"
		}
		fmt.Fprintf(r.out, "  [%d] %s%s\n", i+1, c.Title, marker)
	}
	fmt.Fprintf(r.out, "Which page should be linked? [1-%d, n for none] ", len(candidates))

	for {
		line, err := r.in.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("reading answer: %w", err)
		}
		answer := strings.TrimSpace(line)
		if answer == "n" || answer == "N" {
			return nil, nil
		}
		if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(candidates) {
			return candidates[n-1], nil
		}
		fmt.Fprintf(r.out, "Please answer 1-%d or n: ", len(candidates))
	}
}

// ConfirmMismatch asks a yes/no question.
func (r *TerminalResolver) ConfirmMismatch(origin, candidate *model.Page, reason string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintf(r.out, "%s links to %s, which %s. Accept anyway? [y/N] ", origin, candidate, reason)
	line, err := r.in.ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("reading answer: %w", err)
	}
	answer := strings.TrimSpace(strings.ToLower(line))
	return answer == "y" || answer == "yes", nil
}
