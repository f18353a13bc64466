package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gowikibot/wikibot/internal/api"
)

// Factory errors.
var (
	// ErrNoSource is returned when the arguments name no page source.
	ErrNoSource = errors.New("no page source: use -page, -file, -cat or -start")
	// ErrUnknownArg is returned for an argument no builder recognizes.
	ErrUnknownArg = errors.New("unknown generator argument")
)

// Iterator yields page titles one at a time. Next returns io.EOF when
// the source is exhausted.
type Iterator interface {
	Next(ctx context.Context) (string, error)
}

// Factory turns generator arguments into a single Iterator.
type Factory struct {
	// client provides API access for category and allpages sources.
	client *api.Client

	titles    []string
	sources   []func() Iterator
	namespace int
	hasNS     bool
	limit     int
}

// NewFactory creates a Factory. client may be nil when only -page and
// -file sources are used.
func NewFactory(client *api.Client) *Factory {
	return &Factory{client: client}
}

// Parse consumes one argument. Unrecognized arguments return
// ErrUnknownArg so commands can route their own flags around the factory.
func (f *Factory) Parse(arg string) error {
	name, value, _ := strings.Cut(arg, ":")
	switch name {
	case "-page":
		if value == "" {
			return fmt.Errorf("%w: -page needs a title", ErrUnknownArg)
		}
		f.titles = append(f.titles, value)
	case "-file":
		if value == "" {
			return fmt.Errorf("%w: -file needs a path", ErrUnknownArg)
		}
		it, err := newFileIterator(value)
		if err != nil {
			return err
		}
		f.sources = append(f.sources, func() Iterator { return it })
	case "-cat":
		if value == "" {
			return fmt.Errorf("%w: -cat needs a category name", ErrUnknownArg)
		}
		category := value
		f.sources = append(f.sources, func() Iterator {
			return newCategoryIterator(f.client, category, f)
		})
	case "-start":
		start := value
		f.sources = append(f.sources, func() Iterator {
			return newAllPagesIterator(f.client, start, f)
		})
	case "-ns":
		ns, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid -ns value %q: %w", value, err)
		}
		f.namespace = ns
		f.hasNS = true
	case "-limit":
		limit, err := strconv.Atoi(value)
		if err != nil || limit <= 0 {
			return fmt.Errorf("invalid -limit value %q", value)
		}
		f.limit = limit
	default:
		return fmt.Errorf("%w: %q", ErrUnknownArg, arg)
	}
	return nil
}

// ParseAll consumes all arguments.
func (f *Factory) ParseAll(args []string) error {
	for _, arg := range args {
		if err := f.Parse(arg); err != nil {
			return err
		}
	}
	return nil
}

// Build returns the combined iterator. Literal -page titles come first,
// then each other source in argument order. API-backed sources are
// constructed here, after all arguments are parsed, so -ns and -limit
// apply no matter where they appear on the command line. The -limit cap
// applies to the combined stream.
func (f *Factory) Build() (Iterator, error) {
	its := make([]Iterator, 0, len(f.sources)+1)
	if len(f.titles) > 0 {
		its = append(its, newSliceIterator(f.titles))
	}
	for _, src := range f.sources {
		its = append(its, src())
	}
	if len(its) == 0 {
		return nil, ErrNoSource
	}

	var it Iterator = newChainIterator(its)
	if f.limit > 0 {
		it = newLimitIterator(it, f.limit)
	}
	return it, nil
}

// sliceIterator yields a fixed list of titles.
type sliceIterator struct {
	titles []string
	pos    int
}

func newSliceIterator(titles []string) *sliceIterator {
	return &sliceIterator{titles: titles}
}

// Next implements Iterator.
func (s *sliceIterator) Next(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.pos >= len(s.titles) {
		return "", io.EOF
	}
	title := s.titles[s.pos]
	s.pos++
	return title, nil
}

// chainIterator concatenates iterators.
type chainIterator struct {
	its []Iterator
	pos int
}

func newChainIterator(its []Iterator) *chainIterator {
	return &chainIterator{its: its}
}

// Next implements Iterator.
func (c *chainIterator) Next(ctx context.Context) (string, error) {
	for c.pos < len(c.its) {
		title, err := c.its[c.pos].Next(ctx)
		if errors.Is(err, io.EOF) {
			c.pos++
			continue
		}
		return title, err
	}
	return "", io.EOF
}

// limitIterator stops after n titles.
type limitIterator struct {
	inner Iterator
	left  int
}

func newLimitIterator(inner Iterator, n int) *limitIterator {
	return &limitIterator{inner: inner, left: n}
}

// Next implements Iterator.
func (l *limitIterator) Next(ctx context.Context) (string, error) {
	if l.left <= 0 {
		return "", io.EOF
	}
	title, err := l.inner.Next(ctx)
	if err == nil {
		l.left--
	}
	return title, err
}
