package generator

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	mwclient "cgt.name/pkg/go-mwclient"
	"cgt.name/pkg/go-mwclient/params"
	"github.com/antonholmquist/jason"

	"github.com/gowikibot/wikibot/internal/api"
	"github.com/gowikibot/wikibot/internal/model"
)

// ErrNoClient is returned when an API-backed source is used without a client.
var ErrNoClient = errors.New("generator source requires an API client")

// bracketedTitle matches an optionally [[bracketed]] title on a line.
var bracketedTitle = regexp.MustCompile(`^\[\[(.*?)\]\]$`)

// fileIterator yields titles from a text file, one per line. Lines may
// wrap the title in [[...]]; blank lines and lines starting with # are
// skipped.
type fileIterator struct {
	titles []string
	pos    int
}

func newFileIterator(path string) (*fileIterator, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided page list is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open page list: %w", err)
	}
	defer f.Close()

	it := &fileIterator{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if m := bracketedTitle.FindStringSubmatch(line); m != nil {
			line = m[1]
		}
		title := model.NormalizeTitle(line)
		if title != "" {
			it.titles = append(it.titles, title)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read page list: %w", err)
	}
	return it, nil
}

// Next implements Iterator.
func (f *fileIterator) Next(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if f.pos >= len(f.titles) {
		return "", io.EOF
	}
	title := f.titles[f.pos]
	f.pos++
	return title, nil
}

// apiIterator drives an auto-continuing list query one round-trip at a
// time, buffering the titles of each response. The consumer therefore
// stays at most one continuation request ahead of what it has used.
type apiIterator struct {
	client   *api.Client
	p        params.Values
	listName string

	query  *mwclient.Query
	buffer []string
}

func newAPIIterator(client *api.Client, p params.Values, listName string) *apiIterator {
	return &apiIterator{client: client, p: p, listName: listName}
}

// Next implements Iterator.
func (a *apiIterator) Next(ctx context.Context) (string, error) {
	if a.client == nil {
		return "", ErrNoClient
	}
	if a.query == nil {
		a.query = a.client.Query(a.p)
	}

	for len(a.buffer) == 0 {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if !a.query.Next() {
			if err := a.query.Err(); err != nil {
				return "", fmt.Errorf("list query %s failed: %w", a.listName, err)
			}
			return "", io.EOF
		}
		titles, err := titlesFromResponse(a.query.Resp(), a.listName)
		if err != nil {
			return "", err
		}
		a.buffer = titles
	}

	title := a.buffer[0]
	a.buffer = a.buffer[1:]
	return title, nil
}

// titlesFromResponse extracts the title of every list entry in one query
// response.
func titlesFromResponse(resp *jason.Object, listName string) ([]string, error) {
	entries, err := resp.GetObjectArray("query", listName)
	if err != nil {
		// An empty continuation response carries no list at all.
		return nil, nil
	}
	titles := make([]string, 0, len(entries))
	for _, entry := range entries {
		title, err := entry.GetString("title")
		if err != nil {
			return nil, fmt.Errorf("list entry without title in %s response", listName)
		}
		titles = append(titles, title)
	}
	return titles, nil
}

func newCategoryIterator(client *api.Client, category string, f *Factory) Iterator {
	if !strings.Contains(category, ":") {
		category = "Category:" + category
	}
	p := params.Values{
		"action":  "query",
		"list":    "categorymembers",
		"cmtitle": category,
		"cmlimit": "max",
	}
	if f.hasNS {
		p["cmnamespace"] = strconv.Itoa(f.namespace)
	}
	return newAPIIterator(client, p, "categorymembers")
}

func newAllPagesIterator(client *api.Client, start string, f *Factory) Iterator {
	p := params.Values{
		"action":  "query",
		"list":    "allpages",
		"aplimit": "max",
	}
	if start != "" {
		p["apfrom"] = model.NormalizeTitle(start)
	}
	if f.hasNS {
		p["apnamespace"] = strconv.Itoa(f.namespace)
	}
	return newAPIIterator(client, p, "allpages")
}
