// Package generator builds page-title iterators from command-line
// arguments, so every bot command shares one way of saying which pages
// to work on.
//
// Supported arguments:
//
//	-page:Title        a literal title (repeatable)
//	-file:path         one title per line, optional [[...]] brackets
//	-cat:Name          members of Category:Name, via the API
//	-start:Title       all pages from Title onward, via the API
//	-ns:N              keep only namespace N (API-backed sources)
//	-limit:N           stop after N titles
//
// Iterators are pull-based: Next returns one title at a time and io.EOF
// at exhaustion. API-backed iterators fetch lazily, one continuation
// round-trip ahead of the consumer.
package generator
