// Package main provides the entry point for the wikibot CLI.
//
// wikibot maintains MediaWiki pages across the language editions of a
// wiki family. Its core command resolves interwiki language links to a
// consistent closure across all editions.
//
// Usage:
//
//	wikibot interwiki --lang en -- -cat:Physics
//	wikibot interwiki --lang en "Go (programming language)"
//
// See --help for all available options.
package main

// main is the entry point for wikibot.
func main() {
	Execute()
}
