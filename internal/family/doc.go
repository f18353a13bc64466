// Package family models MediaWiki site families and their member sites.
//
// A family is a group of MediaWiki installations sharing configuration,
// such as Wikipedia across all its language editions. A site is one
// (family, language code) pair and is the endpoint all API calls for
// that wiki are addressed to.
//
// The package carries the per-family knowledge the interwiki engine needs:
// which language codes exist, which obsolete codes redirect where, how the
// API URL for a code is built, and in what order interwiki links are sorted
// when written back to a page.
package family
