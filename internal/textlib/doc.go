// Package textlib manipulates interwiki links inside raw wikitext.
//
// It does two jobs: find the interwiki links a page currently carries,
// and rewrite the page with a new link set while leaving every other
// byte of the text alone. Only links whose prefix is a known language
// code of the family count as interwiki; anything else ([[fr:...]]
// inside nowiki tags, [[:fr:...]] inline article links, ordinary
// [[Category:...]] links) is left untouched.
package textlib
