// Package config holds wikibot's runtime configuration.
//
// Configuration comes from two places: CLI flags, mapped onto the flat
// Config struct, and an optional YAML project file (.wikibot) carrying
// per-family settings that don't fit on a command line (ignore lists,
// extra language codes, credentials references). Credentials themselves
// are never stored in the file; it names an environment variable instead.
//
// Defaults live in exported constants so tests and help text stay in sync
// with the code.
package config
