// Package model defines the core data structures used throughout wikibot.
//
// This package contains the following main types:
//   - Page: a remote wiki page identified by (Site, Title, Namespace)
//   - LangLink: an interwiki link from one language edition to another
//   - PageResult: the outcome of processing one origin page
//   - RunSummary: the aggregate result of a whole bot run
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (api, interwiki, report, database) need to
// use these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage.
package model
