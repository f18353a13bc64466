// Package database persists bot run history in SQLite.
//
// Every run stores one row in runs plus one row per processed origin
// page in page_results. The history command reads this back to list
// past runs and to show how an origin's interwiki links evolved between
// two runs. Storage uses modernc.org/sqlite, a pure-Go driver, so the
// binary stays cgo-free.
package database
