// Package report renders run summaries for humans and tools.
//
// Three formats are provided behind one Writer interface: a plain-text
// report for the terminal, GitHub-flavored Markdown for sharing, and
// JSON for downstream tooling. MultiWriter fans one summary out to
// several destinations, typically terminal plus file.
package report
