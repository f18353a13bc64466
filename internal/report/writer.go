package report

import (
	"io"
	"time"

	"github.com/gowikibot/wikibot/internal/model"
)

// summaryRound is the precision run durations are rounded to in reports.
const summaryRound = 100 * time.Millisecond

// Writer renders a run summary to some destination.
type Writer interface {
	// Write outputs the summary to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(summary *model.RunSummary) (int, error)
}

// MultiWriter writes a summary to multiple Writers, typically terminal
// plus a report file.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the summary to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(summary *model.RunSummary) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(summary)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// statusOrder fixes the presentation order of result statuses.
var statusOrder = []model.PageStatus{
	model.StatusUpdated,
	model.StatusWouldUpdate,
	model.StatusUnchanged,
	model.StatusConflicted,
	model.StatusSkipped,
	model.StatusFailed,
}
