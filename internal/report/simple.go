package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/gowikibot/wikibot/internal/model"
)

// SimpleWriter outputs human-readable text reports for terminal display.
// Plain ASCII formatting keeps the output pipeable and terminal-agnostic.
type SimpleWriter struct {
	baseWriter

	// showUnchanged controls whether unchanged pages are listed
	// individually rather than only counted.
	showUnchanged bool

	// verbose enables per-page change detail in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowUnchanged lists unchanged pages individually.
func WithShowUnchanged(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showUnchanged = show
	}
}

// WithVerbose enables verbose output with per-page change detail.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the run summary in human-readable format.
func (w *SimpleWriter) Write(summary *model.RunSummary) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, summary)
	w.writeCounts(&sb, summary)
	w.writeResults(&sb, summary)
	w.writeConflicts(&sb, summary)
	w.writeFooter(&sb, summary)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes run identification and timing.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, summary *model.RunSummary) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                        INTERWIKI RUN REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Family:       %s\n", summary.Family))
	sb.WriteString(fmt.Sprintf("Origin Site:  %s\n", summary.OriginSite))
	sb.WriteString(fmt.Sprintf("Started:      %s\n", summary.Started.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Elapsed:      %s\n", summary.Elapsed().Round(summaryRound)))
	sb.WriteString(fmt.Sprintf("API Requests: %d\n", summary.APIRequests))

	if summary.DryRun {
		sb.WriteString("Mode:         DRY RUN (no pages saved)\n")
	} else {
		sb.WriteString("Mode:         live\n")
	}

	sb.WriteString("\n")
}

// writeCounts writes the per-status summary section.
func (w *SimpleWriter) writeCounts(sb *strings.Builder, summary *model.RunSummary) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("RESULT SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	counts := summary.Counts()
	for _, status := range statusOrder {
		sb.WriteString(fmt.Sprintf("  %-13s %d\n", status.String()+":", counts[status.String()]))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  %-13s %d pages\n", "total:", len(summary.Results)))
	sb.WriteString("\n")
}

// writeResults lists per-page outcomes.
func (w *SimpleWriter) writeResults(sb *strings.Builder, summary *model.RunSummary) {
	listed := 0
	for i := range summary.Results {
		if w.includeResult(&summary.Results[i]) {
			listed++
		}
	}
	if listed == 0 {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("PAGES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for i := range summary.Results {
		r := &summary.Results[i]
		if !w.includeResult(r) {
			continue
		}

		sb.WriteString(fmt.Sprintf("  [%s] %s\n", statusTag(r.Status), r.Origin.Title))
		if r.Reason != "" {
			sb.WriteString(fmt.Sprintf("      reason: %s\n", r.Reason))
		}
		if r.Changed() {
			sb.WriteString(fmt.Sprintf("      %s\n", changeLine(r)))
		}
		if w.verbose && len(r.Links) > 0 {
			sb.WriteString(fmt.Sprintf("      links: %s\n", linkCodes(r.Links)))
		}
	}
	sb.WriteString("\n")
}

// includeResult reports whether a result is listed individually.
func (w *SimpleWriter) includeResult(r *model.PageResult) bool {
	if r.Status == model.StatusUnchanged {
		return w.showUnchanged
	}
	return true
}

// writeConflicts lists every unresolved conflict across the run.
func (w *SimpleWriter) writeConflicts(sb *strings.Builder, summary *model.RunSummary) {
	var lines []string
	for i := range summary.Results {
		r := &summary.Results[i]
		for _, c := range r.Conflicts {
			lines = append(lines, fmt.Sprintf("  %s: %s -> %s",
				r.Origin.Title, c.Site, strings.Join(c.Candidates, " | ")))
		}
	}
	if len(lines) == 0 {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("UNRESOLVED CONFLICTS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, line := range lines {
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
}

// writeFooter closes the report.
func (w *SimpleWriter) writeFooter(sb *strings.Builder, _ *model.RunSummary) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by wikibot\n")
	sb.WriteString("https://github.com/gowikibot/wikibot\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}

// statusTag returns a short fixed-width marker for the status column.
func statusTag(status model.PageStatus) string {
	switch status {
	case model.StatusUpdated:
		return "+"
	case model.StatusWouldUpdate:
		return "~"
	case model.StatusUnchanged:
		return "="
	case model.StatusConflicted:
		return "?"
	case model.StatusSkipped:
		return "-"
	case model.StatusFailed:
		return "!"
	default:
		return " "
	}
}

// changeLine formats the add/remove/modify sets of one result.
func changeLine(r *model.PageResult) string {
	var parts []string
	if len(r.Adds) > 0 {
		parts = append(parts, "adding "+strings.Join(r.Adds, ", "))
	}
	if len(r.Removes) > 0 {
		parts = append(parts, "removing "+strings.Join(r.Removes, ", "))
	}
	if len(r.Modifies) > 0 {
		parts = append(parts, "modifying "+strings.Join(r.Modifies, ", "))
	}
	return strings.Join(parts, "; ")
}

// linkCodes renders the language codes of a final link set.
func linkCodes(links []model.LangLink) string {
	codes := make([]string, len(links))
	for i, l := range links {
		codes[i] = l.Code
	}
	return strings.Join(codes, " ")
}
