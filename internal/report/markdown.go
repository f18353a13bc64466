package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/gowikibot/wikibot/internal/model"
)

// MarkdownWriter outputs run summaries in GitHub-flavored Markdown.
// This format is designed for run logs checked into wikis or repos.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the run summary in Markdown format.
func (w *MarkdownWriter) Write(summary *model.RunSummary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeCounts(md, summary)
	w.writeResults(md, summary)
	w.writeConflicts(md, summary)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes run identification and timing.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, summary *model.RunSummary) {
	md.H1("Interwiki Run Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Family", "`" + summary.Family + "`"},
			{"Origin Site", "`" + summary.OriginSite + "`"},
			{"Started", summary.Started.Format("2006-01-02 15:04:05 MST")},
			{"Elapsed", summary.Elapsed().Round(summaryRound).String()},
			{"API Requests", strconv.Itoa(summary.APIRequests)},
			{"Mode", w.modeText(summary)},
		},
	})
	md.PlainText("")
}

// modeText returns the human form of the run mode.
func (w *MarkdownWriter) modeText(summary *model.RunSummary) string {
	if summary.DryRun {
		return "dry run (no pages saved)"
	}
	return "live"
}

// writeCounts writes the per-status summary table and an alert for the
// overall run health.
func (w *MarkdownWriter) writeCounts(md *markdown.Markdown, summary *model.RunSummary) {
	md.H2("Result Summary")
	md.PlainText("")

	counts := summary.Counts()
	rows := make([][]string, 0, len(statusOrder)+1)
	for _, status := range statusOrder {
		rows = append(rows, []string{status.String(), strconv.Itoa(counts[status.String()])})
	}
	rows = append(rows, []string{"**total**", "**" + strconv.Itoa(len(summary.Results)) + "**"})

	md.Table(markdown.TableSet{
		Header: []string{"Status", "Count"},
		Rows:   rows,
	})
	md.PlainText("")

	w.writeAlert(md, counts)
}

// writeAlert summarizes run health as a GitHub alert.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, counts map[string]int) {
	switch {
	case counts[model.StatusFailed.String()] > 0:
		md.Warningf(
			"%d page(s) failed. Check the page table for reasons before rerunning.",
			counts[model.StatusFailed.String()],
		)
	case counts[model.StatusConflicted.String()] > 0:
		md.Importantf(
			"%d page(s) have unresolved conflicts and were left untouched.",
			counts[model.StatusConflicted.String()],
		)
	case counts[model.StatusUpdated.String()]+counts[model.StatusWouldUpdate.String()] > 0:
		md.Note("Run completed with changes and no failures.")
	default:
		md.Tip("All pages already consistent. Nothing to do.")
	}
	md.PlainText("")
}

// writeResults writes the per-page outcome table.
func (w *MarkdownWriter) writeResults(md *markdown.Markdown, summary *model.RunSummary) {
	md.H2("Pages")
	md.PlainText("")

	if len(summary.Results) == 0 {
		md.PlainText("No pages processed.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(summary.Results))
	for i := range summary.Results {
		r := &summary.Results[i]
		rows[i] = []string{
			"[[" + r.Origin.Title + "]]",
			r.Status.String(),
			truncateString(w.detailText(r), 70),
			strconv.Itoa(r.PagesFetched),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Page", "Status", "Detail", "Fetched"},
		Rows:   rows,
	})
	md.PlainText("")
}

// detailText collapses reason and change sets into one table cell.
func (w *MarkdownWriter) detailText(r *model.PageResult) string {
	if r.Reason != "" {
		return r.Reason
	}
	if r.Changed() {
		return changeLine(r)
	}
	return "-"
}

// writeConflicts writes the unresolved conflict list.
func (w *MarkdownWriter) writeConflicts(md *markdown.Markdown, summary *model.RunSummary) {
	var items []string
	for i := range summary.Results {
		r := &summary.Results[i]
		for _, c := range r.Conflicts {
			items = append(items,
				"[["+r.Origin.Title+"]] on `"+c.Site+"`: "+strings.Join(c.Candidates, " | "))
		}
	}
	if len(items) == 0 {
		return
	}

	md.H2("Unresolved Conflicts")
	md.PlainText("")
	md.BulletList(items...)
	md.PlainText("")
}

// writeFooter closes the report.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [wikibot](https://github.com/gowikibot/wikibot)*")
}

// truncateString truncates a string to maxLen runes with ellipsis.
// Counting runes, not bytes, keeps non-ASCII titles valid UTF-8.
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
