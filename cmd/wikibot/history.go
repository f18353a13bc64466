package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gowikibot/wikibot/internal/config"
	"github.com/gowikibot/wikibot/internal/database"
	"github.com/gowikibot/wikibot/internal/model"
)

// defaultHistoryLimit bounds listings unless the user asks for more.
const defaultHistoryLimit = 20

// NewHistoryCmd creates the history command.
// This command inspects run records stored in the local database.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [page title]",
		Short: "Inspect recorded interwiki runs",
		Long: `History reads the local run database written by the interwiki command.

Without arguments it lists recent runs. With --run it shows every page
outcome of one run. With a page title it shows how that page's outcome
evolved across runs; the title is matched against the origin site given
by --site (in family:code form, e.g. wikipedia:en).

Examples:
  # List recent runs
  wikibot history

  # List recent runs for one origin site
  wikibot history --site wikipedia:de

  # Show all page outcomes of run 5
  wikibot history --run 5

  # Show how one page fared across runs
  wikibot history --site wikipedia:en "Go (programming language)"

  # JSON output for tooling
  wikibot history --run 5 --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().Int64P("run", "r", 0,
		"Show the page outcomes of a specific run ID")
	cmd.Flags().StringP("site", "s", "",
		"Origin site filter in family:code form (e.g. wikipedia:en)")
	cmd.Flags().IntP("limit", "L", defaultHistoryLimit,
		"Maximum entries to list")
	cmd.Flags().BoolP("json", "j", false,
		"Output in JSON format")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	runID, err := cmd.Flags().GetInt64("run")
	if err != nil {
		return err
	}
	site, err := cmd.Flags().GetString("site")
	if err != nil {
		return err
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	// Validate arguments before opening the database.
	if len(args) == 1 && site == "" {
		return errors.New("a page title needs --site to identify the origin (e.g. --site wikipedia:en)")
	}
	if limit <= 0 {
		return fmt.Errorf("invalid --limit %d", limit)
	}

	db, err := database.Open(config.XDGDataDir(), database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open run database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	switch {
	case runID > 0:
		return showRun(ctx, cmd, db, runID, jsonOutput)
	case len(args) == 1:
		origin := model.PageRef{Site: site, Title: model.NormalizeTitle(args[0])}
		return showPageHistory(ctx, cmd, db, origin, limit, jsonOutput)
	default:
		return listRuns(ctx, cmd, db, site, limit, jsonOutput)
	}
}

// listRuns prints recent run headers, newest first.
func listRuns(ctx context.Context, cmd *cobra.Command, db *database.RunDB, site string, limit int, jsonOutput bool) error {
	records, err := db.LatestRuns(ctx, site, limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	out := cmd.OutOrStdout()

	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Fprintln(out, "No recorded runs found.")
		fmt.Fprintln(out, "\nUse 'wikibot interwiki' to run the bot; runs are recorded automatically.")
		return nil
	}

	fmt.Fprintf(out, "Recorded runs (%d):\n\n", len(records))
	fmt.Fprintf(out, "  %-6s  %-20s  %-16s  %-8s  %s\n", "ID", "Started", "Origin Site", "Mode", "API Reqs")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 66))

	for _, r := range records {
		mode := "live"
		if r.DryRun {
			mode = "dry-run"
		}
		fmt.Fprintf(out, "  %-6d  %-20s  %-16s  %-8s  %d\n",
			r.ID, r.Started.Local().Format("2006-01-02 15:04:05"), r.OriginSite, mode, r.APIRequests)
	}

	fmt.Fprintln(out, "\nUse 'wikibot history --run <id>' to see per-page outcomes.")
	return nil
}

// showRun prints every page outcome of one run.
func showRun(ctx context.Context, cmd *cobra.Command, db *database.RunDB, runID int64, jsonOutput bool) error {
	results, err := db.ResultsForRun(ctx, runID)
	if err != nil {
		if errors.Is(err, database.ErrRunNotFound) {
			return fmt.Errorf("run %d not found (use 'wikibot history' to list runs)", runID)
		}
		return fmt.Errorf("failed to load run %d: %w", runID, err)
	}

	out := cmd.OutOrStdout()

	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Fprintf(out, "Run %d recorded no page results.\n", runID)
		return nil
	}

	fmt.Fprintf(out, "Run %d (%d pages):\n\n", runID, len(results))
	for i := range results {
		printResult(cmd, &results[i])
	}
	return nil
}

// showPageHistory prints how one origin's outcome evolved across runs.
func showPageHistory(ctx context.Context, cmd *cobra.Command, db *database.RunDB, origin model.PageRef, limit int, jsonOutput bool) error {
	results, runIDs, err := db.ResultHistory(ctx, origin.String(), limit)
	if err != nil {
		return fmt.Errorf("failed to load history for %s: %w", origin, err)
	}

	out := cmd.OutOrStdout()

	if jsonOutput {
		type entry struct {
			RunID  int64            `json:"run_id"`
			Result model.PageResult `json:"result"`
		}
		entries := make([]entry, len(results))
		for i := range results {
			entries[i] = entry{RunID: runIDs[i], Result: results[i]}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(results) == 0 {
		fmt.Fprintf(out, "No recorded results for %s\n", origin)
		fmt.Fprintln(out, "\nUse 'wikibot interwiki' to process this page.")
		return nil
	}

	fmt.Fprintf(out, "History for %s (%d runs, newest first):\n\n", origin, len(results))
	for i := range results {
		fmt.Fprintf(out, "run %d:\n", runIDs[i])
		printResult(cmd, &results[i])
	}
	return nil
}

// printResult prints one page result in the listing format.
func printResult(cmd *cobra.Command, r *model.PageResult) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "  [%-12s] %s\n", r.Status, r.Origin.Title)
	if r.Reason != "" {
		fmt.Fprintf(out, "      reason: %s\n", r.Reason)
	}
	if r.Changed() {
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
		fmt.Fprintf(out, "      %s\n", strings.Join(parts, "; "))
	}
	for _, c := range r.Conflicts {
		fmt.Fprintf(out, "      conflict on %s: %s\n", c.Site, strings.Join(c.Candidates, " | "))
	}
}
