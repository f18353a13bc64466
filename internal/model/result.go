package model

import "time"

// PageStatus classifies the outcome of processing one origin page.
type PageStatus int

const (
	// StatusUnchanged means the computed links matched the existing ones.
	StatusUnchanged PageStatus = iota
	// StatusUpdated means the page was saved with new links.
	StatusUpdated
	// StatusWouldUpdate means a dry run found changes but did not save.
	StatusWouldUpdate
	// StatusSkipped means the page was not processed (missing origin,
	// redirect origin, ignore list).
	StatusSkipped
	// StatusConflicted means link resolution found competing candidates
	// that the resolver declined to settle.
	StatusConflicted
	// StatusFailed means the save (or a required fetch) errored.
	StatusFailed
)

// String returns the status in report form.
func (s PageStatus) String() string {
	switch s {
	case StatusUnchanged:
		return "unchanged"
	case StatusUpdated:
		return "updated"
	case StatusWouldUpdate:
		return "would-update"
	case StatusSkipped:
		return "skipped"
	case StatusConflicted:
		return "conflicted"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Conflict records one unresolved choice between candidate pages on a
// single site.
type Conflict struct {
	// Site is the wiki with competing candidates.
	Site string `json:"site"`
	// Candidates are the page titles that competed.
	Candidates []string `json:"candidates"`
}

// PageResult is the outcome of running the interwiki engine over one
// origin page.
type PageResult struct {
	// Origin identifies the page the run started from.
	Origin PageRef `json:"origin"`

	// Status classifies the outcome.
	Status PageStatus `json:"status"`

	// Reason holds detail for skipped and failed results.
	Reason string `json:"reason,omitempty"`

	// Adds, Removes and Modifies are the language codes whose links were
	// added, removed or retargeted relative to the page's previous state.
	Adds     []string `json:"adds,omitempty"`
	Removes  []string `json:"removes,omitempty"`
	Modifies []string `json:"modifies,omitempty"`

	// Links is the final computed link set for the origin.
	Links []LangLink `json:"links,omitempty"`

	// Conflicts lists sites where candidate selection failed.
	Conflicts []Conflict `json:"conflicts,omitempty"`

	// PagesFetched counts remote pages loaded while resolving this origin.
	PagesFetched int `json:"pages_fetched"`
}

// Changed reports whether this result represents a difference against the
// page's previous interwiki links.
func (r *PageResult) Changed() bool {
	return len(r.Adds)+len(r.Removes)+len(r.Modifies) > 0
}

// RunSummary aggregates one whole bot run for reporting and persistence.
type RunSummary struct {
	// Family is the family the run operated on.
	Family string `json:"family"`

	// OriginSite is the site origin pages were read from.
	OriginSite string `json:"origin_site"`

	// DryRun is true when no saves were performed.
	DryRun bool `json:"dry_run"`

	// Started and Finished bound the run wall-clock time.
	Started  time.Time `json:"started"`
	Finished time.Time `json:"finished"`

	// Results holds one entry per origin page, in processing order.
	Results []PageResult `json:"results"`

	// APIRequests counts batched query requests issued during the run.
	APIRequests int `json:"api_requests"`
}

// Counts returns how many results fall into each status.
func (s *RunSummary) Counts() map[string]int {
	counts := make(map[string]int, 6)
	for i := range s.Results {
		counts[s.Results[i].Status.String()]++
	}
	return counts
}

// Elapsed returns the run duration.
func (s *RunSummary) Elapsed() time.Duration {
	return s.Finished.Sub(s.Started)
}
