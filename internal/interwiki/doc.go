// Package interwiki implements the interwiki link resolution engine.
//
// For every origin page the engine computes the closure of "same page in
// another language" links: it fetches the origin, follows the language
// links it finds, fetches those pages, and repeats until no unvisited
// page remains. Discovery runs breadth-first over lazily discovered
// nodes, bounded entirely by API round-trips, so the scheduler's whole
// job is to make those round-trips count.
//
// The moving parts:
//
//   - PageTree: a site-to-pages multimap preserving discovery order,
//     used for the per-subject work queue.
//   - Subject: the per-origin state machine. Every page it has ever
//     seen is in exactly one of its todo, pending or done sets.
//   - Bot: the scheduler across all open subjects. Each round it picks
//     the sites with the most queued pages, batch-fetches them (in
//     parallel, one batch per site), and dispatches the loaded pages
//     back to every subject that asked for them.
//   - Compare: the pure diff between old and new link sets that yields
//     the edit summary.
//
// Conflicts (two candidate pages on one site) are settled by a Resolver:
// interactively by a human, or by policy in autonomous runs.
package interwiki
