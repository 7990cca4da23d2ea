package triage

import (
	"fmt"
	"io"
)

// RenderReport writes the human-readable summary of a pass. It goes to
// stdout in normal operation while logs go to stderr, so the report can be
// piped or mailed on its own.
func RenderReport(w io.Writer, stats *RunStats) {
	if stats.DryRun {
		fmt.Fprintln(w, "DRY RUN: no changes were made")
	}

	fmt.Fprintf(w, "Inspected %d feed documents\n", stats.Fetched)
	if stats.Archived > 0 {
		fmt.Fprintf(w, "Archived from %s: %d\n", stats.PromoteTo, stats.Archived)
	}

	writeBucket(w, fmt.Sprintf("Promoted to %s", stats.PromoteTo), stats.Promoted)
	writeBucket(w, "No verdict marker", stats.NoMarker)
	writeBucket(w, "Awaiting annotation", stats.Unannotated)

	fmt.Fprintf(w, "\nSkipped: %d already processed, %d too old\n", stats.SkippedCached, stats.SkippedTooOld)
}

func writeBucket(w io.Writer, label string, titles []string) {
	fmt.Fprintf(w, "\n%s (%d):\n", label, len(titles))
	if len(titles) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	for _, title := range titles {
		fmt.Fprintf(w, "  - %s\n", title)
	}
}
