package triage

// RunStats accumulates the outcome of one triage pass. A fresh value is
// created per pass and threaded through the sweeper and reconciler, then
// rendered as the run report.
type RunStats struct {
	DryRun    bool
	PromoteTo string

	Fetched       int
	Promoted      []string
	NoMarker      []string
	Unannotated   []string
	SkippedCached int
	SkippedTooOld int
	Archived      int
}

// Moves returns how many location changes this pass performed (or would
// have performed, in dry-run mode).
func (s *RunStats) Moves() int {
	return len(s.Promoted) + s.Archived
}
