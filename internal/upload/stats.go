package upload

import "github.com/wara-ops/dataportal/internal/display"

// RunStats tracks aggregate counters and byte totals across a batch run.
type RunStats struct {
	Total    int
	Current  int
	Uploaded int
	Skipped  int // Extra files with an incomplete prefix.
	Rejected int // Names that do not follow the convention.
	Failed   int
	Bytes    int64 // Size of the uploaded sources.

	Results []display.UploadRow
}

// OK reports whether the run counts as a success: something was found and
// nothing was rejected or failed.
func (s *RunStats) OK() bool {
	return s.Total > 0 && s.Rejected == 0 && s.Failed == 0
}
