package importer

import (
	"fmt"
	"strings"

	"github.com/coastwise/enctiler/models"
)

// ChartResult is the outcome of one chart unit of work.
type ChartResult struct {
	Chart    string
	Action   models.Action
	Features int
	Err      error
}

// Report aggregates per-chart outcomes for the whole batch. A failed chart
// never aborts the run; it is reported here after the batch completes.
type Report struct {
	Results []ChartResult
}

func (r *Report) Imported() int {
	n := 0
	for _, res := range r.Results {
		if res.Err == nil && res.Action != models.ActionSkip {
			n++
		}
	}
	return n
}

func (r *Report) Skipped() int {
	n := 0
	for _, res := range r.Results {
		if res.Err == nil && res.Action == models.ActionSkip {
			n++
		}
	}
	return n
}

func (r *Report) Failed() []ChartResult {
	var failed []ChartResult
	for _, res := range r.Results {
		if res.Err != nil {
			failed = append(failed, res)
		}
	}
	return failed
}

func (r *Report) Summary() string {
	var b strings.Builder
	failed := r.Failed()
	fmt.Fprintf(&b, "%d charts: %d imported, %d skipped, %d failed",
		len(r.Results), r.Imported(), r.Skipped(), len(failed))
	for _, res := range failed {
		fmt.Fprintf(&b, "\n  %s: %v", res.Chart, res.Err)
	}
	return b.String()
}
