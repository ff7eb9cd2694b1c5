package importer

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/coastwise/enctiler/models"
)

func TestForEachBoundedConcurrencyLimit(t *testing.T) {
	const limit = 3
	const jobs = 20

	var active, peak int64
	items := make([]int, jobs)

	forEachBounded(context.Background(), limit, items, func(_ context.Context, _ int) struct{} {
		n := atomic.AddInt64(&active, 1)
		for {
			p := atomic.LoadInt64(&peak)
			if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt64(&active, -1)
		return struct{}{}
	})

	if peak > int64(limit) {
		t.Errorf("observed %d concurrently active jobs, limit %d", peak, limit)
	}
}

func TestForEachBoundedRunsAllItems(t *testing.T) {
	items := []int{0, 1, 2, 3, 4, 5, 6, 7}
	results := forEachBounded(context.Background(), 2, items, func(_ context.Context, v int) int {
		return v * 10
	})
	if len(results) != len(items) {
		t.Fatalf("got %d results, want %d", len(results), len(items))
	}
	for i, v := range results {
		if v != i*10 {
			t.Errorf("result[%d] = %d, want %d", i, v, i*10)
		}
	}
}

// A chart constructed to fail must not disturb the outcomes of the charts
// around it: the batch report isolates failures per chart.
func TestPartialBatchIsolation(t *testing.T) {
	charts := []string{"US1AK90M", "US2BROKEN", "US3GA10M"}
	results := forEachBounded(context.Background(), 2, charts, func(_ context.Context, name string) ChartResult {
		res := ChartResult{Chart: name, Action: models.ActionImport}
		if name == "US2BROKEN" {
			res.Err = errors.New("decode: truncated record")
		} else {
			res.Features = 42
		}
		return res
	})

	report := &Report{Results: results}
	if got := report.Imported(); got != 2 {
		t.Errorf("imported = %d, want 2", got)
	}
	failed := report.Failed()
	if len(failed) != 1 || failed[0].Chart != "US2BROKEN" {
		t.Fatalf("failed = %+v, want only US2BROKEN", failed)
	}
	for _, res := range results {
		if res.Chart != "US2BROKEN" && res.Err != nil {
			t.Errorf("%s affected by sibling failure: %v", res.Chart, res.Err)
		}
	}
}

func TestReportSummary(t *testing.T) {
	report := &Report{Results: []ChartResult{
		{Chart: "A", Action: models.ActionImport, Features: 10},
		{Chart: "B", Action: models.ActionSkip},
		{Chart: "C", Action: models.ActionImport, Err: fmt.Errorf("boom")},
	}}
	s := report.Summary()
	want := "3 charts: 1 imported, 1 skipped, 1 failed"
	if s[:len(want)] != want {
		t.Errorf("summary = %q, want prefix %q", s, want)
	}
}
