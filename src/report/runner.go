// runner.go
package report

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"QueueInsight/src/processor"
	"QueueInsight/src/storage"
)

// ViewStatus records the outcome of one aggregation.
type ViewStatus struct {
	Name string `json:"name"`
	Rows int    `json:"rows"`
	Path string `json:"path,omitempty"`
	Err  error  `json:"-"`
}

// Summary is the run report logged and optionally pushed to a webhook.
type Summary struct {
	GeneratedAt time.Time     `json:"generated_at"`
	Source      string        `json:"source"`
	RowsRead    int           `json:"rows_read"`
	RowsDropped int           `json:"rows_dropped"`
	RowsCleaned int           `json:"rows_cleaned"`
	Views       []ViewStatus  `json:"views"`
	Failures    []string      `json:"failures,omitempty"`
	Elapsed     time.Duration `json:"elapsed_ns"`
	Workbook    string        `json:"workbook,omitempty"`
}

// RunReports runs all six aggregations concurrently over the immutable
// cleaned table, writing each view's CSV as it completes. One failed
// view never blocks the others; its status carries the error instead.
// The returned views hold only the successfully produced tables, in
// report order.
func RunReports(t *processor.Table, outDir string, logger *storage.Logger) ([]ViewStatus, []processor.View) {
	statuses := make([]ViewStatus, len(processor.Aggregations))
	views := make([]processor.View, len(processor.Aggregations))

	var wg sync.WaitGroup
	for i, a := range processor.Aggregations {
		wg.Add(1)
		go func(i int, name string, run func(*processor.Table) processor.View) {
			defer wg.Done()
			statuses[i], views[i] = runOne(t, outDir, name, run, logger)
		}(i, a.Name, a.Run)
	}
	wg.Wait()

	produced := make([]processor.View, 0, len(views))
	for i, st := range statuses {
		if st.Err == nil {
			produced = append(produced, views[i])
		}
	}
	return statuses, produced
}

func runOne(t *processor.Table, outDir, name string, run func(*processor.Table) processor.View, logger *storage.Logger) (st ViewStatus, view processor.View) {
	st = ViewStatus{Name: name}
	defer func() {
		if r := recover(); r != nil {
			st.Err = &processor.AggregationError{View: name, Err: fmt.Errorf("panic: %v", r)}
			logger.Error(st.Err.Error())
		}
	}()

	view = run(t)
	path, err := WriteViewCSV(view, outDir)
	if err != nil {
		st.Err = &processor.AggregationError{View: name, Err: err}
		logger.Error(st.Err.Error())
		return st, view
	}

	st.Rows = len(view.Rows)
	st.Path = path
	logger.Info(fmt.Sprintf("view %s: %d rows -> %s", name, st.Rows, path))
	return st, view
}

// Generate produces the whole report set for a cleaned table: the six
// view CSVs, the cleaned-table export, and the xlsx workbook.
func Generate(t *processor.Table, stats processor.IngestStats, source, outDir string, logger *storage.Logger) *Summary {
	start := time.Now()

	summary := &Summary{
		GeneratedAt: start,
		Source:      source,
		RowsRead:    stats.RowsRead,
		RowsDropped: stats.RowsDropped,
		RowsCleaned: t.Len(),
	}

	statuses, views := RunReports(t, outDir, logger)
	summary.Views = statuses
	for _, st := range statuses {
		if st.Err != nil {
			summary.Failures = append(summary.Failures, st.Err.Error())
		}
	}

	if _, err := WriteCleanedCSV(t, outDir); err != nil {
		summary.Failures = append(summary.Failures, err.Error())
		logger.Error("cleaned table export failed: " + err.Error())
	}

	if len(views) > 0 {
		wb := filepath.Join(outDir, "wait_time_report.xlsx")
		if err := WriteWorkbook(views, wb); err != nil {
			summary.Failures = append(summary.Failures, err.Error())
			logger.Error("workbook export failed: " + err.Error())
		} else {
			summary.Workbook = wb
		}
	}

	summary.Elapsed = time.Since(start)
	return summary
}
