package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"QueueInsight/src/processor"
	"QueueInsight/src/storage"
)

func testLogger(t *testing.T) *storage.Logger {
	t.Helper()
	logger, err := storage.NewLogger(filepath.Join(t.TempDir(), "test.log"))
	if err != nil {
		t.Fatalf("test logger: %v", err)
	}
	t.Cleanup(func() { logger.Close() })
	return logger
}

func testTable(t *testing.T) *processor.Table {
	t.Helper()
	date, _ := time.Parse("2006-01-02", "2023-07-15")
	raw := []processor.RawRecord{
		{
			WorkDate: "2023-07-15", Date: date, StartHour: 10,
			Attraction: "Space Mountain", WaitTimeMax: 30,
			GuestCarried: 80, Capacity: 100, OpenTime: 900, UpTime: 870, DownTime: 30,
		},
		{
			WorkDate: "2023-07-15", Date: date, StartHour: 11,
			Attraction: "Space Mountain", WaitTimeMax: 50,
			GuestCarried: 90, Capacity: 100, OpenTime: 900, UpTime: 870, DownTime: 30,
		},
	}
	return processor.NewTable(processor.DeriveAll(raw))
}

func TestWriteViewCSV(t *testing.T) {
	dir := t.TempDir()
	v := processor.View{
		Name:    "sample",
		Columns: []string{"a", "b"},
		Rows:    [][]string{{"1", "x"}, {"2", "y"}},
	}

	path, err := WriteViewCSV(v, dir)
	if err != nil {
		t.Fatalf("WriteViewCSV: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	want := "a,b\n1,x\n2,y\n"
	if string(data) != want {
		t.Errorf("csv content:\ngot  %q\nwant %q", string(data), want)
	}
}

func TestRunReportsWritesAllViews(t *testing.T) {
	dir := t.TempDir()
	statuses, views := RunReports(testTable(t), dir, testLogger(t))

	if len(statuses) != len(processor.Aggregations) {
		t.Fatalf("statuses: got %d", len(statuses))
	}
	for _, st := range statuses {
		if st.Err != nil {
			t.Errorf("view %s failed: %v", st.Name, st.Err)
		}
		if _, err := os.Stat(filepath.Join(dir, st.Name+".csv")); err != nil {
			t.Errorf("missing output for %s: %v", st.Name, err)
		}
	}
	if len(views) != len(processor.Aggregations) {
		t.Errorf("produced views: got %d", len(views))
	}
}

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	stats := processor.IngestStats{RowsRead: 3, RowsDropped: 1}

	summary := Generate(testTable(t), stats, "export.csv", dir, testLogger(t))

	if summary.RowsRead != 3 || summary.RowsDropped != 1 || summary.RowsCleaned != 2 {
		t.Errorf("summary counts: %+v", summary)
	}
	if len(summary.Failures) != 0 {
		t.Errorf("unexpected failures: %v", summary.Failures)
	}

	// six views + cleaned table + workbook
	wantFiles := []string{
		"attraction_summary.csv", "hourly_waits.csv", "seasonal_trends.csv",
		"weekend_vs_weekday.csv", "efficiency.csv", "peak_hours.csv",
		"cleaned.csv", "wait_time_report.xlsx",
	}
	for _, name := range wantFiles {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
	if summary.Workbook == "" {
		t.Error("workbook path not recorded")
	}

	data, err := os.ReadFile(filepath.Join(dir, "attraction_summary.csv"))
	if err != nil {
		t.Fatalf("read attraction summary: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "attraction,avg_wait_time,max_wait_time,total_observations,avg_utilization") {
		t.Errorf("header missing: %q", content)
	}
	if !strings.Contains(content, "Space Mountain,40.00,50,2,85.00") {
		t.Errorf("acceptance row missing: %q", content)
	}
}

func TestWriteCleanedCSV(t *testing.T) {
	dir := t.TempDir()
	table := testTable(t)

	path, err := WriteCleanedCSV(table, dir)
	if err != nil {
		t.Fatalf("WriteCleanedCSV: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != table.Len()+1 {
		t.Fatalf("lines: got %d, want %d", len(lines), table.Len()+1)
	}
	if !strings.HasPrefix(lines[0], "work_date,") {
		t.Errorf("header: %q", lines[0])
	}
	if !strings.Contains(lines[1], "Space Mountain") {
		t.Errorf("data row: %q", lines[1])
	}
}

func TestWriteWorkbookEmpty(t *testing.T) {
	if err := WriteWorkbook(nil, filepath.Join(t.TempDir(), "r.xlsx")); err == nil {
		t.Error("expected error for empty view set")
	}
}
