package processor

import (
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"QueueInsight/src/config"
)

var exportHeader = []string{
	"WORK_DATE", "DEB_TIME", "FIN_TIME", "DEB_TIME_HOUR",
	"ENTITY_DESCRIPTION_SHORT", "WAIT_TIME_MAX", "NB_UNITS",
	"GUEST_CARRIED", "CAPACITY", "ADJUST_CAPACITY", "OPEN_TIME",
	"UP_TIME", "DOWNTIME", "NB_MAX_UNIT",
}

func exportRow(date, hour, attraction, wait, guests, capacity string) []string {
	return []string{
		date, date + " 08:00:00", date + " 08:15:00", hour,
		attraction, wait, "5",
		guests, capacity, capacity, "900",
		"870", "30", "6",
	}
}

func exportFrame(t *testing.T, rows ...[]string) dataframe.DataFrame {
	t.Helper()
	all := append([][]string{exportHeader}, rows...)
	df := dataframe.LoadRecords(all,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		t.Fatalf("build test frame: %v", df.Err)
	}
	return df
}

func TestParseRecordsHappyPath(t *testing.T) {
	df := exportFrame(t,
		exportRow("2023-07-15", "8", "Space Mountain", "30", "80", "100"),
		exportRow("2023-07-15", "9", "Space Mountain", "50", "90", "100"),
	)

	records, stats, err := ParseRecords(df, nil)
	if err != nil {
		t.Fatalf("ParseRecords: %v", err)
	}
	if stats.RowsRead != 2 || stats.RowsDropped != 0 {
		t.Errorf("stats: got %+v", stats)
	}
	if len(records) != 2 {
		t.Fatalf("records: got %d, want 2", len(records))
	}

	r := records[0]
	if r.Attraction != "Space Mountain" || r.StartHour != 8 || r.WaitTimeMax != 30 {
		t.Errorf("unexpected first record: %+v", r)
	}
	if r.Date.IsZero() {
		t.Error("work date not parsed")
	}
	if r.OpenTime != 900 || r.UpTime != 870 || r.DownTime != 30 {
		t.Errorf("time columns misparsed: %+v", r)
	}
}

func TestParseRecordsRejectsRows(t *testing.T) {
	df := exportFrame(t,
		exportRow("2023-07-15", "8", "Good", "30", "80", "100"),
		exportRow("2023-07-15", "9", "NegativeWait", "-5", "80", "100"),
		exportRow("2023-07-15", "10", "NegativeCapacity", "30", "80", "-1"),
		exportRow("2023-07-15", "11", "BadNumber", "oops", "80", "100"),
		exportRow("not-a-date", "12", "BadDate", "30", "80", "100"),
		exportRow("2023-07-15", "noon", "BadHour", "30", "80", "100"),
	)

	records, stats, err := ParseRecords(df, nil)
	if err != nil {
		t.Fatalf("ParseRecords: %v", err)
	}

	if stats.RowsDropped != 5 {
		t.Errorf("dropped: got %d, want 5", stats.RowsDropped)
	}
	// cleaned count = read - dropped
	if len(records) != stats.RowsRead-stats.RowsDropped {
		t.Errorf("cardinality: %d records, %d read, %d dropped",
			len(records), stats.RowsRead, stats.RowsDropped)
	}
	if len(records) != 1 || records[0].Attraction != "Good" {
		t.Errorf("surviving records: %+v", records)
	}
}

func TestParseRecordsZeroIsAccepted(t *testing.T) {
	df := exportFrame(t,
		exportRow("2023-07-15", "8", "ZeroCapacity", "0", "0", "0"),
	)

	records, stats, err := ParseRecords(df, nil)
	if err != nil {
		t.Fatalf("ParseRecords: %v", err)
	}
	if stats.RowsDropped != 0 || len(records) != 1 {
		t.Errorf("zero wait/capacity must pass the filter: %+v", stats)
	}
}

func TestParseRecordsMissingColumn(t *testing.T) {
	df := dataframe.LoadRecords([][]string{
		{"WORK_DATE", "WAIT_TIME_MAX"},
		{"2023-07-15", "30"},
	}, dataframe.DetectTypes(false), dataframe.DefaultType(series.String))

	_, _, err := ParseRecords(df, nil)
	if err == nil {
		t.Fatal("expected shape error for missing columns")
	}
}

func TestParseRecordsColumnMap(t *testing.T) {
	header := make([]string, len(exportHeader))
	copy(header, exportHeader)
	header[4] = "RIDE_NAME" // renamed in this park's export

	row := exportRow("2023-07-15", "8", "Alpine Coaster", "20", "40", "80")
	df := dataframe.LoadRecords([][]string{header, row},
		dataframe.DetectTypes(false), dataframe.DefaultType(series.String))

	dcfg := &config.DataConfig{}
	dcfg.SetColumn(FieldAttraction, "RIDE_NAME")

	records, _, err := ParseRecords(df, dcfg)
	if err != nil {
		t.Fatalf("ParseRecords with column map: %v", err)
	}
	if len(records) != 1 || records[0].Attraction != "Alpine Coaster" {
		t.Errorf("column map not honoured: %+v", records)
	}
}

func TestParseRecordsCustomDateFormat(t *testing.T) {
	df := exportFrame(t,
		exportRow("15.07.2023", "8", "Ride", "30", "80", "100"),
	)

	dcfg := &config.DataConfig{DateFmts: []string{"02.01.2006"}}
	records, stats, err := ParseRecords(df, dcfg)
	if err != nil {
		t.Fatalf("ParseRecords: %v", err)
	}
	if stats.RowsDropped != 0 || len(records) != 1 {
		t.Fatalf("custom date format not honoured: %+v", stats)
	}
	if records[0].Date.Day() != 15 || records[0].Date.Month() != 7 {
		t.Errorf("date misparsed: %v", records[0].Date)
	}
}
