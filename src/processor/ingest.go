// ingest.go
package processor

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"

	"QueueInsight/src/config"
)

// IngestStats counts what happened to the raw rows of one run.
type IngestStats struct {
	RowsRead    int
	RowsDropped int // parse failures and non-negativity rejections
}

// ParseRecords converts a string-typed export DataFrame into RawRecords.
// Rows are rejected (dropped, never surfaced as errors) when a numeric
// field fails to parse, the work date is unreadable, or the acceptance
// filter wait_time_max >= 0 && capacity >= 0 does not hold.
//
// A missing column is a shape error for the whole export and fails the run.
func ParseRecords(df dataframe.DataFrame, dcfg *config.DataConfig) ([]RawRecord, IngestStats, error) {
	stats := IngestStats{RowsRead: df.Nrow()}

	idx, err := resolveColumns(df, dcfg)
	if err != nil {
		return nil, stats, err
	}

	formats := defaultDateFormats
	if dcfg != nil && len(dcfg.DateFmts) > 0 {
		formats = dcfg.DateFmts
	}

	records := make([]RawRecord, 0, df.Nrow())
	for row := 0; row < df.Nrow(); row++ {
		rec, ok := parseRow(df, row, idx, formats)
		if !ok {
			stats.RowsDropped++
			continue
		}
		records = append(records, rec)
	}

	return records, stats, nil
}

// resolveColumns maps every canonical field to its column index,
// honouring the dataconfig header map.
func resolveColumns(df dataframe.DataFrame, dcfg *config.DataConfig) (map[string]int, error) {
	names := df.Names()
	byName := make(map[string]int, len(names))
	for i, n := range names {
		byName[strings.TrimSpace(n)] = i
	}

	idx := make(map[string]int, len(RawFields))
	for _, field := range RawFields {
		header := DefaultHeaders[field]
		if dcfg != nil {
			if mapped := dcfg.GetColumn(field); mapped != field {
				header = mapped
			}
		}
		col, ok := byName[header]
		if !ok {
			return nil, fmt.Errorf("export is missing column %q (field %s)", header, field)
		}
		idx[field] = col
	}
	return idx, nil
}

func parseRow(df dataframe.DataFrame, row int, idx map[string]int, formats []string) (RawRecord, bool) {
	get := func(field string) string {
		return strings.TrimSpace(df.Elem(row, idx[field]).String())
	}

	rec := RawRecord{
		WorkDate:   get(FieldWorkDate),
		StartTime:  get(FieldStartTime),
		EndTime:    get(FieldEndTime),
		Attraction: get(FieldAttraction),
	}

	date, ok := parseDate(rec.WorkDate, formats)
	if !ok {
		return RawRecord{}, false
	}
	rec.Date = date

	hour, ok := parseHour(get(FieldStartHour))
	if !ok {
		return RawRecord{}, false
	}
	rec.StartHour = hour

	numeric := []struct {
		field string
		dst   *float64
	}{
		{FieldWaitTimeMax, &rec.WaitTimeMax},
		{FieldUnitCount, &rec.UnitCount},
		{FieldGuestCarried, &rec.GuestCarried},
		{FieldCapacity, &rec.Capacity},
		{FieldAdjustedCapacity, &rec.AdjustedCapacity},
		{FieldOpenTime, &rec.OpenTime},
		{FieldUpTime, &rec.UpTime},
		{FieldDownTime, &rec.DownTime},
		{FieldMaxUnitCount, &rec.MaxUnitCount},
	}
	for _, n := range numeric {
		v, err := strconv.ParseFloat(get(n.field), 64)
		if err != nil {
			return RawRecord{}, false
		}
		*n.dst = v
	}

	// acceptance filter, not a default
	if rec.WaitTimeMax < 0 || rec.Capacity < 0 {
		return RawRecord{}, false
	}

	return rec, true
}

func parseDate(s string, formats []string) (time.Time, bool) {
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseHour accepts both "8" and "8.0"; exports are inconsistent here.
func parseHour(s string) (int, bool) {
	if v, err := strconv.Atoi(s); err == nil {
		return v, true
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil && v == float64(int(v)) {
		return int(v), true
	}
	return 0, false
}
