// table.go
package processor

import (
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Table is the immutable cleaned record set every aggregation reads.
type Table struct {
	records []CleanedRecord
}

func NewTable(records []CleanedRecord) *Table {
	return &Table{records: records}
}

func (t *Table) Len() int { return len(t.records) }

// Records returns a copy so callers cannot mutate the cleaned set.
func (t *Table) Records() []CleanedRecord {
	out := make([]CleanedRecord, len(t.records))
	copy(out, t.records)
	return out
}

// CleanedColumns is the column order of the cleaned-table export
// consumed by model training.
var CleanedColumns = []string{
	"work_date", "start_time", "end_time", "start_hour", "attraction",
	"wait_time_max", "unit_count", "guest_carried", "capacity",
	"adjusted_capacity", "open_time", "up_time", "down_time",
	"max_unit_count", "year", "month", "day", "day_of_week", "quarter",
	"is_weekend", "utilization_rate", "efficiency_score", "downtime_rate",
}

func cleanedRow(c CleanedRecord) []string {
	return []string{
		c.WorkDate,
		c.StartTime,
		c.EndTime,
		strconv.Itoa(c.StartHour),
		c.Attraction,
		fmtNum(c.WaitTimeMax),
		fmtNum(c.UnitCount),
		fmtNum(c.GuestCarried),
		fmtNum(c.Capacity),
		fmtNum(c.AdjustedCapacity),
		fmtNum(c.OpenTime),
		fmtNum(c.UpTime),
		fmtNum(c.DownTime),
		fmtNum(c.MaxUnitCount),
		strconv.Itoa(c.Year),
		strconv.Itoa(c.Month),
		strconv.Itoa(c.Day),
		strconv.Itoa(c.DayOfWeek),
		strconv.Itoa(c.Quarter),
		strconv.FormatBool(c.IsWeekend),
		fmtAvg(c.UtilizationRate),
		fmtAvg(c.EfficiencyScore),
		fmtAvg(c.DowntimeRate),
	}
}

// DataFrame renders the cleaned table as a string-typed gota DataFrame,
// ready for WriteCSV.
func (t *Table) DataFrame() dataframe.DataFrame {
	rows := make([][]string, 0, len(t.records)+1)
	rows = append(rows, CleanedColumns)
	for _, c := range t.records {
		rows = append(rows, cleanedRow(c))
	}
	return dataframe.LoadRecords(rows,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
}
