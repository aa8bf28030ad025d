// record.go
package processor

import (
	"time"
)

// Canonical field names of the raw export. dataconfig.json remaps these
// onto whatever headers the upstream export actually carries.
const (
	FieldWorkDate         = "work_date"
	FieldStartTime        = "start_time"
	FieldEndTime          = "end_time"
	FieldStartHour        = "start_hour"
	FieldAttraction       = "attraction"
	FieldWaitTimeMax      = "wait_time_max"
	FieldUnitCount        = "unit_count"
	FieldGuestCarried     = "guest_carried"
	FieldCapacity         = "capacity"
	FieldAdjustedCapacity = "adjusted_capacity"
	FieldOpenTime         = "open_time"
	FieldUpTime           = "up_time"
	FieldDownTime         = "down_time"
	FieldMaxUnitCount     = "max_unit_count"
)

// RawFields lists the canonical fields in export column order.
var RawFields = []string{
	FieldWorkDate,
	FieldStartTime,
	FieldEndTime,
	FieldStartHour,
	FieldAttraction,
	FieldWaitTimeMax,
	FieldUnitCount,
	FieldGuestCarried,
	FieldCapacity,
	FieldAdjustedCapacity,
	FieldOpenTime,
	FieldUpTime,
	FieldDownTime,
	FieldMaxUnitCount,
}

// DefaultHeaders maps canonical fields to the headers of the stock
// ride-ops export.
var DefaultHeaders = map[string]string{
	FieldWorkDate:         "WORK_DATE",
	FieldStartTime:        "DEB_TIME",
	FieldEndTime:          "FIN_TIME",
	FieldStartHour:        "DEB_TIME_HOUR",
	FieldAttraction:       "ENTITY_DESCRIPTION_SHORT",
	FieldWaitTimeMax:      "WAIT_TIME_MAX",
	FieldUnitCount:        "NB_UNITS",
	FieldGuestCarried:     "GUEST_CARRIED",
	FieldCapacity:         "CAPACITY",
	FieldAdjustedCapacity: "ADJUST_CAPACITY",
	FieldOpenTime:         "OPEN_TIME",
	FieldUpTime:           "UP_TIME",
	FieldDownTime:         "DOWNTIME",
	FieldMaxUnitCount:     "NB_MAX_UNIT",
}

// RawRecord is one observation of one attraction in one time bucket,
// after parsing but before feature derivation.
type RawRecord struct {
	WorkDate         string
	Date             time.Time // parsed WorkDate
	StartTime        string
	EndTime          string
	StartHour        int
	Attraction       string
	WaitTimeMax      float64
	UnitCount        float64
	GuestCarried     float64
	Capacity         float64
	AdjustedCapacity float64
	OpenTime         float64
	UpTime           float64
	DownTime         float64
	MaxUnitCount     float64
}

// CleanedRecord is a RawRecord enriched with the derived features.
// Derived once, never mutated afterwards.
type CleanedRecord struct {
	RawRecord

	Year      int
	Month     int
	Day       int
	DayOfWeek int // 1=Sunday .. 7=Saturday
	Quarter   int
	IsWeekend bool

	UtilizationRate float64 // guests carried as % of capacity
	EfficiencyScore float64 // up time as % of scheduled open time
	DowntimeRate    float64 // downtime as % of scheduled open time
}

// defaultDateFormats are tried in order when parsing WorkDate.
var defaultDateFormats = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
}
