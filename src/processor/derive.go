// derive.go
package processor

import (
	"runtime"
	"sync"
)

// ratio returns numerator/denominator as a percentage, or 0 when the
// denominator is zero. Never NaN, never an error.
func ratio(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator * 100
}

// Derive maps a RawRecord to its CleanedRecord. Pure and row-local, so
// it can run on any number of workers without coordination.
func Derive(r RawRecord) CleanedRecord {
	dow := int(r.Date.Weekday()) + 1 // 1=Sunday .. 7=Saturday

	return CleanedRecord{
		RawRecord: r,

		Year:      r.Date.Year(),
		Month:     int(r.Date.Month()),
		Day:       r.Date.Day(),
		DayOfWeek: dow,
		Quarter:   (int(r.Date.Month())-1)/3 + 1,
		IsWeekend: dow == 1 || dow == 7,

		UtilizationRate: ratio(r.GuestCarried, r.Capacity),
		EfficiencyScore: ratio(r.UpTime, r.OpenTime),
		DowntimeRate:    ratio(r.DownTime, r.OpenTime),
	}
}

// DeriveAll derives features for every raw record, fanning the work out
// over the CPUs. Workers own disjoint slices of the output, so no locks.
func DeriveAll(records []RawRecord) []CleanedRecord {
	cleaned := make([]CleanedRecord, len(records))
	if len(records) == 0 {
		return cleaned
	}

	workers := runtime.NumCPU()
	if workers > len(records) {
		workers = len(records)
	}

	chunk := (len(records) + workers - 1) / workers
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > len(records) {
			hi = len(records)
		}
		if lo >= hi {
			break
		}

		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				cleaned[i] = Derive(records[i])
			}
		}(lo, hi)
	}

	wg.Wait()
	return cleaned
}
