// aggregate.go
//
// The six analytical views over the cleaned table. Each view is an
// independent read-only scan: group, aggregate, sort, limit. Grouping
// preserves first-encountered order so ties resolve deterministically
// for a given input file.
package processor

import (
	"fmt"
	"sort"
	"strconv"
)

// TopN caps the ranked views.
const TopN = 10

// View is one rendered aggregate table: fixed column names, all values
// serialized as text.
type View struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// AggregationError marks a view that could not be produced. Other views
// are unaffected; each reads the same immutable table.
type AggregationError struct {
	View string
	Err  error
}

func (e *AggregationError) Error() string {
	return fmt.Sprintf("aggregation %s failed: %v", e.View, e.Err)
}

func (e *AggregationError) Unwrap() error { return e.Err }

// Aggregation names, also used as output file basenames.
const (
	ViewAttractionSummary = "attraction_summary"
	ViewHourlyWaits       = "hourly_waits"
	ViewSeasonalTrends    = "seasonal_trends"
	ViewWeekendWeekday    = "weekend_vs_weekday"
	ViewEfficiency        = "efficiency"
	ViewPeakHours         = "peak_hours"
)

// Aggregations lists every view generator in report order.
var Aggregations = []struct {
	Name string
	Run  func(*Table) View
}{
	{ViewAttractionSummary, ByAttraction},
	{ViewHourlyWaits, ByHour},
	{ViewSeasonalTrends, Seasonal},
	{ViewWeekendWeekday, WeekendVsWeekday},
	{ViewEfficiency, Efficiency},
	{ViewPeakHours, PeakHours},
}

/* ---------- formatting ---------- */

// fmtAvg renders averages and rates with two decimals (40.00, 85.00).
func fmtAvg(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// fmtNum renders sums and maxima with minimal digits (50, 7.5).
func fmtNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

/* ---------- by attraction ---------- */

// ByAttraction ranks attractions by average wait. Zero-wait buckets are
// excluded before aggregating.
func ByAttraction(t *Table) View {
	type agg struct {
		waitSum float64
		waitMax float64
		utilSum float64
		count   int
	}

	groups := make(map[string]*agg)
	var order []string

	for _, r := range t.records {
		if r.WaitTimeMax <= 0 {
			continue
		}
		g, ok := groups[r.Attraction]
		if !ok {
			g = &agg{}
			groups[r.Attraction] = g
			order = append(order, r.Attraction)
		}
		g.waitSum += r.WaitTimeMax
		if r.WaitTimeMax > g.waitMax {
			g.waitMax = r.WaitTimeMax
		}
		g.utilSum += r.UtilizationRate
		g.count++
	}

	sort.SliceStable(order, func(i, j int) bool {
		a, b := groups[order[i]], groups[order[j]]
		avgA := a.waitSum / float64(a.count)
		avgB := b.waitSum / float64(b.count)
		if avgA != avgB {
			return avgA > avgB
		}
		return order[i] < order[j]
	})
	if len(order) > TopN {
		order = order[:TopN]
	}

	rows := make([][]string, 0, len(order))
	for _, name := range order {
		g := groups[name]
		rows = append(rows, []string{
			name,
			fmtAvg(g.waitSum / float64(g.count)),
			fmtNum(g.waitMax),
			strconv.Itoa(g.count),
			fmtAvg(g.utilSum / float64(g.count)),
		})
	}

	return View{
		Name:    ViewAttractionSummary,
		Columns: []string{"attraction", "avg_wait_time", "max_wait_time", "total_observations", "avg_utilization"},
		Rows:    rows,
	}
}

/* ---------- by hour ---------- */

// ByHour reports average and median wait per start hour, ascending by
// hour, one row per distinct hour present in the filtered input.
func ByHour(t *Table) View {
	type agg struct {
		waits []float64
	}

	groups := make(map[int]*agg)
	var hours []int

	for _, r := range t.records {
		if r.WaitTimeMax <= 0 {
			continue
		}
		g, ok := groups[r.StartHour]
		if !ok {
			g = &agg{}
			groups[r.StartHour] = g
			hours = append(hours, r.StartHour)
		}
		g.waits = append(g.waits, r.WaitTimeMax)
	}

	sort.Ints(hours)

	rows := make([][]string, 0, len(hours))
	for _, h := range hours {
		g := groups[h]
		var sum float64
		for _, w := range g.waits {
			sum += w
		}
		rows = append(rows, []string{
			strconv.Itoa(h),
			fmtAvg(sum / float64(len(g.waits))),
			fmtAvg(median(g.waits)),
			strconv.Itoa(len(g.waits)),
		})
	}

	return View{
		Name:    ViewHourlyWaits,
		Columns: []string{"hour", "avg_wait_time", "median_wait_time", "observations"},
		Rows:    rows,
	}
}

// median mutates a copy; even-sized inputs average the middle pair.
func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

/* ---------- seasonal ---------- */

// Seasonal totals per (year, quarter, month): average wait, distinct
// operating days, guests carried. No row filter.
func Seasonal(t *Table) View {
	type key struct {
		year, quarter, month int
	}
	type agg struct {
		waitSum  float64
		count    int
		days     map[string]struct{}
		guestSum float64
	}

	groups := make(map[key]*agg)
	var order []key

	for _, r := range t.records {
		k := key{r.Year, r.Quarter, r.Month}
		g, ok := groups[k]
		if !ok {
			g = &agg{days: make(map[string]struct{})}
			groups[k] = g
			order = append(order, k)
		}
		g.waitSum += r.WaitTimeMax
		g.count++
		g.days[r.WorkDate] = struct{}{}
		g.guestSum += r.GuestCarried
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].year != order[j].year {
			return order[i].year < order[j].year
		}
		return order[i].month < order[j].month
	})

	rows := make([][]string, 0, len(order))
	for _, k := range order {
		g := groups[k]
		rows = append(rows, []string{
			strconv.Itoa(k.year),
			strconv.Itoa(k.quarter),
			strconv.Itoa(k.month),
			fmtAvg(g.waitSum / float64(g.count)),
			strconv.Itoa(len(g.days)),
			fmtNum(g.guestSum),
		})
	}

	return View{
		Name:    ViewSeasonalTrends,
		Columns: []string{"year", "quarter", "month", "avg_wait_time", "days_observed", "total_guests"},
		Rows:    rows,
	}
}

/* ---------- weekend vs weekday ---------- */

// WeekendVsWeekday compares the two day types. At most two rows,
// weekday first; a day type absent from the input produces no row.
func WeekendVsWeekday(t *Table) View {
	type agg struct {
		waitSum float64
		utilSum float64
		count   int
	}

	var buckets [2]agg // 0=weekday, 1=weekend

	for _, r := range t.records {
		if r.WaitTimeMax <= 0 {
			continue
		}
		i := 0
		if r.IsWeekend {
			i = 1
		}
		buckets[i].waitSum += r.WaitTimeMax
		buckets[i].utilSum += r.UtilizationRate
		buckets[i].count++
	}

	labels := [2]string{"weekday", "weekend"}
	rows := make([][]string, 0, 2)
	for i, g := range buckets {
		if g.count == 0 {
			continue
		}
		rows = append(rows, []string{
			labels[i],
			fmtAvg(g.waitSum / float64(g.count)),
			fmtAvg(g.utilSum / float64(g.count)),
			strconv.Itoa(g.count),
		})
	}

	return View{
		Name:    ViewWeekendWeekday,
		Columns: []string{"day_type", "avg_wait_time", "avg_utilization", "observations"},
		Rows:    rows,
	}
}

/* ---------- efficiency ---------- */

// Efficiency ranks attractions by average efficiency score over buckets
// with scheduled open time.
func Efficiency(t *Table) View {
	type agg struct {
		effSum      float64
		downRateSum float64
		downSum     float64
		count       int
	}

	groups := make(map[string]*agg)
	var order []string

	for _, r := range t.records {
		if r.OpenTime <= 0 {
			continue
		}
		g, ok := groups[r.Attraction]
		if !ok {
			g = &agg{}
			groups[r.Attraction] = g
			order = append(order, r.Attraction)
		}
		g.effSum += r.EfficiencyScore
		g.downRateSum += r.DowntimeRate
		g.downSum += r.DownTime
		g.count++
	}

	sort.SliceStable(order, func(i, j int) bool {
		a, b := groups[order[i]], groups[order[j]]
		avgA := a.effSum / float64(a.count)
		avgB := b.effSum / float64(b.count)
		if avgA != avgB {
			return avgA > avgB
		}
		return order[i] < order[j]
	})
	if len(order) > TopN {
		order = order[:TopN]
	}

	rows := make([][]string, 0, len(order))
	for _, name := range order {
		g := groups[name]
		rows = append(rows, []string{
			name,
			fmtAvg(g.effSum / float64(g.count)),
			fmtAvg(g.downRateSum / float64(g.count)),
			fmtNum(g.downSum),
			strconv.Itoa(g.count),
		})
	}

	return View{
		Name:    ViewEfficiency,
		Columns: []string{"attraction", "avg_efficiency", "avg_downtime_rate", "total_downtime", "observations"},
		Rows:    rows,
	}
}

/* ---------- peak hours ---------- */

// PeakHours finds, per attraction, the hour with the highest average
// wait. Hours are scanned in first-encountered order and replaced only
// by a strictly greater average, so an equal-average tie keeps the hour
// seen first.
func PeakHours(t *Table) View {
	type hourAgg struct {
		waitSum float64
		count   int
	}
	type attrAgg struct {
		hours     map[int]*hourAgg
		hourOrder []int
	}

	groups := make(map[string]*attrAgg)
	var order []string

	for _, r := range t.records {
		if r.WaitTimeMax <= 0 {
			continue
		}
		g, ok := groups[r.Attraction]
		if !ok {
			g = &attrAgg{hours: make(map[int]*hourAgg)}
			groups[r.Attraction] = g
			order = append(order, r.Attraction)
		}
		h, ok := g.hours[r.StartHour]
		if !ok {
			h = &hourAgg{}
			g.hours[r.StartHour] = h
			g.hourOrder = append(g.hourOrder, r.StartHour)
		}
		h.waitSum += r.WaitTimeMax
		h.count++
	}

	type peak struct {
		attraction string
		hour       int
		avgWait    float64
	}

	peaks := make([]peak, 0, len(order))
	for _, name := range order {
		g := groups[name]
		best := peak{attraction: name, hour: -1}
		for _, h := range g.hourOrder {
			a := g.hours[h]
			avg := a.waitSum / float64(a.count)
			if best.hour < 0 || avg > best.avgWait {
				best.hour = h
				best.avgWait = avg
			}
		}
		peaks = append(peaks, best)
	}

	sort.SliceStable(peaks, func(i, j int) bool {
		if peaks[i].avgWait != peaks[j].avgWait {
			return peaks[i].avgWait > peaks[j].avgWait
		}
		return peaks[i].attraction < peaks[j].attraction
	})
	if len(peaks) > TopN {
		peaks = peaks[:TopN]
	}

	rows := make([][]string, 0, len(peaks))
	for _, p := range peaks {
		rows = append(rows, []string{
			p.attraction,
			strconv.Itoa(p.hour),
			fmtAvg(p.avgWait),
		})
	}

	return View{
		Name:    ViewPeakHours,
		Columns: []string{"attraction", "peak_hour", "avg_wait_time"},
		Rows:    rows,
	}
}
