package processor

import (
	"testing"
	"time"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

func TestDeriveZeroDenominators(t *testing.T) {
	r := RawRecord{
		WorkDate:     "2023-07-15",
		Date:         mustDate(t, "2023-07-15"),
		GuestCarried: 500,
		Capacity:     0,
		UpTime:       30,
		DownTime:     15,
		OpenTime:     0,
	}

	c := Derive(r)

	if c.UtilizationRate != 0 {
		t.Errorf("utilization with capacity=0: got %v, want 0", c.UtilizationRate)
	}
	if c.EfficiencyScore != 0 {
		t.Errorf("efficiency with open_time=0: got %v, want 0", c.EfficiencyScore)
	}
	if c.DowntimeRate != 0 {
		t.Errorf("downtime rate with open_time=0: got %v, want 0", c.DowntimeRate)
	}
}

func TestDeriveRatios(t *testing.T) {
	r := RawRecord{
		Date:         mustDate(t, "2023-07-17"),
		GuestCarried: 80,
		Capacity:     100,
		UpTime:       540,
		DownTime:     60,
		OpenTime:     600,
	}

	c := Derive(r)

	if c.UtilizationRate != 80 {
		t.Errorf("utilization: got %v, want 80", c.UtilizationRate)
	}
	if c.EfficiencyScore != 90 {
		t.Errorf("efficiency: got %v, want 90", c.EfficiencyScore)
	}
	if c.DowntimeRate != 10 {
		t.Errorf("downtime rate: got %v, want 10", c.DowntimeRate)
	}
}

func TestDeriveCalendar(t *testing.T) {
	tests := []struct {
		date      string
		dayOfWeek int
		quarter   int
		weekend   bool
	}{
		{"2023-07-16", 1, 3, true},  // Sunday
		{"2023-07-17", 2, 3, false}, // Monday
		{"2023-07-21", 6, 3, false}, // Friday
		{"2023-07-15", 7, 3, true},  // Saturday
		{"2023-01-02", 2, 1, false},
		{"2023-12-31", 1, 4, true},
	}

	for _, tc := range tests {
		c := Derive(RawRecord{Date: mustDate(t, tc.date)})
		if c.DayOfWeek != tc.dayOfWeek {
			t.Errorf("%s: day_of_week got %d, want %d", tc.date, c.DayOfWeek, tc.dayOfWeek)
		}
		if c.Quarter != tc.quarter {
			t.Errorf("%s: quarter got %d, want %d", tc.date, c.Quarter, tc.quarter)
		}
		if c.IsWeekend != tc.weekend {
			t.Errorf("%s: is_weekend got %v, want %v", tc.date, c.IsWeekend, tc.weekend)
		}
		if c.IsWeekend != (c.DayOfWeek == 1 || c.DayOfWeek == 7) {
			t.Errorf("%s: is_weekend inconsistent with day_of_week %d", tc.date, c.DayOfWeek)
		}
	}
}

func TestDeriveAllMatchesDerive(t *testing.T) {
	dates := []string{"2023-07-15", "2023-07-16", "2023-07-17", "2023-07-18"}
	var raw []RawRecord
	for i := 0; i < 100; i++ {
		raw = append(raw, RawRecord{
			Date:         mustDate(t, dates[i%len(dates)]),
			Attraction:   "Ride",
			StartHour:    i % 24,
			WaitTimeMax:  float64(i),
			GuestCarried: float64(i * 2),
			Capacity:     200,
			OpenTime:     600,
			UpTime:       float64(500 + i%100),
		})
	}

	cleaned := DeriveAll(raw)
	if len(cleaned) != len(raw) {
		t.Fatalf("DeriveAll length: got %d, want %d", len(cleaned), len(raw))
	}
	for i := range raw {
		if cleaned[i] != Derive(raw[i]) {
			t.Fatalf("DeriveAll[%d] differs from Derive", i)
		}
	}
}

func TestDeriveAllEmpty(t *testing.T) {
	if got := DeriveAll(nil); len(got) != 0 {
		t.Errorf("DeriveAll(nil): got %d records", len(got))
	}
}
