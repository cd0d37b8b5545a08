package core

import (
	"testing"
	"time"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantCents int64
		wantErr   bool
	}{
		{name: "integer", input: "50", wantCents: 5000},
		{name: "two fraction digits", input: "45.50", wantCents: 4550},
		{name: "one fraction digit", input: "45.5", wantCents: 4550},
		{name: "zero", input: "0", wantCents: 0},
		{name: "three fraction digits rejected", input: "1.505", wantErr: true},
		{name: "negative rejected", input: "-5", wantErr: true},
		{name: "empty rejected", input: "", wantErr: true},
		{name: "trailing dot rejected", input: "5.", wantErr: true},
		{name: "not a number", input: "lunch", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMoney(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseMoney(%q) = %v, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMoney(%q) error: %v", tt.input, err)
			}
			if got.Cents != tt.wantCents {
				t.Errorf("ParseMoney(%q) = %d cents, want %d", tt.input, got.Cents, tt.wantCents)
			}
		})
	}
}

func TestMoneyString(t *testing.T) {
	m := Money{Cents: 4550}
	if got := m.String(); got != "45.50" {
		t.Errorf("Money.String() = %q, want %q", got, "45.50")
	}
	if got := m.Float(); got != 45.50 {
		t.Errorf("Money.Float() = %v, want 45.50", got)
	}
}

func TestValidDay(t *testing.T) {
	tests := []struct {
		name  string
		year  int
		month time.Month
		day   int
		want  bool
	}{
		{name: "december 1", year: 2026, month: time.December, day: 1, want: true},
		{name: "february 30", year: 2026, month: time.February, day: 30, want: false},
		{name: "leap day on leap year", year: 2024, month: time.February, day: 29, want: true},
		{name: "leap day off leap year", year: 2026, month: time.February, day: 29, want: false},
		{name: "day 31 of 30-day month", year: 2026, month: time.April, day: 31, want: false},
		{name: "day zero", year: 2026, month: time.April, day: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidDay(tt.year, tt.month, tt.day); got != tt.want {
				t.Errorf("ValidDay(%d, %v, %d) = %v, want %v", tt.year, tt.month, tt.day, got, tt.want)
			}
		})
	}
}

func TestDayBounds(t *testing.T) {
	ts := time.Date(2026, 8, 30, 14, 22, 5, 0, time.UTC)
	start, end := DayBounds(ts)

	wantStart := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2026, 8, 30, 23, 59, 59, 0, time.UTC)
	if !start.Equal(wantStart) {
		t.Errorf("start = %v, want %v", start, wantStart)
	}
	if !end.Equal(wantEnd) {
		t.Errorf("end = %v, want %v", end, wantEnd)
	}
}
