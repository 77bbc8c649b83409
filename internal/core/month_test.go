package core

import (
	"testing"
	"time"
)

func TestMonthIndex(t *testing.T) {
	cases := []struct {
		m    Month
		want int
	}{
		{"January", 1},
		{"July", 7},
		{"December", 12},
		{"Jun", 0},  // abbreviations never match
		{"june", 0}, // matching is case-sensitive and exact
		{"", 0},
	}
	for i, tc := range cases {
		if got := tc.m.Index(); got != tc.want {
			t.Fatalf("case %d: Index(%q) = %d, want %d", i, tc.m, got, tc.want)
		}
	}
}

func TestYearValidate(t *testing.T) {
	if err := Year("2025").Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	for i, y := range []Year{"", "25", "20251", "abcd"} {
		if err := y.Validate(); err == nil {
			t.Fatalf("case %d: expected error for %q", i, y)
		}
	}
}

func TestMonthsBetween(t *testing.T) {
	cases := []struct {
		fm   Month
		fy   Year
		tm   Month
		ty   Year
		want int
	}{
		{"January", "2024", "March", "2024", 2},
		{"March", "2024", "January", "2024", -2},
		{"December", "2024", "January", "2025", 1},
		{"July", "2025", "July", "2025", 0},
		{"January", "2023", "January", "2025", 24},
	}
	for i, tc := range cases {
		if got := MonthsBetween(tc.fm, tc.fy, tc.tm, tc.ty); got != tc.want {
			t.Fatalf("case %d: got %d, want %d", i, got, tc.want)
		}
	}
}

func TestPeriodBefore(t *testing.T) {
	cases := []struct {
		m    Month
		y    Year
		refM Month
		refY Year
		want bool
	}{
		{"January", "2024", "March", "2024", true},
		{"March", "2024", "March", "2024", false},
		{"April", "2024", "March", "2024", false},
		{"December", "2023", "January", "2024", true},
		{"January", "2025", "December", "2024", false},
	}
	for i, tc := range cases {
		if got := PeriodBefore(tc.m, tc.y, tc.refM, tc.refY); got != tc.want {
			t.Fatalf("case %d: got %v, want %v", i, got, tc.want)
		}
	}
}

func TestCurrentPeriod(t *testing.T) {
	now := time.Date(2025, time.July, 15, 10, 0, 0, 0, time.UTC)
	m, y := CurrentPeriod(now)
	if m != "July" || y != "2025" {
		t.Fatalf("got (%q, %q), want (July, 2025)", m, y)
	}
}
