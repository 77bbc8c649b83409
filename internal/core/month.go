package core

import (
	"fmt"
	"strconv"
	"time"
)

type (
	// Month is a full English month name ("January".."December").
	Month string

	// Year is a 4-digit year string ("2025").
	Year string
)

var monthNames = [12]Month{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// Months returns the twelve calendar months in order.
func Months() [12]Month {
	return monthNames
}

// Index returns the 1-based calendar index of the month, or 0 if the
// name is not a full English month name. Matching is exact.
func (m Month) Index() int {
	for i, name := range monthNames {
		if m == name {
			return i + 1
		}
	}
	return 0
}

func (m Month) Validate() error {
	if m.Index() == 0 {
		return fmt.Errorf("%w: %q", ErrInvalidMonth, string(m))
	}
	return nil
}

func (y Year) Validate() error {
	if len(y) != 4 {
		return fmt.Errorf("%w: %q", ErrInvalidYear, string(y))
	}
	n, err := strconv.Atoi(string(y))
	if err != nil || n < 1 {
		return fmt.Errorf("%w: %q", ErrInvalidYear, string(y))
	}
	return nil
}

// Int returns the numeric year, or 0 for a malformed value.
func (y Year) Int() int {
	n, err := strconv.Atoi(string(y))
	if err != nil {
		return 0
	}
	return n
}

// MonthOf maps a wall-clock time to its month name.
func MonthOf(t time.Time) Month {
	return monthNames[int(t.Month())-1]
}

// YearOf maps a wall-clock time to its 4-digit year string.
func YearOf(t time.Time) Year {
	return Year(strconv.Itoa(t.Year()))
}

// CurrentPeriod returns the (month, year) pair for the given time.
func CurrentPeriod(now time.Time) (Month, Year) {
	return MonthOf(now), YearOf(now)
}

// MonthsBetween returns the signed number of calendar months from
// (fromMonth, fromYear) to (toMonth, toYear). Malformed inputs count
// their month index as 0.
func MonthsBetween(fromMonth Month, fromYear Year, toMonth Month, toYear Year) int {
	return (toYear.Int()-fromYear.Int())*12 + (toMonth.Index() - fromMonth.Index())
}

// PeriodBefore reports whether (m, y) is strictly earlier than (refM, refY).
func PeriodBefore(m Month, y Year, refM Month, refY Year) bool {
	if y.Int() != refY.Int() {
		return y.Int() < refY.Int()
	}
	return m.Index() < refM.Index()
}
