// Package almanac holds the pure calendar computations: Gregorian
// display parts, the lunisolar approximation, the 24 solar terms, and
// the perpetual month grid. No I/O, no clocks; callers pass the date.
package almanac

import (
	"fmt"
	"time"
)

var weekdayNames = []string{"周日", "周一", "周二", "周三", "周四", "周五", "周六"}

// DateParts is the resolved display form of one calendar date.
type DateParts struct {
	Year           int    `json:"year"`
	Month          int    `json:"month"`
	Day            int    `json:"day"`
	WeekdayName    string `json:"weekdayName"`
	FullString     string `json:"fullString"`
	LunarMonthName string `json:"lunarMonthName"`
	LunarDayName   string `json:"lunarDayName"`
}

func Parts(t time.Time) DateParts {
	month := int(t.Month())
	day := t.Day()
	lunarMonth, lunarDay := LunarParts(t)

	return DateParts{
		Year:           t.Year(),
		Month:          month,
		Day:            day,
		WeekdayName:    weekdayNames[int(t.Weekday())],
		FullString:     fmt.Sprintf("%d月%d日", month, day),
		LunarMonthName: lunarMonth,
		LunarDayName:   lunarDay,
	}
}

// Grid is a flat 7-column Monday-start month layout. Leading slots
// before day 1 are zero; there is no trailing padding.
type Grid struct {
	Cells []int `json:"cells"`
	Year  int   `json:"year"`
	Month int   `json:"month"` // 1-based for display
}

// CalendarGrid lays out the given month. month0 is 0-based (0 = January)
// to match the upstream grid contract.
func CalendarGrid(year, month0 int) Grid {
	first := time.Date(year, time.Month(month0+1), 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := time.Date(year, time.Month(month0+2), 0, 0, 0, 0, 0, time.UTC).Day()

	// time.Weekday: Sunday=0. Remap to Monday=0 .. Sunday=6.
	start := int(first.Weekday())
	if start == 0 {
		start = 6
	} else {
		start--
	}

	cells := make([]int, 0, start+daysInMonth)
	for i := 0; i < start; i++ {
		cells = append(cells, 0)
	}
	for d := 1; d <= daysInMonth; d++ {
		cells = append(cells, d)
	}

	return Grid{
		Cells: cells,
		Year:  year,
		Month: month0 + 1,
	}
}
