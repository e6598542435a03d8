package almanac

import (
	"math"
	"time"
)

// Lunisolar conversion is an approximation built on the mean synodic
// month, anchored at a reference new moon. It tracks the civil Chinese
// calendar to within about a day, which is the precision the display
// needs; leap months are not modelled, so a 13-lunation year folds its
// final month into 腊月.

const synodicDays = 29.530588853

// Reference new moon: 2000-01-06 18:14 UTC.
var newMoonEpoch = time.Date(2000, 1, 6, 18, 14, 0, 0, time.UTC)

// Supported conversion range. Outside it the converter reports failure
// and callers render empty lunar fields.
const (
	lunarMinYear = 1950
	lunarMaxYear = 2100
)

var lunarMonthNames = []string{
	"", "正月", "二月", "三月", "四月", "五月", "六月",
	"七月", "八月", "九月", "十月", "冬月", "腊月",
}

var lunarDayNames = []string{
	"", "初一", "初二", "初三", "初四", "初五", "初六", "初七", "初八", "初九", "初十",
	"十一", "十二", "十三", "十四", "十五", "十六", "十七", "十八", "十九", "二十",
	"廿一", "廿二", "廿三", "廿四", "廿五", "廿六", "廿七", "廿八", "廿九", "三十",
}

// lunarNumeric returns the approximate 1-based lunisolar month and day
// for the given date, or ok=false outside the supported range.
func lunarNumeric(t time.Time) (month, day int, ok bool) {
	if t.Year() < lunarMinYear || t.Year() > lunarMaxYear {
		return 0, 0, false
	}

	// Anchor the computation at local noon so the lunar day does not
	// flip with the time of day the conversion runs.
	noon := time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, time.UTC)

	phase := lunarPhaseDays(noon)
	day = int(phase) + 1
	if day > 30 {
		day = 30
	}

	// Start of the lunation containing t.
	monthStart := noon.Add(-time.Duration(phase * float64(24*time.Hour)))

	// The lunisolar year opens with the new moon falling in the
	// customary window January 21 - February 20.
	newYear := lunarNewYear(noon.Year())
	if monthStart.Before(newYear.Add(-36 * time.Hour)) {
		newYear = lunarNewYear(noon.Year() - 1)
	}

	lunations := int(math.Round(monthStart.Sub(newYear).Hours() / (synodicDays * 24)))
	month = lunations + 1
	if month < 1 {
		month = 1
	}
	if month > 12 {
		month = 12
	}
	return month, day, true
}

// lunarPhaseDays returns days elapsed since the last mean new moon.
func lunarPhaseDays(t time.Time) float64 {
	days := t.Sub(newMoonEpoch).Hours() / 24
	phase := math.Mod(days, synodicDays)
	if phase < 0 {
		phase += synodicDays
	}
	return phase
}

// lunarNewYear approximates the Chinese New Year of the given Gregorian
// year as the mean new moon in the January 21 - February 20 window.
func lunarNewYear(year int) time.Time {
	windowStart := time.Date(year, 1, 21, 0, 0, 0, 0, time.UTC)
	days := windowStart.Sub(newMoonEpoch).Hours() / 24
	phase := math.Mod(days, synodicDays)
	if phase < 0 {
		phase += synodicDays
	}
	untilNext := synodicDays - phase
	if untilNext >= synodicDays-1e-9 {
		untilNext = 0
	}
	return windowStart.Add(time.Duration(untilNext * float64(24*time.Hour)))
}

// LunarParts returns the display names for the lunisolar month and day,
// or empty strings when conversion is unsupported for the date.
func LunarParts(t time.Time) (monthName, dayName string) {
	month, day, ok := lunarNumeric(t)
	if !ok || month < 1 || month > 12 || day < 1 || day > 30 {
		return "", ""
	}
	return lunarMonthNames[month], lunarDayNames[day]
}
