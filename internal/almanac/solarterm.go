package almanac

import "time"

// SolarTerm is one of the 24 fixed calendar entries. Thresholds are the
// customary approximate dates, not astronomically computed per year.
type SolarTerm struct {
	Month       int    `json:"month"`
	Day         int    `json:"day"`
	Name        string `json:"name"`
	EnName      string `json:"enName"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

var solarTerms = []SolarTerm{
	{1, 5, "小寒", "Minor Cold", "cold", "天渐寒，尚未大冷"},
	{1, 20, "大寒", "Major Cold", "cold", "一年中最冷的时节"},
	{2, 4, "立春", "Start of Spring", "spring", "万物复苏，春季开始"},
	{2, 19, "雨水", "Rain Water", "rain", "降雨开始，雨量渐增"},
	{3, 6, "惊蛰", "Awakening of Insects", "growth", "春雷乍动，惊醒蛰虫"},
	{3, 21, "春分", "Spring Equinox", "spring", "昼夜平分，春意正浓"},
	{4, 5, "清明", "Pure Brightness", "clear", "天气晴朗，草木繁茂"},
	{4, 20, "谷雨", "Grain Rain", "rain", "雨生百谷，播种时节"},
	{5, 6, "立夏", "Start of Summer", "summer", "夏季开始，万物生长"},
	{5, 21, "小满", "Grain Buds", "growth", "麦类作物籽粒渐满"},
	{6, 6, "芒种", "Grain in Ear", "growth", "有芒之谷可种"},
	{6, 21, "夏至", "Summer Solstice", "summer", "白昼最长，盛夏将至"},
	{7, 7, "小暑", "Minor Heat", "heat", "暑气上升，尚未最热"},
	{7, 23, "大暑", "Major Heat", "heat", "一年中最热的时节"},
	{8, 8, "立秋", "Start of Autumn", "autumn", "秋季开始，暑去凉来"},
	{8, 23, "处暑", "Limit of Heat", "heat", "炎热渐止，秋意初显"},
	{9, 8, "白露", "White Dew", "dew", "露凝而白，天气转凉"},
	{9, 23, "秋分", "Autumn Equinox", "autumn", "昼夜平分，秋色平分"},
	{10, 8, "寒露", "Cold Dew", "dew", "露气寒冷，将欲凝结"},
	{10, 23, "霜降", "Frost's Descent", "cold", "天气渐冷，初霜出现"},
	{11, 7, "立冬", "Start of Winter", "winter", "冬季开始，万物收藏"},
	{11, 22, "小雪", "Minor Snow", "snow", "开始降雪，雪量尚小"},
	{12, 7, "大雪", "Major Snow", "snow", "降雪增多，地始积雪"},
	{12, 22, "冬至", "Winter Solstice", "winter", "白昼最短，数九寒天"},
}

// SolarTermFor returns the term active on the given date: the last entry
// whose (month, day) threshold is not after the date. Dates before the
// first threshold (January 1-4) wrap around to the final entry, the
// prior year's Winter Solstice.
func SolarTermFor(t time.Time) SolarTerm {
	month := int(t.Month())
	day := t.Day()

	current := solarTerms[len(solarTerms)-1]
	for _, term := range solarTerms {
		if month > term.Month || (month == term.Month && day >= term.Day) {
			current = term
		} else {
			// Table is sorted by date; the previous entry was correct.
			break
		}
	}
	return current
}

// SolarTerms returns the full 24-entry table in calendar order.
func SolarTerms() []SolarTerm {
	out := make([]SolarTerm, len(solarTerms))
	copy(out, solarTerms)
	return out
}
