package almanac

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestSolarTermFor_StartOfSpring(t *testing.T) {
	term := SolarTermFor(date(2024, 2, 4))
	assert.Equal(t, "立春", term.Name)
	assert.Equal(t, "Start of Spring", term.EnName)
}

func TestSolarTermFor_DayBeforeThreshold(t *testing.T) {
	term := SolarTermFor(date(2024, 2, 3))
	assert.Equal(t, "大寒", term.Name)
}

func TestSolarTermFor_EarlyJanuaryWrapsToWinterSolstice(t *testing.T) {
	for d := 1; d <= 4; d++ {
		term := SolarTermFor(date(2024, 1, d))
		assert.Equal(t, "冬至", term.Name, "January %d", d)
	}
	assert.Equal(t, "小寒", SolarTermFor(date(2024, 1, 5)).Name)
}

func TestSolarTermFor_FullYearMonotonic(t *testing.T) {
	table := SolarTerms()
	require.Len(t, table, 24)

	// Walk the year from the first threshold; each term must appear as
	// one contiguous range, in table order, with no gaps.
	var seen []string
	cur := date(2024, 1, 5)
	end := date(2024, 12, 31)
	for !cur.After(end) {
		name := SolarTermFor(cur).Name
		if len(seen) == 0 || seen[len(seen)-1] != name {
			seen = append(seen, name)
		}
		cur = cur.AddDate(0, 0, 1)
	}

	require.Len(t, seen, 24)
	for i, term := range table {
		assert.Equal(t, term.Name, seen[i])
	}
}

func TestSolarTerms_TableSorted(t *testing.T) {
	table := SolarTerms()
	for i := 1; i < len(table); i++ {
		prev, cur := table[i-1], table[i]
		sorted := cur.Month > prev.Month || (cur.Month == prev.Month && cur.Day > prev.Day)
		assert.True(t, sorted, "entry %d (%s) out of order", i, cur.Name)
	}
}

func TestSolarTerms_ReturnsCopy(t *testing.T) {
	table := SolarTerms()
	table[0].Name = "mutated"
	assert.Equal(t, "小寒", SolarTerms()[0].Name)
}
