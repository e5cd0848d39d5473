package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type dated struct {
	id   int
	when time.Time
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 12, 0, 0, 0, time.UTC)
}

func datedAt(r dated) time.Time { return r.when }

func TestWeekday_MondayFirst(t *testing.T) {
	assert.Equal(t, 0, Weekday(day(2021, time.January, 4)))
	assert.Equal(t, 5, Weekday(day(2021, time.January, 9)))
	assert.Equal(t, 6, Weekday(day(2021, time.January, 10)))
	assert.Equal(t, "Sunday", WeekdayNames[Weekday(day(2021, time.January, 10))])
}

func TestMonth_JanuaryFirst(t *testing.T) {
	assert.Equal(t, 0, Month(day(2021, time.January, 31)))
	assert.Equal(t, 11, Month(day(2021, time.December, 1)))
	assert.Equal(t, "June", MonthNames[Month(day(2021, time.June, 1))])
}

func TestBucketBy_StableAndDropsOutOfRange(t *testing.T) {
	buckets := BucketBy([]int{5, 1, 3, 9, -1, 2}, func(v int) int { return v % 3 }, 2)

	assert.Len(t, buckets, 2)
	assert.Equal(t, []int{3, 9}, buckets[0])
	assert.Equal(t, []int{1}, buckets[1])
}

func TestByMonth_PartitionsRecords(t *testing.T) {
	records := []dated{
		{1, day(2021, time.January, 4)},
		{2, day(2021, time.June, 7)},
		{3, day(2020, time.January, 1)},
	}

	byMonth := ByMonth(records, datedAt)

	assert.Len(t, byMonth, MonthsInYear)
	assert.Equal(t, []dated{records[0], records[2]}, byMonth[0])
	assert.Equal(t, []dated{records[1]}, byMonth[5])
	total := 0
	for _, b := range byMonth {
		total += len(b)
	}
	assert.Equal(t, len(records), total)
}

func TestByWeekday_PartitionsRecords(t *testing.T) {
	records := []dated{
		{1, day(2021, time.January, 4)},
		{2, day(2021, time.January, 10)},
		{3, day(2021, time.January, 11)},
	}

	byWeekday := ByWeekday(records, datedAt)

	assert.Len(t, byWeekday, DaysInWeek)
	assert.Equal(t, []dated{records[0], records[2]}, byWeekday[0])
	assert.Equal(t, []dated{records[1]}, byWeekday[6])
}

func TestByWeekday_Empty(t *testing.T) {
	byWeekday := ByWeekday[dated](nil, datedAt)
	for _, b := range byWeekday {
		assert.Empty(t, b)
	}
}

func TestGroupBy_FirstSeenOrder(t *testing.T) {
	groups := GroupBy([]string{"b1", "a1", "b2", "c1", "a2"}, func(s string) string { return s[:1] })

	assert.Len(t, groups, 3)
	assert.Equal(t, "b", groups[0].Key)
	assert.Equal(t, []string{"b1", "b2"}, groups[0].Records)
	assert.Equal(t, "a", groups[1].Key)
	assert.Equal(t, "c", groups[2].Key)
}

func TestRankDescending_StableCopy(t *testing.T) {
	input := []dated{{1, time.Time{}}, {3, time.Time{}}, {2, time.Time{}}, {3, time.Time{}}}
	input[3].when = day(2021, time.January, 1)

	ranked := RankDescending(input, func(d dated) int { return d.id })

	assert.Equal(t, []int{3, 3, 2, 1}, []int{ranked[0].id, ranked[1].id, ranked[2].id, ranked[3].id})
	assert.True(t, ranked[0].when.IsZero(), "ties keep input order")
	assert.Equal(t, 1, input[0].id, "input is not reordered")
}

func TestWeekdayOccurrences(t *testing.T) {
	// 2021 starts on a Friday and has 365 days.
	assert.Equal(t, [DaysInWeek]int{52, 52, 52, 52, 53, 52, 52}, WeekdayOccurrences(2021))
	// 2020 is a leap year starting on a Wednesday.
	assert.Equal(t, [DaysInWeek]int{52, 52, 53, 53, 52, 52, 52}, WeekdayOccurrences(2020))
	assert.Equal(t, [DaysInWeek]int{52, 52, 52, 52, 52, 52, 52}, WeekdayOccurrences(0))
}
