// Package aggregate holds the calendar bucketing, ranking and statistics helpers shared by
// every export parser.
package aggregate

import (
	"slices"
	"time"
)

const (
	DaysInWeek   = 7
	MonthsInYear = 12
)

var WeekdayNames = [DaysInWeek]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

var MonthNames = [MonthsInYear]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// Weekday returns 0 for Monday through 6 for Sunday.
func Weekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % DaysInWeek
}

// Month returns 0 for January through 11 for December.
func Month(t time.Time) int {
	return int(t.Month()) - 1
}

// BucketBy partitions records into n buckets. Input order is kept inside each bucket and
// records whose key falls outside [0, n) are dropped.
func BucketBy[T any](records []T, key func(T) int, n int) [][]T {
	buckets := make([][]T, n)
	for _, r := range records {
		k := key(r)
		if k < 0 || k >= n {
			continue
		}
		buckets[k] = append(buckets[k], r)
	}
	return buckets
}

func ByWeekday[T any](records []T, date func(T) time.Time) [DaysInWeek][]T {
	var out [DaysInWeek][]T
	copy(out[:], BucketBy(records, func(r T) int { return Weekday(date(r)) }, DaysInWeek))
	return out
}

func ByMonth[T any](records []T, date func(T) time.Time) [MonthsInYear][]T {
	var out [MonthsInYear][]T
	copy(out[:], BucketBy(records, func(r T) int { return Month(date(r)) }, MonthsInYear))
	return out
}

// Group is one key of GroupBy with its records in input order.
type Group[T any] struct {
	Key     string
	Records []T
}

// GroupBy groups records by key, keeping the order in which keys were first seen.
func GroupBy[T any](records []T, key func(T) string) []Group[T] {
	index := make(map[string]int)
	var groups []Group[T]
	for _, r := range records {
		k := key(r)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group[T]{Key: k})
		}
		groups[i].Records = append(groups[i].Records, r)
	}
	return groups
}

// RankDescending returns a sorted copy, highest metric first. Ties keep input order.
func RankDescending[T any, M number](records []T, metric func(T) M) []T {
	ranked := slices.Clone(records)
	slices.SortStableFunc(ranked, func(a, b T) int {
		ma, mb := metric(a), metric(b)
		switch {
		case ma > mb:
			return -1
		case ma < mb:
			return 1
		default:
			return 0
		}
	})
	return ranked
}

// WeekdayOccurrences counts how many of each weekday (Monday first) fall in year.
// A zero year stands for "any year" and yields 52 for every weekday.
func WeekdayOccurrences(year int) [DaysInWeek]int {
	var out [DaysInWeek]int
	if year == 0 {
		for i := range out {
			out[i] = 52
		}
		return out
	}
	for d := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC); d.Year() == year; d = d.AddDate(0, 0, 1) {
		out[Weekday(d)]++
	}
	return out
}
