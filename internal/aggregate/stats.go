package aggregate

import (
	"math"
	"slices"
)

type number interface {
	~int | ~int64 | ~float64
}

func Sum[T number](values []T) T {
	var total T
	for _, v := range values {
		total += v
	}
	return total
}

// Mean of an empty series is 0.
func Mean[T number](values []T) float64 {
	if len(values) == 0 {
		return 0
	}
	return float64(Sum(values)) / float64(len(values))
}

// Median of an empty series is 0; even-length series average the two middle values.
func Median[T number](values []T) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return float64(sorted[mid])
	}
	return (float64(sorted[mid-1]) + float64(sorted[mid])) / 2
}

// StdDev is the population standard deviation.
func StdDev[T number](values []T) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := Mean(values)
	var sq float64
	for _, v := range values {
		d := float64(v) - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values)))
}

// RejectOutliers marks which counts lie strictly within threshold standard deviations of
// the mean. A series without variance keeps every element.
func RejectOutliers[T number](counts []T, threshold float64) []bool {
	keep := make([]bool, len(counts))
	mean := Mean(counts)
	std := StdDev(counts)
	for i, c := range counts {
		keep[i] = std == 0 || math.Abs(float64(c)-mean) < threshold*std
	}
	return keep
}

// Round rounds to the given number of decimals, half to even.
func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.RoundToEven(v*p) / p
}
