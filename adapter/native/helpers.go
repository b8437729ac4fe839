package native

import (
	"sort"
	"strings"
)

// Vectorized numeric helpers.

// Map applies fn to every element of nums.
func Map(nums []float64, fn func(float64) float64) []float64 {
	out := make([]float64, len(nums))
	for i, n := range nums {
		out[i] = fn(n)
	}
	return out
}

// Filter keeps the elements of nums for which keep returns true.
func Filter(nums []float64, keep func(float64) bool) []float64 {
	out := make([]float64, 0, len(nums))
	for _, n := range nums {
		if keep(n) {
			out = append(out, n)
		}
	}
	return out
}

// Reduce folds nums left to right starting from init.
func Reduce(nums []float64, init float64, fn func(acc, n float64) float64) float64 {
	acc := init
	for _, n := range nums {
		acc = fn(acc, n)
	}
	return acc
}

// SortFloats returns an ascending copy of nums.
func SortFloats(nums []float64) []float64 {
	out := append([]float64(nil), nums...)
	sort.Float64s(out)
	return out
}

// Sum returns the total of nums.
func Sum(nums []float64) float64 {
	var total float64
	for _, n := range nums {
		total += n
	}
	return total
}

// Mean returns the arithmetic mean of nums, 0 for an empty slice.
func Mean(nums []float64) float64 {
	if len(nums) == 0 {
		return 0
	}
	return Sum(nums) / float64(len(nums))
}

// String helpers.

// Upper uppercases s.
func Upper(s string) string { return strings.ToUpper(s) }

// Lower lowercases s.
func Lower(s string) string { return strings.ToLower(s) }

// Split splits s on sep.
func Split(s, sep string) []string { return strings.Split(s, sep) }

// Join joins words with sep.
func Join(words []string, sep string) string { return strings.Join(words, sep) }
