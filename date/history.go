package date

import (
	"slices"
	"sort"
)

// History stores a chronological series of values, each associated with a specific date.
// It ensures that dates are unique and the series is always sorted.
type History[T any] struct {
	days   []Date
	values []T
}

// Len returns the number of items in the history.
func (h *History[T]) Len() int { return len(h.days) }

// chronological is a private implementation to make this history chronologically sorted.
type chronological[T any] struct{ *History[T] }

func (s chronological[T]) Less(i, j int) bool { return s.days[i].Before(s.days[j]) }

func (s chronological[T]) Swap(i, j int) {
	s.days[i], s.days[j] = s.days[j], s.days[i]
	s.values[i], s.values[j] = s.values[j], s.values[i]
}

// Append adds a point to the history.
//
// Existing value at that date are overwritten.
func (h *History[T]) Append(on Date, v T) *History[T] {
	if i := slices.Index(h.days, on); i >= 0 {
		h.values[i] = v
		return h
	}
	h.days, h.values = append(h.days, on), append(h.values, v)
	sort.Sort(chronological[T]{h})
	return h
}

// ValueAsOf returns the value on a given day, or the most recent value before it.
// It returns the day the value was recorded and true if found.
func (h *History[T]) ValueAsOf(day Date) (Date, T, bool) {
	i, found := slices.BinarySearchFunc(h.days, day, func(d, t Date) int {
		if d.After(t) {
			return 1
		}
		if d.Before(t) {
			return -1
		}
		return 0
	})
	if found {
		return h.days[i], h.values[i], true
	}
	// i is the insertion point, the last entry before day sits at i-1.
	if i == 0 {
		var zero T
		return Date{}, zero, false
	}
	return h.days[i-1], h.values[i-1], true
}
