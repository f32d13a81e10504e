package domain

import "time"

// Load counts scheduled items per due date, keyed by YYYY-MM-DD.
type Load map[string]int

func (l Load) Add(day time.Time) {
	l[FormatDate(day)]++
}

func (l Load) Count(day time.Time) int {
	return l[FormatDate(day)]
}

// FuzzWindow is how many days either side of an n-day interval the balancer may
// move a due date.
func FuzzWindow(n int) int {
	switch {
	case n <= 4:
		return 0
	case n < 7:
		return 1
	case n < 30:
		return max(2, int(0.15*float64(n)))
	default:
		return max(4, int(0.05*float64(n)))
	}
}

// Balance moves candidate to the least loaded day nearby. Only a strictly lower
// count wins, so ties stay with the date closest to candidate and then the
// earlier one. The result stays within [1, maxInterval] days of reviewed.
func Balance(reviewed, candidate time.Time, load Load, maxInterval int) time.Time {
	start := Day(reviewed)
	ivl := DaysBetween(start, candidate)
	fuzz := FuzzWindow(ivl)
	if fuzz == 0 || len(load) == 0 {
		return Day(candidate)
	}
	if maxInterval < 1 {
		maxInterval = 1
	}

	best := ivl
	bestCount := load.Count(start.AddDate(0, 0, ivl))
	for d := 1; d <= fuzz; d++ {
		for _, offset := range []int{ivl - d, ivl + d} {
			if offset < 1 || offset > maxInterval {
				continue
			}
			if count := load.Count(start.AddDate(0, 0, offset)); count < bestCount {
				best, bestCount = offset, count
			}
		}
	}
	return start.AddDate(0, 0, best)
}
