package domain_test

import (
	"testing"
	"time"

	"srs/internal/modules/scheduling/domain"
)

func day(offset int) time.Time {
	return domain.Day(reviewedAt).AddDate(0, 0, offset)
}

func TestFuzzWindow(t *testing.T) {
	t.Parallel()
	cases := map[int]int{1: 0, 4: 0, 5: 1, 6: 1, 7: 2, 13: 2, 20: 3, 29: 4, 30: 4, 100: 5, 365: 18}
	for n, want := range cases {
		if got := domain.FuzzWindow(n); got != want {
			t.Fatalf("FuzzWindow(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestBalancePicksLeastLoadedDay(t *testing.T) {
	t.Parallel()
	load := domain.Load{}
	for _, d := range []int{18, 19, 20, 21, 23} {
		for i := 0; i < 5; i++ {
			load.Add(day(d))
		}
	}
	load.Add(day(22))
	load.Add(day(22))
	load.Add(day(17))

	got := domain.Balance(reviewedAt, day(20), load, 36525)
	if !got.Equal(day(17)) {
		t.Fatalf("expected day 17, got %s", domain.FormatDate(got))
	}
}

func TestBalanceTiesPreferClosestThenEarlier(t *testing.T) {
	t.Parallel()
	load := domain.Load{}
	load.Add(day(20))
	load.Add(day(20))
	// 18, 19 and 21 are all empty: 19 and 21 are equally close, 19 is earlier.
	got := domain.Balance(reviewedAt, day(20), load, 36525)
	if !got.Equal(day(19)) {
		t.Fatalf("expected day 19, got %s", domain.FormatDate(got))
	}
}

func TestBalanceKeepsCandidateOnTie(t *testing.T) {
	t.Parallel()
	load := domain.Load{}
	for d := 15; d <= 25; d++ {
		load.Add(day(d))
	}
	got := domain.Balance(reviewedAt, day(20), load, 36525)
	if !got.Equal(day(20)) {
		t.Fatalf("expected candidate to stay, got %s", domain.FormatDate(got))
	}
}

func TestBalanceRespectsMaximumInterval(t *testing.T) {
	t.Parallel()
	load := domain.Load{}
	for i := 0; i < 3; i++ {
		load.Add(day(20))
		load.Add(day(19))
		load.Add(day(18))
	}
	got := domain.Balance(reviewedAt, day(20), load, 20)
	if got.After(day(20)) {
		t.Fatalf("balanced past maximum interval: %s", domain.FormatDate(got))
	}
	if !got.Equal(day(17)) {
		t.Fatalf("expected day 17, got %s", domain.FormatDate(got))
	}
}

func TestBalanceLeavesShortIntervals(t *testing.T) {
	t.Parallel()
	load := domain.Load{}
	for i := 0; i < 10; i++ {
		load.Add(day(3))
	}
	if got := domain.Balance(reviewedAt, day(3), load, 36525); !got.Equal(day(3)) {
		t.Fatalf("short intervals are not fuzzed, got %s", domain.FormatDate(got))
	}
}

func TestBalanceNeverMovesIntoThePast(t *testing.T) {
	t.Parallel()
	load := domain.Load{}
	for i := 0; i < 10; i++ {
		load.Add(day(5))
	}
	got := domain.Balance(reviewedAt, day(5), load, 36525)
	if got.Before(day(1)) {
		t.Fatalf("balanced into the past: %s", domain.FormatDate(got))
	}
	if !got.Equal(day(4)) {
		t.Fatalf("expected day 4, got %s", domain.FormatDate(got))
	}
}
