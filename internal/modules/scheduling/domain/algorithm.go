package domain

import (
	"fmt"
	"math"
	"time"

	apperrors "srs/internal/platform/errors"
)

type AlgorithmName string

const AlgorithmOSR AlgorithmName = "SM-2-OSR"

// Review is one response together with the context the algorithm may consult.
// LinkEase is only used when seeding a new item; Load is only used when load
// balancing is enabled.
type Review struct {
	Response Response
	At       time.Time
	LinkEase *float64
	Load     Load
}

// Algorithm computes the next schedule of an item. A nil current state means
// the item has never been reviewed.
type Algorithm interface {
	Name() AlgorithmName
	Next(current *ReviewState, review Review, params Parameters) ReviewState
}

// NewAlgorithm resolves a configured identifier. There is no fallback for
// unknown names.
func NewAlgorithm(name AlgorithmName) (Algorithm, error) {
	switch name {
	case AlgorithmOSR:
		return OSR{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", apperrors.ErrUnsupportedAlgorithm, name)
	}
}

// OSR is the SM-2 derivative used for notes and flashcards.
type OSR struct{}

func (OSR) Name() AlgorithmName { return AlgorithmOSR }

func (OSR) Next(current *ReviewState, review Review, params Parameters) ReviewState {
	var next ReviewState
	if current == nil {
		next = ReviewState{
			Ease:     SeedEase(params, review.LinkEase),
			Interval: InitialInterval,
		}
	} else {
		next = *current
	}
	if next.Interval < 1 {
		next.Interval = 1
	}
	previous := next.Interval
	maxInterval := max(1, params.MaximumInterval)

	var interval float64
	if review.Response.IsLapse() {
		next.Lapses++
		next.Repetitions = 0
		next.Ease -= LapseEasePenalty
		interval = math.Floor(float64(next.Interval) * params.LapsesIntervalChange)
	} else {
		next.Repetitions++
		factor := 1.0
		switch review.Response {
		case Hard:
			next.Ease -= HardEasePenalty
		case Easy:
			next.Ease += EasyEaseBonus
			factor = params.EasyBonus
		}
		next.Ease = max(next.Ease, params.BaseEase)
		interval = float64(roundHalfUp(float64(next.Interval) * float64(next.Ease) / 100 * factor))
	}
	next.Ease = max(next.Ease, params.BaseEase)

	switch {
	case math.IsNaN(interval) || interval < 1:
		interval = 1
	case interval > float64(maxInterval):
		interval = float64(maxInterval)
	}
	if review.Response.IsLapse() && interval > float64(previous) {
		interval = float64(previous)
	}
	next.Interval = int(interval)

	day := Day(review.At)
	next.LastReviewed = review.At.UTC()
	next.Due = day.AddDate(0, 0, next.Interval)

	if params.LoadBalance && review.Load != nil {
		limit := maxInterval
		if review.Response.IsLapse() {
			limit = min(limit, max(1, previous))
		}
		next.Due = Balance(day, next.Due, review.Load, limit)
		next.Interval = DaysBetween(day, next.Due)
	}
	return next
}

// SeedEase is the starting ease of a new item. A link hint pulls the base ease
// towards the hint, by at most MaxLinkFactor of the total.
func SeedEase(params Parameters, linkEase *float64) int {
	if linkEase == nil {
		return params.BaseEase
	}
	f := math.Min(math.Max(params.MaxLinkFactor, 0), 1)
	return roundHalfUp((1-f)*float64(params.BaseEase) + f*(*linkEase))
}
