package domain

import (
	"fmt"
	"strings"

	apperrors "srs/internal/platform/errors"
)

const DefaultWeight = 1.0

// Link says that FromID references ToID. Weight counts how strongly, usually
// the number of references.
type Link struct {
	FromID string
	ToID   string
	Weight float64
}

func NewLink(fromID, toID string, weight float64) (Link, error) {
	fromID = strings.TrimSpace(fromID)
	toID = strings.TrimSpace(toID)
	switch {
	case fromID == "" || toID == "":
		return Link{}, fmt.Errorf("%w: link endpoints are required", apperrors.ErrInvalidInput)
	case fromID == toID:
		return Link{}, fmt.Errorf("%w: an item cannot link to itself", apperrors.ErrInvalidInput)
	case weight < 0:
		return Link{}, fmt.Errorf("%w: link weight must not be negative", apperrors.ErrInvalidInput)
	}
	if weight == 0 {
		weight = DefaultWeight
	}
	return Link{FromID: fromID, ToID: toID, Weight: weight}, nil
}

// WeightedEase averages the ease of linking items that have one, weighted by
// link weight. It returns nil when no linking item has been reviewed.
func WeightedEase(incoming []Link, easeOf func(itemID string) (int, bool)) *float64 {
	var total, weights float64
	for _, link := range incoming {
		ease, ok := easeOf(link.FromID)
		if !ok || link.Weight <= 0 {
			continue
		}
		total += link.Weight * float64(ease)
		weights += link.Weight
	}
	if weights == 0 {
		return nil
	}
	avg := total / weights
	return &avg
}
