package out

import (
	"context"

	"srs/internal/modules/scheduling/domain"
)

// DataStore persists review state per item. Load reports false for an item
// that has never been reviewed. A record that decodes but fails validation is
// reported with apperrors.ErrInvalidPersistedState.
type DataStore interface {
	Load(ctx context.Context, itemID string) (domain.ReviewState, bool, error)
	Save(ctx context.Context, itemID string, state domain.ReviewState) error
	Remove(ctx context.Context, itemID string) error
	AllTrackedIDs(ctx context.Context) ([]string, error)
	Close() error
}

// Provider hands out the active algorithm and store. Both fail with
// apperrors.ErrNotInitialized until the host has selected them.
type Provider interface {
	Algorithm() (domain.Algorithm, error)
	DataStore() (DataStore, error)
}

type ParameterSource interface {
	Parameters(ctx context.Context) (domain.Parameters, error)
}

// EaseLookup reports the current ease of a tracked item.
type EaseLookup func(itemID string) (int, bool)

// LinkHintSource computes the link-ease hint of a new item, or nil when no
// linking item has been reviewed yet.
type LinkHintSource interface {
	LinkEase(ctx context.Context, itemID string, lookup EaseLookup) (*float64, error)
}
