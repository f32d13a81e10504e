package in

import (
	"context"

	"srs/internal/modules/links/dto"
)

type Usecase interface {
	Add(ctx context.Context, input dto.AddLinkInput) (dto.LinkOutput, error)
	Incoming(ctx context.Context, itemID string) ([]dto.LinkOutput, error)
	Forget(ctx context.Context, itemID string) error
	// Hint is the weighted average ease of the items linking to itemID, or nil.
	Hint(ctx context.Context, itemID string, easeOf func(itemID string) (int, bool)) (*float64, error)
}
