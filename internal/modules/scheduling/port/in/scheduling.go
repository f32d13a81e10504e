package in

import (
	"context"

	"srs/internal/modules/scheduling/dto"
)

type Usecase interface {
	Review(ctx context.Context, input dto.ReviewInput) (dto.ReviewOutput, error)
	Preview(ctx context.Context, itemID string) (dto.PreviewOutput, error)
	Show(ctx context.Context, itemID string) (dto.StateOutput, error)
	Remove(ctx context.Context, itemID string) error
	ListTracked(ctx context.Context) ([]dto.StateOutput, error)
	Due(ctx context.Context, input dto.DueInput) ([]dto.StateOutput, error)
}
