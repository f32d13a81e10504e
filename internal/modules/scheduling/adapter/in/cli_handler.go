package in

import (
	"context"

	schedulingdto "srs/internal/modules/scheduling/dto"
	schedulingin "srs/internal/modules/scheduling/port/in"
)

type CLIHandler struct {
	usecase schedulingin.Usecase
}

func NewCLIHandler(usecase schedulingin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Review(ctx context.Context, itemID, response string) (schedulingdto.ReviewOutput, error) {
	return h.usecase.Review(ctx, schedulingdto.ReviewInput{ItemID: itemID, Response: response})
}

func (h CLIHandler) Preview(ctx context.Context, itemID string) (schedulingdto.PreviewOutput, error) {
	return h.usecase.Preview(ctx, itemID)
}

func (h CLIHandler) Show(ctx context.Context, itemID string) (schedulingdto.StateOutput, error) {
	return h.usecase.Show(ctx, itemID)
}

func (h CLIHandler) Remove(ctx context.Context, itemID string) error {
	return h.usecase.Remove(ctx, itemID)
}

func (h CLIHandler) List(ctx context.Context) ([]schedulingdto.StateOutput, error) {
	return h.usecase.ListTracked(ctx)
}

func (h CLIHandler) Due(ctx context.Context, days, limit int) ([]schedulingdto.StateOutput, error) {
	return h.usecase.Due(ctx, schedulingdto.DueInput{Days: days, Limit: limit})
}
