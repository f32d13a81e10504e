package in

import (
	"context"

	"srs/internal/modules/links/dto"
	linksin "srs/internal/modules/links/port/in"
)

type CLIHandler struct {
	usecase linksin.Usecase
}

func NewCLIHandler(usecase linksin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Add(ctx context.Context, fromID, toID string, weight float64) (dto.LinkOutput, error) {
	return h.usecase.Add(ctx, dto.AddLinkInput{FromID: fromID, ToID: toID, Weight: weight})
}

func (h CLIHandler) Incoming(ctx context.Context, itemID string) ([]dto.LinkOutput, error) {
	return h.usecase.Incoming(ctx, itemID)
}

func (h CLIHandler) Forget(ctx context.Context, itemID string) error {
	return h.usecase.Forget(ctx, itemID)
}
