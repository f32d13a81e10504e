package usecase

import (
	"context"
	"fmt"
	"strings"

	"srs/internal/modules/scheduling/domain"
	schedulingdto "srs/internal/modules/scheduling/dto"
	schedulingin "srs/internal/modules/scheduling/port/in"
	"srs/internal/modules/scheduling/service"
	apperrors "srs/internal/platform/errors"
)

type Interactor struct {
	svc *service.SchedulingService
}

func NewInteractor(svc *service.SchedulingService) schedulingin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Review(ctx context.Context, input schedulingdto.ReviewInput) (schedulingdto.ReviewOutput, error) {
	itemID, err := normalizeID(input.ItemID)
	if err != nil {
		return schedulingdto.ReviewOutput{}, err
	}
	response, err := domain.ParseResponse(input.Response)
	if err != nil {
		return schedulingdto.ReviewOutput{}, err
	}
	outcome, err := i.svc.Review(ctx, itemID, response)
	if err != nil {
		return schedulingdto.ReviewOutput{}, err
	}
	return schedulingdto.ReviewOutput{
		ItemID:      outcome.ItemID,
		Response:    response.String(),
		Ease:        outcome.State.Ease,
		Interval:    outcome.State.Interval,
		Due:         outcome.State.Due,
		Repetitions: outcome.State.Repetitions,
		Lapses:      outcome.State.Lapses,
		New:         outcome.New,
	}, nil
}

func (i *Interactor) Preview(ctx context.Context, itemID string) (schedulingdto.PreviewOutput, error) {
	itemID, err := normalizeID(itemID)
	if err != nil {
		return schedulingdto.PreviewOutput{}, err
	}
	options, isNew, err := i.svc.Preview(ctx, itemID)
	if err != nil {
		return schedulingdto.PreviewOutput{}, err
	}
	out := schedulingdto.PreviewOutput{ItemID: itemID, New: isNew, Options: make([]schedulingdto.PreviewOption, 0, len(options))}
	for _, opt := range options {
		out.Options = append(out.Options, schedulingdto.PreviewOption{
			Response: opt.Response.String(),
			Ease:     opt.State.Ease,
			Interval: opt.State.Interval,
			Due:      opt.State.Due,
		})
	}
	return out, nil
}

func (i *Interactor) Show(ctx context.Context, itemID string) (schedulingdto.StateOutput, error) {
	itemID, err := normalizeID(itemID)
	if err != nil {
		return schedulingdto.StateOutput{}, err
	}
	state, ok, err := i.svc.State(ctx, itemID)
	if err != nil {
		return schedulingdto.StateOutput{}, err
	}
	if !ok {
		return schedulingdto.StateOutput{}, fmt.Errorf("%w: no review state for %s", apperrors.ErrNotFound, itemID)
	}
	return toStateOutput(itemID, state), nil
}

func (i *Interactor) Remove(ctx context.Context, itemID string) error {
	itemID, err := normalizeID(itemID)
	if err != nil {
		return err
	}
	return i.svc.Remove(ctx, itemID)
}

func (i *Interactor) ListTracked(ctx context.Context) ([]schedulingdto.StateOutput, error) {
	tracked, err := i.svc.Tracked(ctx)
	if err != nil {
		return nil, err
	}
	return toStateOutputs(tracked), nil
}

func (i *Interactor) Due(ctx context.Context, input schedulingdto.DueInput) ([]schedulingdto.StateOutput, error) {
	if input.Days < 0 {
		return nil, fmt.Errorf("%w: days must be non-negative", apperrors.ErrInvalidInput)
	}
	until := input.Until
	if until.IsZero() {
		until = i.svc.Today().AddDate(0, 0, input.Days)
	}
	due, err := i.svc.Due(ctx, until, input.Limit)
	if err != nil {
		return nil, err
	}
	return toStateOutputs(due), nil
}

func normalizeID(raw string) (string, error) {
	itemID := strings.TrimSpace(raw)
	if itemID == "" {
		return "", fmt.Errorf("%w: item id is required", apperrors.ErrInvalidInput)
	}
	return itemID, nil
}

func toStateOutputs(items []service.Tracked) []schedulingdto.StateOutput {
	out := make([]schedulingdto.StateOutput, 0, len(items))
	for _, item := range items {
		out = append(out, toStateOutput(item.ItemID, item.State))
	}
	return out
}

func toStateOutput(itemID string, state domain.ReviewState) schedulingdto.StateOutput {
	return schedulingdto.StateOutput{
		ItemID:       itemID,
		Ease:         state.Ease,
		Interval:     state.Interval,
		Due:          state.Due,
		Repetitions:  state.Repetitions,
		Lapses:       state.Lapses,
		LastReviewed: state.LastReviewed,
	}
}
