package usecase

import (
	"context"

	"srs/internal/modules/links/domain"
	"srs/internal/modules/links/dto"
	linksin "srs/internal/modules/links/port/in"
	"srs/internal/modules/links/service"
)

type Interactor struct {
	svc *service.LinkService
}

func NewInteractor(svc *service.LinkService) linksin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Add(ctx context.Context, input dto.AddLinkInput) (dto.LinkOutput, error) {
	link, err := i.svc.Add(ctx, input.FromID, input.ToID, input.Weight)
	if err != nil {
		return dto.LinkOutput{}, err
	}
	return mapLink(link), nil
}

func (i *Interactor) Incoming(ctx context.Context, itemID string) ([]dto.LinkOutput, error) {
	links, err := i.svc.Incoming(ctx, itemID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LinkOutput, 0, len(links))
	for _, link := range links {
		out = append(out, mapLink(link))
	}
	return out, nil
}

func (i *Interactor) Forget(ctx context.Context, itemID string) error {
	return i.svc.Forget(ctx, itemID)
}

func (i *Interactor) Hint(ctx context.Context, itemID string, easeOf func(string) (int, bool)) (*float64, error) {
	return i.svc.Hint(ctx, itemID, easeOf)
}

func mapLink(link domain.Link) dto.LinkOutput {
	return dto.LinkOutput{FromID: link.FromID, ToID: link.ToID, Weight: link.Weight}
}
