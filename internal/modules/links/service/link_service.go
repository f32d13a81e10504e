package service

import (
	"context"
	"fmt"
	"strings"

	"srs/internal/modules/links/domain"
	linksout "srs/internal/modules/links/port/out"
)

type LinkService struct {
	store linksout.LinkStore
}

func NewLinkService(store linksout.LinkStore) *LinkService {
	return &LinkService{store: store}
}

func (s *LinkService) Add(ctx context.Context, fromID, toID string, weight float64) (domain.Link, error) {
	link, err := domain.NewLink(fromID, toID, weight)
	if err != nil {
		return domain.Link{}, err
	}
	if err := s.store.Upsert(ctx, link); err != nil {
		return domain.Link{}, err
	}
	return link, nil
}

func (s *LinkService) Incoming(ctx context.Context, itemID string) ([]domain.Link, error) {
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return []domain.Link{}, nil
	}
	return s.store.Incoming(ctx, itemID)
}

func (s *LinkService) Forget(ctx context.Context, itemID string) error {
	return s.store.Forget(ctx, strings.TrimSpace(itemID))
}

func (s *LinkService) Hint(ctx context.Context, itemID string, easeOf func(string) (int, bool)) (*float64, error) {
	incoming, err := s.Incoming(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("incoming links of %s: %w", itemID, err)
	}
	return domain.WeightedEase(incoming, easeOf), nil
}
