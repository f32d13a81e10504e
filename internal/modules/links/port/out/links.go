package out

import (
	"context"

	"srs/internal/modules/links/domain"
)

type LinkStore interface {
	Upsert(ctx context.Context, link domain.Link) error
	Incoming(ctx context.Context, toID string) ([]domain.Link, error)
	Forget(ctx context.Context, itemID string) error
	Close() error
}
