package in

import (
	"context"

	"srs/internal/modules/settings/dto"
)

type Usecase interface {
	Current(ctx context.Context) (dto.SettingsOutput, error)
	Set(ctx context.Context, input dto.SetInput) (dto.SettingsOutput, error)
	Migrate(ctx context.Context) (dto.MigrateOutput, error)
	Check(ctx context.Context) (dto.CheckOutput, error)
	Flush(ctx context.Context) error
}
