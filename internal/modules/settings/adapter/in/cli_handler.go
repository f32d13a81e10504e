package in

import (
	"context"

	settingsdto "srs/internal/modules/settings/dto"
	settingsin "srs/internal/modules/settings/port/in"
)

type CLIHandler struct {
	usecase settingsin.Usecase
}

func NewCLIHandler(usecase settingsin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Show(ctx context.Context) (settingsdto.SettingsOutput, error) {
	return h.usecase.Current(ctx)
}

func (h CLIHandler) Set(ctx context.Context, key, value string) (settingsdto.SettingsOutput, error) {
	return h.usecase.Set(ctx, settingsdto.SetInput{Key: key, Value: value})
}

func (h CLIHandler) Migrate(ctx context.Context) (settingsdto.MigrateOutput, error) {
	return h.usecase.Migrate(ctx)
}

func (h CLIHandler) Check(ctx context.Context) (settingsdto.CheckOutput, error) {
	return h.usecase.Check(ctx)
}

func (h CLIHandler) Flush(ctx context.Context) error {
	return h.usecase.Flush(ctx)
}
