package out

import (
	"context"

	linksin "srs/internal/modules/links/port/in"
	"srs/internal/modules/scheduling/domain"
	schedulingout "srs/internal/modules/scheduling/port/out"
	settingsin "srs/internal/modules/settings/port/in"
)

// SettingsParameters reads the algorithm parameters from the settings module
// on every call, so an edit takes effect on the next review.
type SettingsParameters struct {
	settings settingsin.Usecase
}

var _ schedulingout.ParameterSource = SettingsParameters{}

func NewSettingsParameters(settings settingsin.Usecase) SettingsParameters {
	return SettingsParameters{settings: settings}
}

func (p SettingsParameters) Parameters(ctx context.Context) (domain.Parameters, error) {
	current, err := p.settings.Current(ctx)
	if err != nil {
		return domain.Parameters{}, err
	}
	params := current.OsrParams
	return domain.Parameters{
		BaseEase:             params.BaseEase,
		LapsesIntervalChange: params.LapsesIntervalChange,
		EasyBonus:            params.EasyBonus,
		LoadBalance:          params.LoadBalance,
		MaximumInterval:      params.MaximumInterval,
		MaxLinkFactor:        params.MaxLinkFactor,
	}, nil
}

// LinkHints asks the links module for the link-ease hint of new items.
type LinkHints struct {
	links linksin.Usecase
}

var _ schedulingout.LinkHintSource = LinkHints{}

func NewLinkHints(links linksin.Usecase) LinkHints {
	return LinkHints{links: links}
}

func (h LinkHints) LinkEase(ctx context.Context, itemID string, lookup schedulingout.EaseLookup) (*float64, error) {
	return h.links.Hint(ctx, itemID, lookup)
}
