package usecase

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	schedulingdomain "srs/internal/modules/scheduling/domain"
	"srs/internal/modules/settings/domain"
	settingsdto "srs/internal/modules/settings/dto"
	settingsin "srs/internal/modules/settings/port/in"
	"srs/internal/modules/settings/service"
	apperrors "srs/internal/platform/errors"
)

type setter func(s *domain.Settings, value string) error

// setters maps the keys accepted by Set. Parameter keys may be given with or
// without the osrParams. prefix.
var setters = map[string]setter{
	"algorithm": func(s *domain.Settings, v string) error {
		name := schedulingdomain.AlgorithmName(strings.TrimSpace(v))
		if _, err := schedulingdomain.NewAlgorithm(name); err != nil {
			return err
		}
		s.Algorithm = name
		return nil
	},
	"dataStore": func(s *domain.Settings, v string) error {
		name := schedulingdomain.DataStoreName(strings.ToUpper(strings.TrimSpace(v)))
		for _, known := range schedulingdomain.DataStoreNames() {
			if known == name {
				s.DataStore = name
				return nil
			}
		}
		return fmt.Errorf("%w: %q", apperrors.ErrUnsupportedDataStore, v)
	},
	"osrParams.baseEase": intSetter(func(s *domain.Settings) *int { return &s.OsrParams.BaseEase }),
	"osrParams.lapsesIntervalChange": floatSetter(func(s *domain.Settings) *float64 {
		return &s.OsrParams.LapsesIntervalChange
	}),
	"osrParams.easyBonus":       floatSetter(func(s *domain.Settings) *float64 { return &s.OsrParams.EasyBonus }),
	"osrParams.loadBalance":     boolSetter(func(s *domain.Settings) *bool { return &s.OsrParams.LoadBalance }),
	"osrParams.maximumInterval": intSetter(func(s *domain.Settings) *int { return &s.OsrParams.MaximumInterval }),
	"osrParams.maxLinkFactor":   floatSetter(func(s *domain.Settings) *float64 { return &s.OsrParams.MaxLinkFactor }),
	"maxNDaysNotesReviewQueue":  intSetter(func(s *domain.Settings) *int { return &s.MaxNDaysNotesReviewQueue }),
	"flashcardCardOrder":        stringSetter(func(s *domain.Settings) *string { return &s.FlashcardCardOrder }),
	"flashcardDeckOrder":        stringSetter(func(s *domain.Settings) *string { return &s.FlashcardDeckOrder }),
	"showSchedulingDebugMessages": boolSetter(func(s *domain.Settings) *bool {
		return &s.ShowSchedulingDebugMessages
	}),
}

// Keys lists the settings accepted by Set.
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type Interactor struct {
	svc *service.SettingsService
}

func NewInteractor(svc *service.SettingsService) settingsin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Current(ctx context.Context) (settingsdto.SettingsOutput, error) {
	current, err := i.svc.Current(ctx)
	if err != nil {
		return settingsdto.SettingsOutput{}, err
	}
	return toOutput(current), nil
}

func (i *Interactor) Set(ctx context.Context, input settingsdto.SetInput) (settingsdto.SettingsOutput, error) {
	set, err := lookupSetter(input.Key)
	if err != nil {
		return settingsdto.SettingsOutput{}, err
	}
	updated, err := i.svc.Update(ctx, func(s *domain.Settings) error {
		return set(s, input.Value)
	})
	if err != nil {
		return settingsdto.SettingsOutput{}, err
	}
	return toOutput(updated), nil
}

func (i *Interactor) Migrate(ctx context.Context) (settingsdto.MigrateOutput, error) {
	migrated, err := i.svc.Migrate(ctx)
	if err != nil {
		return settingsdto.MigrateOutput{}, err
	}
	return settingsdto.MigrateOutput{Path: i.svc.Path(), Migrated: migrated}, nil
}

func (i *Interactor) Check(ctx context.Context) (settingsdto.CheckOutput, error) {
	current, err := i.svc.Current(ctx)
	if err != nil {
		return settingsdto.CheckOutput{}, err
	}
	return settingsdto.CheckOutput{Warnings: domain.Validate(current)}, nil
}

func (i *Interactor) Flush(ctx context.Context) error {
	return i.svc.Flush(ctx)
}

func lookupSetter(key string) (setter, error) {
	key = strings.TrimSpace(key)
	if set, ok := setters[key]; ok {
		return set, nil
	}
	if set, ok := setters["osrParams."+key]; ok {
		return set, nil
	}
	return nil, fmt.Errorf("%w: unknown setting %q (known: %s)", apperrors.ErrInvalidInput, key, strings.Join(Keys(), ", "))
}

func intSetter(field func(*domain.Settings) *int) setter {
	return func(s *domain.Settings, v string) error {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %q is not a whole number", apperrors.ErrInvalidInput, v)
		}
		*field(s) = n
		return nil
	}
}

func floatSetter(field func(*domain.Settings) *float64) setter {
	return func(s *domain.Settings, v string) error {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("%w: %q is not a number", apperrors.ErrInvalidInput, v)
		}
		*field(s) = f
		return nil
	}
}

func boolSetter(field func(*domain.Settings) *bool) setter {
	return func(s *domain.Settings, v string) error {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %q is not true or false", apperrors.ErrInvalidInput, v)
		}
		*field(s) = b
		return nil
	}
}

func stringSetter(field func(*domain.Settings) *string) setter {
	return func(s *domain.Settings, v string) error {
		*field(s) = strings.TrimSpace(v)
		return nil
	}
}

func toOutput(s domain.Settings) settingsdto.SettingsOutput {
	return settingsdto.SettingsOutput{
		Algorithm: string(s.Algorithm),
		DataStore: string(s.DataStore),
		OsrParams: settingsdto.ParametersOutput{
			BaseEase:             s.OsrParams.BaseEase,
			LapsesIntervalChange: s.OsrParams.LapsesIntervalChange,
			EasyBonus:            s.OsrParams.EasyBonus,
			LoadBalance:          s.OsrParams.LoadBalance,
			MaximumInterval:      s.OsrParams.MaximumInterval,
			MaxLinkFactor:        s.OsrParams.MaxLinkFactor,
		},
		MaxNDaysNotesReviewQueue:    s.MaxNDaysNotesReviewQueue,
		FlashcardCardOrder:          s.FlashcardCardOrder,
		FlashcardDeckOrder:          s.FlashcardDeckOrder,
		ClozePatterns:               append([]string(nil), s.ClozePatterns...),
		ShowSchedulingDebugMessages: s.ShowSchedulingDebugMessages,
	}
}
