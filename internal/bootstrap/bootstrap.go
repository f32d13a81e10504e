package bootstrap

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	linksinadapter "srs/internal/modules/links/adapter/in"
	linksoutadapter "srs/internal/modules/links/adapter/out"
	linksservice "srs/internal/modules/links/service"
	linksusecase "srs/internal/modules/links/usecase"
	schedulinginadapter "srs/internal/modules/scheduling/adapter/in"
	schedulingoutadapter "srs/internal/modules/scheduling/adapter/out"
	schedulingdomain "srs/internal/modules/scheduling/domain"
	schedulingservice "srs/internal/modules/scheduling/service"
	schedulingusecase "srs/internal/modules/scheduling/usecase"
	settingsinadapter "srs/internal/modules/settings/adapter/in"
	settingsoutadapter "srs/internal/modules/settings/adapter/out"
	settingsservice "srs/internal/modules/settings/service"
	settingsusecase "srs/internal/modules/settings/usecase"
	"srs/internal/platform/clock"
	"srs/internal/platform/config"
	"srs/internal/platform/debounce"
	"srs/internal/registry"
	uireview "srs/internal/ui/review"
)

type App struct {
	SchedulingCLI schedulinginadapter.CLIHandler
	SettingsCLI   settingsinadapter.CLIHandler
	LinksCLI      linksinadapter.CLIHandler
	Registry      *registry.Registry

	cfg       config.Config
	linkStore *linksoutadapter.SQLiteLinkStore
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	return NewWithRegistry(ctx, cfg, registry.Default(), clock.SystemClock{})
}

// NewWithRegistry wires the modules around reg and initializes it from the
// stored settings.
func NewWithRegistry(ctx context.Context, cfg config.Config, reg *registry.Registry, clk clock.Clock) (*App, error) {
	app, err := build(ctx, cfg, reg, clk)
	if err != nil {
		return nil, err
	}
	if err := app.Reload(ctx); err != nil {
		_ = app.linkStore.Close()
		return nil, err
	}
	return app, nil
}

// NewUninitialized wires the modules but leaves reg as it is. Settings
// commands use it so a data file naming an unknown algorithm or store can
// still be inspected and repaired. Scheduling calls fail with
// ErrNotInitialized until Reload succeeds.
func NewUninitialized(ctx context.Context, cfg config.Config, reg *registry.Registry, clk clock.Clock) (*App, error) {
	return build(ctx, cfg, reg, clk)
}

func build(ctx context.Context, cfg config.Config, reg *registry.Registry, clk clock.Clock) (*App, error) {
	settingsUC := settingsusecase.NewInteractor(settingsservice.NewSettingsService(
		settingsoutadapter.NewFileSettingsStore(cfg.SettingsPath),
		debounce.DefaultDelay,
	))

	linkStore, err := linksoutadapter.NewSQLiteLinkStore(ctx, cfg.LinksDBPath)
	if err != nil {
		return nil, fmt.Errorf("new link store: %w", err)
	}
	linksUC := linksusecase.NewInteractor(linksservice.NewLinkService(linkStore))

	schedulingUC := schedulingusecase.NewInteractor(schedulingservice.NewSchedulingService(
		clk,
		reg,
		schedulingoutadapter.NewSettingsParameters(settingsUC),
		schedulingoutadapter.NewLinkHints(linksUC),
	))

	return &App{
		SchedulingCLI: schedulinginadapter.NewCLIHandler(schedulingUC),
		SettingsCLI:   settingsinadapter.NewCLIHandler(settingsUC),
		LinksCLI:      linksinadapter.NewCLIHandler(linksUC),
		Registry:      reg,
		cfg:           cfg,
		linkStore:     linkStore,
	}, nil
}

// Reload rebuilds the active algorithm and data store from the current
// settings. It runs at startup and after either choice changes.
func (a *App) Reload(ctx context.Context) error {
	current, err := a.SettingsCLI.Show(ctx)
	if err != nil {
		return fmt.Errorf("read settings: %w", err)
	}
	if current.ShowSchedulingDebugMessages && zerolog.GlobalLevel() > zerolog.DebugLevel {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	sel := registry.Selection{
		Algorithm: schedulingdomain.AlgorithmName(current.Algorithm),
		DataStore: schedulingdomain.DataStoreName(current.DataStore),
		VaultPath: a.cfg.VaultPath,
		DBPath:    a.cfg.DBPath,
		CacheSize: a.cfg.CacheSize,
	}
	if err := a.Registry.Initialize(ctx, sel); err != nil {
		return fmt.Errorf("initialize scheduler: %w", err)
	}
	log.Debug().Str("vault", a.cfg.VaultPath).Msg("scheduler ready")
	return nil
}

func (a *App) Config() config.Config {
	return a.cfg
}

// Close writes pending settings and releases every store.
func (a *App) Close(ctx context.Context) error {
	return errors.Join(
		a.SettingsCLI.Flush(ctx),
		a.Registry.Close(),
		a.linkStore.Close(),
	)
}

func RunTUI(app *App, days, limit int) error {
	model := uireview.NewModel(app.SchedulingCLI, days, limit)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
