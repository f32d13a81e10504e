package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"srs/internal/modules/settings/domain"
	settingsout "srs/internal/modules/settings/port/out"
	"srs/internal/platform/debounce"
)

// SettingsService owns the in-memory settings. Edits apply immediately and
// reach the store through a debouncer, so a burst of edits is one write.
type SettingsService struct {
	mu        sync.Mutex
	store     settingsout.Store
	debouncer *debounce.Debouncer
	loaded    bool
	raw       map[string]any
	current   domain.Settings
	lastErr   error
}

func NewSettingsService(store settingsout.Store, delay time.Duration) *SettingsService {
	return &SettingsService{store: store, debouncer: debounce.New(delay)}
}

// Load reads the store, upgrades legacy layouts and writes the upgraded
// object back once.
func (s *SettingsService) Load(ctx context.Context) (domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loadLocked(ctx); err != nil {
		return domain.Settings{}, err
	}
	return s.current.Clone(), nil
}

// Current returns a copy of the settings, loading them on first use.
func (s *SettingsService) Current(ctx context.Context) (domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		if err := s.loadLocked(ctx); err != nil {
			return domain.Settings{}, err
		}
	}
	return s.current.Clone(), nil
}

func (s *SettingsService) Update(ctx context.Context, mutate func(*domain.Settings) error) (domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		if err := s.loadLocked(ctx); err != nil {
			return domain.Settings{}, err
		}
	}
	next := s.current.Clone()
	if err := mutate(&next); err != nil {
		return domain.Settings{}, err
	}
	raw, err := domain.Encode(next, s.raw)
	if err != nil {
		return domain.Settings{}, err
	}
	s.current = next
	s.raw = raw
	s.debouncer.Trigger(func() { s.persist(context.WithoutCancel(ctx), raw) })
	return next.Clone(), nil
}

// Flush writes any pending edit now and reports the result of the most recent
// write.
func (s *SettingsService) Flush(_ context.Context) error {
	s.debouncer.Flush()
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.lastErr
	s.lastErr = nil
	return err
}

// Migrate runs the upgrade against the stored object and reloads it. Pending
// edits are written first so they are not lost.
func (s *SettingsService) Migrate(ctx context.Context) (bool, error) {
	if err := s.Flush(ctx); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, _, err := s.store.Read(ctx)
	if err != nil {
		return false, err
	}
	if raw == nil {
		raw = map[string]any{}
	}
	migrated := domain.Upgrade(raw)
	if migrated {
		if err := s.store.Write(ctx, raw); err != nil {
			return false, err
		}
		log.Info().Str("path", s.store.Path()).Msg("settings migrated to current layout")
	}
	if err := s.adopt(raw); err != nil {
		return false, err
	}
	return migrated, nil
}

func (s *SettingsService) Path() string {
	return s.store.Path()
}

func (s *SettingsService) loadLocked(ctx context.Context) error {
	raw, ok, err := s.store.Read(ctx)
	if err != nil {
		return err
	}
	if !ok {
		encoded, err := domain.Encode(domain.Defaults(), map[string]any{})
		if err != nil {
			return err
		}
		s.raw = encoded
		s.current = domain.Defaults()
		s.loaded = true
		return nil
	}
	if domain.Upgrade(raw) {
		if err := s.store.Write(ctx, raw); err != nil {
			return err
		}
		log.Info().Str("path", s.store.Path()).Msg("settings migrated to current layout")
	}
	return s.adopt(raw)
}

func (s *SettingsService) adopt(raw map[string]any) error {
	decoded, err := domain.Decode(raw)
	if err != nil {
		return fmt.Errorf("load settings from %s: %w", s.store.Path(), err)
	}
	s.raw = raw
	s.current = decoded
	s.loaded = true
	return nil
}

func (s *SettingsService) persist(ctx context.Context, raw map[string]any) {
	err := s.store.Write(ctx, raw)
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
	if err != nil {
		log.Error().Err(err).Str("path", s.store.Path()).Msg("settings write failed")
		return
	}
	log.Debug().Str("path", s.store.Path()).Msg("settings saved")
}
