package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	settingsout "srs/internal/modules/settings/adapter/out"
	settingsdto "srs/internal/modules/settings/dto"
	"srs/internal/modules/settings/service"
	"srs/internal/modules/settings/usecase"
	apperrors "srs/internal/platform/errors"
)

const legacyData = `{
  "settings": {
    "baseEase": 300,
    "lapsesIntervalChange": 0.6,
    "easyBonus": 1.4,
    "loadBalance": false,
    "maximumInterval": 36500,
    "maxLinkFactor": 0.8,
    "flashcardTags": ["#flashcards"],
    "randomizeCardOrder": true
  },
  "buryList": ["abc"]
}`

func newInteractor(t *testing.T, path string, delay time.Duration) (*service.SettingsService, func() map[string]any) {
	t.Helper()
	svc := service.NewSettingsService(settingsout.NewFileSettingsStore(path), delay)
	read := func() map[string]any {
		t.Helper()
		raw, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read data file: %v", err)
		}
		doc := map[string]any{}
		if err := json.Unmarshal(raw, &doc); err != nil {
			t.Fatalf("parse data file: %v", err)
		}
		return doc
	}
	return svc, read
}

func TestLoadMigratesLegacyDataFileOnce(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), ".srs", "data.json")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(legacyData), 0o644); err != nil {
		t.Fatalf("write legacy data: %v", err)
	}
	svc, read := newInteractor(t, path, time.Hour)
	uc := usecase.NewInteractor(svc)

	out, err := uc.Current(context.Background())
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if out.OsrParams.BaseEase != 300 || out.OsrParams.LapsesIntervalChange != 0.6 || out.OsrParams.MaxLinkFactor != 0.8 {
		t.Fatalf("legacy values not preserved: %+v", out.OsrParams)
	}
	if out.FlashcardCardOrder != "DueFirstRandom" {
		t.Fatalf("card order not upgraded: %q", out.FlashcardCardOrder)
	}

	doc := read()
	settings := doc["settings"].(map[string]any)
	if _, ok := settings["baseEase"]; ok {
		t.Fatalf("flat keys must not be written back")
	}
	if _, ok := settings["osrParams"]; !ok {
		t.Fatalf("osrParams missing from migrated file")
	}
	if _, ok := doc["buryList"]; !ok {
		t.Fatalf("other data file keys must survive")
	}

	migrated, err := uc.Migrate(context.Background())
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if migrated.Migrated {
		t.Fatalf("second migration should be a no-op")
	}
}

func TestMissingDataFileUsesDefaults(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "data.json")
	svc, _ := newInteractor(t, path, time.Hour)
	uc := usecase.NewInteractor(svc)

	out, err := uc.Current(context.Background())
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if out.Algorithm != "SM-2-OSR" || out.DataStore != "NOTES" || out.OsrParams.BaseEase != 250 {
		t.Fatalf("unexpected defaults: %+v", out)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("reading defaults must not create the data file")
	}
}

func TestSetIsDebouncedUntilFlush(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "data.json")
	svc, read := newInteractor(t, path, time.Hour)
	uc := usecase.NewInteractor(svc)
	ctx := context.Background()

	if _, err := uc.Set(ctx, settingsdto.SetInput{Key: "baseEase", Value: "270"}); err != nil {
		t.Fatalf("set baseEase: %v", err)
	}
	out, err := uc.Set(ctx, settingsdto.SetInput{Key: "osrParams.loadBalance", Value: "false"})
	if err != nil {
		t.Fatalf("set loadBalance: %v", err)
	}
	if out.OsrParams.BaseEase != 270 || out.OsrParams.LoadBalance {
		t.Fatalf("edits must apply in memory immediately: %+v", out.OsrParams)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("write should wait for the debounce delay")
	}

	if err := uc.Flush(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}
	params := read()["settings"].(map[string]any)["osrParams"].(map[string]any)
	if params["baseEase"] != float64(270) || params["loadBalance"] != false {
		t.Fatalf("unexpected persisted params: %#v", params)
	}
}

func TestDebouncedWriteLandsAfterDelay(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "data.json")
	svc, read := newInteractor(t, path, 20*time.Millisecond)
	uc := usecase.NewInteractor(svc)

	if _, err := uc.Set(context.Background(), settingsdto.SetInput{Key: "dataStore", Value: "sqlite"}); err != nil {
		t.Fatalf("set dataStore: %v", err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(path); err == nil {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if got := read()["settings"].(map[string]any)["dataStore"]; got != "SQLITE" {
		t.Fatalf("expected SQLITE, got %v", got)
	}
}

func TestSetRejectsUnknownValues(t *testing.T) {
	t.Parallel()
	svc, _ := newInteractor(t, filepath.Join(t.TempDir(), "data.json"), time.Hour)
	uc := usecase.NewInteractor(svc)
	ctx := context.Background()

	if _, err := uc.Set(ctx, settingsdto.SetInput{Key: "algorithm", Value: "FSRS"}); !errors.Is(err, apperrors.ErrUnsupportedAlgorithm) {
		t.Fatalf("expected ErrUnsupportedAlgorithm, got %v", err)
	}
	if _, err := uc.Set(ctx, settingsdto.SetInput{Key: "dataStore", Value: "cloud"}); !errors.Is(err, apperrors.ErrUnsupportedDataStore) {
		t.Fatalf("expected ErrUnsupportedDataStore, got %v", err)
	}
	if _, err := uc.Set(ctx, settingsdto.SetInput{Key: "colour", Value: "blue"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := uc.Set(ctx, settingsdto.SetInput{Key: "easyBonus", Value: "lots"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	out, err := uc.Current(ctx)
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if out.Algorithm != "SM-2-OSR" || out.DataStore != "NOTES" || out.OsrParams.EasyBonus != 1.3 {
		t.Fatalf("rejected edits must not change settings: %+v", out)
	}
}

func TestCheckReportsOutOfRangeParameters(t *testing.T) {
	t.Parallel()
	svc, _ := newInteractor(t, filepath.Join(t.TempDir(), "data.json"), time.Hour)
	uc := usecase.NewInteractor(svc)
	ctx := context.Background()

	if _, err := uc.Set(ctx, settingsdto.SetInput{Key: "baseEase", Value: "100"}); err != nil {
		t.Fatalf("out of range values are accepted: %v", err)
	}
	check, err := uc.Check(ctx)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if len(check.Warnings) != 1 {
		t.Fatalf("expected one warning, got %v", check.Warnings)
	}
}
