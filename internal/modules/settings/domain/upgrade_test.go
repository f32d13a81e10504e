package domain_test

import (
	"encoding/json"
	"reflect"
	"testing"

	"srs/internal/modules/settings/domain"
)

func legacyRaw() map[string]any {
	return map[string]any{
		"osrParams":            nil,
		"baseEase":             float64(300),
		"lapsesIntervalChange": 0.6,
		"easyBonus":            1.4,
		"loadBalance":          false,
		"maximumInterval":      float64(36500),
		"maxLinkFactor":        1.1,
		"flashcardTags":        []any{"#flashcards"},
	}
}

func TestUpgradeMovesFlatParametersUnderOsrParams(t *testing.T) {
	t.Parallel()
	raw := legacyRaw()
	if !domain.Upgrade(raw) {
		t.Fatalf("expected legacy settings to be upgraded")
	}
	want := map[string]any{
		"baseEase":             float64(300),
		"lapsesIntervalChange": 0.6,
		"easyBonus":            1.4,
		"loadBalance":          false,
		"maximumInterval":      float64(36500),
		"maxLinkFactor":        1.1,
	}
	if !reflect.DeepEqual(raw["osrParams"], want) {
		t.Fatalf("unexpected osrParams: %#v", raw["osrParams"])
	}
	for _, key := range domain.LegacyParameterKeys {
		if _, ok := raw[key]; ok {
			t.Fatalf("legacy key %s should be deleted", key)
		}
	}
	if _, ok := raw["flashcardTags"]; !ok {
		t.Fatalf("unrelated keys must survive the upgrade")
	}

	settings, err := domain.Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if settings.OsrParams.BaseEase != 300 || settings.OsrParams.MaximumInterval != 36500 || settings.OsrParams.LoadBalance {
		t.Fatalf("unexpected decoded params: %+v", settings.OsrParams)
	}
}

func TestUpgradeFillsMissingLegacyKeysFromDefaults(t *testing.T) {
	t.Parallel()
	raw := map[string]any{"baseEase": float64(200)}
	domain.Upgrade(raw)
	params := raw["osrParams"].(map[string]any)
	if params["baseEase"] != float64(200) || params["easyBonus"] != 1.3 || params["maximumInterval"] != float64(36525) {
		t.Fatalf("unexpected osrParams: %#v", params)
	}
}

func TestUpgradeIsIdempotent(t *testing.T) {
	t.Parallel()
	inputs := []map[string]any{
		legacyRaw(),
		{},
		{"randomizeCardOrder": true, "clozePatterns": nil, "convertBoldTextToClozes": true},
		{"osrParams": map[string]any{"baseEase": float64(250)}, "randomizeCardOrder": false},
	}
	for i, raw := range inputs {
		domain.Upgrade(raw)
		once := snapshot(t, raw)
		if domain.Upgrade(raw) {
			t.Fatalf("input %d: second upgrade reported a change", i)
		}
		if twice := snapshot(t, raw); twice != once {
			t.Fatalf("input %d: second upgrade changed data\n%s\n%s", i, once, twice)
		}
	}
}

func TestUpgradeLeavesCurrentOsrParamsAlone(t *testing.T) {
	t.Parallel()
	params := map[string]any{"baseEase": float64(250), "lapsesIntervalChange": 0.5}
	raw := map[string]any{"osrParams": params, "clozePatterns": []any{}}
	if domain.Upgrade(raw) {
		t.Fatalf("current settings should not be upgraded")
	}
	if !reflect.DeepEqual(raw["osrParams"], params) {
		t.Fatalf("osrParams changed: %#v", raw["osrParams"])
	}
}

func TestUpgradeCardOrder(t *testing.T) {
	t.Parallel()
	raw := map[string]any{"randomizeCardOrder": true, "flashcardCardOrder": nil, "flashcardDeckOrder": nil}
	domain.Upgrade(raw)
	if raw["flashcardCardOrder"] != domain.CardOrderDueFirstRandom || raw["flashcardDeckOrder"] != domain.DeckOrderPrevComplete {
		t.Fatalf("unexpected card order: %#v", raw)
	}
	if raw["randomizeCardOrder"] != nil {
		t.Fatalf("randomizeCardOrder should be cleared")
	}

	raw = map[string]any{"randomizeCardOrder": false}
	domain.Upgrade(raw)
	if raw["flashcardCardOrder"] != domain.CardOrderDueFirstSequential {
		t.Fatalf("expected sequential order, got %v", raw["flashcardCardOrder"])
	}
}

func TestUpgradeClozePatterns(t *testing.T) {
	t.Parallel()
	raw := map[string]any{
		"clozePatterns":                nil,
		"convertHighlightsToClozes":    true,
		"convertBoldTextToClozes":      true,
		"convertCurlyBracketsToClozes": true,
	}
	domain.Upgrade(raw)
	want := []any{"==[123;;]answer[;;hint]==", "**[123;;]answer[;;hint]**", "{{[123;;]answer[;;hint]}}"}
	if !reflect.DeepEqual(raw["clozePatterns"], want) {
		t.Fatalf("unexpected patterns: %#v", raw["clozePatterns"])
	}

	raw = map[string]any{"clozePatterns": nil, "convertBoldTextToClozes": true}
	domain.Upgrade(raw)
	if want := []any{"**[123;;]answer[;;hint]**"}; !reflect.DeepEqual(raw["clozePatterns"], want) {
		t.Fatalf("absent convert flags must add nothing: %#v", raw["clozePatterns"])
	}

	raw = map[string]any{"clozePatterns": []any{"myExistingPattern"}}
	domain.Upgrade(raw)
	if !reflect.DeepEqual(raw["clozePatterns"], []any{"myExistingPattern"}) {
		t.Fatalf("existing patterns must be kept: %#v", raw["clozePatterns"])
	}
}

func TestEncodeKeepsUnknownKeys(t *testing.T) {
	t.Parallel()
	raw := map[string]any{"flashcardTags": []any{"#cards"}, "dataStore": "NOTES"}
	s := domain.Defaults()
	s.DataStore = "SQLITE"
	out, err := domain.Encode(s, raw)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if out["dataStore"] != "SQLITE" {
		t.Fatalf("expected dataStore to be replaced, got %v", out["dataStore"])
	}
	if _, ok := out["flashcardTags"]; !ok {
		t.Fatalf("unknown keys must be kept")
	}
	if raw["dataStore"] != "NOTES" {
		t.Fatalf("input map must not be modified")
	}
}

func TestValidateReportsPanelLimits(t *testing.T) {
	t.Parallel()
	if warnings := domain.Validate(domain.Defaults()); len(warnings) != 0 {
		t.Fatalf("defaults should be valid, got %v", warnings)
	}
	s := domain.Defaults()
	s.OsrParams.BaseEase = 120
	s.OsrParams.EasyBonus = 0.9
	s.DataStore = "CLOUD"
	if warnings := domain.Validate(s); len(warnings) != 3 {
		t.Fatalf("expected three warnings, got %v", warnings)
	}
}

func snapshot(t *testing.T, raw map[string]any) string {
	t.Helper()
	encoded, err := json.Marshal(raw)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(encoded)
}
