package domain

import (
	"encoding/json"
)

// LegacyParameterKeys are the algorithm settings that older data files kept at
// the top level instead of under osrParams.
var LegacyParameterKeys = []string{
	"baseEase",
	"lapsesIntervalChange",
	"easyBonus",
	"loadBalance",
	"maximumInterval",
	"maxLinkFactor",
}

// Upgrade rewrites a raw settings object into the current layout in place and
// reports whether anything changed. Running it again is a no-op.
func Upgrade(raw map[string]any) bool {
	algorithm := upgradeAlgorithm(raw)
	cardOrder := upgradeCardOrder(raw)
	cloze := upgradeClozePatterns(raw)
	return algorithm || cardOrder || cloze
}

func upgradeAlgorithm(raw map[string]any) bool {
	if current, ok := raw["osrParams"]; ok && current != nil {
		return false
	}
	params := map[string]any{}
	defaults, _ := json.Marshal(Defaults().OsrParams)
	_ = json.Unmarshal(defaults, &params)
	for _, key := range LegacyParameterKeys {
		if v, ok := raw[key]; ok {
			if v != nil {
				params[key] = v
			}
			delete(raw, key)
		}
	}
	raw["osrParams"] = params
	return true
}

func upgradeCardOrder(raw map[string]any) bool {
	randomize, ok := raw["randomizeCardOrder"].(bool)
	if !ok || raw["flashcardCardOrder"] != nil || raw["flashcardDeckOrder"] != nil {
		return false
	}
	if randomize {
		raw["flashcardCardOrder"] = CardOrderDueFirstRandom
	} else {
		raw["flashcardCardOrder"] = CardOrderDueFirstSequential
	}
	raw["flashcardDeckOrder"] = DeckOrderPrevComplete
	raw["randomizeCardOrder"] = nil
	return true
}

func upgradeClozePatterns(raw map[string]any) bool {
	if current, ok := raw["clozePatterns"]; ok && current != nil {
		return false
	}
	patterns := []any{}
	if enabled(raw, "convertHighlightsToClozes", false) {
		patterns = append(patterns, "==[123;;]answer[;;hint]==")
	}
	if enabled(raw, "convertBoldTextToClozes", false) {
		patterns = append(patterns, "**[123;;]answer[;;hint]**")
	}
	if enabled(raw, "convertCurlyBracketsToClozes", false) {
		patterns = append(patterns, "{{[123;;]answer[;;hint]}}")
	}
	raw["clozePatterns"] = patterns
	return true
}

func enabled(raw map[string]any, key string, fallback bool) bool {
	v, ok := raw[key].(bool)
	if !ok {
		return fallback
	}
	return v
}
