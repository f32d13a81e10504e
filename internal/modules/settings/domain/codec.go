package domain

import (
	"encoding/json"
	"fmt"

	apperrors "srs/internal/platform/errors"
)

// Decode reads settings from an upgraded raw object. Missing keys keep their
// default value.
func Decode(raw map[string]any) (Settings, error) {
	encoded, err := json.Marshal(raw)
	if err != nil {
		return Settings{}, fmt.Errorf("%w: encode settings: %v", apperrors.ErrInvalidInput, err)
	}
	out := Defaults()
	if err := json.Unmarshal(encoded, &out); err != nil {
		return Settings{}, fmt.Errorf("%w: decode settings: %v", apperrors.ErrInvalidInput, err)
	}
	return out, nil
}

// Encode writes s over raw, leaving keys Settings does not own untouched.
func Encode(s Settings, raw map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(raw)+8)
	for k, v := range raw {
		out[k] = v
	}
	encoded, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode settings: %w", err)
	}
	owned := map[string]any{}
	if err := json.Unmarshal(encoded, &owned); err != nil {
		return nil, fmt.Errorf("encode settings: %w", err)
	}
	for k, v := range owned {
		out[k] = v
	}
	return out, nil
}
