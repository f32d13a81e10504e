package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("not found")
	ErrNotInitialized        = errors.New("not initialized")
	ErrUnsupportedAlgorithm  = errors.New("unsupported algorithm")
	ErrUnsupportedDataStore  = errors.New("unsupported data store")
	ErrInvalidPersistedState = errors.New("invalid persisted state")
	ErrStore                 = errors.New("data store failure")
)

// Store tags an I/O failure of a persistence adapter with ErrStore.
func Store(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrStore) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStore, err)
}

// InvalidState reports a persisted record that cannot be used as review state.
func InvalidState(itemID, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidPersistedState, itemID, reason)
}
