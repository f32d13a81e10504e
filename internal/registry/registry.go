package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	schedulingstore "srs/internal/modules/scheduling/adapter/out"
	"srs/internal/modules/scheduling/domain"
	schedulingout "srs/internal/modules/scheduling/port/out"
	apperrors "srs/internal/platform/errors"
)

// Selection names the algorithm and data store to build, plus what the stores
// need to open their files.
type Selection struct {
	Algorithm domain.AlgorithmName
	DataStore domain.DataStoreName
	VaultPath string
	DBPath    string
	CacheSize int
}

// NewDataStore builds the store a selection names, wrapped in the state cache.
// Unknown names fail without opening anything.
func NewDataStore(ctx context.Context, sel Selection) (schedulingout.DataStore, error) {
	var inner schedulingout.DataStore
	switch sel.DataStore {
	case domain.DataStoreNotes:
		inner = schedulingstore.NewVaultNoteStore(sel.VaultPath)
	case domain.DataStoreSQLite:
		store, err := schedulingstore.NewSQLiteStateStore(ctx, sel.DBPath)
		if err != nil {
			return nil, err
		}
		inner = store
	default:
		return nil, fmt.Errorf("%w: %q", apperrors.ErrUnsupportedDataStore, sel.DataStore)
	}
	if sel.CacheSize <= 0 {
		return inner, nil
	}
	cached, err := schedulingstore.NewCachedStore(inner, sel.CacheSize)
	if err != nil {
		_ = inner.Close()
		return nil, err
	}
	return cached, nil
}

// Registry holds the one active algorithm and data store of the process.
type Registry struct {
	mu        sync.RWMutex
	algorithm domain.Algorithm
	store     schedulingout.DataStore
	selection Selection
}

func New() *Registry {
	return &Registry{}
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default is the process-wide registry used by the command line. Tests build
// their own with New.
func Default() *Registry {
	defaultOnce.Do(func() { defaultRegistry = New() })
	return defaultRegistry
}

// Initialize builds both instances from sel and only then replaces the active
// pair. The previous store is closed, so nothing cached survives.
func (r *Registry) Initialize(ctx context.Context, sel Selection) error {
	alg, err := domain.NewAlgorithm(sel.Algorithm)
	if err != nil {
		return err
	}
	store, err := NewDataStore(ctx, sel)
	if err != nil {
		return err
	}

	r.mu.Lock()
	previous := r.store
	r.algorithm = alg
	r.store = store
	r.selection = sel
	r.mu.Unlock()

	log.Debug().
		Str("algorithm", string(sel.Algorithm)).
		Str("data_store", string(sel.DataStore)).
		Msg("scheduler initialized")
	if previous != nil {
		if err := previous.Close(); err != nil {
			return fmt.Errorf("close previous data store: %w", err)
		}
	}
	return nil
}

func (r *Registry) Algorithm() (domain.Algorithm, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.algorithm == nil {
		return nil, fmt.Errorf("algorithm: %w", apperrors.ErrNotInitialized)
	}
	return r.algorithm, nil
}

func (r *Registry) DataStore() (schedulingout.DataStore, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.store == nil {
		return nil, fmt.Errorf("data store: %w", apperrors.ErrNotInitialized)
	}
	return r.store, nil
}

// Selection reports what the registry was last initialized with.
func (r *Registry) Selection() (Selection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.selection, r.store != nil
}

// Reset closes the active store and returns the registry to its
// uninitialized state.
func (r *Registry) Reset() error {
	r.mu.Lock()
	store := r.store
	r.algorithm = nil
	r.store = nil
	r.selection = Selection{}
	r.mu.Unlock()
	if store == nil {
		return nil
	}
	return store.Close()
}

func (r *Registry) Close() error {
	return r.Reset()
}
