package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"srs/internal/modules/scheduling/domain"
	schedulingout "srs/internal/modules/scheduling/port/out"
	"srs/internal/platform/clock"
	apperrors "srs/internal/platform/errors"
)

type Outcome struct {
	ItemID string
	State  domain.ReviewState
	New    bool
}

type Tracked struct {
	ItemID string
	State  domain.ReviewState
}

type Option struct {
	Response domain.Response
	State    domain.ReviewState
}

// SchedulingService runs each review as load, compute, then persist. Reviews
// are serialized so two responses are never in flight at once.
type SchedulingService struct {
	mu       sync.Mutex
	clock    clock.Clock
	provider schedulingout.Provider
	params   schedulingout.ParameterSource
	links    schedulingout.LinkHintSource
}

func NewSchedulingService(clock clock.Clock, provider schedulingout.Provider, params schedulingout.ParameterSource, links schedulingout.LinkHintSource) *SchedulingService {
	return &SchedulingService{clock: clock, provider: provider, params: params, links: links}
}

func (s *SchedulingService) Review(ctx context.Context, itemID string, response domain.Response) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	alg, store, params, err := s.resolve(ctx)
	if err != nil {
		return Outcome{}, err
	}
	current, err := s.load(ctx, store, itemID)
	if err != nil {
		return Outcome{}, err
	}
	review, err := s.buildReview(ctx, store, itemID, current, params)
	if err != nil {
		return Outcome{}, err
	}
	review.Response = response

	next := alg.Next(current, review, params)
	if err := store.Save(ctx, itemID, next); err != nil {
		return Outcome{}, fmt.Errorf("review %s: %w", itemID, err)
	}
	log.Debug().
		Str("item", itemID).
		Str("response", response.String()).
		Int("ease", next.Ease).
		Int("interval", next.Interval).
		Str("due", domain.FormatDate(next.Due)).
		Msg("review recorded")
	return Outcome{ItemID: itemID, State: next, New: current == nil}, nil
}

// Preview computes the outcome of every flashcard response without saving.
// Load balancing is skipped so the options are stable between calls.
func (s *SchedulingService) Preview(ctx context.Context, itemID string) ([]Option, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	alg, store, params, err := s.resolve(ctx)
	if err != nil {
		return nil, false, err
	}
	current, err := s.load(ctx, store, itemID)
	if err != nil {
		return nil, false, err
	}
	review, err := s.buildReview(ctx, store, itemID, current, params)
	if err != nil {
		return nil, false, err
	}
	review.Load = nil

	options := make([]Option, 0, len(domain.FlashcardResponses()))
	for _, r := range domain.FlashcardResponses() {
		review.Response = r
		options = append(options, Option{Response: r, State: alg.Next(current, review, params)})
	}
	return options, current == nil, nil
}

func (s *SchedulingService) State(ctx context.Context, itemID string) (domain.ReviewState, bool, error) {
	store, err := s.provider.DataStore()
	if err != nil {
		return domain.ReviewState{}, false, err
	}
	current, err := s.load(ctx, store, itemID)
	if err != nil || current == nil {
		return domain.ReviewState{}, false, err
	}
	return *current, true, nil
}

func (s *SchedulingService) Remove(ctx context.Context, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	store, err := s.provider.DataStore()
	if err != nil {
		return err
	}
	if err := store.Remove(ctx, itemID); err != nil {
		return fmt.Errorf("remove %s: %w", itemID, err)
	}
	return nil
}

// Tracked lists every item with a usable state, ordered by due date then id.
func (s *SchedulingService) Tracked(ctx context.Context) ([]Tracked, error) {
	store, err := s.provider.DataStore()
	if err != nil {
		return nil, err
	}
	ids, err := store.AllTrackedIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tracked items: %w", err)
	}
	out := make([]Tracked, 0, len(ids))
	for _, id := range ids {
		current, err := s.load(ctx, store, id)
		if err != nil {
			return nil, err
		}
		if current == nil {
			continue
		}
		out = append(out, Tracked{ItemID: id, State: *current})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].State.Due.Equal(out[j].State.Due) {
			return out[i].State.Due.Before(out[j].State.Due)
		}
		return out[i].ItemID < out[j].ItemID
	})
	return out, nil
}

// Due lists items due on or before until. A limit of zero or less means all.
func (s *SchedulingService) Due(ctx context.Context, until time.Time, limit int) ([]Tracked, error) {
	tracked, err := s.Tracked(ctx)
	if err != nil {
		return nil, err
	}
	cutoff := domain.Day(until)
	out := make([]Tracked, 0, len(tracked))
	for _, item := range tracked {
		if domain.Day(item.State.Due).After(cutoff) {
			break
		}
		out = append(out, item)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *SchedulingService) Today() time.Time {
	return domain.Day(s.clock.Now())
}

func (s *SchedulingService) resolve(ctx context.Context) (domain.Algorithm, schedulingout.DataStore, domain.Parameters, error) {
	alg, err := s.provider.Algorithm()
	if err != nil {
		return nil, nil, domain.Parameters{}, err
	}
	store, err := s.provider.DataStore()
	if err != nil {
		return nil, nil, domain.Parameters{}, err
	}
	params, err := s.params.Parameters(ctx)
	if err != nil {
		return nil, nil, domain.Parameters{}, fmt.Errorf("read parameters: %w", err)
	}
	return alg, store, params, nil
}

// load returns nil for a new item. A record that fails validation is logged
// and treated as new so other items keep scheduling.
func (s *SchedulingService) load(ctx context.Context, store schedulingout.DataStore, itemID string) (*domain.ReviewState, error) {
	state, ok, err := store.Load(ctx, itemID)
	if errors.Is(err, apperrors.ErrInvalidPersistedState) {
		log.Warn().Err(err).Str("item", itemID).Msg("discarding invalid review state")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", itemID, err)
	}
	if !ok {
		return nil, nil
	}
	return &state, nil
}

func (s *SchedulingService) buildReview(ctx context.Context, store schedulingout.DataStore, itemID string, current *domain.ReviewState, params domain.Parameters) (domain.Review, error) {
	review := domain.Review{At: s.clock.Now()}
	if current == nil && s.links != nil {
		hint, err := s.links.LinkEase(ctx, itemID, func(id string) (int, bool) {
			linked, err := s.load(ctx, store, id)
			if err != nil || linked == nil {
				return 0, false
			}
			return linked.Ease, true
		})
		if err != nil {
			return domain.Review{}, fmt.Errorf("link ease for %s: %w", itemID, err)
		}
		review.LinkEase = hint
	}
	if params.LoadBalance {
		load, err := s.dueLoad(ctx, store, itemID)
		if err != nil {
			return domain.Review{}, err
		}
		review.Load = load
	}
	return review, nil
}

func (s *SchedulingService) dueLoad(ctx context.Context, store schedulingout.DataStore, exclude string) (domain.Load, error) {
	ids, err := store.AllTrackedIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("build due load: %w", err)
	}
	load := domain.Load{}
	for _, id := range ids {
		if id == exclude {
			continue
		}
		state, err := s.load(ctx, store, id)
		if err != nil {
			return nil, err
		}
		if state != nil {
			load.Add(state.Due)
		}
	}
	return load, nil
}
