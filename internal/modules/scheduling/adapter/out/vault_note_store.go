package out

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"srs/internal/modules/scheduling/domain"
	schedulingout "srs/internal/modules/scheduling/port/out"
	apperrors "srs/internal/platform/errors"
	"srs/internal/platform/markdown"
)

// Frontmatter keys written into reviewed notes. The first three are the ones
// older vaults carry; the rest are optional on read.
const (
	KeyDue        = "sr-due"
	KeyInterval   = "sr-interval"
	KeyEase       = "sr-ease"
	KeyReps       = "sr-reps"
	KeyLapses     = "sr-lapses"
	KeyLastReview = "sr-last-review"
)

var scheduleKeys = []string{KeyDue, KeyInterval, KeyEase, KeyReps, KeyLapses, KeyLastReview}

// VaultNoteStore keeps review state in the frontmatter of the reviewed note.
// Item ids are vault-relative note paths.
type VaultNoteStore struct {
	vaultPath string
}

func NewVaultNoteStore(vaultPath string) *VaultNoteStore {
	return &VaultNoteStore{vaultPath: vaultPath}
}

var _ schedulingout.DataStore = (*VaultNoteStore)(nil)

func (s *VaultNoteStore) Load(_ context.Context, itemID string) (domain.ReviewState, bool, error) {
	path, err := s.notePath(itemID)
	if err != nil {
		return domain.ReviewState{}, false, err
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.ReviewState{}, false, nil
	}
	if err != nil {
		return domain.ReviewState{}, false, apperrors.Store("read note", err)
	}
	fm, _, err := markdown.SplitFrontmatter(string(raw))
	if err != nil {
		return domain.ReviewState{}, false, apperrors.InvalidState(itemID, err.Error())
	}
	return decodeState(itemID, fm)
}

func (s *VaultNoteStore) Save(_ context.Context, itemID string, state domain.ReviewState) error {
	path, err := s.notePath(itemID)
	if err != nil {
		return err
	}
	content := ""
	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		content = string(raw)
	case !errors.Is(err, fs.ErrNotExist):
		return apperrors.Store("read note", err)
	}
	fm, body, err := markdown.SplitFrontmatter(content)
	if err != nil {
		return apperrors.Store("parse note "+itemID, err)
	}
	encodeState(fm, state)
	rendered, err := markdown.RenderFrontmatter(fm, body)
	if err != nil {
		return apperrors.Store("render note "+itemID, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return apperrors.Store("create note dir", err)
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return apperrors.Store("write note", err)
	}
	return nil
}

// Remove strips the scheduling keys and leaves the rest of the note alone.
func (s *VaultNoteStore) Remove(_ context.Context, itemID string) error {
	path, err := s.notePath(itemID)
	if err != nil {
		return err
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return apperrors.Store("read note", err)
	}
	fm, body, err := markdown.SplitFrontmatter(string(raw))
	if err != nil {
		return apperrors.Store("parse note "+itemID, err)
	}
	changed := false
	for _, key := range scheduleKeys {
		if fm.Delete(key) {
			changed = true
		}
	}
	if !changed {
		return nil
	}
	rendered, err := markdown.RenderFrontmatter(fm, body)
	if err != nil {
		return apperrors.Store("render note "+itemID, err)
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return apperrors.Store("write note", err)
	}
	return nil
}

// AllTrackedIDs walks the vault for notes carrying a due date. Hidden
// directories, the data directory included, are skipped.
func (s *VaultNoteStore) AllTrackedIDs(_ context.Context) ([]string, error) {
	ids := make([]string, 0)
	err := filepath.WalkDir(s.vaultPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != s.vaultPath && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ".md") {
			return nil
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		fm, _, err := markdown.SplitFrontmatter(string(raw))
		if err != nil || !fm.Has(KeyDue) {
			return nil
		}
		rel, err := filepath.Rel(s.vaultPath, path)
		if err != nil {
			return err
		}
		ids = append(ids, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, apperrors.Store("scan vault", err)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *VaultNoteStore) Close() error { return nil }

func (s *VaultNoteStore) notePath(itemID string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(strings.TrimSpace(itemID)))
	if clean == "." || filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: note path %q must be inside the vault", apperrors.ErrInvalidInput, itemID)
	}
	// Only ids AllTrackedIDs can find again are accepted.
	if !strings.EqualFold(filepath.Ext(clean), ".md") {
		return "", fmt.Errorf("%w: note path %q must end in .md", apperrors.ErrInvalidInput, itemID)
	}
	for _, part := range strings.Split(filepath.ToSlash(clean), "/") {
		if strings.HasPrefix(part, ".") {
			return "", fmt.Errorf("%w: note path %q is hidden", apperrors.ErrInvalidInput, itemID)
		}
	}
	return filepath.Join(s.vaultPath, clean), nil
}

func decodeState(itemID string, fm *markdown.Frontmatter) (domain.ReviewState, bool, error) {
	dueRaw, hasDue := fm.Get(KeyDue)
	intervalRaw, hasInterval := fm.Get(KeyInterval)
	easeRaw, hasEase := fm.Get(KeyEase)
	if !hasDue && !hasInterval && !hasEase {
		return domain.ReviewState{}, false, nil
	}
	if !hasDue || !hasInterval || !hasEase {
		return domain.ReviewState{}, false, apperrors.InvalidState(itemID, "incomplete scheduling frontmatter")
	}

	due, err := domain.ParseDate(strings.TrimSpace(dueRaw))
	if err != nil {
		return domain.ReviewState{}, false, apperrors.InvalidState(itemID, "bad "+KeyDue+": "+dueRaw)
	}
	interval, err := parseNumber(intervalRaw)
	if err != nil {
		return domain.ReviewState{}, false, apperrors.InvalidState(itemID, "bad "+KeyInterval+": "+intervalRaw)
	}
	ease, err := parseNumber(easeRaw)
	if err != nil {
		return domain.ReviewState{}, false, apperrors.InvalidState(itemID, "bad "+KeyEase+": "+easeRaw)
	}
	state := domain.ReviewState{Ease: ease, Interval: interval, Due: due}

	for key, dst := range map[string]*int{KeyReps: &state.Repetitions, KeyLapses: &state.Lapses} {
		raw, ok := fm.Get(key)
		if !ok {
			continue
		}
		n, err := parseNumber(raw)
		if err != nil {
			return domain.ReviewState{}, false, apperrors.InvalidState(itemID, "bad "+key+": "+raw)
		}
		*dst = n
	}

	if raw, ok := fm.Get(KeyLastReview); ok {
		last, err := domain.ParseDate(strings.TrimSpace(raw))
		if err != nil {
			return domain.ReviewState{}, false, apperrors.InvalidState(itemID, "bad "+KeyLastReview+": "+raw)
		}
		state.LastReviewed = last
	} else {
		state.LastReviewed = due.AddDate(0, 0, -interval)
	}

	if err := state.Validate(itemID); err != nil {
		return domain.ReviewState{}, false, err
	}
	return state, true, nil
}

func encodeState(fm *markdown.Frontmatter, state domain.ReviewState) {
	fm.Set(KeyDue, domain.FormatDate(state.Due))
	fm.Set(KeyInterval, strconv.Itoa(state.Interval))
	fm.Set(KeyEase, strconv.Itoa(state.Ease))
	fm.Set(KeyReps, strconv.Itoa(state.Repetitions))
	fm.Set(KeyLapses, strconv.Itoa(state.Lapses))
	fm.Set(KeyLastReview, domain.FormatDate(state.LastReviewed))
}

func parseNumber(raw string) (int, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number")
	}
	return int(math.Round(v)), nil
}
