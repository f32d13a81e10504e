package out_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	schedulingout "srs/internal/modules/scheduling/adapter/out"
	"srs/internal/modules/scheduling/domain"
	apperrors "srs/internal/platform/errors"
)

func writeNote(t *testing.T, vault, rel, content string) string {
	t.Helper()
	path := filepath.Join(vault, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write note: %v", err)
	}
	return path
}

func readNote(t *testing.T, path string) string {
	t.Helper()
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read note: %v", err)
	}
	return string(raw)
}

func TestNoteStoreSavePreservesNote(t *testing.T) {
	t.Parallel()
	vault := t.TempDir()
	path := writeNote(t, vault, "topics/go.md", "---\ntitle: Go\ntags: [lang]\n---\n# Go\n\nChannels.\n")
	store := schedulingout.NewVaultNoteStore(vault)
	ctx := context.Background()

	state := domain.ReviewState{
		Ease:         270,
		Interval:     8,
		Due:          time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC),
		Repetitions:  2,
		Lapses:       1,
		LastReviewed: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	if err := store.Save(ctx, "topics/go.md", state); err != nil {
		t.Fatalf("save: %v", err)
	}
	content := readNote(t, path)
	want := "---\ntitle: Go\ntags: [lang]\nsr-due: 2024-03-09\nsr-interval: 8\nsr-ease: 270\nsr-reps: 2\nsr-lapses: 1\nsr-last-review: 2024-03-01\n---\n# Go\n\nChannels.\n"
	if content != want {
		t.Fatalf("unexpected note:\n%s\nwant:\n%s", content, want)
	}

	got, ok, err := store.Load(ctx, "topics/go.md")
	if err != nil || !ok {
		t.Fatalf("load: %v %v", ok, err)
	}
	if got.Ease != 270 || got.Interval != 8 || got.Repetitions != 2 || got.Lapses != 1 || !got.Due.Equal(state.Due) {
		t.Fatalf("unexpected state %+v", got)
	}
}

func TestNoteStoreLoadsLegacyFrontmatter(t *testing.T) {
	t.Parallel()
	vault := t.TempDir()
	writeNote(t, vault, "old.md", "---\nsr-due: 2024-01-11\nsr-interval: 10\nsr-ease: 250\n---\nbody\n")
	store := schedulingout.NewVaultNoteStore(vault)

	got, ok, err := store.Load(context.Background(), "old.md")
	if err != nil || !ok {
		t.Fatalf("load: %v %v", ok, err)
	}
	if got.Repetitions != 0 || got.Lapses != 0 {
		t.Fatalf("legacy notes load with zero counters, got %+v", got)
	}
	if want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC); !got.LastReviewed.Equal(want) {
		t.Fatalf("expected derived last review %s, got %s", want, got.LastReviewed)
	}
}

func TestNoteStoreUntrackedAndMissingNotes(t *testing.T) {
	t.Parallel()
	vault := t.TempDir()
	writeNote(t, vault, "plain.md", "# nothing scheduled\n")
	store := schedulingout.NewVaultNoteStore(vault)
	ctx := context.Background()

	for _, id := range []string{"plain.md", "missing.md"} {
		if _, ok, err := store.Load(ctx, id); err != nil || ok {
			t.Fatalf("%s: expected untracked, got ok=%v err=%v", id, ok, err)
		}
	}
	if _, _, err := store.Load(ctx, "../outside.md"); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for path outside vault, got %v", err)
	}
}

func TestNoteStoreReportsInvalidState(t *testing.T) {
	t.Parallel()
	vault := t.TempDir()
	writeNote(t, vault, "bad.md", "---\nsr-due: someday\nsr-interval: 10\nsr-ease: 250\n---\n")
	writeNote(t, vault, "partial.md", "---\nsr-due: 2024-01-11\n---\n")
	writeNote(t, vault, "zero.md", "---\nsr-due: 2024-01-11\nsr-interval: 0\nsr-ease: 250\n---\n")
	store := schedulingout.NewVaultNoteStore(vault)

	for _, id := range []string{"bad.md", "partial.md", "zero.md"} {
		if _, _, err := store.Load(context.Background(), id); !errors.Is(err, apperrors.ErrInvalidPersistedState) {
			t.Fatalf("%s: expected ErrInvalidPersistedState, got %v", id, err)
		}
	}
}

func TestNoteStoreRemoveKeepsOtherKeys(t *testing.T) {
	t.Parallel()
	vault := t.TempDir()
	path := writeNote(t, vault, "a.md", "---\ntitle: A\nsr-due: 2024-01-11\nsr-interval: 10\nsr-ease: 250\n---\nbody\n")
	onlySchedule := writeNote(t, vault, "b.md", "---\nsr-due: 2024-01-11\nsr-interval: 10\nsr-ease: 250\n---\nbody\n")
	store := schedulingout.NewVaultNoteStore(vault)
	ctx := context.Background()

	if err := store.Remove(ctx, "a.md"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if got := readNote(t, path); got != "---\ntitle: A\n---\nbody\n" {
		t.Fatalf("unexpected note after remove: %q", got)
	}
	if err := store.Remove(ctx, "b.md"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if got := readNote(t, onlySchedule); got != "body\n" {
		t.Fatalf("unexpected note after remove: %q", got)
	}
	if err := store.Remove(ctx, "missing.md"); err != nil {
		t.Fatalf("removing a missing note is a no-op: %v", err)
	}
}

func TestNoteStoreAllTrackedIDs(t *testing.T) {
	t.Parallel()
	vault := t.TempDir()
	due := "---\nsr-due: 2024-01-11\nsr-interval: 10\nsr-ease: 250\n---\n"
	writeNote(t, vault, "b.md", due)
	writeNote(t, vault, "dir/a.md", due)
	writeNote(t, vault, "plain.md", "text\n")
	writeNote(t, vault, ".obsidian/hidden.md", due)
	writeNote(t, vault, "notes.txt", due)
	store := schedulingout.NewVaultNoteStore(vault)

	ids, err := store.AllTrackedIDs(context.Background())
	if err != nil {
		t.Fatalf("all tracked: %v", err)
	}
	if want := []string{"b.md", "dir/a.md"}; !reflect.DeepEqual(ids, want) {
		t.Fatalf("expected %v, got %v", want, ids)
	}
}

func TestNoteStoreSaveCreatesMissingNote(t *testing.T) {
	t.Parallel()
	vault := t.TempDir()
	store := schedulingout.NewVaultNoteStore(vault)
	state := domain.ReviewState{Ease: 250, Interval: 1, Due: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), LastReviewed: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}
	if err := store.Save(context.Background(), "new/card.md", state); err != nil {
		t.Fatalf("save: %v", err)
	}
	content := readNote(t, filepath.Join(vault, "new", "card.md"))
	if !strings.HasPrefix(content, "---\nsr-due: 2024-03-02\n") {
		t.Fatalf("unexpected new note %q", content)
	}
}

func TestNoteStoreSavedItemsAreListed(t *testing.T) {
	t.Parallel()
	vault := t.TempDir()
	store := schedulingout.NewVaultNoteStore(vault)
	ctx := context.Background()
	state := domain.ReviewState{Ease: 250, Interval: 3, Due: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), LastReviewed: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}

	for _, id := range []string{"cards/spanish", "notes.txt", ".obsidian/card.md", "deck/.hidden/card.md"} {
		if err := store.Save(ctx, id, state); !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Fatalf("save %s: expected ErrInvalidInput, got %v", id, err)
		}
	}
	for _, id := range []string{"cards/spanish.md", "Deck/Verbs.MD"} {
		if err := store.Save(ctx, id, state); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}

	ids, err := store.AllTrackedIDs(ctx)
	if err != nil {
		t.Fatalf("all tracked: %v", err)
	}
	if want := []string{"Deck/Verbs.MD", "cards/spanish.md"}; !reflect.DeepEqual(ids, want) {
		t.Fatalf("expected %v, got %v", want, ids)
	}
	for _, id := range ids {
		if _, ok, err := store.Load(ctx, id); err != nil || !ok {
			t.Fatalf("listed id %s should load, got ok=%v err=%v", id, ok, err)
		}
	}
}
