package out_test

import (
	"context"
	"path/filepath"
	"testing"

	linksout "srs/internal/modules/links/adapter/out"
	"srs/internal/modules/links/domain"
)

func TestSQLiteLinkStoreUpsertIncomingForget(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store, err := linksout.NewSQLiteLinkStore(ctx, filepath.Join(t.TempDir(), ".srs", "links.db"))
	if err != nil {
		t.Fatalf("open link store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	for _, l := range []domain.Link{
		{FromID: "b.md", ToID: "target.md", Weight: 1},
		{FromID: "a.md", ToID: "target.md", Weight: 2},
		{FromID: "a.md", ToID: "target.md", Weight: 3},
		{FromID: "target.md", ToID: "c.md", Weight: 1},
	} {
		if err := store.Upsert(ctx, l); err != nil {
			t.Fatalf("upsert %+v: %v", l, err)
		}
	}

	incoming, err := store.Incoming(ctx, "target.md")
	if err != nil {
		t.Fatalf("incoming: %v", err)
	}
	if len(incoming) != 2 || incoming[0].FromID != "a.md" || incoming[0].Weight != 3 || incoming[1].FromID != "b.md" {
		t.Fatalf("unexpected incoming links %+v", incoming)
	}

	if err := store.Forget(ctx, "target.md"); err != nil {
		t.Fatalf("forget: %v", err)
	}
	if incoming, _ := store.Incoming(ctx, "target.md"); len(incoming) != 0 {
		t.Fatalf("links to target should be gone, got %+v", incoming)
	}
	if incoming, _ := store.Incoming(ctx, "c.md"); len(incoming) != 0 {
		t.Fatalf("links from target should be gone, got %+v", incoming)
	}
}
