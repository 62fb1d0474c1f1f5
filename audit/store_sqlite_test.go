package audit

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/remodern-labs/remodern/tool"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(StoreConfig{DSN: filepath.Join(t.TempDir(), "audit.db")})
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestStoreRecordAndList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	entries := []Entry{
		{ID: "inv-1", ToolName: "echo", Success: true, DurationMS: 3, StartedAt: now.Add(-2 * time.Minute)},
		{ID: "inv-2", ToolName: "source-parse", Success: false, ErrorCode: "INVALID_ARGS", StartedAt: now.Add(-time.Minute)},
		{ID: "inv-3", ToolName: "echo", Success: true, DurationMS: 1, StartedAt: now},
	}
	for _, entry := range entries {
		if err := store.Record(ctx, entry); err != nil {
			t.Fatalf("Record(%s) error = %v", entry.ID, err)
		}
	}

	listed, err := store.List(ctx, 10)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("List() entries = %d, want 3", len(listed))
	}
	// Newest first.
	if listed[0].ID != "inv-3" || listed[2].ID != "inv-1" {
		t.Fatalf("List() order = [%s %s %s]", listed[0].ID, listed[1].ID, listed[2].ID)
	}
	if listed[1].Success || listed[1].ErrorCode != "INVALID_ARGS" {
		t.Fatalf("List() failed entry = %+v", listed[1])
	}

	limited, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List(2) error = %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("List(2) entries = %d, want 2", len(limited))
	}
}

func TestStoreRecordRequiresID(t *testing.T) {
	store := newTestStore(t)
	if err := store.Record(context.Background(), Entry{ToolName: "echo"}); err == nil {
		t.Fatal("Record() without id = nil, want error")
	}
}

func TestStorePrune(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	old := Entry{ID: "old", ToolName: "echo", Success: true, StartedAt: now.Add(-48 * time.Hour)}
	fresh := Entry{ID: "fresh", ToolName: "echo", Success: true, StartedAt: now}
	for _, entry := range []Entry{old, fresh} {
		if err := store.Record(ctx, entry); err != nil {
			t.Fatalf("Record(%s) error = %v", entry.ID, err)
		}
	}

	removed, err := store.Prune(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if removed != 1 {
		t.Fatalf("Prune() removed = %d, want 1", removed)
	}

	listed, err := store.List(ctx, 10)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(listed) != 1 || listed[0].ID != "fresh" {
		t.Fatalf("List() after prune = %+v", listed)
	}
}

func TestRecorderObservesIntoStore(t *testing.T) {
	store := newTestStore(t)
	recorder := NewRecorder(store, nil)

	recorder.ObserveInvoke(tool.InvokeObservation{
		InvocationID: "inv-observer",
		ToolName:     "template-gen",
		Success:      true,
		DurationMS:   12,
	})

	listed, err := store.List(context.Background(), 1)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(listed) != 1 || listed[0].ID != "inv-observer" || listed[0].ToolName != "template-gen" {
		t.Fatalf("List() = %+v", listed)
	}
}
