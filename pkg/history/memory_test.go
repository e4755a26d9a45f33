package history

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStore_InsertAndRecent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	now := time.Now()
	if err := store.Insert(ctx, sampleRun("anthropic", now.Add(-time.Hour))); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := store.Insert(ctx, sampleRun("openai", now)); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	runs, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Provider != "openai" {
		t.Errorf("expected newest run first, got %s", runs[0].Provider)
	}

	limited, err := store.Recent(ctx, 1)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("expected limit to apply, got %d runs", len(limited))
	}
}

func TestMemoryStore_Prune(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	old := time.Now().AddDate(0, 0, -60)
	for i := 0; i < 3; i++ {
		if err := store.Insert(ctx, sampleRun("openai", old)); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		if err := store.Insert(ctx, sampleRun("anthropic", base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	deleted, err := store.Prune(ctx, time.Now().AddDate(0, 0, -30), 2)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if deleted != 6 {
		t.Errorf("expected 6 deleted, got %d", deleted)
	}
	if store.Size() != 2 {
		t.Errorf("expected 2 survivors, got %d", store.Size())
	}

	runs, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	for _, run := range runs {
		if run.Provider != "anthropic" {
			t.Errorf("old run survived prune: %+v", run)
		}
	}
}
