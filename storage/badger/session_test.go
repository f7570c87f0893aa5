package badger

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/campusbuddy/core"
	"github.com/poiesic/campusbuddy/storage"
)

func TestSessionGetOrCreate(t *testing.T) {
	stores, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer stores.Close()

	ctx := context.Background()

	first, err := stores.Sessions.GetOrCreateActiveSession(ctx, "owner-1")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	if first.Id == 0 {
		t.Fatal("Expected non-zero session ID")
	}
	if first.Status != core.SessionActive {
		t.Fatalf("Expected active status, got %v", first.Status)
	}
	if first.OwnerId != "owner-1" {
		t.Fatalf("Expected owner-1, got %s", first.OwnerId)
	}

	// Second call for the same owner returns the same session
	second, err := stores.Sessions.GetOrCreateActiveSession(ctx, "owner-1")
	if err != nil {
		t.Fatalf("Failed to fetch session: %v", err)
	}
	if second.Id != first.Id {
		t.Fatalf("Expected session %d, got %d", first.Id, second.Id)
	}

	// Different owner gets a different session
	other, err := stores.Sessions.GetOrCreateActiveSession(ctx, "owner-2")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	if other.Id == first.Id {
		t.Fatal("Expected a distinct session for a different owner")
	}
}

func TestSessionReset(t *testing.T) {
	stores, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer stores.Close()

	ctx := context.Background()

	old, err := stores.Sessions.GetOrCreateActiveSession(ctx, "owner-1")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	fresh, err := stores.Sessions.ResetSession(ctx, "owner-1")
	if err != nil {
		t.Fatalf("Failed to reset session: %v", err)
	}
	if fresh.Id == old.Id {
		t.Fatal("Expected reset to create a new session")
	}
	if fresh.Status != core.SessionActive {
		t.Fatalf("Expected fresh session active, got %v", fresh.Status)
	}

	// The old session is kept, marked reset
	kept, err := stores.Sessions.GetSession(ctx, old.Id)
	if err != nil {
		t.Fatalf("Failed to get old session: %v", err)
	}
	if kept.Status != core.SessionReset {
		t.Fatalf("Expected old session marked reset, got %v", kept.Status)
	}

	// The owner's active session is now the fresh one
	active, err := stores.Sessions.GetOrCreateActiveSession(ctx, "owner-1")
	if err != nil {
		t.Fatalf("Failed to fetch session: %v", err)
	}
	if active.Id != fresh.Id {
		t.Fatalf("Expected active session %d, got %d", fresh.Id, active.Id)
	}
}

func TestSessionTouch(t *testing.T) {
	stores, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer stores.Close()

	ctx := context.Background()

	session, err := stores.Sessions.GetOrCreateActiveSession(ctx, "owner-1")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	if err := stores.Sessions.TouchSession(ctx, session.Id); err != nil {
		t.Fatalf("Failed to touch session: %v", err)
	}

	touched, err := stores.Sessions.GetSession(ctx, session.Id)
	if err != nil {
		t.Fatalf("Failed to get session: %v", err)
	}
	if touched.LastActiveAt.Before(session.LastActiveAt) {
		t.Fatal("Expected LastActiveAt to advance")
	}
}

func TestSessionNotFound(t *testing.T) {
	stores, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer stores.Close()

	ctx := context.Background()

	if _, err := stores.Sessions.GetSession(ctx, core.ID(9999)); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
	if err := stores.Sessions.TouchSession(ctx, core.ID(9999)); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}
