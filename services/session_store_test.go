package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestMemorySessionStore(t *testing.T) {
	base := time.Date(2025, 6, 14, 10, 0, 0, 0, time.UTC)

	newStore := func(ttl time.Duration) (*MemorySessionStore, *time.Time) {
		store := NewMemorySessionStore(ttl)
		now := base
		store.now = func() time.Time { return now }
		return store, &now
	}

	t.Run("put then get", func(t *testing.T) {
		store, _ := newStore(5 * time.Minute)
		store.Put("s1", &ChatSession{State: ChatStateChooseSalon})

		session, ok := store.Get("s1")
		if !ok {
			t.Fatal("expected session to be present")
		}
		if session.State != ChatStateChooseSalon {
			t.Fatalf("state = %q", session.State)
		}
	})

	t.Run("get misses unknown id", func(t *testing.T) {
		store, _ := newStore(5 * time.Minute)
		if _, ok := store.Get("nope"); ok {
			t.Fatal("expected miss")
		}
	})

	t.Run("expired session is dropped on get", func(t *testing.T) {
		store, now := newStore(5 * time.Minute)
		store.Put("s1", &ChatSession{State: ChatStateChooseSalon})

		*now = base.Add(6 * time.Minute)
		if _, ok := store.Get("s1"); ok {
			t.Fatal("expected expired session to be gone")
		}
	})

	t.Run("put refreshes ttl", func(t *testing.T) {
		store, now := newStore(5 * time.Minute)
		session := &ChatSession{State: ChatStateChooseSalon}
		store.Put("s1", session)

		*now = base.Add(4 * time.Minute)
		store.Put("s1", session)

		*now = base.Add(8 * time.Minute)
		if _, ok := store.Get("s1"); !ok {
			t.Fatal("expected refreshed session to survive")
		}
	})

	t.Run("delete", func(t *testing.T) {
		store, _ := newStore(5 * time.Minute)
		store.Put("s1", &ChatSession{})
		store.Delete("s1")
		if _, ok := store.Get("s1"); ok {
			t.Fatal("expected deleted session to be gone")
		}
	})

	t.Run("sweep removes only expired", func(t *testing.T) {
		store, now := newStore(5 * time.Minute)
		store.Put("old", &ChatSession{})

		*now = base.Add(4 * time.Minute)
		store.Put("fresh", &ChatSession{SalonID: uuid.New()})

		*now = base.Add(6 * time.Minute)
		if removed := store.Sweep(); removed != 1 {
			t.Fatalf("sweep removed %d, want 1", removed)
		}
		if _, ok := store.Get("fresh"); !ok {
			t.Fatal("fresh session should survive sweep")
		}
	})
}

func TestSweeperLifecycle(t *testing.T) {
	store := NewMemorySessionStore(time.Minute)

	store.StartSweeper(10 * time.Millisecond)
	// Starting twice must not spawn a second goroutine.
	store.StartSweeper(10 * time.Millisecond)

	store.Put("s1", &ChatSession{})
	time.Sleep(30 * time.Millisecond)

	store.StopSweeper()
	// Stop is idempotent.
	store.StopSweeper()

	if _, ok := store.Get("s1"); !ok {
		t.Fatal("unexpired session should survive the sweeper")
	}
}
