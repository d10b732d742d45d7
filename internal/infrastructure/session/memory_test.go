package session

import (
	"sync"
	"testing"
)

func TestMemoryStore(t *testing.T) {
	t.Run("create issues resolvable token", func(t *testing.T) {
		store := NewMemoryStore()
		token := store.Create("u1")

		if token == "" {
			t.Fatal("Create returned an empty token")
		}
		userID, ok := store.UserID(token)
		if !ok || userID != "u1" {
			t.Errorf("UserID(%q) = (%q, %v), want (u1, true)", token, userID, ok)
		}
	})

	t.Run("tokens are unique per create", func(t *testing.T) {
		store := NewMemoryStore()
		if store.Create("u1") == store.Create("u1") {
			t.Error("two Create calls returned the same token")
		}
	})

	t.Run("register binds a static token", func(t *testing.T) {
		store := NewMemoryStore()
		store.Register("static-token", "u2")

		userID, ok := store.UserID("static-token")
		if !ok || userID != "u2" {
			t.Errorf("UserID = (%q, %v), want (u2, true)", userID, ok)
		}
	})

	t.Run("unknown token does not resolve", func(t *testing.T) {
		store := NewMemoryStore()
		if _, ok := store.UserID("nope"); ok {
			t.Error("unknown token resolved")
		}
	})

	t.Run("revoke invalidates the token", func(t *testing.T) {
		store := NewMemoryStore()
		token := store.Create("u1")
		store.Revoke(token)

		if _, ok := store.UserID(token); ok {
			t.Error("revoked token still resolves")
		}
		if store.Size() != 0 {
			t.Errorf("Size = %d, want 0", store.Size())
		}
	})

	t.Run("concurrent access is safe", func(t *testing.T) {
		store := NewMemoryStore()
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				token := store.Create("u1")
				store.UserID(token)
				store.Revoke(token)
			}()
		}
		wg.Wait()

		if store.Size() != 0 {
			t.Errorf("Size = %d, want 0 after revoking everything", store.Size())
		}
	})
}
