// Package storagetest checks that a storage.KV behaves the way the deck
// store relies on.
package storagetest

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"git.sr.ht/~jackmordaunt/decks/storage"
)

// Run exercises kv against the storage.KV contract.
// kv must start empty.
func Run(t *testing.T, kv storage.KV) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		if _, err := kv.Get(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("Get missing: want ErrNotFound, got %v", err)
		}
	})

	t.Run("set then get", func(t *testing.T) {
		if err := kv.Set(ctx, "k", []byte("one")); err != nil {
			t.Fatalf("Set: %v", err)
		}
		got, err := kv.Get(ctx, "k")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if !bytes.Equal(got, []byte("one")) {
			t.Errorf("Get = %q, want %q", got, "one")
		}
	})

	t.Run("overwrite", func(t *testing.T) {
		if err := kv.Set(ctx, "k", []byte("two")); err != nil {
			t.Fatalf("Set: %v", err)
		}
		got, err := kv.Get(ctx, "k")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if !bytes.Equal(got, []byte("two")) {
			t.Errorf("Get = %q, want %q", got, "two")
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := kv.Delete(ctx, "k"); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if _, err := kv.Get(ctx, "k"); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("Get after delete: want ErrNotFound, got %v", err)
		}
		if err := kv.Delete(ctx, "k"); err != nil {
			t.Fatalf("Delete missing: %v", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		if err := kv.Set(cctx, "k", []byte("x")); err == nil {
			t.Error("Set with cancelled context succeeded")
		}
	})
}
