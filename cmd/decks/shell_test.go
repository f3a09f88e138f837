package main

import (
	"context"
	"strings"
	"testing"

	"git.sr.ht/~jackmordaunt/decks/browse"
	"git.sr.ht/~jackmordaunt/decks/config"
	"git.sr.ht/~jackmordaunt/decks/storage"
	"git.sr.ht/~jackmordaunt/decks/storage/lazy"
	"git.sr.ht/~jackmordaunt/decks/storage/mem"
)

func runShell(t *testing.T, kv *mem.Storer, pageSize int, input string) string {
	t.Helper()
	ctrl := lazy.New(storage.NewDecks(kv, ""))
	defer func() { _ = ctrl.Close(context.Background()) }()
	session := browse.New(ctrl, pageSize, nil)
	if err := session.Open(context.Background()); err != nil {
		t.Fatalf("Open: %v", err)
	}
	var out strings.Builder
	sh := Shell{Session: session, In: strings.NewReader(input), Out: &out}
	if err := sh.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out.String()
}

func TestShell_EmptyState(t *testing.T) {
	out := runShell(t, mem.New(), 3, "quit\n")
	if !strings.Contains(out, "no saved decks") {
		t.Errorf("output = %q", out)
	}
}

func TestShell_Scenario(t *testing.T) {
	kv := mem.New()
	input := strings.Join([]string{
		"add A x y z",
		"add B w",
		"show 1",
		"rename A2",
		"rm 2",
		"y",
		"ls",
		"quit",
	}, "\n") + "\n"
	out := runShell(t, kv, 3, input)
	for _, want := range []string{
		"saved A : 3",
		"saved B : 1",
		"A (3 cards)",
		"renamed to A2",
		"deleted B",
		"1. A2 : 3",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	// The writes made it to the store.
	out = runShell(t, kv, 3, "ls\n")
	if !strings.Contains(out, "1. A2 : 3") || strings.Contains(out, "B : 1") {
		t.Errorf("rehydrated output:\n%s", out)
	}
}

func TestShell_DeclineDelete(t *testing.T) {
	out := runShell(t, mem.New(), 3, "add A\nrm 1\nn\nls\n")
	if !strings.Contains(out, "kept") || !strings.Contains(out, "1. A : 0") {
		t.Errorf("output:\n%s", out)
	}
}

func TestShell_Pagination(t *testing.T) {
	input := "add a\nadd b\nadd c\nnext\nprev\nprev\nls\n"
	out := runShell(t, mem.New(), 2, input)
	for _, want := range []string{"1. c : 0", "< 2 / 2", "1 / 2 >", "already on the first page"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestShell_Clear(t *testing.T) {
	kv := mem.New()
	out := runShell(t, kv, 3, "clear\nadd a\nclear\n")
	if !strings.Contains(out, "nothing to clear") || !strings.Contains(out, "cleared all decks") {
		t.Errorf("output:\n%s", out)
	}
	if kv.Has(storage.DefaultKey) {
		t.Error("durable key survived clear")
	}
}

func TestOpenStore_Mem(t *testing.T) {
	cfg := config.Config{Storage: config.StorageConfig{Driver: config.DriverMem}}
	kv, err := openStore(context.Background(), cfg)
	if err != nil {
		t.Fatalf("openStore: %v", err)
	}
	if _, ok := kv.(*mem.Storer); !ok {
		t.Errorf("got %T", kv)
	}
}

func TestOpenStore_Unknown(t *testing.T) {
	cfg := config.Config{Storage: config.StorageConfig{Driver: "floppy"}}
	if _, err := openStore(context.Background(), cfg); err == nil {
		t.Fatal("expected error")
	}
}
