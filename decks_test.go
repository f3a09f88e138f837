package decks

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
)

func cards(n int) []Card {
	list := make([]Card, n)
	for ii := range list {
		list[ii] = Card{Name: "card"}
	}
	return list
}

func names(list []Deck) []string {
	out := make([]string, 0, len(list))
	for _, d := range list {
		out = append(out, d.Name)
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for ii := range a {
		if a[ii] != b[ii] {
			return false
		}
	}
	return true
}

func TestRegistry_AppendAssignsID(t *testing.T) {
	r := NewRegistry()
	d, err := r.Append(Deck{Name: "  Aggro ", Cards: cards(2)})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if d.ID == uuid.Nil {
		t.Fatal("expected generated ID")
	}
	if d.Name != "Aggro" {
		t.Errorf("name = %q, want trimmed", d.Name)
	}
	got, ok := r.Lookup("Aggro")
	if !ok || got.ID != d.ID {
		t.Fatalf("Lookup = %+v, %v", got, ok)
	}
}

func TestRegistry_AppendRejects(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Append(Deck{Name: "A"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	tests := []struct {
		name string
		deck Deck
		want error
	}{
		{"empty", Deck{Name: " "}, ErrEmptyName},
		{"duplicate", Deck{Name: "A"}, ErrDuplicateName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := r.Append(tt.deck); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1", r.Len())
	}
}

func TestRegistry_LoadAllReplaces(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Append(Deck{Name: "old"}); err != nil {
		t.Fatal(err)
	}
	r.LoadAll([]Deck{{Name: "x"}, {Name: "y"}})
	if got := names(r.List()); !equal(got, []string{"x", "y"}) {
		t.Fatalf("List = %v", got)
	}
	if _, ok := r.Lookup("old"); ok {
		t.Error("LoadAll merged instead of replacing")
	}
}

func TestRegistry_RenamePreservesPositionAndCards(t *testing.T) {
	r := NewRegistry()
	r.LoadAll([]Deck{
		{Name: "a", Cards: cards(1)},
		{Name: "b", Cards: []Card{{Name: "x"}, {Name: "y"}, {Name: "x"}}},
		{Name: "c", Cards: cards(3)},
	})
	d, ok, err := r.Rename("b", "b2")
	if err != nil || !ok {
		t.Fatalf("Rename = %v, %v", ok, err)
	}
	if d.Name != "b2" {
		t.Errorf("returned name = %q", d.Name)
	}
	list := r.List()
	if got := names(list); !equal(got, []string{"a", "b2", "c"}) {
		t.Fatalf("order = %v", got)
	}
	want := []string{"x", "y", "x"}
	for ii, c := range list[1].Cards {
		if c.Name != want[ii] {
			t.Errorf("card %d = %q, want %q", ii, c.Name, want[ii])
		}
	}
	if _, ok := r.Lookup("b"); ok {
		t.Error("old name still resolves")
	}
}

func TestRegistry_RenameNoops(t *testing.T) {
	r := NewRegistry()
	r.LoadAll([]Deck{{Name: "a"}, {Name: "b"}})
	tests := []struct {
		name    string
		from    string
		to      string
		wantErr error
	}{
		{"empty new name", "a", "", nil},
		{"same name", "a", "a", nil},
		{"missing deck", "zzz", "q", nil},
		{"taken name", "a", "b", ErrDuplicateName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok, err := r.Rename(tt.from, tt.to)
			if ok {
				t.Error("expected no change")
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
	if got := names(r.List()); !equal(got, []string{"a", "b"}) {
		t.Fatalf("List = %v", got)
	}
}

func TestRegistry_RemoveFirstMatch(t *testing.T) {
	r := NewRegistry()
	r.LoadAll([]Deck{
		{Name: "dup", Cards: cards(1)},
		{Name: "other"},
		{Name: "dup", Cards: cards(2)},
	})
	d, ok := r.Remove("dup")
	if !ok || len(d.Cards) != 1 {
		t.Fatalf("Remove = %+v, %v; want first match", d, ok)
	}
	got, ok := r.Lookup("dup")
	if !ok || len(got.Cards) != 2 {
		t.Fatalf("remaining dup = %+v, %v", got, ok)
	}
	if _, ok := r.Remove("missing"); ok {
		t.Error("removing a missing deck reported success")
	}
	if r.Len() != 2 {
		t.Errorf("Len = %d, want 2", r.Len())
	}
}

func TestRegistry_Clear(t *testing.T) {
	r := NewRegistry()
	r.LoadAll([]Deck{{Name: "a"}, {Name: "b"}})
	if n := r.Clear(); n != 2 {
		t.Errorf("Clear = %d, want 2", n)
	}
	if !r.Empty() {
		t.Error("registry not empty")
	}
	if _, err := r.Append(Deck{Name: "a"}); err != nil {
		t.Errorf("Append after clear: %v", err)
	}
}

func TestRegistry_ListIsACopy(t *testing.T) {
	r := NewRegistry()
	r.LoadAll([]Deck{{Name: "a", Cards: cards(1)}})
	list := r.List()
	list[0].Name = "mutated"
	list[0].Cards[0].Name = "mutated"
	got, _ := r.Lookup("a")
	if got.Cards[0].Name != "card" {
		t.Error("List shares card storage with the registry")
	}
}

func TestRegistry_ZeroValue(t *testing.T) {
	var r Registry
	if _, err := r.Append(Deck{Name: "a"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if r.Len() != 1 {
		t.Errorf("Len = %d", r.Len())
	}
}

func TestDeck_LabelAndKey(t *testing.T) {
	d := Deck{Name: "Aggro", Cards: cards(3)}
	if got := d.Label(); got != "Aggro : 3" {
		t.Errorf("Label = %q", got)
	}
	if got := d.Key(); got != "Aggro" {
		t.Errorf("Key without ID = %q", got)
	}
	d.ID = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	if got := d.Key(); got != d.ID.String() {
		t.Errorf("Key = %q", got)
	}
}

func TestDeck_UnmarshalTolerantID(t *testing.T) {
	id := uuid.New()
	tests := []struct {
		name   string
		body   string
		wantID uuid.UUID
	}{
		{"valid", `{"id":"` + id.String() + `","deckName":"a","cards":[{"name":"x"}]}`, id},
		{"blank", `{"id":"","deckName":"a","cards":[{"name":"x"}]}`, uuid.Nil},
		{"garbage", `{"id":"not-a-uuid","deckName":"a","cards":[{"name":"x"}]}`, uuid.Nil},
		{"number", `{"id":42,"deckName":"a","cards":[{"name":"x"}]}`, uuid.Nil},
		{"missing", `{"deckName":"a","cards":[{"name":"x"}]}`, uuid.Nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Deck
			if err := json.Unmarshal([]byte(tt.body), &d); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if d.ID != tt.wantID {
				t.Errorf("ID = %v, want %v", d.ID, tt.wantID)
			}
			if d.Name != "a" || len(d.Cards) != 1 || d.Cards[0].Name != "x" {
				t.Errorf("deck = %+v", d)
			}
			if tt.wantID == uuid.Nil && d.Key() != "a" {
				t.Errorf("Key = %q, want name fallback", d.Key())
			}
		})
	}
}

func TestDeck_UnmarshalRejectsBadShape(t *testing.T) {
	var d Deck
	if err := json.Unmarshal([]byte(`{"deckName":7}`), &d); err == nil {
		t.Fatal("expected error for non-string name")
	}
}
