// Package decks models saved decks of cards and the in-memory registry the
// session works against.
package decks

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var (
	// ErrEmptyName is returned when a deck is given a blank name.
	ErrEmptyName = errors.New("deck name required")
	// ErrDuplicateName is returned when a name is already held by another deck.
	ErrDuplicateName = errors.New("deck name already in use")
)

// Deck is a named, ordered collection of cards.
//
// Name is the identity key: every lookup and mutation matches on it.
// ID is carried alongside the name and only used as a stable list key.
type Deck struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"deckName"`
	Cards []Card    `json:"cards"`
}

// Card in a deck. Duplicates are allowed.
type Card struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// Label renders the deck as a row label, eg "Aggro : 40".
func (d Deck) Label() string {
	return fmt.Sprintf("%s : %d", d.Name, len(d.Cards))
}

// Key returns a stable identity for list rendering.
// Decks persisted before IDs existed fall back to their name.
func (d Deck) Key() string {
	if d.ID == uuid.Nil {
		return d.Name
	}
	return d.ID.String()
}

// UnmarshalJSON accepts a missing, blank or malformed id and leaves ID nil,
// so one bad entry does not discard the whole saved collection.
func (d *Deck) UnmarshalJSON(data []byte) error {
	type plain Deck
	var raw struct {
		plain
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*d = Deck(raw.plain)
	d.ID = uuid.Nil
	var s string
	if err := json.Unmarshal(raw.ID, &s); err == nil {
		if id, err := uuid.Parse(s); err == nil {
			d.ID = id
		}
	}
	return nil
}

func (d Deck) clone() Deck {
	if d.Cards != nil {
		d.Cards = append([]Card(nil), d.Cards...)
	}
	return d
}

// Registry is the session's working copy of the saved decks.
//
// Iteration order is insertion (or load) order and is what the user sees;
// nothing but Remove changes a deck's position.
// When names collide (only possible via LoadAll) the first match wins.
type Registry struct {
	mu    sync.RWMutex
	decks []Deck
	// index maps a name to the position of the first deck holding it.
	index map[string]int
}

// NewRegistry allocates an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// LoadAll replaces the entire content of the registry.
// Never merges.
func (r *Registry) LoadAll(list []Deck) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decks = make([]Deck, 0, len(list))
	for _, d := range list {
		r.decks = append(r.decks, d.clone())
	}
	r.reindex()
}

// Append adds a deck to the end of the registry.
// A nil ID is replaced with a freshly generated one.
func (r *Registry) Append(d Deck) (Deck, error) {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return d, ErrEmptyName
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.index[d.Name]; ok {
		return d, fmt.Errorf("%q: %w", d.Name, ErrDuplicateName)
	}
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	d = d.clone()
	r.decks = append(r.decks, d)
	if r.index == nil {
		r.index = make(map[string]int)
	}
	r.index[d.Name] = len(r.decks) - 1
	return d.clone(), nil
}

// Remove the first deck with the given name.
// Bool indicates whether a deck was removed.
func (r *Registry) Remove(name string) (Deck, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ii, ok := r.index[name]
	if !ok {
		return Deck{}, false
	}
	removed := r.decks[ii]
	r.decks = append(r.decks[:ii], r.decks[ii+1:]...)
	r.reindex()
	return removed, true
}

// Rename the first deck with the given name in place, keeping its cards and
// its position. Bool indicates whether anything changed.
//
// An empty newName is a no-op, as is renaming a deck that does not exist.
// Renaming onto a name held by a different deck fails with ErrDuplicateName.
func (r *Registry) Rename(name, newName string) (Deck, bool, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" || newName == name {
		return Deck{}, false, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	ii, ok := r.index[name]
	if !ok {
		return Deck{}, false, nil
	}
	if _, taken := r.index[newName]; taken {
		return Deck{}, false, fmt.Errorf("%q: %w", newName, ErrDuplicateName)
	}
	r.decks[ii].Name = newName
	r.reindex()
	return r.decks[ii].clone(), true, nil
}

// Clear removes every deck and returns how many there were.
func (r *Registry) Clear() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.decks)
	r.decks = nil
	r.index = make(map[string]int)
	return n
}

// Lookup a deck by name.
func (r *Registry) Lookup(name string) (Deck, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ii, ok := r.index[name]
	if !ok {
		return Deck{}, false
	}
	return r.decks[ii].clone(), true
}

// List returns a copy of the decks in iteration order.
func (r *Registry) List() []Deck {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]Deck, 0, len(r.decks))
	for _, d := range r.decks {
		list = append(list, d.clone())
	}
	return list
}

// Len returns the number of decks.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.decks)
}

// Empty reports whether there are no decks.
func (r *Registry) Empty() bool {
	return r.Len() == 0
}

func (r *Registry) reindex() {
	r.index = make(map[string]int, len(r.decks))
	for ii, d := range r.decks {
		if _, ok := r.index[d.Name]; !ok {
			r.index[d.Name] = ii
		}
	}
}
