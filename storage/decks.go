package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"git.sr.ht/~jackmordaunt/decks"
)

// DefaultKey is the key the deck collection is stored under.
const DefaultKey = "saved-decks"

// Decks stores the whole deck collection as a single JSON blob under one key.
// Every write replaces the entire collection.
type Decks struct {
	KV  KV
	Key string
	// OnDecodeError, if set, is told about persisted data that could not be
	// decoded. Such data is otherwise treated as absent.
	OnDecodeError func(error)
}

// NewDecks stores the collection in kv under key, or DefaultKey when empty.
func NewDecks(kv KV, key string) *Decks {
	if key == "" {
		key = DefaultKey
	}
	return &Decks{KV: kv, Key: key}
}

// ReadAll loads the persisted collection.
// Bool is false when nothing has been persisted, or when the persisted value
// is malformed.
func (s *Decks) ReadAll(ctx context.Context) ([]decks.Deck, bool, error) {
	data, err := s.KV.Get(ctx, s.Key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading decks: %w", err)
	}
	var list []decks.Deck
	if err := json.Unmarshal(data, &list); err != nil {
		if s.OnDecodeError != nil {
			s.OnDecodeError(fmt.Errorf("deserializing decks: %w", err))
		}
		return nil, false, nil
	}
	return list, true, nil
}

// WriteAll overwrites the persisted collection.
func (s *Decks) WriteAll(ctx context.Context, list []decks.Deck) error {
	if list == nil {
		list = []decks.Deck{}
	}
	v, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("serializing decks: %w", err)
	}
	if err := s.KV.Set(ctx, s.Key, v); err != nil {
		return fmt.Errorf("writing decks: %w", err)
	}
	return nil
}

// RemoveKey deletes the persisted collection entirely.
func (s *Decks) RemoveKey(ctx context.Context) error {
	if err := s.KV.Delete(ctx, s.Key); err != nil {
		return fmt.Errorf("removing decks: %w", err)
	}
	return nil
}
