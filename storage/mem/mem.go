// Package mem implements in-memory key-value storage.
package mem

import (
	"context"
	"sync"

	"git.sr.ht/~jackmordaunt/decks/storage"
)

var _ storage.KV = (*Storer)(nil)

// Storer keeps values in a map. Nothing survives the process.
type Storer struct {
	mu   sync.RWMutex
	Data map[string][]byte
}

func New() *Storer {
	return &Storer{
		Data: make(map[string][]byte),
	}
}

func (s *Storer) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.Data[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *Storer) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Data == nil {
		s.Data = make(map[string][]byte)
	}
	s.Data[key] = append([]byte(nil), value...)
	return nil
}

func (s *Storer) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Data, key)
	return nil
}

// Has reports whether a value exists for key.
func (s *Storer) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.Data[key]
	return ok
}

func (s *Storer) Close() error {
	return nil
}
