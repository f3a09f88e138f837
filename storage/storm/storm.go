package storm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"git.sr.ht/~jackmordaunt/decks/storage"

	"github.com/asdine/storm/v3"
)

var _ storage.KV = (*Storer)(nil)

// Storer implements key-value storage using storm db.
type Storer struct {
	DB *storm.DB
}

// Schema is a database representation of a stored value.
type Schema struct {
	Key  string `storm:"id"`
	Blob []byte
}

// Open a database handle using the file specified by path.
func Open(path string) (*Storer, error) {
	db, err := storm.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening data file: %w", err)
	}
	if err := db.Init(&Schema{}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialising schema: %v", err)
	}
	return &Storer{DB: db}, nil
}

func (s *Storer) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var schema Schema
	if err := s.DB.One("Key", key, &schema); err != nil {
		if errors.Is(err, storm.ErrNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, &storage.Error{Op: storage.OpGet, Key: key, Err: err}
	}
	return schema.Blob, nil
}

func (s *Storer) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(strings.TrimSpace(key)) == 0 {
		return fmt.Errorf("key required")
	}
	if err := s.DB.Save(&Schema{Key: key, Blob: value}); err != nil {
		return &storage.Error{Op: storage.OpSet, Key: key, Err: err}
	}
	return nil
}

func (s *Storer) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.DB.DeleteStruct(&Schema{Key: key}); err != nil {
		if errors.Is(err, storm.ErrNotFound) {
			return nil
		}
		return &storage.Error{Op: storage.OpDelete, Key: key, Err: err}
	}
	return nil
}

func (s *Storer) Close() error {
	return s.DB.Close()
}
