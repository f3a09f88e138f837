package bolt

import (
	"context"
	"fmt"

	"git.sr.ht/~jackmordaunt/decks/storage"
	bolt "go.etcd.io/bbolt"
)

type Bucket []byte

func (b Bucket) String() string {
	return string(b)
}

var (
	BucketDecks Bucket = Bucket("Decks")
)

var _ storage.KV = (*Storer)(nil)

type Storer struct {
	*bolt.DB
}

func Open(path string) (*Storer, error) {
	db, err := bolt.Open(path, 0660, nil)
	if err != nil {
		return nil, fmt.Errorf("opening database file: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(BucketDecks); err != nil {
			return err
		}
		return nil
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initializing buckets: %w", err)
	}
	return &Storer{DB: db}, nil
}

func (db *Storer) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var v []byte
	err := db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(BucketDecks)
		if b == nil {
			return &storage.Error{Op: storage.OpGet, Key: key, Err: fmt.Errorf("bucket not initialized: %s", BucketDecks)}
		}
		found := b.Get([]byte(key))
		if found == nil {
			return storage.ErrNotFound
		}
		// Values are only valid for the life of the transaction.
		v = append([]byte(nil), found...)
		return nil
	})
	return v, err
}

func (db *Storer) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(BucketDecks).Put([]byte(key), value); err != nil {
			return &storage.Error{Op: storage.OpSet, Key: key, Err: err}
		}
		return nil
	})
}

func (db *Storer) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(BucketDecks).Delete([]byte(key)); err != nil {
			return &storage.Error{Op: storage.OpDelete, Key: key, Err: err}
		}
		return nil
	})
}

// Count returns the number of keys held in the decks bucket.
func (db *Storer) Count() (int, error) {
	var count int
	err := db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(BucketDecks).Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			count++
		}
		return nil
	})
	return count, err
}
