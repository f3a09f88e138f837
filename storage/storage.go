// Package storage specifies the durable key-value primitive saved decks are
// persisted through.
// Sub packages implement the interface providing different storage devices.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by KV.Get when no value exists for the key.
var ErrNotFound = errors.New("storage: key not found")

// KV is an opaque key-value storage device.
type KV interface {
	// Get the value stored at key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set overwrites the value stored at key.
	Set(ctx context.Context, key string, value []byte) error
	// Delete the key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases the device.
	Close() error
}

// Op names a storage operation for error context.
type Op string

const (
	OpGet    Op = "get"
	OpSet    Op = "set"
	OpDelete Op = "delete"
)

// Error wraps a device error with the operation and key that caused it.
type Error struct {
	Op  Op
	Key string
	Err error
}

func (e *Error) Error() string { return string(e.Op) + " " + e.Key + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
