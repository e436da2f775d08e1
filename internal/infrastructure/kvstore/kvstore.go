// Package kvstore is the local persistence port: a small key-value surface
// backing the non-authoritative state the client keeps on device (session,
// saved email, hidden families, preferences). Values are opaque bytes;
// callers marshal JSON. The store is last-writer-wins and assumes a single
// user per device.
package kvstore

import "errors"

// ErrKeyNotFound is returned by Get when the key has never been set or was
// removed.
var ErrKeyNotFound = errors.New("kvstore: key not found")

type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	Close() error
}
