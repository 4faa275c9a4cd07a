// Package storage defines the durable key-value slot auth data lives in,
// with in-memory, file and redis backed implementations.
package storage

import "errors"

// ErrNotFound is returned by Get when no value is stored under the key.
var ErrNotFound = errors.New("storage: key not found")

// Storage is a synchronous string key-value slot. Remove on a missing key
// is a no-op, not an error.
type Storage interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Remove(key string) error
}

type prefixed struct {
	inner  Storage
	prefix string
}

// WithPrefix namespaces every key of the wrapped storage. The portal uses
// it to give each browser session its own slice of a shared backend.
func WithPrefix(inner Storage, prefix string) Storage {
	return &prefixed{inner: inner, prefix: prefix}
}

func (p *prefixed) Get(key string) (string, error) {
	return p.inner.Get(p.prefix + key)
}

func (p *prefixed) Set(key, value string) error {
	return p.inner.Set(p.prefix+key, value)
}

func (p *prefixed) Remove(key string) error {
	return p.inner.Remove(p.prefix + key)
}
