// Package store provides the key-value persistence primitive used by the
// offline inventory. Collections are serialized as JSON blobs under fixed
// string keys.
package store

import "context"

// Store is the persistence contract. Get reports ok=false when the key does
// not exist. Remove ignores missing keys.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, keys ...string) error
}
