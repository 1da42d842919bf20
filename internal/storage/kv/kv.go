// Package kv holds the durable key-value stores a session snapshot is
// written to.
package kv

import "context"

// Store persists opaque values by key. Get reports found=false for a missing
// key without an error.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
