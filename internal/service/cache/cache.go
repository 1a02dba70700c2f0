package cache

import (
	"context"
	"time"
)

// BytesCache is a minimal cache API storing raw bytes with TTL.
// A zero ttl keeps the entry until it is overwritten.
type BytesCache interface {
	GetBytes(ctx context.Context, key string) (b []byte, ok bool, err error)
	SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
