package interfaces

import "time"

// Cache is a key/value store with per-entry time-to-live.
// Get never returns an expired value. Set overwrites unconditionally; a ttl of
// zero or less selects the store's default.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
}
