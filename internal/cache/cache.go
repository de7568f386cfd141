// Package cache define la abstracción de cache usada para sesiones y
// rate limiting, con backends en memoria (dev/tests) y Redis (prod).
package cache

import "time"

// Cache operaciones mínimas clave→bytes con TTL.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration)
	Delete(key string)
}
