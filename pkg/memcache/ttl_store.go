package mem

import (
	"sync"
	"time"
)

// TTLStore is a small in-process key/value cache with per-entry expiry.
// Used for revoked token ids and signed image URLs.
type TTLStore interface {
	Set(key string, value string, ttl time.Duration)
	Peek(key string) (string, bool)
}

type entry struct {
	value     string
	expiresAt time.Time
}

type TTLCache struct {
	mu     sync.RWMutex
	data   map[string]entry
	writes int
	now    func() time.Time
}

const sweepEvery = 256

func NewTTLCache() *TTLCache {
	return &TTLCache{
		data: make(map[string]entry),
		now:  time.Now,
	}
}

func (s *TTLCache) Set(key string, value string, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = entry{value: value, expiresAt: s.now().Add(ttl)}
	s.writes++
	if s.writes%sweepEvery == 0 {
		s.sweepLocked()
	}
}

func (s *TTLCache) Peek(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[key]
	if !ok || s.now().After(e.expiresAt) {
		return "", false
	}
	return e.value, true
}

func (s *TTLCache) sweepLocked() {
	now := s.now()
	for k, e := range s.data {
		if now.After(e.expiresAt) {
			delete(s.data, k)
		}
	}
}
