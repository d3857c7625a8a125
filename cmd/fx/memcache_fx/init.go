package memcache_fx

import (
	"go.uber.org/fx"
	mem "immoportal/pkg/memcache"
)

var Module = fx.Provide(provideTTLStore)

// One process-wide store: revoked token ids and signed image URLs use
// disjoint key spaces.
func provideTTLStore() mem.TTLStore {
	return mem.NewTTLCache()
}
