// Package cache provides the Redis-backed response cache of the menu API.
//
// The cache is a pure performance optimization. Every operation degrades to
// "treat as a miss" when Redis is unavailable, so callers never handle cache
// errors:
//
//   - Get returns false on a miss, a store failure or an undecodable entry
//   - Set logs and drops failures
//   - Invalidate returns 0 on failure
//
// # Basic Usage
//
//	redisClient, err := cache.Connect(os.Getenv("REDIS_URL"))
//	if err != nil {
//		return err
//	}
//	manager := cache.NewManager(redisClient)
//
//	var menu catalog.Menu
//	if manager.Get(ctx, cache.CatalogKey(locationID), &menu) {
//		return menu, nil
//	}
//	// ... build menu ...
//	manager.Set(ctx, cache.CatalogKey(locationID), menu, cache.DefaultTTL)
//
// # Invalidation
//
//	deleted := manager.Invalidate(ctx, cache.CatalogKey("").Pattern())
//
// Expiry is owned by Redis; entries are never inspected for age.
//
// # Metrics
//
//   - menu_cache_hits_total{namespace}
//   - menu_cache_misses_total{namespace}
//   - menu_cache_invalidated_keys_total{namespace}
//   - menu_cache_errors_total{operation}
package cache
