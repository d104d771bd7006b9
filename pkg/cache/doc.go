// Package cache stores computed sort results keyed by manifest content.
//
// # Backends
//
// Every backend implements [Cache]:
//
//   - [NullCache]: never stores anything (caching disabled)
//   - [FileCache]: one JSON file per entry under a local directory
//   - [RedisCache]: a Redis server, entries expire through Redis TTLs
//   - [MongoCache]: a MongoDB collection with a TTL index
//
// [Open] picks a backend from a [Config], which is how the CLI and the HTTP
// server construct their caches.
//
// # Keys
//
// A [Keyer] derives keys from the hash of a manifest and the options that
// influence the result. [ScopedKeyer] prefixes every key so several tenants
// can share one backend.
//
//	key := cache.NewDefaultKeyer().SortKey(cache.Hash(data), cache.SortKeyOpts{Grouped: true})
//
// # Errors
//
// Network backends wrap transient failures with [Retryable];
// [RetryWithBackoff] retries only those.
package cache
