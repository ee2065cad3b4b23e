// Package credential owns the single persisted secret of the session core:
// the bearer token slot.
//
// A [Store] holds at most one token under a fixed slot name. Save overwrites,
// Clear is idempotent, and Load reports absence with [ErrNoToken]. The slot
// is written only by the engine's login path and deleted only by its logout
// path; concurrent profile fetches read it without additional locking.
//
// Three implementations ship with the package: [FileStore] encrypts the token
// at rest for on-device use, [RedisStore] backs headless or server-assisted
// deployments, and [MemoryStore] serves tests.
package credential
