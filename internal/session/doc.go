// Package session owns the anonymous per-install session identity.
//
// # Overview
//
// A session id correlates this client install with the remote agent's
// conversation memory. It is created once, persisted through a LocalStore,
// and never regenerated while the stored value exists:
//
//	mgr := session.NewManager(store, logger)
//	id := mgr.GetOrCreateID(ctx)
//
// # Format
//
//	session-<unix millis>-<9 chars of [0-9a-z]>
//
// Uniqueness is best effort. The id is not a secret and is not
// cryptographically random.
//
// # Stores
//
// LocalStore is the narrow get/set capability the manager needs. The
// package ships MemoryStore for tests and ephemeral runs; the durable
// SQLite-backed store lives in internal/store.
//
// When no store is configured the manager returns the empty id. Callers
// treat "" as "no session" and keep working statelessly.
package session
