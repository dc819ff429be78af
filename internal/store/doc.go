// Package store provides the durable LocalStore used for client state.
//
// # Overview
//
// SQLiteStore is a small key/value table in a local SQLite database. It
// implements session.LocalStore, so the session id written on the first
// run is read back on every later run of the client.
//
//	st, err := store.NewSQLiteStore("~/.local/share/sazon/client.db")
//	mgr := session.NewManager(st, logger)
//
// # Drivers
//
// The default driver is modernc.org/sqlite ("sqlite"), which needs no cgo.
// Builds with cgo enabled also register github.com/mattn/go-sqlite3
// ("sqlite3"), selectable with NewSQLiteStoreWithDriver or the store.driver
// config key.
//
// # Schema
//
//	CREATE TABLE kv (
//	    key        TEXT PRIMARY KEY,
//	    value      TEXT NOT NULL,
//	    updated_at DATETIME NOT NULL
//	);
package store
