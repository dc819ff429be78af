// ABOUTME: Stub for builds without cgo where go-sqlite3 cannot be linked
// ABOUTME: NewSQLiteStoreWithDriver rejects the sqlite3 driver in these builds

//go:build !cgo

package store

const cgoDriverAvailable = false
