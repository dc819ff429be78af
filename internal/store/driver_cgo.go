// ABOUTME: Registers the cgo go-sqlite3 driver when cgo is available
// ABOUTME: Lets store.driver=sqlite3 select mattn/go-sqlite3 instead of modernc

//go:build cgo

package store

import (
	_ "github.com/mattn/go-sqlite3"
)

const cgoDriverAvailable = true
