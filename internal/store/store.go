// ABOUTME: Store errors and driver names for client persistence
// ABOUTME: ErrNotFound is shared with the session package so missing keys compare with errors.Is

package store

import (
	"github.com/2389/sazon-chat/internal/session"
)

// ErrNotFound is returned when a key holds no value
var ErrNotFound = session.ErrNotFound

// Driver names accepted by NewSQLiteStoreWithDriver
const (
	DriverModernc = "sqlite"  // modernc.org/sqlite, pure Go
	DriverCgo     = "sqlite3" // github.com/mattn/go-sqlite3, cgo builds only
)

// compile-time check
var _ session.LocalStore = (*SQLiteStore)(nil)
