// ABOUTME: SessionIdentityManager resolves the per-install session id exactly once
// ABOUTME: Reads the id from the LocalStore or synthesizes and persists a new one

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"
)

// Key is the well-known LocalStore key holding the session id.
const Key = "sazonbot_session_id"

const (
	idPrefix     = "session-"
	suffixLength = 9
	suffixChars  = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// Manager hands out the session id for this install.
// The first successful resolution is cached for the lifetime of the Manager.
type Manager struct {
	store  LocalStore
	logger *slog.Logger
	now    func() time.Time
	suffix func() string

	mu       sync.Mutex
	resolved bool
	id       string
}

// NewManager creates a Manager backed by store. A nil store puts the
// manager in stateless mode where GetOrCreateID always returns "".
func NewManager(store LocalStore, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		store:  store,
		logger: logger.With("component", "session"),
		now:    time.Now,
		suffix: randomSuffix,
	}
}

// GetOrCreateID returns the stored session id, creating and persisting one
// if the store holds none. It returns "" when no usable store is available.
func (m *Manager) GetOrCreateID(ctx context.Context) string {
	if m.store == nil {
		return ""
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.resolved {
		return m.id
	}

	id, err := m.store.Get(ctx, Key)
	switch {
	case err == nil && id != "":
		m.logger.Debug("session id loaded", "session_id", id)
	case err == nil || errors.Is(err, ErrNotFound):
		id = m.newID()
		if err := m.store.Set(ctx, Key, id); err != nil {
			// The id stays stable for this process even if it was not persisted.
			m.logger.Error("failed to persist session id", "error", err, "session_id", id)
		} else {
			m.logger.Info("session id created", "session_id", id)
		}
	default:
		m.logger.Warn("session store unavailable, continuing without session", "error", err)
		return ""
	}

	m.id = id
	m.resolved = true
	return id
}

func (m *Manager) newID() string {
	return fmt.Sprintf("%s%d-%s", idPrefix, m.now().UnixMilli(), m.suffix())
}

// randomSuffix returns suffixLength characters drawn from [0-9a-z].
func randomSuffix() string {
	b := make([]byte, suffixLength)
	for i := range b {
		b[i] = suffixChars[rand.Intn(len(suffixChars))]
	}
	return string(b)
}
