package session

import (
	"os"
	"path/filepath"
)

// Manager fronts the persistent and the process-scoped token stores and the
// remember-me preference that decides where new tokens land. The preference
// itself is persisted separately so it survives the OAuth redirect round-trip.
type Manager struct {
	persistent Store
	transient  Store
	prefPath   string
}

func NewManager(dataDir string) *Manager {
	return &Manager{
		persistent: NewFileStore(dataDir),
		transient:  NewMemStore(),
		prefPath:   filepath.Join(dataDir, "remember"),
	}
}

// NewManagerWithStores wires explicit stores. Used by tests.
func NewManagerWithStores(persistent, transient Store, prefPath string) *Manager {
	return &Manager{persistent: persistent, transient: transient, prefPath: prefPath}
}

// Get returns the current token pair, preferring the process-scoped store.
func (m *Manager) Get() (TokenPair, bool) {
	if pair, ok := m.transient.Get(); ok {
		return pair, true
	}
	return m.persistent.Get()
}

// Set stores the pair in the store selected by remember. The other store is
// cleared so a stale pair can never shadow the fresh one.
func (m *Manager) Set(pair TokenPair, remember bool) error {
	if remember {
		if err := m.transient.Clear(); err != nil {
			return err
		}
		if err := m.persistent.Set(pair); err != nil {
			return err
		}
	} else {
		if err := m.persistent.Clear(); err != nil {
			return err
		}
		if err := m.transient.Set(pair); err != nil {
			return err
		}
	}
	return m.SetRememberPreference(remember)
}

// Update rewrites the pair in whichever store currently holds one, keeping
// the remember-me choice. Used after a token refresh.
func (m *Manager) Update(pair TokenPair) error {
	if _, ok := m.transient.Get(); ok {
		return m.transient.Set(pair)
	}
	if _, ok := m.persistent.Get(); ok {
		return m.persistent.Set(pair)
	}
	return m.Set(pair, m.RememberPreference())
}

// Clear wipes both stores unconditionally. A concurrent process reading the
// persistent store is logged out as a consequence.
func (m *Manager) Clear() error {
	errTransient := m.transient.Clear()
	errPersistent := m.persistent.Clear()
	_ = os.Remove(m.prefPath)
	if errTransient != nil {
		return errTransient
	}
	return errPersistent
}

// SetRememberPreference records the remember-me choice across the OAuth
// redirect, before any token exists.
func (m *Manager) SetRememberPreference(remember bool) error {
	if !remember {
		if err := os.Remove(m.prefPath); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(m.prefPath), 0o700); err != nil {
		return err
	}
	return os.WriteFile(m.prefPath, []byte("1"), 0o600)
}

func (m *Manager) RememberPreference() bool {
	_, err := os.Stat(m.prefPath)
	return err == nil
}
