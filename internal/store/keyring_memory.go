package store

import (
	"github.com/sasha-s/go-deadlock"

	"dotflow/internal/domain"
)

// MemoryKeyring is a process-local KeyStore. It is used by tests and by
// callers that only need keys for the lifetime of one command.
type MemoryKeyring struct {
	mu deadlock.RWMutex
	kr *keyring
}

// NewMemoryKeyring returns an empty in-memory keyring.
func NewMemoryKeyring() *MemoryKeyring {
	return &MemoryKeyring{kr: newKeyring()}
}

func (m *MemoryKeyring) SaveChainKey(id domain.IdentityID, key domain.ChainKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.kr.save(id, key)
	return nil
}

func (m *MemoryKeyring) LoadChainKey(id domain.IdentityID, chain domain.ChainID) (domain.ChainKey, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	key, ok := m.kr.load(id, chain)
	return key, ok, nil
}

func (m *MemoryKeyring) DeleteChainKey(id domain.IdentityID, chain domain.ChainID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.kr.remove(id, chain), nil
}

func (m *MemoryKeyring) ListChainKeys(id domain.IdentityID) ([]domain.ChainKey, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.kr.list(id), nil
}

func (m *MemoryKeyring) LastVersion(id domain.IdentityID, chain domain.ChainID) (domain.KeyVersion, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.kr.lastVersion(id, chain)
	return v, ok, nil
}

var _ domain.KeyStore = (*MemoryKeyring)(nil)
