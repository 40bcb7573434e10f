package store

import (
	"encoding/json"
	"path/filepath"
	"sync"

	"dotflow/internal/crypto"
	"dotflow/internal/domain"
)

// KeyringFilename is the encrypted keyring file under the owner's home.
const KeyringFilename = "keyring.enc"

// KeyringFileStore persists the owner's chain keys in a passphrase-encrypted
// file. Every mutation rewrites the whole file atomically.
type KeyringFileStore struct {
	path       string
	passphrase string
	kdf        KDFParams

	mu     sync.Mutex
	loaded *keyring
}

// NewKeyringFileStore returns a keyring stored at dir/keyring.enc.
func NewKeyringFileStore(dir, passphrase string) *KeyringFileStore {
	return &KeyringFileStore{
		path:       filepath.Join(dir, KeyringFilename),
		passphrase: passphrase,
		kdf:        DefaultKDFParams(),
	}
}

// WithKDFParams overrides the scrypt cost used for subsequent writes.
func (s *KeyringFileStore) WithKDFParams(kdf KDFParams) *KeyringFileStore {
	s.kdf = kdf
	return s
}

// Path returns the keyring file location.
func (s *KeyringFileStore) Path() string { return s.path }

// state loads and decrypts the keyring once. A missing file is an empty keyring.
func (s *KeyringFileStore) state() (*keyring, error) {
	if s.loaded != nil {
		return s.loaded, nil
	}
	b, err := readFile(s.path)
	if err != nil {
		return nil, err
	}
	kr := newKeyring()
	if b != nil {
		pt, err := openEnvelope(s.passphrase, b)
		if err != nil {
			return nil, err
		}
		err = json.Unmarshal(pt, kr)
		crypto.Wipe(pt)
		if err != nil {
			return nil, err
		}
		if kr.Keys == nil {
			kr.Keys = map[string]domain.ChainKey{}
		}
		if kr.Issued == nil {
			kr.Issued = map[string]domain.KeyVersion{}
		}
	}
	s.loaded = kr
	return kr, nil
}

// flush re-encrypts and writes the keyring. On failure the cached state is
// dropped so the next call reloads what is actually on disk.
func (s *KeyringFileStore) flush(kr *keyring) error {
	raw, err := json.Marshal(kr)
	if err != nil {
		s.loaded = nil
		return err
	}
	defer crypto.Wipe(raw)
	ct, err := sealEnvelope(s.passphrase, raw, s.kdf)
	if err != nil {
		s.loaded = nil
		return err
	}
	if err := writeFile(s.path, ct, 0o600); err != nil {
		s.loaded = nil
		return err
	}
	return nil
}

// SaveChainKey stores key as the current key for (id, key.Chain).
func (s *KeyringFileStore) SaveChainKey(id domain.IdentityID, key domain.ChainKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kr, err := s.state()
	if err != nil {
		return err
	}
	kr.save(id, key)
	return s.flush(kr)
}

// LoadChainKey returns a copy of the current key.
func (s *KeyringFileStore) LoadChainKey(id domain.IdentityID, chain domain.ChainID) (domain.ChainKey, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kr, err := s.state()
	if err != nil {
		return domain.ChainKey{}, false, err
	}
	key, ok := kr.load(id, chain)
	return key, ok, nil
}

// DeleteChainKey destroys the current key. The issued version is kept.
func (s *KeyringFileStore) DeleteChainKey(id domain.IdentityID, chain domain.ChainID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kr, err := s.state()
	if err != nil {
		return false, err
	}
	if !kr.remove(id, chain) {
		return false, nil
	}
	return true, s.flush(kr)
}

// ListChainKeys returns copies of every current key of id ordered by chain.
func (s *KeyringFileStore) ListChainKeys(id domain.IdentityID) ([]domain.ChainKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kr, err := s.state()
	if err != nil {
		return nil, err
	}
	return kr.list(id), nil
}

// LastVersion returns the highest version ever issued for (id, chain).
func (s *KeyringFileStore) LastVersion(id domain.IdentityID, chain domain.ChainID) (domain.KeyVersion, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kr, err := s.state()
	if err != nil {
		return 0, false, err
	}
	v, ok := kr.lastVersion(id, chain)
	return v, ok, nil
}

// Compile-time assertion that KeyringFileStore implements domain.KeyStore.
var _ domain.KeyStore = (*KeyringFileStore)(nil)
