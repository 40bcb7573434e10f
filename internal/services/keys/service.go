package keys

import (
	"fmt"

	"github.com/google/uuid"

	"dotflow/internal/crypto"
	"dotflow/internal/domain"
)

// Service implements domain.KeyComposer over a private KeyStore.
type Service struct {
	store domain.KeyStore
}

// New returns a key composer backed by store.
func New(store domain.KeyStore) *Service { return &Service{store: store} }

// nextVersion is one past the highest version ever issued for the pair, or 0.
func (s *Service) nextVersion(id domain.IdentityID, chain domain.ChainID) (domain.KeyVersion, error) {
	last, ok, err := s.store.LastVersion(id, chain)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	return last + 1, nil
}

func (s *Service) issue(
	id domain.IdentityID,
	chain domain.ChainID,
	suite domain.CipherSuite,
	version domain.KeyVersion,
) (domain.ChainKey, error) {
	raw, err := crypto.GenerateKey(suite)
	if err != nil {
		return domain.ChainKey{}, err
	}
	key := domain.ChainKey{Chain: chain, Version: version, Suite: suite, Key: raw}
	if err := s.store.SaveChainKey(id, key); err != nil {
		crypto.Wipe(raw)
		return domain.ChainKey{}, err
	}
	return key, nil
}

// GenerateKey creates the first key for (id, chain).
func (s *Service) GenerateKey(
	id domain.IdentityID,
	chain domain.ChainID,
	suite domain.CipherSuite,
) (domain.ChainKey, error) {
	if !suite.Valid() {
		return domain.ChainKey{}, fmt.Errorf("%w: %s", crypto.ErrUnsupportedSuite, suite)
	}
	if _, ok, err := s.store.LoadChainKey(id, chain); err != nil {
		return domain.ChainKey{}, err
	} else if ok {
		return domain.ChainKey{}, domain.ErrKeyExists
	}
	version, err := s.nextVersion(id, chain)
	if err != nil {
		return domain.ChainKey{}, err
	}
	return s.issue(id, chain, suite, version)
}

// RotateKey replaces the current key with a fresh one at the next version.
// The previous key is destroyed.
func (s *Service) RotateKey(id domain.IdentityID, chain domain.ChainID) (domain.ChainKey, error) {
	cur, err := s.CurrentKey(id, chain)
	if err != nil {
		return domain.ChainKey{}, err
	}
	defer crypto.WipeKey(cur)

	version, err := s.nextVersion(id, chain)
	if err != nil {
		return domain.ChainKey{}, err
	}
	if version <= cur.Version {
		version = cur.Version + 1
	}
	return s.issue(id, chain, cur.Suite, version)
}

// CurrentKey returns a copy of the current key for (id, chain).
func (s *Service) CurrentKey(id domain.IdentityID, chain domain.ChainID) (domain.ChainKey, error) {
	key, ok, err := s.store.LoadChainKey(id, chain)
	if err != nil {
		return domain.ChainKey{}, err
	}
	if !ok {
		return domain.ChainKey{}, domain.ErrChainNotRegistered
	}
	return key, nil
}

// RevokeKey destroys the current key. A later GenerateKey continues at the
// next version.
func (s *Service) RevokeKey(id domain.IdentityID, chain domain.ChainID) error {
	removed, err := s.store.DeleteChainKey(id, chain)
	if err != nil {
		return err
	}
	if !removed {
		return domain.ErrChainNotRegistered
	}
	return nil
}

// Restore reinstates key as the current key for (id, key.Chain). It undoes a
// rotation whose follow-up write failed; the issued version mark is kept.
func (s *Service) Restore(id domain.IdentityID, key domain.ChainKey) error {
	if !key.Suite.Valid() || len(key.Key) != crypto.KeyBytes {
		return fmt.Errorf("%w: %s", crypto.ErrInvalidKey, key.Chain)
	}
	return s.store.SaveChainKey(id, key)
}

// RevokeAll destroys every current key of id.
func (s *Service) RevokeAll(id domain.IdentityID) error {
	keys, err := s.store.ListChainKeys(id)
	if err != nil {
		return err
	}
	for _, k := range keys {
		crypto.WipeKey(k)
		if _, err := s.store.DeleteChainKey(id, k.Chain); err != nil {
			return err
		}
	}
	return nil
}

// ComposeBundle returns a bundle holding exactly the current keys of chains.
func (s *Service) ComposeBundle(
	id domain.IdentityID,
	chains []domain.ChainID,
) (domain.IdentityKeyBundle, error) {
	if len(chains) == 0 {
		return domain.IdentityKeyBundle{}, domain.ErrEmptyDisclosure
	}
	b := newBundle(id)
	for _, c := range chains {
		if _, dup := b.Keys[c]; dup {
			continue
		}
		key, ok, err := s.store.LoadChainKey(id, c)
		if err != nil {
			crypto.WipeBundle(b)
			return domain.IdentityKeyBundle{}, err
		}
		if !ok {
			crypto.WipeBundle(b)
			return domain.IdentityKeyBundle{}, fmt.Errorf("%w: %s", domain.ErrUnknownChain, c)
		}
		b.Keys[c] = key
	}
	return b, nil
}

// ComposeFullBundle returns a bundle holding every current key of id.
func (s *Service) ComposeFullBundle(id domain.IdentityID) (domain.IdentityKeyBundle, error) {
	keys, err := s.store.ListChainKeys(id)
	if err != nil {
		return domain.IdentityKeyBundle{}, err
	}
	b := newBundle(id)
	for _, k := range keys {
		b.Keys[k.Chain] = k
	}
	return b, nil
}

func newBundle(id domain.IdentityID) domain.IdentityKeyBundle {
	return domain.IdentityKeyBundle{
		ID:       uuid.NewString(),
		Identity: id,
		Keys:     map[domain.ChainID]domain.ChainKey{},
	}
}

// Compile-time assertion that Service implements domain.KeyComposer.
var _ domain.KeyComposer = (*Service)(nil)
