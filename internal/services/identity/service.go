package identity

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"dotflow/internal/crypto"
	"dotflow/internal/domain"
	"dotflow/internal/logging"
	"dotflow/internal/metrics"
)

// ErrEmptyAddress is returned when registering an empty plaintext address.
var ErrEmptyAddress = errors.New("address is empty")

// KeyManager is the key composer plus the compensation hooks used to undo a
// key change when the matching vault write fails.
type KeyManager interface {
	domain.KeyComposer
	Restore(id domain.IdentityID, key domain.ChainKey) error
	RevokeAll(id domain.IdentityID) error
}

// Service implements domain.IdentityService.
type Service struct {
	registry   domain.Registry
	vault      domain.Vault
	keys       KeyManager
	disclosure domain.DisclosureService
	log        *zap.Logger
	metrics    *metrics.Metrics
}

// New wires the operation surface.
func New(
	registry domain.Registry,
	vault domain.Vault,
	keys KeyManager,
	disclosure domain.DisclosureService,
	log *zap.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		registry:   registry,
		vault:      vault,
		keys:       keys,
		disclosure: disclosure,
		log:        logging.OrNop(log).Named("identity"),
		metrics:    m,
	}
}

// CreateIdentity registers a new identity owned by caller.
func (s *Service) CreateIdentity(ctx context.Context, caller domain.AccountID) (domain.Identity, error) {
	return s.registry.CreateIdentity(ctx, caller)
}

// RemoveIdentity deletes the caller's identity with all its records and
// destroys its keys. The keys are revoked first and put back if the ledger
// delete fails.
func (s *Service) RemoveIdentity(ctx context.Context, caller domain.AccountID) (err error) {
	ident, err := s.registry.IdentityOf(ctx, caller)
	if errors.Is(err, domain.ErrIdentityNotFound) {
		return fmt.Errorf("%w: account %s owns no identity", domain.ErrUnauthorized, caller)
	}
	if err != nil {
		return err
	}
	held, err := s.keys.ComposeFullBundle(ident.ID)
	if err != nil {
		return err
	}
	defer crypto.WipeBundle(held)

	if err := s.keys.RevokeAll(ident.ID); err != nil {
		s.restoreAll(ident.ID, held)
		return err
	}
	if err := s.registry.RemoveIdentity(ctx, caller); err != nil {
		s.restoreAll(ident.ID, held)
		return err
	}
	return nil
}

func (s *Service) restoreAll(id domain.IdentityID, held domain.IdentityKeyBundle) {
	for _, key := range held.Keys {
		if err := s.keys.Restore(id, key); err != nil {
			s.log.Error("restore revoked key", zap.Error(err),
				zap.Stringer("identity", id), zap.Stringer("chain", key.Chain))
		}
	}
}

// RegisterAddress encrypts address under the chain's current key, creating
// the key on first use, and stores the record, replacing any previous one.
func (s *Service) RegisterAddress(
	ctx context.Context,
	caller domain.AccountID,
	id domain.IdentityID,
	chain domain.ChainID,
	address []byte,
) (rec domain.AddressRecord, err error) {
	defer func() { s.metrics.Observe("register_address", err) }()

	switch {
	case len(address) == 0:
		return domain.AddressRecord{}, ErrEmptyAddress
	case len(address) > domain.AddressSizeLimit:
		return domain.AddressRecord{}, domain.ErrAddressSizeExceeded
	}
	if _, err := s.registry.RequireOwner(ctx, id, caller); err != nil {
		return domain.AddressRecord{}, err
	}
	info, err := s.registry.Chain(ctx, chain)
	if err != nil {
		return domain.AddressRecord{}, err
	}

	created := false
	key, err := s.keys.CurrentKey(id, chain)
	if errors.Is(err, domain.ErrChainNotRegistered) {
		key, err = s.keys.GenerateKey(id, chain, info.Suite)
		created = true
	}
	if err != nil {
		return domain.AddressRecord{}, err
	}
	defer crypto.WipeKey(key)

	rec, err = crypto.SealAddress(id, key, address)
	if err == nil {
		err = s.vault.Put(ctx, caller, rec)
	}
	if err != nil {
		if created {
			if rerr := s.keys.RevokeKey(id, chain); rerr != nil {
				s.log.Error("revoke unused key", zap.Error(rerr),
					zap.Stringer("identity", id), zap.Stringer("chain", chain))
			}
		}
		return domain.AddressRecord{}, err
	}

	stored, err := s.vault.Get(ctx, id, chain)
	if err != nil {
		return domain.AddressRecord{}, err
	}
	s.log.Info("address registered",
		zap.Stringer("identity", id),
		zap.Stringer("chain", chain),
		zap.Uint32("key_version", uint32(key.Version)),
		zap.Bool("new_key", created),
		zap.Stringer("fingerprint", crypto.Fingerprint(stored.Ciphertext)),
	)
	return stored, nil
}

// RotateChainKey replaces the chain key and moves the stored record to the
// new version, so bundles handed out earlier fail as stale. The address stays
// unreadable until it is registered again. If the record cannot be updated
// the previous key is restored.
func (s *Service) RotateChainKey(
	ctx context.Context,
	caller domain.AccountID,
	id domain.IdentityID,
	chain domain.ChainID,
) (version domain.KeyVersion, err error) {
	defer func() { s.metrics.Observe("rotate_chain_key", err) }()

	if _, err := s.registry.RequireOwner(ctx, id, caller); err != nil {
		return 0, err
	}
	prev, err := s.keys.CurrentKey(id, chain)
	if err != nil {
		return 0, err
	}
	defer crypto.WipeKey(prev)

	key, err := s.keys.RotateKey(id, chain)
	if err != nil {
		return 0, err
	}
	crypto.WipeKey(key)

	err = s.vault.MarkStale(ctx, caller, id, chain, key.Version)
	if err != nil && !errors.Is(err, domain.ErrRecordNotFound) {
		if rerr := s.keys.Restore(id, prev); rerr != nil {
			s.log.Error("restore previous key", zap.Error(rerr),
				zap.Stringer("identity", id), zap.Stringer("chain", chain))
		}
		return 0, err
	}
	s.log.Info("chain key rotated",
		zap.Stringer("identity", id),
		zap.Stringer("chain", chain),
		zap.Uint32("key_version", uint32(key.Version)),
	)
	return key.Version, nil
}

// RefreshAddress rotates the chain key and re-encrypts the stored address
// under the new key in one step. If the vault write fails the previous key
// is restored.
func (s *Service) RefreshAddress(
	ctx context.Context,
	caller domain.AccountID,
	id domain.IdentityID,
	chain domain.ChainID,
) (rec domain.AddressRecord, err error) {
	defer func() { s.metrics.Observe("refresh_address", err) }()

	if _, err := s.registry.RequireOwner(ctx, id, caller); err != nil {
		return domain.AddressRecord{}, err
	}
	prev, err := s.keys.CurrentKey(id, chain)
	if err != nil {
		return domain.AddressRecord{}, err
	}
	defer crypto.WipeKey(prev)

	old, err := s.vault.Get(ctx, id, chain)
	if err != nil {
		return domain.AddressRecord{}, err
	}
	plaintext, err := crypto.OpenAddress(old, prev)
	if err != nil {
		return domain.AddressRecord{}, err
	}
	defer crypto.Wipe(plaintext)

	next, err := s.keys.RotateKey(id, chain)
	if err != nil {
		return domain.AddressRecord{}, err
	}
	defer crypto.WipeKey(next)

	rec, err = crypto.SealAddress(id, next, plaintext)
	if err == nil {
		err = s.vault.Put(ctx, caller, rec)
	}
	if err != nil {
		if rerr := s.keys.Restore(id, prev); rerr != nil {
			s.log.Error("restore previous key", zap.Error(rerr),
				zap.Stringer("identity", id), zap.Stringer("chain", chain))
		}
		return domain.AddressRecord{}, err
	}

	s.log.Info("address refreshed",
		zap.Stringer("identity", id),
		zap.Stringer("chain", chain),
		zap.Uint32("key_version", uint32(next.Version)),
	)
	return s.vault.Get(ctx, id, chain)
}

// RemoveAddress revokes the chain key and deletes the record. The key is put
// back if the delete fails. Registering the chain again starts a new key at
// the next version.
func (s *Service) RemoveAddress(
	ctx context.Context,
	caller domain.AccountID,
	id domain.IdentityID,
	chain domain.ChainID,
) (err error) {
	defer func() { s.metrics.Observe("remove_address", err) }()

	if _, err := s.registry.RequireOwner(ctx, id, caller); err != nil {
		return err
	}
	prev, err := s.keys.CurrentKey(id, chain)
	hasKey := err == nil
	if err != nil && !errors.Is(err, domain.ErrChainNotRegistered) {
		return err
	}
	if hasKey {
		defer crypto.WipeKey(prev)
		if err := s.keys.RevokeKey(id, chain); err != nil {
			return err
		}
	}
	if err := s.vault.Remove(ctx, caller, id, chain); err != nil {
		if hasKey {
			if rerr := s.keys.Restore(id, prev); rerr != nil {
				s.log.Error("restore revoked key", zap.Error(rerr),
					zap.Stringer("identity", id), zap.Stringer("chain", chain))
			}
		}
		return err
	}
	s.log.Info("address removed", zap.Stringer("identity", id), zap.Stringer("chain", chain))
	return nil
}

// GetAddress returns the public ciphertext record.
func (s *Service) GetAddress(
	ctx context.Context,
	id domain.IdentityID,
	chain domain.ChainID,
) (domain.AddressRecord, error) {
	if _, err := s.registry.Identity(ctx, id); err != nil {
		return domain.AddressRecord{}, err
	}
	return s.vault.Get(ctx, id, chain)
}

// ListAddresses returns every public record of id.
func (s *Service) ListAddresses(ctx context.Context, id domain.IdentityID) ([]domain.AddressRecord, error) {
	if _, err := s.registry.Identity(ctx, id); err != nil {
		return nil, err
	}
	return s.vault.List(ctx, id)
}

// ComposeDisclosure returns a bundle for exactly chains.
func (s *Service) ComposeDisclosure(
	ctx context.Context,
	caller domain.AccountID,
	id domain.IdentityID,
	chains []domain.ChainID,
) (domain.IdentityKeyBundle, error) {
	return s.disclosure.Compose(ctx, caller, id, chains)
}

// ResolveAddress decrypts the address of id on chain with bundle.
func (s *Service) ResolveAddress(
	ctx context.Context,
	id domain.IdentityID,
	chain domain.ChainID,
	bundle domain.IdentityKeyBundle,
) ([]byte, error) {
	return s.disclosure.Resolve(ctx, id, chain, bundle)
}

// Compile-time assertion that Service implements domain.IdentityService.
var _ domain.IdentityService = (*Service)(nil)
