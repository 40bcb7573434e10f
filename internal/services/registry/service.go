package registry

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"dotflow/internal/domain"
	"dotflow/internal/logging"
	"dotflow/internal/metrics"
)

// Service implements domain.Registry over the ledger stores.
type Service struct {
	identities domain.IdentityStore
	chains     domain.ChainStore
	admin      domain.AccountID
	log        *zap.Logger
	metrics    *metrics.Metrics
}

// New returns a registry. admin is the only account allowed to change the
// chain registry; an empty admin disables chain administration.
func New(
	identities domain.IdentityStore,
	chains domain.ChainStore,
	admin domain.AccountID,
	log *zap.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		identities: identities,
		chains:     chains,
		admin:      admin,
		log:        logging.OrNop(log).Named("registry"),
		metrics:    m,
	}
}

// CreateIdentity registers a new identity owned by caller.
func (s *Service) CreateIdentity(ctx context.Context, caller domain.AccountID) (ident domain.Identity, err error) {
	defer func() { s.metrics.Observe("create_identity", err) }()

	if _, ok, err := s.identities.IdentityOf(ctx, caller); err != nil {
		return domain.Identity{}, err
	} else if ok {
		return domain.Identity{}, domain.ErrAlreadyIdentityOwner
	}
	ident, err = s.identities.CreateIdentity(ctx, caller)
	if err != nil {
		return domain.Identity{}, err
	}
	s.log.Info("identity created", zap.Stringer("identity", ident.ID), zap.Stringer("owner", ident.Owner))
	return ident, nil
}

// Identity returns the identity with the given ID.
func (s *Service) Identity(ctx context.Context, id domain.IdentityID) (domain.Identity, error) {
	ident, ok, err := s.identities.LoadIdentity(ctx, id)
	if err != nil {
		return domain.Identity{}, err
	}
	if !ok {
		return domain.Identity{}, domain.ErrIdentityNotFound
	}
	return ident, nil
}

// IdentityOf returns the identity owned by account.
func (s *Service) IdentityOf(ctx context.Context, account domain.AccountID) (domain.Identity, error) {
	ident, ok, err := s.identities.IdentityOf(ctx, account)
	if err != nil {
		return domain.Identity{}, err
	}
	if !ok {
		return domain.Identity{}, domain.ErrIdentityNotFound
	}
	return ident, nil
}

// RequireOwner returns the identity if caller owns it.
func (s *Service) RequireOwner(
	ctx context.Context,
	id domain.IdentityID,
	caller domain.AccountID,
) (domain.Identity, error) {
	ident, err := s.Identity(ctx, id)
	if err != nil {
		return domain.Identity{}, err
	}
	if ident.Owner != caller {
		return domain.Identity{}, domain.ErrUnauthorized
	}
	return ident, nil
}

// ownedBy returns the identity owned by caller, or ErrUnauthorized.
func (s *Service) ownedBy(ctx context.Context, caller domain.AccountID) (domain.Identity, error) {
	ident, ok, err := s.identities.IdentityOf(ctx, caller)
	if err != nil {
		return domain.Identity{}, err
	}
	if !ok {
		return domain.Identity{}, fmt.Errorf("%w: account %s owns no identity", domain.ErrUnauthorized, caller)
	}
	return ident, nil
}

// SetRecoveryAccount nominates the account that may transfer the caller's
// identity on their behalf.
func (s *Service) SetRecoveryAccount(ctx context.Context, caller, recovery domain.AccountID) (err error) {
	defer func() { s.metrics.Observe("set_recovery_account", err) }()

	ident, err := s.ownedBy(ctx, caller)
	if err != nil {
		return err
	}
	if err := s.identities.SetRecoveryAccount(ctx, ident.ID, recovery); err != nil {
		return err
	}
	s.log.Info("recovery account set", zap.Stringer("identity", ident.ID))
	return nil
}

// TransferOwnership moves identity id to newOwner. The caller must be the
// current owner or the recovery account, and newOwner must not own an identity.
func (s *Service) TransferOwnership(
	ctx context.Context,
	caller domain.AccountID,
	id domain.IdentityID,
	newOwner domain.AccountID,
) (err error) {
	defer func() { s.metrics.Observe("transfer_ownership", err) }()

	ident, err := s.Identity(ctx, id)
	if err != nil {
		return err
	}
	if caller != ident.Owner && (ident.RecoveryAccount == "" || caller != ident.RecoveryAccount) {
		return domain.ErrUnauthorized
	}
	if _, ok, err := s.identities.IdentityOf(ctx, newOwner); err != nil {
		return err
	} else if ok {
		return domain.ErrAlreadyIdentityOwner
	}
	if err := s.identities.TransferOwnership(ctx, id, newOwner); err != nil {
		return err
	}
	s.log.Info("ownership transferred", zap.Stringer("identity", id), zap.Stringer("owner", newOwner))
	return nil
}

// RemoveIdentity deletes the caller's identity and every address record it owns.
func (s *Service) RemoveIdentity(ctx context.Context, caller domain.AccountID) (err error) {
	defer func() { s.metrics.Observe("remove_identity", err) }()

	ident, err := s.ownedBy(ctx, caller)
	if err != nil {
		return err
	}
	removed, err := s.identities.DeleteIdentity(ctx, ident.ID)
	if err != nil {
		return err
	}
	if !removed {
		return domain.ErrIdentityNotFound
	}
	s.log.Info("identity removed", zap.Stringer("identity", ident.ID))
	return nil
}

// Compile-time assertion that Service implements domain.Registry.
var _ domain.Registry = (*Service)(nil)
