package registry

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"dotflow/internal/domain"
)

// ChainUpdate describes an admin change to a registered chain. Zero fields
// leave the stored value unchanged.
type ChainUpdate struct {
	// RPCURL is appended to the chain's RPC URLs.
	RPCURL      string
	AccountType domain.AccountType
	Suite       domain.CipherSuite
}

func (s *Service) requireAdmin(caller domain.AccountID) error {
	if s.admin == "" || caller != s.admin {
		return domain.ErrUnauthorized
	}
	return nil
}

// normalizeChain fills defaults and checks limits.
func normalizeChain(info domain.ChainInfo) (domain.ChainInfo, error) {
	if info.AccountType == "" {
		info.AccountType = domain.AccountID32
	}
	if !info.AccountType.Valid() {
		return domain.ChainInfo{}, fmt.Errorf("unknown account type %q", info.AccountType)
	}
	if info.Suite == domain.SuiteUnknown {
		info.Suite = domain.DefaultSuite
	}
	if !info.Suite.Valid() {
		return domain.ChainInfo{}, fmt.Errorf("unknown cipher suite %s", info.Suite)
	}
	for _, u := range info.RPCURLs {
		if len(u) > domain.RPCURLLimit {
			return domain.ChainInfo{}, domain.ErrRPCURLTooLong
		}
	}
	return info, nil
}

// AddChain registers a new chain and returns its ID. Admin only.
func (s *Service) AddChain(
	ctx context.Context,
	caller domain.AccountID,
	info domain.ChainInfo,
) (id domain.ChainID, err error) {
	defer func() { s.metrics.Observe("add_chain", err) }()

	if err := s.requireAdmin(caller); err != nil {
		return 0, err
	}
	return s.addChain(ctx, info)
}

func (s *Service) addChain(ctx context.Context, info domain.ChainInfo) (domain.ChainID, error) {
	info, err := normalizeChain(info)
	if err != nil {
		return 0, err
	}
	id, err := s.chains.AddChain(ctx, info)
	if err != nil {
		return 0, err
	}
	s.log.Info("chain added",
		zap.Stringer("chain", id),
		zap.String("account_type", string(info.AccountType)),
		zap.Stringer("suite", info.Suite),
	)
	return id, nil
}

// UpdateChain applies upd to chain id. Admin only.
func (s *Service) UpdateChain(
	ctx context.Context,
	caller domain.AccountID,
	id domain.ChainID,
	upd ChainUpdate,
) (err error) {
	defer func() { s.metrics.Observe("update_chain", err) }()

	if err := s.requireAdmin(caller); err != nil {
		return err
	}
	info, err := s.Chain(ctx, id)
	if err != nil {
		return err
	}
	if upd.RPCURL != "" {
		info.RPCURLs = append(info.RPCURLs, upd.RPCURL)
	}
	if upd.AccountType != "" {
		info.AccountType = upd.AccountType
	}
	if upd.Suite != domain.SuiteUnknown {
		info.Suite = upd.Suite
	}
	info, err = normalizeChain(info)
	if err != nil {
		return err
	}
	ok, err := s.chains.UpdateChain(ctx, info)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrChainNotSupported
	}
	s.log.Info("chain updated", zap.Stringer("chain", id))
	return nil
}

// RemoveChain removes chain id from the registry. Existing address records
// for the chain are left in place. Admin only.
func (s *Service) RemoveChain(ctx context.Context, caller domain.AccountID, id domain.ChainID) (err error) {
	defer func() { s.metrics.Observe("remove_chain", err) }()

	if err := s.requireAdmin(caller); err != nil {
		return err
	}
	ok, err := s.chains.RemoveChain(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrChainNotSupported
	}
	s.log.Info("chain removed", zap.Stringer("chain", id))
	return nil
}

// Chain returns the registered chain info.
func (s *Service) Chain(ctx context.Context, id domain.ChainID) (domain.ChainInfo, error) {
	info, ok, err := s.chains.LoadChain(ctx, id)
	if err != nil {
		return domain.ChainInfo{}, err
	}
	if !ok {
		return domain.ChainInfo{}, domain.ErrChainNotSupported
	}
	return info, nil
}

// AvailableChains lists the registry ordered by chain ID.
func (s *Service) AvailableChains(ctx context.Context) ([]domain.ChainInfo, error) {
	return s.chains.ListChains(ctx)
}

// InitWithChains seeds an empty registry with chains, assigning IDs in
// order. A registry that already holds chains is left unchanged and
// reported as not seeded.
func (s *Service) InitWithChains(ctx context.Context, chains []domain.ChainInfo) (bool, error) {
	existing, err := s.chains.ListChains(ctx)
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		return false, nil
	}
	for i := range chains {
		if _, err := normalizeChain(chains[i]); err != nil {
			return false, fmt.Errorf("chain %d: %w", i, err)
		}
	}
	for _, c := range chains {
		if _, err := s.addChain(ctx, c); err != nil {
			return false, err
		}
	}
	return true, nil
}
