package disclosure

import (
	"context"

	"go.uber.org/zap"

	"dotflow/internal/crypto"
	"dotflow/internal/domain"
	"dotflow/internal/logging"
	"dotflow/internal/metrics"
)

// Service implements domain.DisclosureService.
type Service struct {
	registry domain.Registry
	keys     domain.KeyComposer
	records  domain.RecordReader
	log      *zap.Logger
	metrics  *metrics.Metrics
}

// New returns a disclosure service. records may be the local vault or a
// remote ledger client.
func New(
	registry domain.Registry,
	keys domain.KeyComposer,
	records domain.RecordReader,
	log *zap.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		registry: registry,
		keys:     keys,
		records:  records,
		log:      logging.OrNop(log).Named("disclosure"),
		metrics:  m,
	}
}

// Compose returns a bundle with the current keys of exactly chains. Only the
// identity owner may compose.
func (s *Service) Compose(
	ctx context.Context,
	caller domain.AccountID,
	id domain.IdentityID,
	chains []domain.ChainID,
) (b domain.IdentityKeyBundle, err error) {
	defer func() { s.metrics.Observe("compose_disclosure", err) }()

	if _, err := s.registry.RequireOwner(ctx, id, caller); err != nil {
		return domain.IdentityKeyBundle{}, err
	}
	b, err = s.keys.ComposeBundle(id, chains)
	if err != nil {
		return domain.IdentityKeyBundle{}, err
	}
	s.log.Info("disclosure composed",
		zap.Stringer("identity", id),
		zap.String("bundle", b.ID),
		zap.Int("chains", len(b.Keys)),
	)
	return b, nil
}

// Resolve decrypts the address of id on chain using bundle.
func (s *Service) Resolve(
	ctx context.Context,
	id domain.IdentityID,
	chain domain.ChainID,
	bundle domain.IdentityKeyBundle,
) (plaintext []byte, err error) {
	defer func() {
		s.metrics.Observe("resolve_address", err)
		if err != nil {
			s.metrics.ResolveFailure(err)
			s.log.Debug("resolve failed",
				zap.Stringer("identity", id),
				zap.Stringer("chain", chain),
				zap.String("reason", metrics.ResolveReason(err)),
			)
		}
	}()

	if bundle.Identity != id {
		return nil, domain.ErrChainNotDisclosed
	}
	key, ok := bundle.Keys[chain]
	if !ok {
		return nil, domain.ErrChainNotDisclosed
	}
	rec, err := s.records.Get(ctx, id, chain)
	if err != nil {
		return nil, err
	}
	return crypto.OpenAddress(rec, key)
}

// Compile-time assertion that Service implements domain.DisclosureService.
var _ domain.DisclosureService = (*Service)(nil)
