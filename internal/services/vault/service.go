package vault

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"dotflow/internal/crypto"
	"dotflow/internal/domain"
	"dotflow/internal/logging"
	"dotflow/internal/metrics"
)

// ErrEmptyCiphertext is returned when a record without ciphertext is written.
var ErrEmptyCiphertext = errors.New("address record has no ciphertext")

// Service implements domain.Vault.
type Service struct {
	records  domain.RecordStore
	registry domain.Registry
	now      func() time.Time
	log      *zap.Logger
	metrics  *metrics.Metrics
}

// New returns a vault over records, using registry for ownership checks.
func New(
	records domain.RecordStore,
	registry domain.Registry,
	log *zap.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		records:  records,
		registry: registry,
		now:      time.Now,
		log:      logging.OrNop(log).Named("vault"),
		metrics:  m,
	}
}

// WithClock overrides the timestamp source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Put stores rec, replacing any prior record for the same slot. A zero
// UpdatedAt is stamped with the current time.
func (s *Service) Put(ctx context.Context, caller domain.AccountID, rec domain.AddressRecord) (err error) {
	defer func() { s.metrics.Observe("vault_put", err) }()

	if _, err := s.registry.RequireOwner(ctx, rec.Identity, caller); err != nil {
		return err
	}
	if len(rec.Ciphertext) == 0 {
		return ErrEmptyCiphertext
	}
	if !rec.Suite.Valid() {
		return crypto.ErrUnsupportedSuite
	}
	if rec.UpdatedAt == 0 {
		rec.UpdatedAt = s.now().Unix()
	}
	if err := s.records.PutRecord(ctx, rec); err != nil {
		return err
	}
	s.log.Debug("record stored",
		zap.Stringer("identity", rec.Identity),
		zap.Stringer("chain", rec.Chain),
		zap.Uint32("key_version", uint32(rec.KeyVersion)),
		zap.Stringer("fingerprint", crypto.Fingerprint(rec.Ciphertext)),
	)
	return nil
}

// Get returns the record for (id, chain).
func (s *Service) Get(ctx context.Context, id domain.IdentityID, chain domain.ChainID) (domain.AddressRecord, error) {
	rec, ok, err := s.records.LoadRecord(ctx, id, chain)
	if err != nil {
		return domain.AddressRecord{}, err
	}
	if !ok {
		return domain.AddressRecord{}, domain.ErrRecordNotFound
	}
	return rec, nil
}

// Remove hard-deletes the record for (id, chain).
func (s *Service) Remove(
	ctx context.Context,
	caller domain.AccountID,
	id domain.IdentityID,
	chain domain.ChainID,
) (err error) {
	defer func() { s.metrics.Observe("vault_remove", err) }()

	if _, err := s.registry.RequireOwner(ctx, id, caller); err != nil {
		return err
	}
	removed, err := s.records.DeleteRecord(ctx, id, chain)
	if err != nil {
		return err
	}
	if !removed {
		return domain.ErrRecordNotFound
	}
	s.log.Debug("record removed", zap.Stringer("identity", id), zap.Stringer("chain", chain))
	return nil
}

// MarkStale moves the record for (id, chain) to version after its key was
// rotated, so bundles holding the previous key fail with a stale version.
func (s *Service) MarkStale(
	ctx context.Context,
	caller domain.AccountID,
	id domain.IdentityID,
	chain domain.ChainID,
	version domain.KeyVersion,
) (err error) {
	defer func() { s.metrics.Observe("vault_mark_stale", err) }()

	if _, err := s.registry.RequireOwner(ctx, id, caller); err != nil {
		return err
	}
	updated, err := s.records.SetKeyVersion(ctx, id, chain, version, s.now().Unix())
	if err != nil {
		return err
	}
	if !updated {
		return domain.ErrRecordNotFound
	}
	s.log.Debug("record marked stale",
		zap.Stringer("identity", id),
		zap.Stringer("chain", chain),
		zap.Uint32("key_version", uint32(version)),
	)
	return nil
}

// List returns every record of id ordered by chain.
func (s *Service) List(ctx context.Context, id domain.IdentityID) ([]domain.AddressRecord, error) {
	return s.records.ListRecords(ctx, id)
}

// Compile-time assertion that Service implements domain.Vault.
var _ domain.Vault = (*Service)(nil)
