package app

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"dotflow/internal/domain"
	"dotflow/internal/ledger"
	"dotflow/internal/logging"
	"dotflow/internal/metrics"
	"dotflow/internal/services/addressbook"
	"dotflow/internal/services/disclosure"
	"dotflow/internal/services/identity"
	"dotflow/internal/services/keys"
	"dotflow/internal/services/registry"
	"dotflow/internal/services/vault"
	"dotflow/internal/store"
)

// Wire bundles all stores, services and clients for the CLI and gateway.
type Wire struct {
	Config  Config
	Log     *zap.Logger
	Metrics *metrics.Metrics

	Ledger  *store.Ledger
	Keyring domain.KeyStore
	Remote  *ledger.Client

	Registry    *registry.Service
	Vault       *vault.Service
	Keys        *keys.Service
	Disclosure  *disclosure.Service
	AddressBook *addressbook.Service
	Identity    *identity.Service
}

// NewWire constructs the dependency graph from cfg. An empty passphrase
// selects a process-local keyring whose keys are lost on exit.
func NewWire(ctx context.Context, cfg Config, log *zap.Logger, m *metrics.Metrics) (*Wire, error) {
	log = logging.OrNop(log)
	if err := os.MkdirAll(cfg.Home, 0o700); err != nil {
		return nil, fmt.Errorf("create home: %w", err)
	}

	l, err := store.OpenLedger(cfg.LedgerPath)
	if err != nil {
		return nil, err
	}

	var keyring domain.KeyStore
	if cfg.Passphrase != "" {
		keyring = store.NewKeyringFileStore(cfg.Home, cfg.Passphrase)
	} else {
		log.Debug("no passphrase configured; using in-memory keyring")
		keyring = store.NewMemoryKeyring()
	}

	reg := registry.New(l, l, domain.AccountID(cfg.Admin), log, m)
	v := vault.New(l, reg, log, m)
	ks := keys.New(keyring)

	var reader domain.RecordReader = v
	var remote *ledger.Client
	if cfg.VaultURL != "" {
		remote = ledger.NewClient(cfg.VaultURL)
		if cfg.HTTP != nil {
			remote.HTTP = cfg.HTTP
		}
		reader = remote
	}
	disc := disclosure.New(reg, ks, reader, log, m)

	w := &Wire{
		Config:      cfg,
		Log:         log,
		Metrics:     m,
		Ledger:      l,
		Keyring:     keyring,
		Remote:      remote,
		Registry:    reg,
		Vault:       v,
		Keys:        ks,
		Disclosure:  disc,
		AddressBook: addressbook.New(l, reg, log, m),
		Identity:    identity.New(reg, v, ks, disc, log, m),
	}

	if cfg.ChainsFile != "" {
		chains, err := registry.LoadChainsFile(cfg.ChainsFile)
		if err != nil {
			l.Close()
			return nil, fmt.Errorf("load chains: %w", err)
		}
		seeded, err := reg.InitWithChains(ctx, chains)
		if err != nil {
			l.Close()
			return nil, fmt.Errorf("seed chains: %w", err)
		}
		if seeded {
			log.Info("chain registry seeded", zap.Int("chains", len(chains)), zap.String("file", cfg.ChainsFile))
		}
	}
	return w, nil
}

// Close releases the ledger and flushes the logger.
func (w *Wire) Close() error {
	_ = w.Log.Sync()
	return w.Ledger.Close()
}
