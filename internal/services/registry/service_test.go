package registry_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dotflow/internal/domain"
	"dotflow/internal/services/registry"
	"dotflow/internal/store"
)

const admin = domain.AccountID("admin")

func newRegistry(t *testing.T) *registry.Service {
	t.Helper()
	l, err := store.OpenLedger(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return registry.New(l, l, admin, nil, nil)
}

func TestCreateIdentity_OnePerAccount(t *testing.T) {
	ctx := context.Background()
	reg := newRegistry(t)

	a, err := reg.CreateIdentity(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, domain.IdentityID(0), a.ID)
	assert.Equal(t, domain.AccountID("alice"), a.Owner)

	_, err = reg.CreateIdentity(ctx, "alice")
	assert.ErrorIs(t, err, domain.ErrAlreadyIdentityOwner)

	b, err := reg.CreateIdentity(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, domain.IdentityID(1), b.ID)

	got, err := reg.IdentityOf(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, b, got)

	_, err = reg.Identity(ctx, 77)
	assert.ErrorIs(t, err, domain.ErrIdentityNotFound)
}

func TestRequireOwner(t *testing.T) {
	ctx := context.Background()
	reg := newRegistry(t)
	a, err := reg.CreateIdentity(ctx, "alice")
	require.NoError(t, err)

	_, err = reg.RequireOwner(ctx, a.ID, "alice")
	assert.NoError(t, err)
	_, err = reg.RequireOwner(ctx, a.ID, "mallory")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = reg.RequireOwner(ctx, 5, "alice")
	assert.ErrorIs(t, err, domain.ErrIdentityNotFound)
}

func TestTransferOwnership(t *testing.T) {
	ctx := context.Background()
	reg := newRegistry(t)
	a, err := reg.CreateIdentity(ctx, "alice")
	require.NoError(t, err)
	_, err = reg.CreateIdentity(ctx, "bob")
	require.NoError(t, err)

	assert.ErrorIs(t, reg.TransferOwnership(ctx, "mallory", a.ID, "mallory"), domain.ErrUnauthorized)
	assert.ErrorIs(t, reg.TransferOwnership(ctx, "alice", a.ID, "bob"), domain.ErrAlreadyIdentityOwner)

	require.NoError(t, reg.SetRecoveryAccount(ctx, "alice", "rescue"))
	require.NoError(t, reg.TransferOwnership(ctx, "rescue", a.ID, "alice2"))

	got, err := reg.Identity(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.AccountID("alice2"), got.Owner)
	assert.Equal(t, domain.AccountID("rescue"), got.RecoveryAccount)

	_, err = reg.IdentityOf(ctx, "alice")
	assert.ErrorIs(t, err, domain.ErrIdentityNotFound)
	assert.ErrorIs(t, reg.SetRecoveryAccount(ctx, "alice", "x"), domain.ErrUnauthorized)
}

func TestRemoveIdentity(t *testing.T) {
	ctx := context.Background()
	reg := newRegistry(t)
	a, err := reg.CreateIdentity(ctx, "alice")
	require.NoError(t, err)

	assert.ErrorIs(t, reg.RemoveIdentity(ctx, "bob"), domain.ErrUnauthorized)
	require.NoError(t, reg.RemoveIdentity(ctx, "alice"))
	_, err = reg.Identity(ctx, a.ID)
	assert.ErrorIs(t, err, domain.ErrIdentityNotFound)

	again, err := reg.CreateIdentity(ctx, "alice")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, again.ID)
}

func TestChainAdministration(t *testing.T) {
	ctx := context.Background()
	reg := newRegistry(t)

	_, err := reg.AddChain(ctx, "alice", domain.ChainInfo{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	id, err := reg.AddChain(ctx, admin, domain.ChainInfo{RPCURLs: []string{"wss://rpc.polkadot.io"}})
	require.NoError(t, err)
	info, err := reg.Chain(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.AccountID32, info.AccountType)
	assert.Equal(t, domain.DefaultSuite, info.Suite)

	_, err = reg.AddChain(ctx, admin, domain.ChainInfo{RPCURLs: []string{strings.Repeat("x", 101)}})
	assert.ErrorIs(t, err, domain.ErrRPCURLTooLong)

	require.NoError(t, reg.UpdateChain(ctx, admin, id, registry.ChainUpdate{
		RPCURL:      "wss://polkadot.api.example",
		AccountType: domain.AccountKey20,
		Suite:       domain.SuiteXChaCha20Poly1305,
	}))
	info, err = reg.Chain(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"wss://rpc.polkadot.io", "wss://polkadot.api.example"}, info.RPCURLs)
	assert.Equal(t, domain.AccountKey20, info.AccountType)
	assert.Equal(t, domain.SuiteXChaCha20Poly1305, info.Suite)

	assert.ErrorIs(t, reg.UpdateChain(ctx, admin, id, registry.ChainUpdate{RPCURL: strings.Repeat("y", 101)}),
		domain.ErrRPCURLTooLong)
	assert.ErrorIs(t, reg.UpdateChain(ctx, admin, 9, registry.ChainUpdate{}), domain.ErrChainNotSupported)
	assert.ErrorIs(t, reg.RemoveChain(ctx, "alice", id), domain.ErrUnauthorized)

	require.NoError(t, reg.RemoveChain(ctx, admin, id))
	_, err = reg.Chain(ctx, id)
	assert.ErrorIs(t, err, domain.ErrChainNotSupported)
	assert.ErrorIs(t, reg.RemoveChain(ctx, admin, id), domain.ErrChainNotSupported)
}

const seedYAML = `
chains:
  - name: polkadot
    rpc_urls: ["wss://rpc.polkadot.io"]
    account_type: AccountId32
  - name: moonbeam
    rpc_urls: ["wss://wss.api.moonbeam.network"]
    account_type: AccountKey20
    suite: xchacha20-poly1305
`

func TestInitWithChains(t *testing.T) {
	ctx := context.Background()
	reg := newRegistry(t)

	chains, err := registry.ParseChains(strings.NewReader(seedYAML))
	require.NoError(t, err)
	require.Len(t, chains, 2)

	seeded, err := reg.InitWithChains(ctx, chains)
	require.NoError(t, err)
	assert.True(t, seeded)

	all, err := reg.AvailableChains(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, domain.ChainID(1), all[1].ID)
	assert.Equal(t, domain.AccountKey20, all[1].AccountType)
	assert.Equal(t, domain.SuiteXChaCha20Poly1305, all[1].Suite)
	assert.Equal(t, domain.SuiteAES256GCM, all[0].Suite)

	seeded, err = reg.InitWithChains(ctx, chains)
	require.NoError(t, err)
	assert.False(t, seeded)
}

func TestParseChainsRejectsBadInput(t *testing.T) {
	_, err := registry.ParseChains(strings.NewReader("chains:\n  - suite: rot13\n"))
	assert.Error(t, err)

	_, err = registry.ParseChains(strings.NewReader("chains:\n  - colour: red\n"))
	assert.Error(t, err)

	chains, err := registry.ParseChains(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, chains)
}
