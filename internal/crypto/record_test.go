package crypto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dotflow/internal/crypto"
	"dotflow/internal/domain"
)

func newChainKey(t *testing.T, chain domain.ChainID, version domain.KeyVersion) domain.ChainKey {
	t.Helper()
	k, err := crypto.GenerateKey(domain.SuiteAES256GCM)
	require.NoError(t, err)
	return domain.ChainKey{Chain: chain, Version: version, Suite: domain.SuiteAES256GCM, Key: k}
}

func TestSealOpenAddress(t *testing.T) {
	key := newChainKey(t, 4, 2)
	rec, err := crypto.SealAddress(9, key, []byte("0xDEF"))
	require.NoError(t, err)
	assert.Equal(t, domain.IdentityID(9), rec.Identity)
	assert.Equal(t, domain.ChainID(4), rec.Chain)
	assert.Equal(t, domain.KeyVersion(2), rec.KeyVersion)

	pt, err := crypto.OpenAddress(rec, key)
	require.NoError(t, err)
	assert.Equal(t, "0xDEF", string(pt))
}

func TestOpenAddressRejectsMismatch(t *testing.T) {
	key := newChainKey(t, 4, 2)
	rec, err := crypto.SealAddress(9, key, []byte("0xDEF"))
	require.NoError(t, err)

	stale := key
	stale.Version = 1
	_, err = crypto.OpenAddress(rec, stale)
	assert.ErrorIs(t, err, domain.ErrKeyVersionStale)

	other := key
	other.Chain = 5
	_, err = crypto.OpenAddress(rec, other)
	assert.ErrorIs(t, err, domain.ErrChainNotDisclosed)

	moved := rec
	moved.Identity = 10
	_, err = crypto.OpenAddress(moved, key)
	assert.ErrorIs(t, err, domain.ErrDecryptFailure)

	_, err = crypto.OpenAddress(rec, newChainKey(t, 4, 2))
	assert.ErrorIs(t, err, domain.ErrDecryptFailure)
}
