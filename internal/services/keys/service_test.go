package keys_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dotflow/internal/domain"
	"dotflow/internal/services/keys"
	"dotflow/internal/store"
)

func TestGenerateKey(t *testing.T) {
	ks := keys.New(store.NewMemoryKeyring())

	k, err := ks.GenerateKey(1, 2, domain.SuiteXChaCha20Poly1305)
	require.NoError(t, err)
	assert.Equal(t, domain.KeyVersion(0), k.Version)
	assert.Equal(t, domain.SuiteXChaCha20Poly1305, k.Suite)
	assert.Len(t, k.Key, 32)

	_, err = ks.GenerateKey(1, 2, domain.SuiteAES256GCM)
	assert.ErrorIs(t, err, domain.ErrKeyExists)

	_, err = ks.GenerateKey(1, 3, domain.CipherSuite(77))
	assert.Error(t, err)
}

func TestRotateKeyIncrementsVersionAndReplacesKey(t *testing.T) {
	ks := keys.New(store.NewMemoryKeyring())
	first, err := ks.GenerateKey(1, 2, domain.SuiteAES256GCM)
	require.NoError(t, err)

	second, err := ks.RotateKey(1, 2)
	require.NoError(t, err)
	assert.Equal(t, first.Version+1, second.Version)
	assert.NotEqual(t, first.Key, second.Key)
	assert.Equal(t, first.Suite, second.Suite)

	cur, err := ks.CurrentKey(1, 2)
	require.NoError(t, err)
	assert.Equal(t, second, cur)

	_, err = ks.RotateKey(1, 9)
	assert.ErrorIs(t, err, domain.ErrChainNotRegistered)
}

func TestVersionsNeverRepeatAfterRevocation(t *testing.T) {
	ks := keys.New(store.NewMemoryKeyring())
	_, err := ks.GenerateKey(1, 2, domain.SuiteAES256GCM)
	require.NoError(t, err)
	_, err = ks.RotateKey(1, 2)
	require.NoError(t, err)

	require.NoError(t, ks.RevokeKey(1, 2))
	_, err = ks.CurrentKey(1, 2)
	assert.ErrorIs(t, err, domain.ErrChainNotRegistered)
	assert.ErrorIs(t, ks.RevokeKey(1, 2), domain.ErrChainNotRegistered)

	again, err := ks.GenerateKey(1, 2, domain.SuiteAES256GCM)
	require.NoError(t, err)
	assert.Equal(t, domain.KeyVersion(2), again.Version)
}

func TestComposeBundle(t *testing.T) {
	ks := keys.New(store.NewMemoryKeyring())
	for _, c := range []domain.ChainID{1, 2, 3} {
		_, err := ks.GenerateKey(5, c, domain.SuiteAES256GCM)
		require.NoError(t, err)
	}

	b, err := ks.ComposeBundle(5, []domain.ChainID{3, 1, 3})
	require.NoError(t, err)
	assert.Equal(t, domain.IdentityID(5), b.Identity)
	assert.Equal(t, []domain.ChainID{1, 3}, b.Chains())
	_, err = uuid.Parse(b.ID)
	assert.NoError(t, err)

	cur, err := ks.CurrentKey(5, 1)
	require.NoError(t, err)
	assert.Equal(t, cur, b.Keys[1])

	b.Keys[1].Key[0] ^= 0xff
	cur2, err := ks.CurrentKey(5, 1)
	require.NoError(t, err)
	assert.Equal(t, cur.Key, cur2.Key, "bundle keys are copies")

	_, err = ks.ComposeBundle(5, nil)
	assert.ErrorIs(t, err, domain.ErrEmptyDisclosure)
	_, err = ks.ComposeBundle(5, []domain.ChainID{1, 4})
	assert.ErrorIs(t, err, domain.ErrUnknownChain)

	full, err := ks.ComposeFullBundle(5)
	require.NoError(t, err)
	assert.Equal(t, []domain.ChainID{1, 2, 3}, full.Chains())
	assert.NotEqual(t, b.ID, full.ID)
}

func TestRevokeAll(t *testing.T) {
	ks := keys.New(store.NewMemoryKeyring())
	_, err := ks.GenerateKey(5, 1, domain.SuiteAES256GCM)
	require.NoError(t, err)
	_, err = ks.GenerateKey(5, 2, domain.SuiteAES256GCM)
	require.NoError(t, err)

	require.NoError(t, ks.RevokeAll(5))
	full, err := ks.ComposeFullBundle(5)
	require.NoError(t, err)
	assert.Empty(t, full.Keys)
}

func TestRestoreUndoesRotation(t *testing.T) {
	ks := keys.New(store.NewMemoryKeyring())
	first, err := ks.GenerateKey(1, 1, domain.SuiteAES256GCM)
	require.NoError(t, err)
	_, err = ks.RotateKey(1, 1)
	require.NoError(t, err)

	require.NoError(t, ks.Restore(1, first))
	cur, err := ks.CurrentKey(1, 1)
	require.NoError(t, err)
	assert.Equal(t, first, cur)

	next, err := ks.RotateKey(1, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.KeyVersion(2), next.Version, "restored key does not reset the version mark")

	assert.Error(t, ks.Restore(1, domain.ChainKey{Chain: 1, Suite: domain.SuiteAES256GCM, Key: []byte{1}}))
}
