package store_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dotflow/internal/domain"
	"dotflow/internal/store"
)

var lightKDF = store.KDFParams{N: 1 << 10, R: 8, P: 1}

func keyringStores(t *testing.T) map[string]domain.KeyStore {
	return map[string]domain.KeyStore{
		"file":   store.NewKeyringFileStore(t.TempDir(), "pass").WithKDFParams(lightKDF),
		"memory": store.NewMemoryKeyring(),
	}
}

func TestKeyring_SaveLoadRevoke(t *testing.T) {
	for name, ks := range keyringStores(t) {
		t.Run(name, func(t *testing.T) {
			key := domain.ChainKey{Chain: 2, Version: 0, Suite: domain.SuiteAES256GCM, Key: []byte{1, 2, 3}}
			require.NoError(t, ks.SaveChainKey(7, key))

			got, ok, err := ks.LoadChainKey(7, 2)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, key, got)

			got.Key[0] = 99
			again, _, err := ks.LoadChainKey(7, 2)
			require.NoError(t, err)
			assert.Equal(t, byte(1), again.Key[0], "loaded keys must be copies")

			key.Version, key.Key = 1, []byte{4, 5, 6}
			require.NoError(t, ks.SaveChainKey(7, key))
			require.NoError(t, ks.SaveChainKey(7, domain.ChainKey{Chain: 1, Suite: domain.SuiteAES256GCM, Key: []byte{9}}))
			require.NoError(t, ks.SaveChainKey(8, domain.ChainKey{Chain: 1, Suite: domain.SuiteAES256GCM, Key: []byte{8}}))

			keys, err := ks.ListChainKeys(7)
			require.NoError(t, err)
			require.Len(t, keys, 2)
			assert.Equal(t, domain.ChainID(1), keys[0].Chain)
			assert.Equal(t, domain.KeyVersion(1), keys[1].Version)

			removed, err := ks.DeleteChainKey(7, 2)
			require.NoError(t, err)
			assert.True(t, removed)
			_, ok, err = ks.LoadChainKey(7, 2)
			require.NoError(t, err)
			assert.False(t, ok)

			v, ok, err := ks.LastVersion(7, 2)
			require.NoError(t, err)
			require.True(t, ok, "issued version survives revocation")
			assert.Equal(t, domain.KeyVersion(1), v)

			_, ok, err = ks.LastVersion(7, 3)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestKeyringFile_PersistsEncrypted(t *testing.T) {
	dir := t.TempDir()
	ks := store.NewKeyringFileStore(dir, "correct").WithKDFParams(lightKDF)
	secret := []byte("super-secret-key-material-000000")
	require.NoError(t, ks.SaveChainKey(1, domain.ChainKey{Chain: 1, Suite: domain.SuiteAES256GCM, Key: secret}))

	raw, err := os.ReadFile(filepath.Join(dir, store.KeyringFilename))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), string(secret))

	info, err := os.Stat(ks.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	reopened := store.NewKeyringFileStore(dir, "correct")
	got, ok, err := reopened.LoadChainKey(1, 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, secret, got.Key)

	wrong := store.NewKeyringFileStore(dir, "wrong")
	_, _, err = wrong.LoadChainKey(1, 1)
	assert.ErrorIs(t, err, store.ErrWrongPassphrase)
}

func TestKeyringFile_FailedWriteKeepsDiskState(t *testing.T) {
	dir := t.TempDir()
	ks := store.NewKeyringFileStore(dir, "pass").WithKDFParams(lightKDF)
	require.NoError(t, ks.SaveChainKey(1, domain.ChainKey{Chain: 1, Suite: domain.SuiteAES256GCM, Key: []byte{1}}))

	// An invalid scrypt cost makes the next write fail after the state was mutated.
	ks.WithKDFParams(store.KDFParams{N: 3, R: 8, P: 1})
	err := ks.SaveChainKey(1, domain.ChainKey{Chain: 2, Suite: domain.SuiteAES256GCM, Key: []byte{2}})
	require.Error(t, err)

	_, ok, err := ks.LoadChainKey(1, 2)
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = ks.LoadChainKey(1, 1)
	require.NoError(t, err)
	assert.True(t, ok)
}
