package app_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dotflow/internal/app"
	"dotflow/internal/domain"
	"dotflow/internal/metrics"
	"dotflow/internal/store"
)

const chainsYAML = `
chains:
  - name: polkadot
    rpc_urls: ["wss://rpc.polkadot.io"]
  - name: moonbeam
    account_type: AccountKey20
    suite: xchacha20-poly1305
`

func TestLoadConfig(t *testing.T) {
	home := t.TempDir()
	cfgPath := filepath.Join(home, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("admin: root\nlog_level: debug\n"), 0o600))
	t.Setenv("DOTFLOW_HOME", home)
	t.Setenv("DOTFLOW_ACCOUNT", "alice")

	cfg, err := app.LoadConfig(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, home, cfg.Home)
	assert.Equal(t, "root", cfg.Admin)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "alice", cfg.Account)
	assert.Equal(t, filepath.Join(home, "ledger.db"), cfg.LedgerPath)
	assert.Equal(t, 40, cfg.RateLimitBurst)

	_, err = app.LoadConfig(viper.New(), filepath.Join(home, "missing.yaml"))
	assert.Error(t, err)
}

func TestWireSeedsChainsAndServesGateway(t *testing.T) {
	ctx := context.Background()
	home := t.TempDir()
	chains := filepath.Join(home, "chains.yaml")
	require.NoError(t, os.WriteFile(chains, []byte(chainsYAML), 0o600))

	w, err := app.NewWire(ctx, app.Config{
		Home:       home,
		LedgerPath: filepath.Join(home, "ledger.db"),
		Passphrase: "correct horse",
		Admin:      "root",
		ChainsFile: chains,
	}, nil, metrics.New())
	require.NoError(t, err)
	defer w.Close()

	all, err := w.Registry.AvailableChains(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, domain.SuiteXChaCha20Poly1305, all[1].Suite)

	ident, err := w.Identity.CreateIdentity(ctx, "alice")
	require.NoError(t, err)
	_, err = w.Identity.RegisterAddress(ctx, "alice", ident.ID, 1, []byte("0xABC"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(home, store.KeyringFilename))
	assert.NoError(t, err, "keys are persisted in the encrypted keyring")

	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	w.Gateway().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/identities/0/records/1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
