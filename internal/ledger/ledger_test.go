package ledger_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dotflow/internal/domain"
	"dotflow/internal/ledger"
	"dotflow/internal/metrics"
	"dotflow/internal/platform/ratelimiter"
	"dotflow/internal/services/disclosure"
	"dotflow/internal/services/identity"
	"dotflow/internal/services/keys"
	"dotflow/internal/services/registry"
	"dotflow/internal/services/vault"
	"dotflow/internal/store"
)

func init() { gin.SetMode(gin.TestMode) }

type fixture struct {
	svc     *identity.Service
	reg     *registry.Service
	keys    *keys.Service
	router  *gin.Engine
	metrics *metrics.Metrics
	id      domain.IdentityID
}

func newFixture(t *testing.T, limiter *ratelimiter.PerClient) *fixture {
	t.Helper()
	ctx := context.Background()
	l, err := store.OpenLedger(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })

	m := metrics.New()
	reg := registry.New(l, l, "admin", nil, m)
	v := vault.New(l, reg, nil, m)
	ks := keys.New(store.NewMemoryKeyring())
	svc := identity.New(reg, v, ks, disclosure.New(reg, ks, v, nil, m), nil, m)

	_, err = reg.AddChain(ctx, "admin", domain.ChainInfo{RPCURLs: []string{"wss://rpc.polkadot.io"}})
	require.NoError(t, err)
	ident, err := reg.CreateIdentity(ctx, "alice")
	require.NoError(t, err)

	router := ledger.NewRouter(ledger.NewBackend(reg, v, l.Ping), ledger.ServerOptions{Metrics: m, Limiter: limiter})
	return &fixture{svc: svc, reg: reg, keys: ks, router: router, metrics: m, id: ident.ID}
}

func (f *fixture) get(path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestRoutes(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.svc.RegisterAddress(context.Background(), "alice", f.id, 0, []byte("0xABC"))
	require.NoError(t, err)

	rec := f.get("/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.get("/v1/chains")
	require.Equal(t, http.StatusOK, rec.Code)
	var chains []domain.ChainInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &chains))
	require.Len(t, chains, 1)

	rec = f.get("/v1/identities/0")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"owner":"alice"`)

	rec = f.get("/v1/identities/0/records")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "0xABC")

	rec = f.get("/v1/identities/9/records/0")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), ledger.CodeIdentityNotFound)

	rec = f.get("/v1/identities/0/records/5")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), ledger.CodeRecordNotFound)

	rec = f.get("/v1/identities/abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.get("/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "dotflow_http_requests_total")
}

func TestRateLimit(t *testing.T) {
	f := newFixture(t, ratelimiter.New(1, 1, time.Minute))
	assert.Equal(t, http.StatusOK, f.get("/healthz").Code)
	rec := f.get("/healthz")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}

func TestClientResolvesThroughGateway(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	srv := httptest.NewServer(f.router)
	defer srv.Close()

	_, err := f.svc.RegisterAddress(ctx, "alice", f.id, 0, []byte("0xABC"))
	require.NoError(t, err)
	b, err := f.svc.ComposeDisclosure(ctx, "alice", f.id, []domain.ChainID{0})
	require.NoError(t, err)

	client := ledger.NewClient(srv.URL + "/")
	remote := disclosure.New(f.reg, f.keys, client, nil, nil)
	got, err := remote.Resolve(ctx, f.id, 0, b)
	require.NoError(t, err)
	assert.Equal(t, "0xABC", string(got))

	recs, err := client.List(ctx, f.id)
	require.NoError(t, err)
	assert.Len(t, recs, 1)

	ident, err := client.Identity(ctx, f.id)
	require.NoError(t, err)
	assert.Equal(t, domain.AccountID("alice"), ident.Owner)

	chains, err := client.Chains(ctx)
	require.NoError(t, err)
	assert.Len(t, chains, 1)

	_, err = client.Get(ctx, f.id, 7)
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
	_, err = client.Identity(ctx, 42)
	assert.ErrorIs(t, err, domain.ErrIdentityNotFound)
}
