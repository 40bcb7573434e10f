package metrics_test

import (
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dotflow/internal/domain"
	"dotflow/internal/metrics"
)

func TestObserve(t *testing.T) {
	m := metrics.New()
	m.Observe("register_address", nil)
	m.Observe("register_address", fmt.Errorf("put: %w", domain.ErrUnauthorized))
	m.Observe("register_address", errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.OperationCount("register_address", metrics.OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OperationCount("register_address", metrics.OutcomeDenied)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OperationCount("register_address", metrics.OutcomeError)))
}

func TestResolveFailureReasons(t *testing.T) {
	m := metrics.New()
	m.ResolveFailure(domain.ErrKeyVersionStale)
	m.ResolveFailure(domain.ErrDecryptFailure)
	m.ResolveFailure(nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ResolveFailureCount("stale_key")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ResolveFailureCount("decrypt")))
	assert.Equal(t, "not_disclosed", metrics.ResolveReason(domain.ErrChainNotDisclosed))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *metrics.Metrics
	m.Observe("x", nil)
	m.ResolveFailure(domain.ErrDecryptFailure)
	m.HTTPRequest("/", "200")
}

func TestHandlerExposesCounters(t *testing.T) {
	m := metrics.New()
	m.Observe("compose_disclosure", nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `dotflow_operations_total{op="compose_disclosure",outcome="ok"} 1`)
}
