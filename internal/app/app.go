package app

import (
	"github.com/gin-gonic/gin"

	"dotflow/internal/ledger"
	"dotflow/internal/platform/ratelimiter"
)

// Gateway builds the read-only vault gateway served by vaultd.
func (w *Wire) Gateway() *gin.Engine {
	limiter := ratelimiter.New(w.Config.RateLimitRPS, w.Config.RateLimitBurst, 0)
	backend := ledger.NewBackend(w.Registry, w.Vault, w.Ledger.Ping)
	return ledger.NewRouter(backend, ledger.ServerOptions{
		Log:     w.Log,
		Metrics: w.Metrics,
		Limiter: limiter,
	})
}
