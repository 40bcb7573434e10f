package ledger

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dotflow/internal/domain"
	"dotflow/internal/logging"
	"dotflow/internal/metrics"
	"dotflow/internal/platform/ratelimiter"
)

// Backend is the read side the gateway serves.
type Backend interface {
	Identity(ctx context.Context, id domain.IdentityID) (domain.Identity, error)
	AvailableChains(ctx context.Context) ([]domain.ChainInfo, error)
	Get(ctx context.Context, id domain.IdentityID, chain domain.ChainID) (domain.AddressRecord, error)
	List(ctx context.Context, id domain.IdentityID) ([]domain.AddressRecord, error)
	Ping(ctx context.Context) error
}

// NewBackend combines the registry and vault into a Backend. ping reports
// storage health; nil always reports healthy.
func NewBackend(registry domain.Registry, vault domain.Vault, ping func(context.Context) error) Backend {
	return localBackend{Registry: registry, Vault: vault, ping: ping}
}

type localBackend struct {
	domain.Registry
	domain.Vault
	ping func(context.Context) error
}

func (b localBackend) Ping(ctx context.Context) error {
	if b.ping == nil {
		return nil
	}
	return b.ping(ctx)
}

// ServerOptions configures NewRouter. Zero values disable the matching feature.
type ServerOptions struct {
	Log     *zap.Logger
	Metrics *metrics.Metrics
	Limiter *ratelimiter.PerClient
	Now     func() time.Time
}

type server struct {
	backend Backend
	log     *zap.Logger
	metrics *metrics.Metrics
}

// NewRouter returns the gin engine serving the read-only gateway.
func NewRouter(backend Backend, opts ServerOptions) *gin.Engine {
	s := &server{
		backend: backend,
		log:     logging.OrNop(opts.Log).Named("gateway"),
		metrics: opts.Metrics,
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	r := gin.New()
	r.Use(gin.Recovery(), s.observe(), rateLimit(opts.Limiter, now))

	r.GET("/healthz", s.health)
	if opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}
	v1 := r.Group("/v1")
	v1.GET("/chains", s.chains)
	v1.GET("/identities/:id", s.identity)
	v1.GET("/identities/:id/records", s.records)
	v1.GET("/identities/:id/records/:chain", s.record)
	return r
}

func (s *server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		s.metrics.HTTPRequest(route, strconv.Itoa(c.Writer.Status()))
		s.log.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
}

func rateLimit(l *ratelimiter.PerClient, now func() time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP(), now()) {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorBody{Error: ErrorDetail{
				Code:    CodeRateLimited,
				Message: "request rate limit exceeded",
			}})
			return
		}
		c.Next()
	}
}

func (s *server) fail(c *gin.Context, err error) {
	status, code := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", zap.String("route", c.FullPath()), zap.Error(err))
		msg = "internal error"
	}
	c.JSON(status, ErrorBody{Error: ErrorDetail{Code: code, Message: msg}})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorBody{Error: ErrorDetail{Code: CodeBadRequest, Message: msg}})
}

func parseUint32(c *gin.Context, param string) (uint32, bool) {
	v, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil {
		badRequest(c, "invalid "+param)
		return 0, false
	}
	return uint32(v), true
}

func (s *server) health(c *gin.Context) {
	if err := s.backend.Ping(c.Request.Context()); err != nil {
		s.log.Warn("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *server) chains(c *gin.Context) {
	chains, err := s.backend.AvailableChains(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	if chains == nil {
		chains = []domain.ChainInfo{}
	}
	c.JSON(http.StatusOK, chains)
}

func (s *server) identity(c *gin.Context) {
	id, ok := parseUint32(c, "id")
	if !ok {
		return
	}
	ident, err := s.backend.Identity(c.Request.Context(), domain.IdentityID(id))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ident)
}

func (s *server) records(c *gin.Context) {
	id, ok := parseUint32(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if _, err := s.backend.Identity(ctx, domain.IdentityID(id)); err != nil {
		s.fail(c, err)
		return
	}
	recs, err := s.backend.List(ctx, domain.IdentityID(id))
	if err != nil {
		s.fail(c, err)
		return
	}
	if recs == nil {
		recs = []domain.AddressRecord{}
	}
	c.JSON(http.StatusOK, recs)
}

func (s *server) record(c *gin.Context) {
	id, ok := parseUint32(c, "id")
	if !ok {
		return
	}
	chain, ok := parseUint32(c, "chain")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if _, err := s.backend.Identity(ctx, domain.IdentityID(id)); err != nil {
		s.fail(c, err)
		return
	}
	rec, err := s.backend.Get(ctx, domain.IdentityID(id), domain.ChainID(chain))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}
