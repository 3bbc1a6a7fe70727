package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"flarecover/internal/config"
	"flarecover/internal/domain"
	"flarecover/internal/infra/aviation"
	"flarecover/internal/infra/cachemem"
	cryptoinfra "flarecover/internal/infra/crypto"
	"flarecover/internal/infra/db"
	"flarecover/internal/infra/pricing"
	"flarecover/internal/infra/ratelimit"
	"flarecover/internal/logging"
	"flarecover/internal/usecase"
)

type Server struct {
	cfg    config.Config
	store  *db.Store
	r      *gin.Engine
	logger *slog.Logger

	issueUC  *usecase.QuoteIssuer
	verifyUC *usecase.PayoutVerifier
	signer   *cryptoinfra.Signer
	audit    *usecase.AuditEmitter

	rateLimiter         domain.RateLimiter
	rateLimitRequests   int
	rateLimitWindow     time.Duration
	rateLimitFailClosed bool

	initErr error
}

func NewServer(cfg config.Config, store *db.Store) *Server {
	r := gin.New()
	r.Use(gin.Recovery())

	s := &Server{cfg: cfg, store: store, r: r}
	s.initDeps()
	s.routes()
	return s
}

type ServerDeps struct {
	Issue       *usecase.QuoteIssuer
	Verify      *usecase.PayoutVerifier
	Signer      *cryptoinfra.Signer
	Audit       *usecase.AuditEmitter
	RateLimiter domain.RateLimiter
	Logger      *slog.Logger
}

func NewServerWithDeps(cfg config.Config, deps ServerDeps) *Server {
	r := gin.New()
	r.Use(gin.Recovery())

	s := &Server{
		cfg:      cfg,
		r:        r,
		logger:   deps.Logger,
		issueUC:  deps.Issue,
		verifyUC: deps.Verify,
		signer:   deps.Signer,
		audit:    deps.Audit,
	}
	if s.logger == nil {
		s.logger = logging.New(cfg.LogLevel)
	}
	if s.signer == nil && s.issueUC != nil {
		s.signer = s.issueUC.Signer
	}
	s.initRateLimit(deps.RateLimiter)
	s.routes()
	return s
}

func (s *Server) initDeps() {
	s.logger = logging.New(s.cfg.LogLevel)

	signer, err := cryptoinfra.NewSigner(s.cfg.PrivateKey, domain.SigningDomain{
		Name:    s.cfg.DomainName,
		Version: s.cfg.DomainVersion,
		ChainID: s.cfg.ChainID,
	})
	if err != nil {
		s.initErr = err
		return
	}
	s.signer = signer

	var analyzer domain.RiskAnalyzer = &pricing.MockAnalyzer{}
	if s.cfg.PricingMode == "llm" && s.cfg.OpenAIKey != "" {
		analyzer = &pricing.LLMAnalyzer{
			APIKey:   s.cfg.OpenAIKey,
			Model:    s.cfg.OpenAIModel,
			Fallback: &pricing.MockAnalyzer{},
			Logger:   s.logger,
		}
	}

	provider := &aviation.Client{
		APIKey:   s.cfg.AviationAPIKey,
		BaseURL:  s.cfg.AviationBaseURL,
		Fallback: &aviation.Mock{},
		Logger:   s.logger,
	}

	s.issueUC = &usecase.QuoteIssuer{
		Pricing: analyzer,
		Signer:  signer,
	}
	s.verifyUC = &usecase.PayoutVerifier{
		Status:   provider,
		Cache:    cachemem.New(),
		Engine:   &usecase.PayoutEngine{},
		CacheTTL: s.cfg.StatusCacheTTL(),
	}

	if s.store != nil && s.store.DB != nil {
		s.audit = usecase.NewAuditEmitter(db.NewAuditEventRepository(s.store.DB), nil)
	}

	s.initRateLimit(nil)
}

func (s *Server) initRateLimit(override domain.RateLimiter) {
	if override != nil {
		s.rateLimiter = override
	}
	if s.rateLimiter == nil && s.cfg.RateLimitRequests > 0 {
		if s.cfg.RedisAddr != "" {
			if limiter, err := ratelimit.NewRedisLimiter(s.cfg.RedisAddr, s.cfg.RedisPassword, s.cfg.RedisDB, nil); err == nil {
				s.rateLimiter = limiter
			}
		}
		if s.rateLimiter == nil {
			s.rateLimiter = ratelimit.NewMemoryLimiter(ratelimit.MemoryLimiterConfig{
				MaxKeys: s.cfg.RateLimitMaxKeys,
			})
		}
	}
	s.rateLimitRequests = s.cfg.RateLimitRequests
	if s.cfg.RateLimitWindowSeconds > 0 {
		s.rateLimitWindow = time.Duration(s.cfg.RateLimitWindowSeconds) * time.Second
	}
	s.rateLimitFailClosed = s.cfg.RateLimitFailClosed
}

func (s *Server) routes() {
	s.r.Use(corsMiddleware())

	s.r.GET("/healthz", func(c *gin.Context) {
		dbMode := "no-db"
		if s.store != nil && s.store.DB != nil {
			dbMode = "db"
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "mode": dbMode})
	})

	v1 := s.r.Group("/v1")
	{
		v1.POST("/quotes", s.handleIssueQuote)
		v1.GET("/signer-address", s.handleSignerAddress)
	}

	s.r.NoRoute(s.handleNoRoute)
}

// handleNoRoute dispatches colon-suffixed action routes that gin's tree
// cannot express directly.
func (s *Server) handleNoRoute(c *gin.Context) {
	if c.Request.Method == http.MethodPost && c.Request.URL.Path == "/v1/payouts:verify" {
		s.handleVerifyPayout(c)
		return
	}
	writeErrorCode(c, http.StatusNotFound, "NOT_FOUND", "route not found")
}

func (s *Server) Run() error {
	if s.initErr != nil {
		return s.initErr
	}
	s.logger.Info("starting quote service",
		"addr", s.cfg.HTTPAddr,
		"signer_address", s.signer.SignerAddress(),
		"chain_id", s.cfg.ChainID,
		"pricing_mode", s.cfg.PricingMode,
	)
	return s.r.Run(s.cfg.HTTPAddr)
}
