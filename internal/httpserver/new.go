package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"gh-telegram-relay/internal/middleware"
	"gh-telegram-relay/pkg/log"
)

// HTTPServer holds all dependencies for the HTTP server.
type HTTPServer struct {
	// Server
	gin         *gin.Engine
	l           log.Logger
	port        int
	mode        string
	environment string
	ruleCount   int

	// Ingress
	gitWebhookHandler interface {
		HandleGitHubWebhook(c *gin.Context)
	}

	// Observability
	metrics interface {
		Middleware() gin.HandlerFunc
		Handler() http.Handler
	}
	middleware middleware.Middleware
}

// Config is the dependency bag passed to New().
type Config struct {
	Logger      log.Logger
	Port        int
	Mode        string
	Environment string
	RuleCount   int // Routing rules loaded, reported by /ready

	GitWebhookHandler interface {
		HandleGitHubWebhook(c *gin.Context)
	}

	Metrics interface {
		Middleware() gin.HandlerFunc
		Handler() http.Handler
	}
}

// New creates a new HTTPServer instance with its routes registered.
func New(logger log.Logger, cfg Config) (*HTTPServer, error) {
	gin.SetMode(cfg.Mode)

	srv := &HTTPServer{
		l:                 logger,
		gin:               gin.New(),
		port:              cfg.Port,
		mode:              cfg.Mode,
		environment:       cfg.Environment,
		ruleCount:         cfg.RuleCount,
		gitWebhookHandler: cfg.GitWebhookHandler,
		metrics:           cfg.Metrics,
		middleware:        middleware.New(logger),
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}

	if err := srv.mapHandlers(); err != nil {
		return nil, err
	}

	return srv, nil
}

func (srv HTTPServer) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.mode == "" {
		return errors.New("mode is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	if srv.gitWebhookHandler == nil {
		return errors.New("github webhook handler is required")
	}
	return nil
}

// Handler exposes the router, mainly for tests.
func (srv *HTTPServer) Handler() http.Handler {
	return srv.gin
}
