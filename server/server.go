// Package server provides the operator HTTP API: status, statistics, credential health,
// limited keyword editing and on-demand fetch and send.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/umputun/regwatch/pkg/domain"
	"github.com/umputun/regwatch/pkg/scheduler"
)

//go:generate moq -out mocks/config.go -pkg mocks -skip-ensure -fmt goimports . ConfigProvider
//go:generate moq -out mocks/store.go -pkg mocks -skip-ensure -fmt goimports . Store
//go:generate moq -out mocks/runner.go -pkg mocks -skip-ensure -fmt goimports . Runner
//go:generate moq -out mocks/sender.go -pkg mocks -skip-ensure -fmt goimports . Sender
//go:generate moq -out mocks/keywords.go -pkg mocks -skip-ensure -fmt goimports . Keywords
//go:generate moq -out mocks/credentials.go -pkg mocks -skip-ensure -fmt goimports . Credentials
//go:generate moq -out mocks/keyword_store.go -pkg mocks -skip-ensure -fmt goimports . KeywordStore

// Server represents HTTP server instance
type Server struct {
	config  ConfigProvider
	deps    Deps
	version string
	debug   bool

	lock       sync.Mutex
	httpServer *http.Server
	baseCtx    context.Context // parent of background fetch cycles
	router     *routegroup.Bundle
}

// Store provides read access to stored articles
type Store interface {
	Statistics(ctx context.Context) (domain.Stats, error)
	QueryUnsent(ctx context.Context) ([]domain.Article, error)
}

// Runner runs fetch cycles on demand
type Runner interface {
	RunCycle(ctx context.Context) (domain.RunSummary, error)
	Running() bool
	State() scheduler.State
	LastSummary() *domain.RunSummary
}

// Sender sends pending articles immediately
type Sender interface {
	SendNow(ctx context.Context, label string) (int, error)
}

// Keywords gives access to keyword lists and limited keyword usage of the current cycle
type Keywords interface {
	Keywords() (regular, limited []string)
	AddLimited(keyword string) bool
	RemoveLimited(keyword string) bool
	Usage() map[string]int
	Cap() int
}

// Credentials reports search API credential health
type Credentials interface {
	Status() []domain.CredentialStatus
}

// KeywordStore persists operator edits of the limited keyword list
type KeywordStore interface {
	SetLimitedKeywords(ctx context.Context, keywords []string) error
}

// ConfigProvider provides server configuration
type ConfigProvider interface {
	GetServerConfig() (listen string, timeout time.Duration)
}

// Deps defines server dependencies. Sender, Credentials and KeywordStore are optional.
type Deps struct {
	Store        Store
	Runner       Runner
	Keywords     Keywords
	Sender       Sender
	Credentials  Credentials
	KeywordStore KeywordStore
}

// New initializes a new server instance
func New(cfg ConfigProvider, deps Deps, version string, debug bool) *Server {
	s := &Server{
		config:  cfg,
		deps:    deps,
		version: version,
		debug:   debug,
		baseCtx: context.Background(),
		router:  routegroup.New(http.NewServeMux()),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	listen, timeout := s.config.GetServerConfig()
	log.Printf("[INFO] starting server on %s", listen)

	s.lock.Lock()
	s.baseCtx = ctx
	s.httpServer = &http.Server{
		Addr:              listen,
		Handler:           s.router,
		ReadHeaderTimeout: timeout,
		ReadTimeout:       timeout,
		WriteTimeout:      timeout,
	}
	srv := s.httpServer
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		log.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("regwatch", "umputun", s.version))
	s.router.Use(rest.Ping)

	if s.debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(64 * 1024))
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /status", s.statusHandler)
		r.HandleFunc("GET /stats", s.statsHandler)
		r.HandleFunc("GET /unsent", s.unsentHandler)
		r.HandleFunc("GET /credentials", s.credentialsHandler)

		r.HandleFunc("GET /keywords", s.keywordsHandler)
		r.HandleFunc("POST /keywords/limited", s.addLimitedHandler)
		r.HandleFunc("DELETE /keywords/limited/{keyword}", s.removeLimitedHandler)

		r.HandleFunc("POST /fetch", s.fetchHandler)
		r.HandleFunc("GET /run/last", s.lastRunHandler)
		r.HandleFunc("POST /send", s.sendHandler)
	})
}

func (s *Server) backgroundCtx() context.Context {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.baseCtx
}
