// Package server provides the HTTP REST API boundary for the portfolio
// reviewer: review submission, the follow-up loop, portfolio sync, and
// review history.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/jonathan/portfolio-reviewer/internal/config"
	"github.com/jonathan/portfolio-reviewer/internal/db"
	"github.com/jonathan/portfolio-reviewer/internal/followup"
	"github.com/jonathan/portfolio-reviewer/internal/history"
	"github.com/jonathan/portfolio-reviewer/internal/llm"
	"github.com/jonathan/portfolio-reviewer/internal/portfolio"
	"github.com/jonathan/portfolio-reviewer/internal/review"
)

// Config holds server configuration
type Config struct {
	Port        int
	DatabaseURL string
	APIKey      string
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	db         *db.DB
	logger     *zap.Logger

	reviewer   *review.Reviewer
	syncer     *portfolio.Syncer
	recorder   *history.Recorder
	jwtService *JWTService
	validate   *validator.Validate

	// flight enforces single-flight per identity: a new top-level review
	// (or follow-up re-review) is never issued while a prior one for the
	// same identity is outstanding.
	flight singleflight.Group

	sessionsMu sync.Mutex
	sessions   map[string]*followup.Session
}

// New creates a new server instance
func New(cfg Config, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	database, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	client, err := llm.NewClient(context.Background(), llm.DefaultConfig(), cfg.APIKey)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}

	s := &Server{
		db:         database,
		logger:     logger,
		reviewer:   review.NewReviewer(client, logger),
		syncer:     portfolio.NewSyncer(database, logger),
		recorder:   history.NewRecorder(database, logger),
		jwtService: NewJWTService(jwtConfig),
		validate:   validator.New(),
		sessions:   make(map[string]*followup.Session),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("POST /review", s.withAuth(http.HandlerFunc(s.handleReview)))
	mux.Handle("POST /review/followups/{id}/answer", s.withAuth(http.HandlerFunc(s.handleAnswerFollowUp)))
	mux.Handle("POST /review/followups/{id}/skip", s.withAuth(http.HandlerFunc(s.handleSkipFollowUp)))
	mux.Handle("GET /portfolio", s.withAuth(http.HandlerFunc(s.handleGetPortfolio)))
	mux.Handle("POST /portfolio/sync", s.withAuth(http.HandlerFunc(s.handleSync)))
	mux.Handle("GET /history", s.withAuth(http.HandlerFunc(s.handleListHistory)))
	mux.Handle("DELETE /history", s.withAuth(http.HandlerFunc(s.handleDeleteHistory)))
	mux.Handle("DELETE /history/{id}", s.withAuth(http.HandlerFunc(s.handleDeleteHistory)))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(s.withCORS(mux)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // review round trips can be slow
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Start begins listening for requests and blocks until shutdown
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-stop
	s.logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.db.Close()
	s.logger.Info("server stopped")
	return nil
}

// session returns the follow-up session for an identity, creating it lazily
func (s *Server) session(identity string) *followup.Session {
	s.sessionsMu.Lock()
	defer s.sessionsMu.Unlock()
	session, ok := s.sessions[identity]
	if !ok {
		session = followup.NewSession(s.reviewer, s.logger)
		s.sessions[identity] = session
	}
	return session
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds structured request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(r.Context()); err != nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
