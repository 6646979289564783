package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/mediawatch/internal/db"
	"github.com/jonathan/mediawatch/internal/notify"
	"github.com/jonathan/mediawatch/internal/research"
	"github.com/jonathan/mediawatch/internal/server/ratelimit"
)

// Dispatcher routes a pending submission to the generation pipeline.
type Dispatcher interface {
	Dispatch(ctx context.Context, submissionID uuid.UUID) error
}

// LetterService sends a generated complaint letter.
type LetterService interface {
	SendLetter(ctx context.Context, resultID uuid.UUID, destination string) (*db.GeneratedResult, error)
}

// OutletResearcher resolves complaint contact details for an outlet.
type OutletResearcher interface {
	Research(ctx context.Context, outlet *db.Outlet) (*research.Findings, error)
}

// QueueProbe reports whether the queue broker is reachable right now.
type QueueProbe interface {
	Healthy(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	db          *db.DB
	dispatcher  Dispatcher
	letters     LetterService
	researcher  OutletResearcher
	queue       QueueProbe
	notifier    notify.Notifier
	rateLimiter *ratelimit.Limiter
	validate    *validator.Validate
	logger      *zap.Logger
}

// Config holds server configuration
type Config struct {
	Port string
}

// Deps holds the collaborators the server routes requests to.
type Deps struct {
	DB         *db.DB
	Dispatcher Dispatcher
	Letters    LetterService
	Researcher OutletResearcher
	Queue      QueueProbe
	Notifier   notify.Notifier
	Logger     *zap.Logger
}

// New creates a new server instance
func New(cfg Config, deps Deps) *Server {
	if deps.Notifier == nil {
		deps.Notifier = notify.NopNotifier{}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	s := &Server{
		db:          deps.DB,
		dispatcher:  deps.Dispatcher,
		letters:     deps.Letters,
		researcher:  deps.Researcher,
		queue:       deps.Queue,
		notifier:    deps.Notifier,
		rateLimiter: ratelimit.NewLimiter(ratelimit.LoadConfig()),
		validate:    validator.New(),
		logger:      deps.Logger,
	}

	mux := http.NewServeMux()

	// Submission pipeline endpoints
	mux.HandleFunc("POST /submissions", s.handleCreateSubmission)
	mux.HandleFunc("GET /submissions", s.handleListSubmissions)
	mux.HandleFunc("GET /submissions/{id}", s.handleGetSubmission)
	mux.HandleFunc("POST /submissions/{id}/regenerate", s.handleRegenerate)
	mux.HandleFunc("POST /submissions/{id}/send", s.handleSendLetter)

	// Outlet catalog endpoints
	mux.HandleFunc("GET /outlets", s.handleListOutlets)
	mux.HandleFunc("POST /outlets", s.handleCreateOutlet)
	mux.HandleFunc("GET /outlets/{id}", s.handleGetOutlet)
	mux.HandleFunc("POST /outlets/{id}/research", s.handleResearchOutlet)

	// User stats endpoint
	mux.HandleFunc("GET /users/{id}/stats", s.handleGetUserStats)

	mux.HandleFunc("GET /health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // inline generation fallback can be slow
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	s.logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}

	s.logger.Info("server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)
		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)

		if info.Limit > 0 {
			w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
			w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
			w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
		}

		if !allowed {
			if info.RetryAfter > 0 {
				w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
			}
			s.jsonResponse(w, http.StatusTooManyRequests, map[string]any{
				"error":   "rate_limit_exceeded",
				"message": "Rate limit exceeded. Please try again later.",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote", r.RemoteAddr),
			zap.Duration("duration", time.Since(start)))
	})
}

// handleHealth returns server health status. A down database degrades the
// service; a down queue broker does not, because dispatch falls back to
// inline processing.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	dbStatus := "ok"
	if s.db != nil {
		if err := s.db.Ping(r.Context()); err != nil {
			status = "degraded"
			dbStatus = "unreachable"
			code = http.StatusServiceUnavailable
		}
	}

	queueStatus := "not configured"
	if s.queue != nil {
		queueStatus = "ok"
		if err := s.queue.Healthy(r.Context()); err != nil {
			queueStatus = "unreachable"
		}
	}

	s.jsonResponse(w, code, map[string]string{
		"status":   status,
		"database": dbStatus,
		"queue":    queueStatus,
	})
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

// extractClientID extracts the client identifier (IP address) from the request.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
