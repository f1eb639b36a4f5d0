package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"myfinance/internal/cache"
	"myfinance/internal/core"
	"myfinance/internal/log"
	"myfinance/internal/services"
)

// ownerTransactions is the cached result of a per-user transaction listing.
type ownerTransactions struct {
	Income  []core.Transaction
	Expense []core.Transaction
}

type Server struct {
	http.Server
	auth         *services.AuthService
	transactions *services.TransactionService
	categories   *services.CategoryService
	rateLimiter  *rateLimiter
	logger       *log.Logger

	// Per-user listing cache backing the dashboard reads. Invalidated on
	// every write for that user.
	txCache *cache.LRU[ownerTransactions]

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, auth *services.AuthService, transactions *services.TransactionService, categories *services.CategoryService) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		auth:             auth,
		transactions:     transactions,
		categories:       categories,
		rateLimiter:      newRateLimiter(),
		logger:           log.New(log.DefaultConfig()).WithComponent(log.ComponentHTTP),
		txCache:          cache.NewLRU[ownerTransactions](200, 5*time.Minute),
		stopCacheCleanup: make(chan struct{}),
	}

	go s.startCacheCleanup()

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("/api/register", s.withSecurityHeaders(s.handleRegister))
	mux.HandleFunc("/api/login", s.withSecurityHeaders(s.handleLogin))
	mux.HandleFunc("/api/logout", s.withSecurityHeaders(s.withSession(s.handleLogout)))
	mux.HandleFunc("/api/me", s.withSecurityHeaders(s.withSession(s.handleMe)))

	mux.HandleFunc("/api/transactions", s.withSecurityHeaders(s.withSession(s.handleTransactions)))
	mux.HandleFunc("/api/categories", s.withSecurityHeaders(s.withSession(s.handleCategories)))

	mux.HandleFunc("/api/dashboard/summary", s.withSecurityHeaders(s.withSession(s.handleDashboardSummary)))
	mux.HandleFunc("/api/dashboard/cashflow", s.withSecurityHeaders(s.withSession(s.handleDashboardCashFlow)))

	return s
}

// startCacheCleanup periodically drops expired listing entries.
func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if cleaned := s.txCache.CleanExpired(); cleaned > 0 {
				slog.Debug("Cache cleanup completed", "entries_removed", cleaned)
			}
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.stopCacheCleanup != nil {
			close(s.stopCacheCleanup)
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withSecurityHeaders adds security headers, rate limiting, and request logging.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := clientIP(r)
		requestID := generateRequestID()

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		s.logger.InfoContext(ctx, "Request started",
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldClientIP, clientIP,
			log.FieldUserAgent, r.Header.Get("User-Agent"))

		// Rate limit mutating requests per client IP.
		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			s.logger.WarnContext(ctx, "Rate limit exceeded",
				log.FieldClientIP, clientIP,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'none'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		s.logger.InfoContext(ctx, "Request completed",
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldStatusCode, rw.statusCode,
			log.FieldDuration, duration.Milliseconds(),
			log.FieldClientIP, clientIP)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) txCacheKey(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

func (s *Server) invalidateTransactions(userID int64) {
	s.txCache.Delete(s.txCacheKey(userID))
}

// getTransactions reads the per-user listing through the cache.
func (s *Server) getTransactions(ctx context.Context, userID int64) (ownerTransactions, error) {
	key := s.txCacheKey(userID)

	if data, found := s.txCache.Get(key); found {
		slog.DebugContext(ctx, "Transaction cache hit", "user_id", userID)
		return data, nil
	}

	income, expense, err := s.transactions.ListByOwner(ctx, userID)
	if err != nil {
		return ownerTransactions{}, err
	}

	data := ownerTransactions{Income: income, Expense: expense}
	s.txCache.Set(key, data)
	return data, nil
}
