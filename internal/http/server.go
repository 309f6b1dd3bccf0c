// Package http exposes the ledger, analytics, rates and assistant over a
// JSON API. Responses that are expensive or hit external services go
// through small TTL caches that mutations invalidate.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"finnova/internal/analytics"
	"finnova/internal/assistant"
	"finnova/internal/cache"
	"finnova/internal/ledger"
	"finnova/internal/log"
	"finnova/internal/rates"
)

type Server struct {
	http.Server
	ledger    *ledger.Store
	rates     *rates.Client
	assistant *assistant.Client

	rateLimiter *rateLimiter

	dailyCache      *cache.Cache[[]analytics.DayAmount]
	categoriesCache *cache.Cache[[]analytics.CategoryAmount]
	ratesCache      *cache.Cache[rates.Table]

	stopJanitors context.CancelFunc
	shutdownOnce sync.Once
}

type Options struct {
	Addr         string
	AnalyticsTTL time.Duration
	RatesTTL     time.Duration
	Logger       *log.Logger
}

// NewServer configures routes, middleware and caches, returning a
// ready-to-run server.
func NewServer(opts Options, store *ledger.Store, ratesClient *rates.Client, assist *assistant.Client) *Server {
	if opts.AnalyticsTTL <= 0 {
		opts.AnalyticsTTL = 30 * time.Second
	}
	if opts.RatesTTL <= 0 {
		opts.RatesTTL = time.Minute
	}
	if opts.Logger == nil {
		opts.Logger = log.New(log.DefaultConfig())
	}
	logger := opts.Logger.WithComponent(log.ComponentHTTP)

	mux := http.NewServeMux()
	janitorCtx, stopJanitors := context.WithCancel(context.Background())

	s := &Server{
		Server: http.Server{
			Addr:    opts.Addr,
			Handler: log.Middleware(logger)(mux),
		},
		ledger:          store,
		rates:           ratesClient,
		assistant:       assist,
		rateLimiter:     newRateLimiter(),
		dailyCache:      cache.New[[]analytics.DayAmount](16, opts.AnalyticsTTL),
		categoriesCache: cache.New[[]analytics.CategoryAmount](16, opts.AnalyticsTTL),
		ratesCache:      cache.New[rates.Table](4, opts.RatesTTL),
		stopJanitors:    stopJanitors,
	}

	go s.dailyCache.Janitor(janitorCtx, 10*time.Minute)
	go s.categoriesCache.Janitor(janitorCtx, 10*time.Minute)
	go s.ratesCache.Janitor(janitorCtx, 10*time.Minute)

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	mux.HandleFunc("/api/session", s.withMiddleware(s.handleSession))
	mux.HandleFunc("/api/profile", s.withMiddleware(s.handleProfile))
	mux.HandleFunc("/api/transactions", s.withMiddleware(s.handleTransactions))
	mux.HandleFunc("/api/card", s.withMiddleware(s.handleCard))
	mux.HandleFunc("/api/card/freeze", s.withMiddleware(s.handleCardFreeze))
	mux.HandleFunc("/api/deposit", s.withMiddleware(s.handleDeposit))
	mux.HandleFunc("/api/transfer", s.withMiddleware(s.handleTransfer))
	mux.HandleFunc("/api/pix", s.withMiddleware(s.handlePix))
	mux.HandleFunc("/api/analytics/daily", s.withMiddleware(s.handleAnalyticsDaily))
	mux.HandleFunc("/api/analytics/categories", s.withMiddleware(s.handleAnalyticsCategories))
	mux.HandleFunc("/api/rates", s.withMiddleware(s.handleRates))
	mux.HandleFunc("/api/assistant", s.withMiddleware(s.handleAssistant))

	return s
}

// withMiddleware adds request ids, security headers, rate limiting on
// mutations and request logging.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := uuid.NewString()
		ctx := log.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)
		logger := log.FromContext(ctx)

		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP) {
			logger.WarnContext(ctx, "Rate limit exceeded",
				log.FieldClientIP, clientIP,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Cache-Control", "no-store")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		logger.InfoContext(ctx, "Request completed",
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldStatusCode, rw.statusCode,
			log.FieldDuration, time.Since(start).Milliseconds(),
			log.FieldClientIP, clientIP)
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// invalidateAnalytics drops derived views after a ledger mutation so the
// next read recomputes from the new transaction list.
func (s *Server) invalidateAnalytics() {
	s.dailyCache.Purge()
	s.categoriesCache.Purge()
}

// Shutdown stops the janitors, the rate limiter and the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.stopJanitors()
		s.rateLimiter.stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if _, err := s.ledger.Profile(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "ledger not ready")
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// Simple in-memory per-IP rate limiter: 60 requests per minute.
type rateLimiter struct {
	mu           sync.Mutex
	clients      map[string]*clientWindow
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type clientWindow struct {
	windowStart time.Time
	requests    int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		clients:     make(map[string]*clientWindow),
		stopCleanup: make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, ok := rl.clients[clientIP]
	if !ok || now.Sub(client.windowStart) > time.Minute {
		rl.clients[clientIP] = &clientWindow{windowStart: now, requests: 1}
		return true
	}
	client.requests++
	return client.requests <= 60
}

func (rl *rateLimiter) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.mu.Lock()
			cutoff := time.Now().Add(-10 * time.Minute)
			for ip, client := range rl.clients {
				if client.windowStart.Before(cutoff) {
					delete(rl.clients, ip)
				}
			}
			rl.mu.Unlock()
		case <-rl.stopCleanup:
			return
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		close(rl.stopCleanup)
	})
}
