package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"financas/internal/core"
	applog "financas/internal/log"
	"financas/internal/report"
	"financas/internal/services"
)

// Reader is the read-only storage surface the HTTP handlers need. Mutations
// go through the transaction service so cache invalidation and report sync
// happen in one place.
type Reader interface {
	report.Store
	GetTransaction(ctx context.Context, id string) (core.Transaction, error)
}

type Server struct {
	httpServer   *http.Server
	reports      *report.Service
	svc          *services.TransactionService
	reader       Reader
	rateLimiter  *rateLimiter
	detector     *detector
	now          func() time.Time
	shutdownOnce sync.Once
}

func NewServer(port string, reports *report.Service, svc *services.TransactionService, reader Reader) *Server {
	s := &Server{
		reports:     reports,
		svc:         svc,
		reader:      reader,
		rateLimiter: newRateLimiter(60, time.Minute),
		detector:    &detector{},
		now:         time.Now,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/summary", s.secure(s.handleSummary))
	mux.HandleFunc("GET /api/report", s.secure(s.handleReport))
	mux.HandleFunc("GET /api/trend", s.secure(s.handleTrend))

	mux.HandleFunc("GET /api/transactions", s.secure(s.handleListTransactions))
	mux.HandleFunc("POST /api/transactions", s.secure(s.handleCreateTransaction))
	mux.HandleFunc("GET /api/transactions/{id}", s.secure(s.handleGetTransaction))
	mux.HandleFunc("PUT /api/transactions/{id}", s.secure(s.handleUpdateTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.secure(s.handleDeleteTransaction))
	mux.HandleFunc("POST /api/transactions/{id}/pay", s.secure(s.handlePayTransaction))
	mux.HandleFunc("DELETE /api/recurring/{groupID}", s.secure(s.handleDeleteRecurringChain))

	mux.HandleFunc("GET /api/salaries", s.secure(s.handleListSalaries))
	mux.HandleFunc("POST /api/salaries", s.secure(s.handleCreateSalary))
	mux.HandleFunc("PUT /api/salaries/{id}", s.secure(s.handleUpdateSalary))
	mux.HandleFunc("DELETE /api/salaries/{id}", s.secure(s.handleDeleteSalary))
	mux.HandleFunc("GET /api/salaries/adjustments", s.secure(s.handleListSalaryAdjustments))
	mux.HandleFunc("PUT /api/salaries/{id}/adjustments", s.secure(s.handleSetSalaryAdjustment))
	mux.HandleFunc("DELETE /api/salaries/{id}/adjustments", s.secure(s.handleRemoveSalaryAdjustment))

	mux.HandleFunc("GET /api/cards", s.secure(s.handleListCards))
	mux.HandleFunc("POST /api/cards", s.secure(s.handleCreateCard))
	mux.HandleFunc("PUT /api/cards/{id}", s.secure(s.handleUpdateCard))
	mux.HandleFunc("DELETE /api/cards/{id}", s.secure(s.handleDeleteCard))

	s.httpServer = &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return s
}

func (s *Server) Start() error {
	slog.Info("http server starting", applog.FieldComponent, applog.ComponentHTTP, "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		slog.Info("http server shutting down", applog.FieldComponent, applog.ComponentHTTP)
		s.rateLimiter.stop()
		err = s.httpServer.Shutdown(ctx)
	})
	return err
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "ok")
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "ready")
}

// secure wraps a handler with request identification, rate limiting on
// mutations, security headers and request logging.
func (s *Server) secure(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := generateRequestID()
		clientIP := extractClientIP(r)

		ctx := applog.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		if s.detector.isSuspicious(r) {
			slog.WarnContext(ctx, "suspicious request detected",
				applog.FieldComponent, applog.ComponentSecurity,
				applog.FieldClientIP, clientIP,
				applog.FieldMethod, r.Method,
				applog.FieldPath, r.URL.Path,
				"total_flagged", s.detector.suspiciousCount())
		}

		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "rate limit exceeded",
				applog.FieldComponent, applog.ComponentRateLimit,
				applog.FieldClientIP, clientIP,
				applog.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(ctx, w, http.StatusTooManyRequests, "too many requests", nil)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("X-Request-ID", requestID)

		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "request complete",
			applog.FieldComponent, applog.ComponentHTTP,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldStatusCode, rw.status,
			applog.FieldDuration, time.Since(start).Milliseconds())
	}
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(status int) {
	rw.status = status
	rw.ResponseWriter.WriteHeader(status)
}

func generateRequestID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(b)
}

func extractClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if idx := strings.Index(fwd, ","); idx > 0 {
			return strings.TrimSpace(fwd[:idx])
		}
		return strings.TrimSpace(fwd)
	}
	if real := r.Header.Get("X-Real-IP"); real != "" {
		return real
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
