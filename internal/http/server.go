// Package http exposes the JSON API: account endpoints, record CRUD
// and the computed dashboard views.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"fintrack/internal/alerts"
	"fintrack/internal/cache"
	"fintrack/internal/finance"
	"fintrack/internal/identity"
	"fintrack/internal/middleware/ratelimit"
	"fintrack/internal/middleware/security"
	"fintrack/internal/middleware/trace"
)

// Options configures the server surface.
type Options struct {
	Addr                   string
	CacheTTL               time.Duration
	CacheSize              int
	SessionTTL             time.Duration
	WriteRequestsPerMinute int
}

func (o *Options) fillDefaults() {
	if o.CacheTTL <= 0 {
		o.CacheTTL = 30 * time.Second
	}
	if o.CacheSize <= 0 {
		o.CacheSize = 1000
	}
	if o.SessionTTL <= 0 {
		o.SessionTTL = 24 * time.Hour
	}
	if o.WriteRequestsPerMinute <= 0 {
		o.WriteRequestsPerMinute = 60
	}
}

type Server struct {
	http.Server

	identity *identity.Service
	finance  *finance.Service
	alerts   *alerts.Evaluator

	sessions *sessionStore

	// views holds marshaled dashboard responses keyed
	// "userID:view:month" so one user's writes evict only their own
	// entries.
	views *cache.LRUCache[[]byte]

	rateLimiter  *ratelimit.Limiter
	shutdownOnce sync.Once
}

// NewServer wires routes and middleware, returning a ready-to-run
// server. Expiring caches are registered with manager when it is
// non-nil.
func NewServer(opts Options, idSvc *identity.Service, finSvc *finance.Service, evaluator *alerts.Evaluator, manager *cache.Manager) *Server {
	opts.fillDefaults()

	mux := http.NewServeMux()

	s := &Server{
		identity: idSvc,
		finance:  finSvc,
		alerts:   evaluator,
		sessions: newSessionStore(opts.SessionTTL),
		views:    cache.NewLRUCache[[]byte](opts.CacheSize, opts.CacheTTL),
		rateLimiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: opts.WriteRequestsPerMinute,
		}),
	}
	if manager != nil {
		manager.Register(s.views)
		manager.Register(s.sessions)
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("POST /api/register", s.handleRegister)
	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.HandleFunc("POST /api/logout", s.handleLogout)
	mux.HandleFunc("GET /api/me", s.requireUser(s.handleMe))
	mux.HandleFunc("GET /api/me/currency", s.requireUser(s.handleGetCurrency))
	mux.HandleFunc("PUT /api/me/currency", s.requireUser(s.handleUpdateCurrency))
	mux.HandleFunc("GET /api/currencies", s.handleCurrencies)

	mux.HandleFunc("GET /api/dashboard", s.requireUser(s.handleDashboard))
	mux.HandleFunc("GET /api/budgets/overview", s.requireUser(s.handleBudgetOverview))
	mux.HandleFunc("GET /api/reports/progress", s.requireUser(s.handleProgressReport))
	mux.HandleFunc("GET /api/savings/goals", s.requireUser(s.handleSavingsView))

	mux.HandleFunc("GET /api/transactions", s.requireUser(s.handleListTransactions))
	mux.HandleFunc("POST /api/transactions", s.requireUser(s.handleAddTransaction))
	mux.HandleFunc("PUT /api/transactions/{id}", s.requireUser(s.handleUpdateTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.requireUser(s.handleDeleteTransaction))

	mux.HandleFunc("GET /api/categories", s.requireUser(s.handleListCategories))
	mux.HandleFunc("POST /api/categories", s.requireUser(s.handleAddCategory))
	mux.HandleFunc("PUT /api/categories/{id}", s.requireUser(s.handleUpdateCategory))
	mux.HandleFunc("DELETE /api/categories/{id}", s.requireUser(s.handleDeleteCategory))

	mux.HandleFunc("GET /api/budgets", s.requireUser(s.handleListBudgets))
	mux.HandleFunc("POST /api/budgets", s.requireUser(s.handleAddBudget))
	mux.HandleFunc("PUT /api/budgets/{id}", s.requireUser(s.handleUpdateBudget))
	mux.HandleFunc("DELETE /api/budgets/{id}", s.requireUser(s.handleDeleteBudget))

	mux.HandleFunc("GET /api/goals", s.requireUser(s.handleListGoals))
	mux.HandleFunc("POST /api/goals", s.requireUser(s.handleAddGoal))
	mux.HandleFunc("PUT /api/goals/{id}", s.requireUser(s.handleUpdateGoal))
	mux.HandleFunc("DELETE /api/goals/{id}", s.requireUser(s.handleDeleteGoal))
	mux.HandleFunc("POST /api/goals/{id}/contribute", s.requireUser(s.handleContribute))

	mux.HandleFunc("GET /api/income-sources", s.requireUser(s.handleListIncomeSources))
	mux.HandleFunc("POST /api/income-sources", s.requireUser(s.handleAddIncomeSource))
	mux.HandleFunc("PUT /api/income-sources/{id}", s.requireUser(s.handleUpdateIncomeSource))
	mux.HandleFunc("DELETE /api/income-sources/{id}", s.requireUser(s.handleDeleteIncomeSource))

	mux.HandleFunc("GET /api/alerts", s.requireUser(s.handleListAlerts))
	mux.HandleFunc("POST /api/alerts/{id}/read", s.requireUser(s.handleReadAlert))
	mux.HandleFunc("DELETE /api/alerts/{id}", s.requireUser(s.handleDismissAlert))

	tracer := trace.NewMiddleware(clientIP)
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	limited := s.limitWrites(mux)

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           tracer.Middleware(headers.Middleware(limited)),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// limitWrites rate limits mutating methods only; dashboard reads are
// already bounded by the view cache.
func (s *Server) limitWrites(next http.Handler) http.Handler {
	limit := s.rateLimiter.Middleware(clientIP, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "60")
		writeJSON(w, http.StatusTooManyRequests, errorBody{Error: "rate limit exceeded"})
	})(next)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead:
			next.ServeHTTP(w, r)
		default:
			limit.ServeHTTP(w, r)
		}
	})
}

// Shutdown stops background goroutines and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
