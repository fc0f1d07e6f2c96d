// Package server exposes the dashboard over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"ledgerdash/actions"
	"ledgerdash/auth"
	"ledgerdash/dashboard"
	"ledgerdash/logging"
	"ledgerdash/storage"
)

// SessionCookie names the cookie carrying the session token.
const SessionCookie = "ledgerdash_session"

type Config struct {
	// Store is attached to every request as its environment binding.
	Store    storage.Store
	Sessions auth.SessionStore
	// ItemsPerPage sizes the invoices table; zero uses the dashboard default.
	ItemsPerPage int
	Logger       *slog.Logger
	// SeedCost overrides the bcrypt cost used by POST /seed.
	SeedCost int
}

type Server struct {
	store    storage.Store
	sessions auth.SessionStore
	auth     *auth.Authenticator
	policy   auth.Policy
	data     *dashboard.Data
	actions  *actions.Actions
	seedCost int
	logger   *slog.Logger
	handler  http.Handler
}

func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Logger()
	}
	s := &Server{
		store:    cfg.Store,
		sessions: cfg.Sessions,
		auth:     &auth.Authenticator{Logger: logger},
		data:     &dashboard.Data{PageSize: cfg.ItemsPerPage, Logger: logger},
		actions:  &actions.Actions{Logger: logger},
		seedCost: cfg.SeedCost,
		logger:   logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("POST /logout", s.handleLogout)
	mux.HandleFunc("GET /dashboard", s.handleOverview)
	mux.HandleFunc("GET /dashboard/invoices", s.handleInvoices)
	mux.HandleFunc("GET /dashboard/invoices/{id}", s.handleInvoice)
	mux.HandleFunc("POST /dashboard/invoices", s.handleCreateInvoice)
	mux.HandleFunc("PUT /dashboard/invoices/{id}", s.handleUpdateInvoice)
	mux.HandleFunc("DELETE /dashboard/invoices/{id}", s.handleDeleteInvoice)
	mux.HandleFunc("GET /dashboard/customers", s.handleCustomers)
	mux.HandleFunc("POST /seed", s.handleSeed)

	s.handler = s.logRequests(s.withStore(s.authorize(mux)))
	return s
}

func (s *Server) Handler() http.Handler { return s.handler }

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
