package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"ledgerdash/actions"
	"ledgerdash/auth"
	"ledgerdash/dashboard"
	"ledgerdash/query"
	"ledgerdash/seed"
	"ledgerdash/storage"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}

// fetchError writes the user-facing message of a data-layer failure.
func fetchError(w http.ResponseWriter, err error) {
	if errors.Is(err, query.ErrStoreUnavailable) {
		writeJSON(w, http.StatusServiceUnavailable, errorBody(err.Error()))
		return
	}
	writeJSON(w, http.StatusInternalServerError, errorBody(err.Error()))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds auth.Credentials
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("Invalid credentials."))
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("Invalid credentials."))
			return
		}
		creds = auth.Credentials{Email: r.PostForm.Get("email"), Password: r.PostForm.Get("password")}
	}

	user, err := s.auth.Authorize(r.Context(), creds)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("Something went wrong."))
		return
	}
	if user == nil {
		writeJSON(w, http.StatusUnauthorized, errorBody("Invalid credentials."))
		return
	}
	if s.sessions == nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("Something went wrong."))
		return
	}

	sess, err := s.sessions.Create(r.Context(), user.ID)
	if err != nil {
		s.logger.Error("session create failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("Something went wrong."))
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]any{"user": user, "redirect": auth.DashboardPath})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if sess, ok := sessionFrom(r.Context()); ok {
		if err := s.sessions.Delete(r.Context(), sess.Token); err != nil {
			s.logger.Error("session delete failed", "error", err)
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
	})
	writeJSON(w, http.StatusOK, map[string]string{"redirect": auth.LoginPath})
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	var (
		cards   dashboard.CardData
		revenue []dashboard.Revenue
		latest  []dashboard.LatestInvoice
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) { cards, err = s.data.FetchCardData(ctx); return })
	g.Go(func() (err error) { revenue, err = s.data.FetchRevenue(ctx); return })
	g.Go(func() (err error) { latest, err = s.data.FetchLatestInvoices(ctx); return })
	if err := g.Wait(); err != nil {
		fetchError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"cards":          cards,
		"revenue":        revenue,
		"latestInvoices": latest,
	})
}

func (s *Server) handleInvoices(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("query")
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	var (
		invoices []dashboard.InvoiceRow
		pages    int
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) { invoices, err = s.data.FetchFilteredInvoices(ctx, q, page); return })
	g.Go(func() (err error) { pages, err = s.data.FetchInvoicesPages(ctx, q); return })
	if err := g.Wait(); err != nil {
		fetchError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"invoices":    invoices,
		"currentPage": page,
		"totalPages":  pages,
	})
}

func (s *Server) handleInvoice(w http.ResponseWriter, r *http.Request) {
	var (
		invoice   *dashboard.InvoiceForm
		customers []dashboard.CustomerField
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) { invoice, err = s.data.FetchInvoiceByID(ctx, r.PathValue("id")); return })
	g.Go(func() (err error) { customers, err = s.data.FetchCustomers(ctx); return })
	if err := g.Wait(); err != nil {
		if errors.Is(err, dashboard.ErrInvoiceNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("Invoice not found."))
			return
		}
		fetchError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"invoice": invoice, "customers": customers})
}

func writeState(w http.ResponseWriter, st actions.State, okStatus int) {
	switch {
	case st.OK():
		writeJSON(w, okStatus, st)
	case len(st.Errors) > 0:
		writeJSON(w, http.StatusUnprocessableEntity, st)
	default:
		writeJSON(w, http.StatusInternalServerError, st)
	}
}

func (s *Server) handleCreateInvoice(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("Malformed form."))
		return
	}
	writeState(w, s.actions.CreateInvoice(r.Context(), r.PostForm), http.StatusCreated)
}

func (s *Server) handleUpdateInvoice(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("Malformed form."))
		return
	}
	writeState(w, s.actions.UpdateInvoice(r.Context(), r.PathValue("id"), r.PostForm), http.StatusOK)
}

func (s *Server) handleDeleteInvoice(w http.ResponseWriter, r *http.Request) {
	writeState(w, s.actions.DeleteInvoice(r.Context(), r.PathValue("id")), http.StatusOK)
}

func (s *Server) handleCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := s.data.FetchFilteredCustomers(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		fetchError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"customers": customers})
}

func (s *Server) handleSeed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	c, err := query.FromContext(ctx, query.WithSourceDialect(storage.Postgres), query.WithLogger(s.logger))
	if err == nil {
		var d *seed.Data
		if d, err = seed.Placeholder(); err == nil {
			err = seed.Seed(ctx, c, d, seed.Options{Cost: s.seedCost})
		}
	}
	if err != nil {
		s.logger.Error("Seed error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Database seeded successfully"})
}
