package server

import (
	"context"
	"net/http"
	"time"

	"ledgerdash/auth"
	"ledgerdash/query"
)

type sessionKey struct{}

func sessionFrom(ctx context.Context) (auth.Session, bool) {
	sess, ok := ctx.Value(sessionKey{}).(auth.Session)
	return sess, ok
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

// withStore binds the server's store to the request environment.
func (s *Server) withStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.store != nil {
			r = r.WithContext(query.SetEnvironment(r.Context(), query.Environment{DB: s.store}))
		}
		next.ServeHTTP(w, r)
	})
}

// authorize loads the session from its cookie and applies the policy.
func (s *Server) authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		loggedIn := false
		if c, err := r.Cookie(SessionCookie); err == nil && s.sessions != nil {
			sess, ok, err := s.sessions.Get(ctx, c.Value)
			if err != nil {
				s.logger.Error("session lookup failed", "error", err)
				writeJSON(w, http.StatusInternalServerError, errorBody("Something went wrong."))
				return
			}
			if ok {
				loggedIn = true
				ctx = context.WithValue(ctx, sessionKey{}, sess)
			}
		}

		dec := s.policy.Authorized(r.URL.Path, loggedIn)
		if !dec.Allow {
			http.Redirect(w, r, dec.Redirect, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
