package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/clubdesk/internal/access"
	"github.com/mauv0809/clubdesk/internal/club"
	"github.com/mauv0809/clubdesk/internal/http/handlers"
	"github.com/mauv0809/clubdesk/internal/session"
)

// Middleware defines the standard signature for an HTTP middleware.
type Middleware func(http.Handler) http.Handler

// Chain combines multiple middlewares into a single handler.
// The middlewares are applied in the order they are passed.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// paramsMiddleware handles common query parameters like 'verbose' and 'dry_run'.
func paramsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Info("incoming request", "method", r.Method, "url", r.URL.String())
		// Handle 'verbose' for request-scoped verbose logging.
		if r.URL.Query().Get("verbose") == "true" {
			originalLevel := log.GetLevel()
			log.SetLevel(log.DebugLevel)
			defer log.SetLevel(originalLevel)
		}

		isDryRun := r.URL.Query().Get("dry_run") == "true"
		ctx := context.WithValue(r.Context(), handlers.DryRunKey, isDryRun)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

const maxWebhookBody = 1 << 20

// limitBody caps the body of requests posted by outside systems.
func limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxWebhookBody)
		next.ServeHTTP(w, r)
	})
}

// authMiddleware starts the session of the member named by the identity
// header. The gateway in front of the service authenticates the member and
// sets the header; requests without it are rejected.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var (
			sess session.Session
			err  error
		)
		if s.Cfg.Auth.Skip {
			sess = session.Mock(s.Cfg.Auth.MockMemberID)
		} else {
			sess, err = session.Start(r.Context(), s.Store, r.Header.Get(s.authHeader()))
		}
		switch {
		case err == nil:
		case errors.Is(err, session.ErrNoSession), errors.Is(err, club.ErrMemberNotFound):
			handlers.WriteError(w, http.StatusUnauthorized, "unauthorized", "sign in to continue")
			return
		case errors.Is(err, session.ErrInactiveMember):
			handlers.WriteError(w, http.StatusForbidden, "forbidden", err.Error())
			return
		default:
			log.Error("Failed to start session", "error", err)
			handlers.WriteError(w, http.StatusInternalServerError, "internal", "failed to start session")
			return
		}

		if !sess.Can(access.ViewDashboard) {
			handlers.WriteError(w, http.StatusForbidden, "forbidden", "no access to the dashboard")
			return
		}
		log.Debug("Session started", "memberID", sess.MemberID, "role", sess.Role)
		next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), sess)))
	})
}

func (s *Server) authHeader() string {
	if s.Cfg.Auth.Header != "" {
		return s.Cfg.Auth.Header
	}
	return "X-Member-ID"
}
