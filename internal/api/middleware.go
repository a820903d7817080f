package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type contextKey string

const viewerKey contextKey = "viewer"

const viewerCookieName = "viewer_id"

// viewerCookie assigns each browser a process-local viewer identity.
// The id only needs to be stable for the lifetime of the process;
// there is no cross-device identity.
func (s *Server) viewerCookie(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var viewerID string
		if c, err := r.Cookie(viewerCookieName); err == nil && c.Value != "" {
			viewerID = c.Value
		} else {
			viewerID = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     viewerCookieName,
				Value:    viewerID,
				Path:     "/",
				HttpOnly: true,
			})
		}

		ctx := context.WithValue(r.Context(), viewerKey, viewerID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func viewerFromContext(ctx context.Context) string {
	viewerID, _ := ctx.Value(viewerKey).(string)
	return viewerID
}

func (s *Server) rateLimited(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		viewerID := viewerFromContext(r.Context())
		if !s.limiter.Allow(viewerID) {
			s.writeError(w, http.StatusTooManyRequests, "slow down")
			return
		}
		next.ServeHTTP(w, r)
	})
}
