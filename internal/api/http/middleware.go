package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"vkolc-backend/internal/config"
	"vkolc-backend/internal/logger"
	"vkolc-backend/internal/security"
	"vkolc-backend/internal/service"

	"github.com/gorilla/mux"
)

type claimsKey struct{}

func claimsFromContext(ctx context.Context) (*security.RoleClaims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*security.RoleClaims)
	return c, ok
}

// authenticate checks the bearer token against the security level of the
// matched route and puts the caller into the request context.
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := ""
		if cur := mux.CurrentRoute(r); cur != nil {
			route = cur.GetName()
		}
		level := config.GetSecurityLevel(route)

		// Public endpoint - skip auth
		if level == config.SecurityPublic {
			next.ServeHTTP(w, r)
			return
		}

		token, ok := bearerToken(r)
		if !ok {
			writeMessage(w, http.StatusUnauthorized, "authorization token is not provided")
			return
		}

		claims, err := h.svc.Auth.Authenticate(r.Context(), token)
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, "invalid token: "+err.Error())
			return
		}
		if !level.Allows(claims.Role) {
			writeMessage(w, http.StatusForbidden, "admin role required")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		ctx = service.WithActor(ctx, service.Actor{Username: claims.Username, DisplayName: claims.DisplayName})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	// Remove Bearer prefix if present
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		header = header[7:]
	}
	header = strings.TrimSpace(header)
	return header, header != ""
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}
