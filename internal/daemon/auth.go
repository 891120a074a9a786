package daemon

import (
	"net/http"
	"strings"

	"leadradar/internal/services"
)

// Paths reachable without a session token. /cron/reset checks its own secret.
var publicPaths = map[string]bool{
	"/auth/login": true,
	"/cron/reset": true,
	"/healthz":    true,
}

// authMiddleware validates "Authorization: Bearer <token>" session tokens when
// auth.require_token is set. Otherwise all requests pass through.
func (s *apiServer) authMiddleware(next http.Handler) http.Handler {
	if !s.requireToken {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if publicPaths[r.URL.Path] {
			next.ServeHTTP(w, r)
			return
		}
		token := bearerToken(r)
		if token == "" {
			s.writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if _, err := s.service.Authenticate(token); err != nil {
			s.writeError(w, http.StatusUnauthorized, services.PublicMessage(err))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}
