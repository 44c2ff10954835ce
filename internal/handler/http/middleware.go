package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/vasiliy-maslov/ecommerce-storefront/internal/auth"
)

// SessionCookie holds the signed session token.
const SessionCookie = "session"

// Access is the authentication level a route requires.
type Access int

const (
	// Public routes ignore credentials entirely.
	Public Access = iota
	// Optional routes attach the caller's claims when a valid token is
	// present and otherwise continue anonymously.
	Optional
	Authenticated
	Admin
)

func (a Access) String() string {
	switch a {
	case Public:
		return "public"
	case Optional:
		return "optional"
	case Authenticated:
		return "authenticated"
	case Admin:
		return "admin"
	}
	return "unknown"
}

// Gate enforces route access levels from the session token.
type Gate struct {
	tokens *auth.TokenService
}

func NewGate(tokens *auth.TokenService) *Gate {
	return &Gate{tokens: tokens}
}

func (g *Gate) Require(access Access) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if access == Public {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				if access == Optional {
					next.ServeHTTP(w, r)
					return
				}
				respondWithError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			claims, err := g.tokens.Verify(token)
			if err != nil {
				if access == Optional {
					next.ServeHTTP(w, r)
					return
				}
				log.Warn().Err(err).Str("request_id", middleware.GetReqID(r.Context())).Msg("Rejected session token")
				respondWithError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			if access == Admin && !claims.IsAdmin() {
				log.Warn().
					Stringer("user_id", claims.UserID).
					Str("path", r.URL.Path).
					Msg("Non-admin request to admin route")
				respondWithError(w, http.StatusForbidden, "Insufficient permissions")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
		})
	}
}

// tokenFromRequest prefers the session cookie and falls back to a bearer
// header for clients that do not keep cookies.
func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// RequestLogger logs one line per request through zerolog.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		defer func() {
			log.Info().
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Msg("HTTP request")
		}()

		next.ServeHTTP(ww, r)
	})
}
