// internal/httpserver/auth.go
//
// Credentials for the two guarded surfaces:
//   - the chat platform bridge posts events with an HS256 bearer token;
//   - operators reach /admin with basic auth checked against a bcrypt hash.

package httpserver

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// SignBotToken issues a bearer token for a bridge identified by subject.
// ttl <= 0 issues a token without expiry.
func SignBotToken(secret, subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:  subject,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// HashAdminPassword produces a value for ADMIN_PASSWORD_HASH.
func HashAdminPassword(pw string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(h), err
}

// bearer extracts the token from "Authorization: Bearer <token>".
func bearer(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	return ""
}

// requireBotToken rejects requests without a valid HS256 token whose
// subject names the calling bridge.
func (s *Server) requireBotToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := bearer(r)
		if tokenStr == "" {
			fail(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		claims := &jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(s.opts.JWTSecret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid || claims.Subject == "" {
			s.logger.Debug().Err(err).Msg("rejected bot token")
			fail(w, http.StatusUnauthorized, "invalid_token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireAdmin checks basic auth against ADMIN_USER / ADMIN_PASSWORD_HASH.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.opts.AdminPasswordHash == "" {
			fail(w, http.StatusForbidden, "admin_disabled")
			return
		}
		user, pw, ok := r.BasicAuth()
		if !ok {
			w.Header().Set("WWW-Authenticate", `Basic realm="guessbot"`)
			fail(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		userOK := subtle.ConstantTimeCompare([]byte(user), []byte(s.opts.AdminUser)) == 1
		pwOK := bcrypt.CompareHashAndPassword([]byte(s.opts.AdminPasswordHash), []byte(pw)) == nil
		if !userOK || !pwOK {
			s.logger.Warn().Str("user", user).Msg("admin login failed")
			fail(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}
