// Package adminauth gates the admin pages behind a single configured
// credential checked with HTTP Basic authentication.
package adminauth

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"sync/atomic"

	"golang.org/x/crypto/bcrypt"
)

// Realm is sent in the WWW-Authenticate challenge.
const Realm = "smartbudget admin"

// ErrInvalidHash is returned for a password hash that is not bcrypt.
var ErrInvalidHash = errors.New("admin password hash is not a bcrypt hash")

// Config holds the admin credential. An empty PasswordHash disables admin
// access entirely.
type Config struct {
	Username     string
	PasswordHash string
}

// Enabled reports whether a credential is configured.
func (c Config) Enabled() bool {
	return c.PasswordHash != ""
}

// ValidateHash checks that hash is a usable bcrypt hash.
func ValidateHash(hash string) error {
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return ErrInvalidHash
	}
	return nil
}

// HashPassword returns the bcrypt hash to put in ADMIN_PASSWORD_HASH.
func HashPassword(password string, cost int) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Guard checks admin requests
type Guard struct {
	config   Config
	rejected int64
}

// Metrics holds guard counters
type Metrics struct {
	Rejected int64
}

// NewGuard creates a guard for config
func NewGuard(config Config) *Guard {
	return &Guard{config: config}
}

// Authorized reports whether r carries the admin credential.
func (g *Guard) Authorized(r *http.Request) bool {
	if !g.config.Enabled() {
		return false
	}
	user, pass, ok := r.BasicAuth()
	if !ok {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(g.config.Username)) == 1
	passOK := bcrypt.CompareHashAndPassword([]byte(g.config.PasswordHash), []byte(pass)) == nil
	return userOK && passOK
}

// Middleware wraps admin handlers. Without a configured credential every
// request gets 403; otherwise a missing or wrong credential gets a 401
// challenge.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.config.Enabled() {
			atomic.AddInt64(&g.rejected, 1)
			http.Error(w, "Admin access is not configured", http.StatusForbidden)
			return
		}
		if !g.Authorized(r) {
			atomic.AddInt64(&g.rejected, 1)
			w.Header().Set("WWW-Authenticate", `Basic realm="`+Realm+`", charset="UTF-8"`)
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetMetrics returns guard counters
func (g *Guard) GetMetrics() Metrics {
	return Metrics{Rejected: atomic.LoadInt64(&g.rejected)}
}
