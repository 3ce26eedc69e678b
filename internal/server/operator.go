package server

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	operatorCookieName = "operator_session"
	operatorSessionTTL = 24 * time.Hour
)

var errBadPIN = errors.New("invalid pin")

// OperatorAuth guards ledger mutations behind a bcrypt-hashed PIN. With no
// hash configured every request counts as the operator.
type OperatorAuth struct {
	hash []byte
	now  func() time.Time

	mu       sync.Mutex
	sessions map[string]time.Time
}

func NewOperatorAuth(pinHash []byte) *OperatorAuth {
	return &OperatorAuth{
		hash:     pinHash,
		now:      time.Now,
		sessions: make(map[string]time.Time),
	}
}

// Required reports whether a PIN is configured.
func (a *OperatorAuth) Required() bool { return len(a.hash) > 0 }

// Login checks pin and opens a session.
func (a *OperatorAuth) Login(pin string) (string, error) {
	if !a.Required() {
		return "", nil
	}
	if err := bcrypt.CompareHashAndPassword(a.hash, []byte(pin)); err != nil {
		return "", errBadPIN
	}

	buf := make([]byte, 16)
	rand.Read(buf)
	id := hex.EncodeToString(buf)

	a.mu.Lock()
	a.sessions[id] = a.now().Add(operatorSessionTTL)
	a.mu.Unlock()
	return id, nil
}

func (a *OperatorAuth) Logout(id string) {
	a.mu.Lock()
	delete(a.sessions, id)
	a.mu.Unlock()
}

// Authorized reports whether r carries a live operator session.
func (a *OperatorAuth) Authorized(r *http.Request) bool {
	if !a.Required() {
		return true
	}
	cookie, err := r.Cookie(operatorCookieName)
	if err != nil || cookie.Value == "" {
		return false
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	expires, ok := a.sessions[cookie.Value]
	if !ok {
		return false
	}
	if a.now().After(expires) {
		delete(a.sessions, cookie.Value)
		return false
	}
	return true
}

func operatorMiddleware(a *OperatorAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !a.Authorized(r) {
				writeError(w, http.StatusUnauthorized, "operator login required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
