// Package session guards the local API with a shared token.
package session

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"sync"
)

// HeaderToken carries the API token on HTTP requests.
const HeaderToken = "X-Candela-Token"

// QueryToken carries the API token on websocket upgrades.
const QueryToken = "token"

// Guard validates the API token for HTTP and websocket callers.
type Guard struct {
	mu       sync.RWMutex
	token    string
	rejected int
}

// New returns a guard for token. An empty token leaves the API open.
func New(token string) *Guard {
	return &Guard{token: strings.TrimSpace(token)}
}

// Enabled reports whether a token is required.
func (g *Guard) Enabled() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.token != ""
}

// SetToken replaces the required token. An empty token opens the API.
func (g *Guard) SetToken(token string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.token = strings.TrimSpace(token)
}

// Authenticate compares a presented token in constant time.
func (g *Guard) Authenticate(presented string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.token == "" {
		return true
	}
	if subtle.ConstantTimeCompare([]byte(presented), []byte(g.token)) == 1 {
		return true
	}
	g.rejected++
	return false
}

// Check validates the token carried by r in the header or the query string.
func (g *Guard) Check(r *http.Request) bool {
	presented := r.Header.Get(HeaderToken)
	if presented == "" {
		presented = r.URL.Query().Get(QueryToken)
	}
	return g.Authenticate(presented)
}

// Require wraps next and answers 401 when the token is missing or wrong.
func (g *Guard) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.Check(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Rejected returns how many presented tokens were refused.
func (g *Guard) Rejected() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.rejected
}
