package gateway

import (
	"crypto/subtle"
	"os"
	"strings"

	"github.com/greenbasket/greenbasket/internal/config"
)

// ResolvedAuth is the effective auth configuration after merging config
// and environment.
type ResolvedAuth struct {
	Token string
}

// Enabled reports whether the gateway requires authentication.
func (a ResolvedAuth) Enabled() bool {
	return a.Token != ""
}

// ResolveAuth determines the effective auth settings. The environment
// variable GREENBASKET_AUTH_TOKEN overrides the config file token.
func ResolveAuth(cfg config.ServerAuth) ResolvedAuth {
	token := strings.TrimSpace(cfg.Token)
	if env := strings.TrimSpace(os.Getenv("GREENBASKET_AUTH_TOKEN")); env != "" {
		token = env
	}
	return ResolvedAuth{Token: token}
}

// CheckToken validates a presented token against the resolved auth.
// Open gateways (no token configured) accept any request.
func (a ResolvedAuth) CheckToken(presented string) bool {
	if !a.Enabled() {
		return true
	}
	return safeEqual(presented, a.Token)
}

// bearerToken extracts the token from an Authorization header value.
// Returns "" if the header is absent or not a bearer scheme.
func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

// safeEqual compares two strings in constant time regardless of length.
func safeEqual(a, b string) bool {
	ab := []byte(a)
	bb := []byte(b)
	sameLen := subtle.ConstantTimeEq(int32(len(ab)), int32(len(bb)))
	max := len(ab)
	if len(bb) > max {
		max = len(bb)
	}
	pa := make([]byte, max)
	pb := make([]byte, max)
	copy(pa, ab)
	copy(pb, bb)
	same := subtle.ConstantTimeCompare(pa, pb)
	return subtle.ConstantTimeSelect(sameLen, same, 0) == 1
}
