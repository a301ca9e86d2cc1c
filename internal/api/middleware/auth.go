package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/reviewlens/reviewlens/internal/api/response"
)

const tokenPrefixLen = 8

// Auth validates bearer tokens against the statically configured set.
type Auth struct {
	tokens []string
}

// NewAuth creates a new Auth middleware.
func NewAuth(tokens []string) *Auth {
	return &Auth{tokens: tokens}
}

// Authenticate validates the Bearer token and sets its prefix in the
// request context for downstream rate limiting.
func (a *Auth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawToken := extractBearerToken(r)
		if rawToken == "" {
			response.Error(w, http.StatusUnauthorized,
				"INVALID_TOKEN", "Missing or invalid Authorization header", nil)
			return
		}

		var matched bool
		for _, t := range a.tokens {
			if len(t) == len(rawToken) &&
				subtle.ConstantTimeCompare([]byte(t), []byte(rawToken)) == 1 {
				matched = true
				break
			}
		}
		if !matched {
			response.Error(w, http.StatusUnauthorized,
				"INVALID_TOKEN", "Invalid API token", nil)
			return
		}

		prefix := rawToken
		if len(prefix) > tokenPrefixLen {
			prefix = prefix[:tokenPrefixLen]
		}
		next.ServeHTTP(w, r.WithContext(setTokenPrefix(r.Context(), prefix)))
	})
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
