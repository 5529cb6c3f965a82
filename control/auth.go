package control

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// BearerConfig configures the bearer-token middleware.
type BearerConfig struct {
	// Key is the HMAC key tokens must be signed with. An empty key
	// disables authentication entirely, leaving the surface open the
	// way a local power control file would be.
	// Default: nil (open)
	Key []byte

	// Issuer, when set, is the required iss claim.
	Issuer string

	// Audience, when set, is the required aud claim. Tokens carrying
	// an audience list match when any entry equals it.
	Audience string
}

// RequireBearer wraps next with bearer-token validation. Requests
// without a valid token are rejected with 401 before reaching next.
// With an empty key the handler is returned unwrapped.
func RequireBearer(config BearerConfig, next http.Handler) http.Handler {
	if len(config.Key) == 0 {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString == header || strings.TrimSpace(tokenString) == "" {
			unauthorized(w, ErrMissingToken)
			return
		}

		token, err := jwt.Parse(strings.TrimSpace(tokenString), func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("control: unexpected signing method %q", t.Method.Alg())
			}
			return config.Key, nil
		})
		if err != nil || !token.Valid {
			unauthorized(w, ErrInvalidToken)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			unauthorized(w, ErrInvalidToken)
			return
		}

		if config.Issuer != "" {
			if iss, ok := claims["iss"].(string); !ok || iss != config.Issuer {
				unauthorized(w, ErrInvalidToken)
				return
			}
		}
		if config.Audience != "" && !hasAudience(claims, config.Audience) {
			unauthorized(w, ErrInvalidToken)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func hasAudience(claims jwt.MapClaims, target string) bool {
	switch v := claims["aud"].(type) {
	case string:
		return v == target
	case []interface{}:
		for _, entry := range v {
			if s, ok := entry.(string); ok && s == target {
				return true
			}
		}
	}
	return false
}

func unauthorized(w http.ResponseWriter, err error) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeError(w, http.StatusUnauthorized, err)
}
