package serve

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/couloir/workbench/envelope"
)

// authMiddleware enforces HS256 bearer tokens when a secret is configured.
// An empty secret disables authentication entirely.
func authMiddleware(secret []byte, next http.Handler) http.Handler {
	if len(secret) == 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeEnvelope(w, http.StatusUnauthorized, envelope.Fail("Missing bearer token.", "serve", "authorization header required"))
			return
		}
		if err := verifyToken(secret, token); err != nil {
			writeEnvelope(w, http.StatusUnauthorized, envelope.Fail("Invalid bearer token.", "serve", err.Error()))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	// Browsers cannot set headers on websocket upgrades; accept a query
	// parameter for the stream endpoint.
	return r.URL.Query().Get("token")
}

func verifyToken(secret []byte, token string) error {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return err
	}
	if !parsed.Valid {
		return fmt.Errorf("token rejected")
	}
	return nil
}
