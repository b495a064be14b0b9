package middleware

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"plugsim/backend/libs/password"
	"plugsim/backend/libs/token"
)

// TokenValidator checks bearer tokens.
type TokenValidator interface {
	Validate(tokenString string) (*token.Claims, error)
}

// AuthMiddleware enforces the device login. Requests pass with valid basic credentials or a
// bearer token carrying the device scope. With neither configured every request passes.
func AuthMiddleware(creds password.Credentials, tokens TokenValidator, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !creds.Enabled() && tokens == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if authorized(r, creds, tokens) {
				next.ServeHTTP(w, r)
				return
			}
			logger.Debug("unauthorized request", zap.String("path", r.URL.Path))
			w.Header().Set("WWW-Authenticate", `Basic realm="shelly"`)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
		})
	}
}

func authorized(r *http.Request, creds password.Credentials, tokens TokenValidator) bool {
	if user, pass, ok := r.BasicAuth(); ok {
		return creds.Verify(user, pass)
	}

	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if tokens == nil || len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return false
	}
	claims, err := tokens.Validate(strings.TrimSpace(parts[1]))
	if err != nil {
		return false
	}
	return claims.Scope == token.ScopeDevice
}
