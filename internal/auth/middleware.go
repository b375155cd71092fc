package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mserrato/accounts-be/internal/apperrors"
)

// ServiceTokenHeader is the header other services present their shared
// secret in.
const ServiceTokenHeader = "x-token"

type contextKey string

// UserClaimsKey is the context key for verified user claims.
const UserClaimsKey = contextKey("userClaims")

// ClaimsFromContext retrieves the claims attached by RequireUser.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(UserClaimsKey).(*Claims)
	return claims, ok
}

// RequireUser gates a route on a valid end-user bearer token. On success
// the verified claims are attached to the request context; every rejection
// is a 401 with a reason-specific message.
func RequireUser(tokens *TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				reject(w, apperrors.Unauthorized("No token provided"))
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 {
				reject(w, apperrors.Unauthorized("Invalid token format"))
				return
			}
			if !strings.EqualFold(parts[0], "Bearer") {
				reject(w, apperrors.Unauthorized("Token must be Bearer type"))
				return
			}

			claims, err := tokens.Validate(parts[1])
			if err != nil {
				reject(w, apperrors.Unauthorized("Invalid or expired token"))
				return
			}

			ctx := context.WithValue(r.Context(), UserClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireService gates a route on the static service token. It attaches no
// claims; admission only proves the caller holds the shared secret.
func RequireService(verifier *StaticTokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			values := r.Header.Values(ServiceTokenHeader)
			if len(values) == 0 {
				reject(w, apperrors.Unauthorized("No service token provided"))
				return
			}
			if len(values) != 1 {
				reject(w, apperrors.Unauthorized("Invalid token format"))
				return
			}
			if !verifier.Verify(values[0]) {
				reject(w, apperrors.Unauthorized("Invalid service token"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func reject(w http.ResponseWriter, appErr *apperrors.Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.Status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": appErr.Message,
		"code":  appErr.Code,
	})
}
