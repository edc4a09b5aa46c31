package middleware

import (
	"net/http"
	"strings"

	"dialoom/pkg/auth"
	apperrors "dialoom/pkg/errors"
	"dialoom/pkg/logger"
)

type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Authenticate requires a bearer token and stores the caller identity in the
// request context.
func Authenticate(verifier TokenVerifier, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := verifier.Verify(bearerToken(r))
			if err != nil {
				log.Warn("Authentication failed",
					"request_id", requestID(r),
					"path", r.URL.Path,
					"error", err,
				)
				w.Header().Set("WWW-Authenticate", `Bearer realm="dialoom"`)
				_ = apperrors.WriteError(w, apperrors.Unauthorized("missing or invalid bearer token"))
				return
			}

			ctx := auth.WithIdentity(r.Context(), auth.Identity{
				UserID: claims.Subject,
				Email:  claims.Email,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
