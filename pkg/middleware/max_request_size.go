package middleware

import (
	"net/http"

	apperrors "dialoom/pkg/errors"
)

// MaxRequestSize rejects declared oversize bodies up front and caps the rest
// with http.MaxBytesReader; decoders surface the overflow as 413.
func MaxRequestSize(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				_ = apperrors.WriteError(w, apperrors.New(
					apperrors.CodeInvalidInput,
					"request body too large",
					http.StatusRequestEntityTooLarge,
				))
				return
			}
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
