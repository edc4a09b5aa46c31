package middleware

import (
	"net/http"

	"dialoom/pkg/requestid"

	"github.com/google/uuid"
)

const RequestIDHeader = requestid.Header

func requestID(r *http.Request) string {
	return requestid.FromContext(r.Context())
}

// incomingRequestID keeps a caller supplied id when it is a valid uuid.
func incomingRequestID(r *http.Request) string {
	if id := r.Header.Get(RequestIDHeader); id != "" {
		if _, err := uuid.Parse(id); err == nil {
			return id
		}
	}
	return uuid.NewString()
}
