package errors

import (
	"encoding/json"
	"net/http"
)

// WriteError serializes err as an ErrorResponse. Internal causes stay server side.
func WriteError(w http.ResponseWriter, err error) error {
	appErr := AsAppError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode())
	return json.NewEncoder(w).Encode(appErr.Response())
}
