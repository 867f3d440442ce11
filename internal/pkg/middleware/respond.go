package middleware

import (
	"encoding/json"
	"net/http"

	"gostockflow/internal/domain"
	apperror "gostockflow/internal/errors"
)

// writeError responde no mesmo formato JSON usado pelos handlers.
func writeError(w http.ResponseWriter, err error) {
	status, category, message := apperror.MapToHTTPStatus(err)
	writeErrorBody(w, status, domain.ErrorResponse{Code: status, Category: category, Message: message})
}

func writeErrorBody(w http.ResponseWriter, status int, body domain.ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
