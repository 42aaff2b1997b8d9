package http

import (
	"encoding/json"
	"net/http"
)

// APIError is the error body for every /v1 route.
type APIError struct {
	Message string `json:"message"`
}

// WriteJSON sends v with the given status. Encode errors are dropped;
// the status line has already been written.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func Fail(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, APIError{Message: msg})
}
