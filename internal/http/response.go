package http

import (
	"net/http"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// response is the envelope returned by every JSON endpoint.
type response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(response{Success: code < 400, Message: message, Data: data})
}

func writeError(log *zap.Logger, w http.ResponseWriter, code int, message string, err error) {
	if err != nil {
		log.Error(message, zap.Int("status", code), zap.Error(err))
	}
	writeJSON(w, code, message, nil)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
