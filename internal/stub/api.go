package stub

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Envelope is the wire shape the mini-app client understands: a "success"
// status with the payload under data, or a failure message.
type Envelope struct {
	Status    string `json:"status,omitempty"`
	Data      any    `json:"data,omitempty"`
	Message   string `json:"message,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Warn("write json failed", "err", err)
	}
}

func success(w http.ResponseWriter, data any, requestID string) {
	writeJSON(w, http.StatusOK, Envelope{Status: "success", Data: data, RequestID: requestID})
}

func created(w http.ResponseWriter, data any, requestID string) {
	writeJSON(w, http.StatusCreated, Envelope{Status: "success", Data: data, RequestID: requestID})
}

func fail(w http.ResponseWriter, status int, message, requestID string) {
	writeJSON(w, status, Envelope{Message: message, RequestID: requestID})
}
