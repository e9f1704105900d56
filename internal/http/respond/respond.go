// Package respond centralizes JSON response writing for all handlers.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// JSON writes an arbitrary payload with the given status.
func JSON(w http.ResponseWriter, status int, payload any) {
	write(w, status, payload)
}

// Message writes a `{"message": ...}` body for operations whose success has
// no natural payload.
func Message(w http.ResponseWriter, status int, message string) {
	write(w, status, map[string]string{"message": message})
}

// Error writes an `{"error": ...}` body. The message must already be safe to
// show to a client; raw store errors never pass through here.
func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, map[string]string{"error": message})
}

func write(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("respond: encode payload failed", "error", err)
	}
}
