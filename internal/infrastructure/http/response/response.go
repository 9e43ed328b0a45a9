package response

import (
	"encoding/json"
	"net/http"
)

// MessageResponse is the `{"message": ...}` body the catalog API uses for
// every non-entity outcome (deletions, not-found, update failures).
type MessageResponse struct {
	Message string `json:"message"`
}

// JSON sends a JSON response
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Message sends a `{"message": ...}` response with the given status
func Message(w http.ResponseWriter, status int, message string) {
	JSON(w, status, MessageResponse{Message: message})
}
