package helpers

import (
	"encoding/json"
	"net/http"
)

// APIResponse is the envelope for error responses and simple acknowledgements.
// Success payloads add their own fields next to success (see the controllers).
// swagger:model APIResponse
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// WriteJSON sets Content-Type to application/json, writes statusCode, and encodes body.
func WriteJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteJSONError writes {"success": false, "message": message} with statusCode.
func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, APIResponse{Success: false, Message: message})
}
