package httpx

import (
	"encoding/json"
	"net/http"
)

// response is the envelope every endpoint answers with.
type response struct {
	// Status is "success" or "error".
	Status string `json:"status"`
	// Message describes the outcome of the operation.
	Message string `json:"message"`
	// Data carries the payload, only on success.
	Data any `json:"data,omitempty"`
}

// genericFailureMessage is what callers see for any internal or upstream
// failure. Details stay in the server logs.
const genericFailureMessage = "An internal server error occurred. Please try again later."

// writeOK sends a success envelope.
func writeOK(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusOK, response{Status: "success", Message: message, Data: data})
}

// writeError sends an error envelope with the given status.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, response{Status: "error", Message: message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// decodeJSON parses a request body into v.
func decodeJSON(req *http.Request, v any) error {
	defer req.Body.Close()
	return json.NewDecoder(req.Body).Decode(v)
}
