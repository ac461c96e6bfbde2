package httpx

import (
	"encoding/json"
	"net/http"
)

// WriteJSON writes a JSON response with the given status code.
// It automatically sets the Content-Type header and Cache-Control headers.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
// This is commonly required for sensitive responses like tokens.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}

// WriteSuccess writes the success envelope. The fields of data are merged
// into the top level next to "success", "status" and "message":
//
//	{"success":true,"status":200,"accessToken":"...","message":"..."}
func WriteSuccess(w http.ResponseWriter, code int, data any, message string) {
	body := map[string]any{}
	if data != nil {
		raw, err := json.Marshal(data)
		if err == nil {
			var fields map[string]json.RawMessage
			if json.Unmarshal(raw, &fields) == nil {
				for k, v := range fields {
					body[k] = v
				}
			}
		}
	}
	body["success"] = true
	body["status"] = code
	if message != "" {
		body["message"] = message
	}
	WriteJSON(w, code, body)
}

// Failure is the error envelope.
type Failure struct {
	Success bool              `json:"success"`
	Status  int               `json:"status"`
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// WriteFailure writes the error envelope with a machine readable code.
func WriteFailure(w http.ResponseWriter, code int, errCode, message string, details map[string]string) {
	WriteJSON(w, code, Failure{
		Status:  code,
		Error:   errCode,
		Message: message,
		Details: details,
	})
}
