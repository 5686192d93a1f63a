package transport

import (
	"encoding/json"
	"net/http"
)

// Messages shared by every handler so clients can match on them.
const (
	MsgInvalidJSON     = "invalid json"
	MsgValidationError = "validation error"
	MsgNotFound        = "not found"
	MsgDatabaseError   = "database error"
)

type ErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func WriteError(w http.ResponseWriter, status int, message string, details map[string]string) {
	WriteJSON(w, status, ErrorResponse{
		Error:   message,
		Details: details,
	})
}

func WriteInvalidJSON(w http.ResponseWriter) {
	WriteError(w, http.StatusBadRequest, MsgInvalidJSON, nil)
}

func WriteValidation(w http.ResponseWriter, details map[string]string) {
	WriteError(w, http.StatusBadRequest, MsgValidationError, details)
}

func WriteNotFound(w http.ResponseWriter) {
	WriteError(w, http.StatusNotFound, MsgNotFound, nil)
}

func WriteDatabaseError(w http.ResponseWriter) {
	WriteError(w, http.StatusInternalServerError, MsgDatabaseError, nil)
}
