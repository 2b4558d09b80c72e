// Package http exposes Netman's session/transaction manager over a
// chi-routed REST surface.
package http

import (
	"encoding/json"
	"net/http"

	"github.com/idjaw/netman/core"
)

// problem is the JSON error body for every non-2xx response.
type problem struct {
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

func writeNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func writeError(w http.ResponseWriter, err error) {
	if cerr, ok := err.(*core.Error); ok {
		writeJSON(w, cerr.HTTPStatus(), problem{Kind: string(cerr.Kind), Message: cerr.Message})
		return
	}
	writeJSON(w, http.StatusInternalServerError, problem{Message: err.Error()})
}

func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, problem{Message: message})
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil {
		return true
	}
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return false
	}
	return true
}
