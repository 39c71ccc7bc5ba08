package api

import (
	"encoding/json"
	"net/http"
)

// All error bodies share the {"msg": ...} shape so clients have one
// consistent field to surface.
type errorResponse struct {
	Msg string `json:"msg"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Msg: msg})
}
