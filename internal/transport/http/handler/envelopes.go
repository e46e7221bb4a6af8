package handler

import (
	"encoding/json"
	"net/http"

	"github.com/kanzleiworks/fristen-api/internal/application/sweep"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
	ErrorCode int    `json:"error_code,omitempty"`
}

// SweepEnvelope wraps sweep trigger responses.
type SweepEnvelope struct {
	Result    *sweep.Result `json:"result,omitempty"`
	ReportURL string        `json:"report_url,omitempty"`
	Error     string        `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}
