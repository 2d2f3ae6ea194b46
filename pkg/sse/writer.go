package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// SetupHeaders sets the response headers for a chat event stream.
func SetupHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
}

// WriteEvent marshals payload and writes it as a single "data: <json>" line,
// flushing so the client sees it immediately.
func WriteEvent(w http.ResponseWriter, flusher http.Flusher, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}

	if _, err := fmt.Fprintf(w, "%s%s\n", dataPrefix, data); err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	flusher.Flush()
	return nil
}
