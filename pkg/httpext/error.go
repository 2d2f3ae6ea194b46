package httpext

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"
)

// ErrorResponse is the JSON error envelope used by the backend API: a single
// "detail" field carrying a human-readable message.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// JsonError writes a JSON error response with the specified status code
func JsonError(w http.ResponseWriter, message string, code int) {
	response := ErrorResponse{
		Detail: message,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error().Err(err).Msg("Failed to encode error response")
		http.Error(w, "{\"detail\":\"Internal Server Error\"}", http.StatusInternalServerError)
		return
	}
}

// StatusError is the error returned for non-2xx responses on plain
// request/response calls. Message holds the server-supplied detail when one
// could be decoded.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// DecodeError turns a non-2xx response into a *StatusError, pulling the
// detail message out of the body when the server sent one. The body is
// consumed but not closed.
func DecodeError(resp *http.Response) error {
	se := &StatusError{StatusCode: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return se
	}

	var envelope ErrorResponse
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Detail != "" {
		se.Message = envelope.Detail
	}
	return se
}
