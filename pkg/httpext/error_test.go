package httpext

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJsonError(t *testing.T) {
	tests := []struct {
		name           string
		message        string
		code           int
		expectedStatus int
		expectedBody   ErrorResponse
	}{
		{
			name:           "Basic error",
			message:        "Something went wrong",
			code:           http.StatusBadRequest,
			expectedStatus: http.StatusBadRequest,
			expectedBody: ErrorResponse{
				Detail: "Something went wrong",
			},
		},
		{
			name:           "Internal server error",
			message:        "Internal error",
			code:           http.StatusInternalServerError,
			expectedStatus: http.StatusInternalServerError,
			expectedBody: ErrorResponse{
				Detail: "Internal error",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			JsonError(w, tt.message, tt.code)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			var response ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
			assert.Equal(t, tt.expectedBody.Detail, response.Detail)
		})
	}
}

func TestDecodeError(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{
			name:        "Detail envelope",
			status:      http.StatusConflict,
			body:        `{"detail":"Username already registered"}`,
			wantMessage: "Username already registered",
		},
		{
			name:        "Empty detail falls back to status",
			status:      http.StatusBadGateway,
			body:        `{"detail":""}`,
			wantMessage: "request failed with status 502",
		},
		{
			name:        "Non-JSON body falls back to status",
			status:      http.StatusInternalServerError,
			body:        "<html>oops</html>",
			wantMessage: "request failed with status 500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &http.Response{
				StatusCode: tt.status,
				Body:       io.NopCloser(strings.NewReader(tt.body)),
			}

			err := DecodeError(resp)
			require.Error(t, err)

			var se *StatusError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.status, se.StatusCode)
			assert.Equal(t, tt.wantMessage, err.Error())
		})
	}
}
