// Package backend is the HTTP client for the school chat API: account
// sign-in and registration, the student lesson/conversation surface, the
// streaming chat endpoint, and the teacher content console.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/storychat/storychat/internal/auth"
	"github.com/storychat/storychat/internal/config"
	"github.com/storychat/storychat/pkg/httpext"
)

type Client struct {
	baseURL string
	tokens  auth.Store

	// Plain calls get a bounded client; chat streaming uses an unbounded
	// one because a turn legitimately stays open while tokens arrive.
	httpClient   *http.Client
	streamClient *http.Client
}

// NewClient builds a client against the configured backend URL. The token
// store decides whether the session outlives the process ("remember me").
func NewClient(tokens auth.Store) *Client {
	return &Client{
		baseURL:      strings.TrimRight(config.GetBackendURL(), "/"),
		tokens:       tokens,
		httpClient:   &http.Client{Timeout: config.GetRequestTimeout()},
		streamClient: &http.Client{},
	}
}

// newRequest builds a request against the backend, attaching the bearer
// token when one is stored. Calls made without a token are sent anyway and
// answered by the server with 401.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	token, err := c.tokens.Token()
	if err == nil {
		if info, inspectErr := auth.Inspect(token); inspectErr == nil && info.Expired() {
			log.Warn().Time("expired_at", info.ExpiresAt).Msg("Stored access token is expired")
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// doJSON runs a plain request/response call and decodes the JSON body into
// out when it is non-nil. Non-2xx responses become *httpext.StatusError
// carrying the server's detail message.
func (c *Client) doJSON(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return httpext.DecodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", req.URL.Path, err)
	}
	return nil
}

// sendJSON marshals body and sends it with the given method.
func (c *Client) sendJSON(ctx context.Context, method, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := c.newRequest(ctx, method, path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.doJSON(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	return c.sendJSON(ctx, http.MethodPost, path, body, out)
}

// getJSON GETs path and decodes the response.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return c.doJSON(req, out)
}
