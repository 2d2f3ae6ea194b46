package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

// RegisterRequest carries the account fields for POST /accounts/register.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required"`
	Role     string `json:"role" validate:"oneof=student teacher"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// SignIn exchanges credentials for an access token via the form-encoded
// token endpoint and saves it into the client's token store.
func (c *Client) SignIn(ctx context.Context, username, password string) error {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, err := c.newRequest(ctx, http.MethodPost, "/accounts/signin/token", strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var token tokenResponse
	if err := c.doJSON(req, &token); err != nil {
		return err
	}
	if token.AccessToken == "" {
		return fmt.Errorf("sign-in response carried no access token")
	}

	if err := c.tokens.Save(token.AccessToken); err != nil {
		return fmt.Errorf("store access token: %w", err)
	}

	log.Info().Str("username", username).Msg("Signed in")
	return nil
}

// SignOut drops the stored token. Purely client-side; the server keeps no
// session to tear down.
func (c *Client) SignOut() error {
	return c.tokens.Clear()
}

// Register creates an account. The request is validated locally first so
// obviously broken input fails without a round trip.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (string, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(req); err != nil {
		return "", fmt.Errorf("invalid registration: %w", err)
	}

	var out messageResponse
	if err := c.postJSON(ctx, "/accounts/register", req, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}
