package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	. "peoplefinder/internal/models"
)

// Login exchanges admin credentials for a bearer token and identity.
func (c *Client) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	log := c.log.Function("Login")

	raw, err := c.do(ctx, http.MethodPost, "/admin/login", "", LoginRequest{
		Username: username,
		Password: password,
	}, nil)
	if err != nil {
		return nil, err
	}

	return decodeAuthResult(raw, log.Err)
}

// TemporaryLogin redeems a one-time token in a single call. Whether the
// token is expired or already used is the server's call; this just carries
// the resulting message back. A blank token never leaves the process.
func (c *Client) TemporaryLogin(ctx context.Context, token string) (*AuthResult, error) {
	log := c.log.Function("TemporaryLogin")

	if strings.TrimSpace(token) == "" {
		return nil, &ValidationError{Message: "No token provided"}
	}

	raw, err := c.do(ctx, http.MethodPost, "/temporary/login", "", TemporaryLoginRequest{
		Token: token,
	}, nil)
	if err != nil {
		return nil, err
	}

	return decodeAuthResult(raw, log.Err)
}

// GenerateTemporary asks the upstream service to mint a one-time token for
// username. Admin-only; the caller's bearer token authorizes it.
func (c *Client) GenerateTemporary(ctx context.Context, bearer, username string, expiresInHours int) (string, error) {
	log := c.log.Function("GenerateTemporary")

	raw, err := c.do(ctx, http.MethodPost, "/temporary/generate", bearer, GenerateTemporaryRequest{
		Username:       username,
		ExpiresInHours: expiresInHours,
	}, nil)
	if err != nil {
		return "", err
	}

	var body struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return "", log.Err("failed to decode generate response", &DecodeError{Err: err})
	}
	if body.Token == "" {
		return "", log.ErrMsg("generate response carried no token")
	}

	return body.Token, nil
}

func decodeAuthResult(raw []byte, wrap func(string, error, ...any) error) (*AuthResult, error) {
	var result AuthResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, wrap("failed to decode auth response", &DecodeError{Err: err})
	}

	// A token without an identity (or vice versa) must never enter the
	// session store.
	if result.AccessToken == "" || result.User.ID == "" {
		return nil, wrap("auth response missing token or user",
			&DecodeError{Err: errors.New("incomplete auth response")})
	}

	return &result, nil
}
