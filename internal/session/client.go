package session

import (
	"context"
	"github.com/myrjola/reelcheck/internal/apiclient"
	"github.com/myrjola/reelcheck/internal/errors"
	"github.com/myrjola/reelcheck/internal/models"
	"log/slog"
	"net/http"
)

// ErrNoSession is returned when no token is stored. No collaborator call is made in that case.
var ErrNoSession = errors.NewSentinel("no session")

// Client exchanges credentials for a token and validates the stored token against the auth collaborator.
type Client struct {
	api    *apiclient.Client
	tokens TokenStore
	logger *slog.Logger
}

func NewClient(api *apiclient.Client, tokens TokenStore, logger *slog.Logger) *Client {
	return &Client{
		api:    api,
		tokens: tokens,
		logger: logger,
	}
}

// Tokens exposes the token slot so the entry collaborator can authenticate with the same session.
func (c *Client) Tokens() TokenStore {
	return c.tokens
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

// Login stores the token on success. Nothing is stored on failure and the collaborator's message is returned.
func (c *Client) Login(ctx context.Context, creds models.Credentials) error {
	var resp loginResponse
	err := c.api.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Token:  "",
		Body:   creds,
	}, &resp)
	if err != nil {
		return errors.Wrap(err, "login", slog.String("email", creds.Email))
	}
	if resp.AccessToken == "" {
		return errors.New("login response missing access token", slog.String("email", creds.Email))
	}
	if err = c.tokens.SetToken(ctx, resp.AccessToken); err != nil {
		return errors.Wrap(err, "store token")
	}
	c.logger.LogAttrs(ctx, slog.LevelInfo, "logged in", slog.String("email", creds.Email))
	return nil
}

// checkLoginResponse tolerates collaborators that answer with the email only.
type checkLoginResponse struct {
	LoggedIn models.OptBool `json:"logged_in"`
	Email    string         `json:"email"`
}

// CheckSession validates the stored token and returns the identity behind it. Any 2xx reply is a valid session
// unless it carries logged_in: false.
func (c *Client) CheckSession(ctx context.Context) (models.Identity, error) {
	token := c.tokens.Token(ctx)
	if token == "" {
		return models.Identity{}, ErrNoSession
	}
	var resp checkLoginResponse
	err := c.api.Do(ctx, apiclient.Request{
		Method: http.MethodGet,
		Path:   "/auth/check-login",
		Token:  token,
		Body:   nil,
	}, &resp)
	if err != nil {
		return models.Identity{}, errors.Wrap(err, "check session")
	}
	if resp.LoggedIn.Valid && !resp.LoggedIn.Value {
		return models.Identity{}, errors.Wrap(apiclient.ErrUnauthorized, "collaborator reports logged out")
	}
	return models.Identity{LoggedIn: true, Email: resp.Email}, nil
}

// Logout removes the token unconditionally. Calling it repeatedly has the same effect as calling it once.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.tokens.ClearToken(ctx); err != nil {
		return errors.Wrap(err, "clear token")
	}
	return nil
}
