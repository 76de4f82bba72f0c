// Package authapi is the client for the remote store's /api/auth contract.
package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mcoot/potatofarm/internal/api/apierr"
	"github.com/mcoot/potatofarm/internal/api/request"
	"github.com/mcoot/potatofarm/internal/api/response"
	"github.com/mcoot/potatofarm/internal/model"
)

// BasePath is the prefix of every auth/save endpoint
const BasePath = "/api/auth"

// TokenSource supplies the bearer credential for each request.
// An empty token sends the request unauthenticated.
type TokenSource interface {
	Token(ctx context.Context) string
}

// StaticToken is a fixed TokenSource
type StaticToken string

func (t StaticToken) Token(context.Context) string { return string(t) }

// Client is an HTTP client for the remote store
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new API client
func NewClient(baseURL string, tokens TokenSource, logger *slog.Logger) *Client {
	if tokens == nil {
		tokens = StaticToken("")
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// Error is a failed remote call. Status is zero for transport failures.
type Error struct {
	Status  int
	Code    string
	Message string
	Kind    model.ErrorKind
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Status == 0 && e.Err != nil:
		return fmt.Sprintf("request failed: %v", e.Err)
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return fmt.Sprintf("HTTP %d: %v", e.Status, e.Err)
	default:
		return fmt.Sprintf("HTTP %d", e.Status)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// ErrorKind implements model.Kinded
func (e *Error) ErrorKind() model.ErrorKind { return e.Kind }

// Do performs an HTTP request against the remote store
func (c *Client) Do(ctx context.Context, method, path string, body, result any) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if token := c.tokens.Token(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Kind: model.KindNetwork, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Status: resp.StatusCode, Kind: model.KindNetwork, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errorFromResponse(resp.StatusCode, respBody)
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return &Error{Status: resp.StatusCode, Err: fmt.Errorf("failed to parse response: %w", err)}
		}
	}

	return nil
}

// errorFromResponse parses a non-2xx body. An unparsable body yields an
// empty error object; the status still classifies it.
func errorFromResponse(status int, body []byte) *Error {
	var errResp apierr.ErrorResponse
	_ = json.Unmarshal(body, &errResp)

	e := &Error{Status: status, Code: errResp.Code, Message: errResp.Error}

	if kind, ok := apierr.KindForCode(errResp.Code); ok {
		e.Kind = kind
		return e
	}
	if kind := apierr.KindForMessage(errResp.Error); kind != model.KindUnknown {
		e.Kind = kind
		return e
	}
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		e.Kind = model.KindAuth
	case http.StatusNotFound:
		e.Kind = model.KindNotFound
	}
	return e
}

// Signup creates an account and returns its token
func (c *Client) Signup(ctx context.Context, username, email, password string) (*response.AuthResponse, error) {
	var result response.AuthResponse
	req := request.SignupRequest{Username: username, Email: email, Password: password}
	if err := c.Do(ctx, http.MethodPost, BasePath+"/signup", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Login authenticates with a username or email
func (c *Client) Login(ctx context.Context, identifier, password string) (*response.AuthResponse, error) {
	var result response.AuthResponse
	req := request.LoginRequest{Identifier: identifier, Password: password}
	if err := c.Do(ctx, http.MethodPost, BasePath+"/login", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Me looks up the identity behind the current credential
func (c *Client) Me(ctx context.Context) (*response.Account, error) {
	var result response.Account
	if err := c.Do(ctx, http.MethodGet, BasePath+"/me", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SaveGame stores a save for the current credential
func (c *Client) SaveGame(ctx context.Context, save model.GameSave) error {
	return c.Do(ctx, http.MethodPost, BasePath+"/save", save, nil)
}

// LoadGame fetches the save for the current credential. A body that is not
// a JSON save object is reported as an error.
func (c *Client) LoadGame(ctx context.Context) (model.GameSave, error) {
	var raw json.RawMessage
	if err := c.Do(ctx, http.MethodGet, BasePath+"/load", nil, &raw); err != nil {
		return model.GameSave{}, err
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return model.GameSave{}, &Error{Status: http.StatusOK, Kind: model.KindNotFound, Err: model.ErrSaveNotFound}
	}

	var save model.GameSave
	if err := json.Unmarshal(trimmed, &save); err != nil {
		return model.GameSave{}, &Error{Status: http.StatusOK, Err: fmt.Errorf("failed to parse save: %w", err)}
	}
	return save, nil
}

// FetchLeaderboard returns the current leaderboard. It never fails: on any
// error it logs and returns an empty board.
func (c *Client) FetchLeaderboard(ctx context.Context) model.Leaderboard {
	var result model.Leaderboard
	if err := c.Do(ctx, http.MethodGet, "/api/leaderboard", nil, &result); err != nil {
		c.logger.Warn("leaderboard fetch failed", slog.String("error", err.Error()))
		return model.Leaderboard{TopPlayers: []model.LeaderboardEntry{}}
	}
	if result.TopPlayers == nil {
		result.TopPlayers = []model.LeaderboardEntry{}
	}
	return result
}

// Health checks the remote store
func (c *Client) Health(ctx context.Context) (*response.Health, error) {
	var result response.Health
	if err := c.Do(ctx, http.MethodGet, "/api/health", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
