package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"github.com/myrjola/reelcheck/internal/errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Client is a JSON-over-HTTP transport for the collaborator APIs.
//
// It does not retry and does not enforce timeouts of its own. The collaborator's error message is surfaced as is.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a client for the API rooted at baseURL, e.g. http://localhost:8000/api.
func New(baseURL string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{} //nolint:exhaustruct // zero timeout on purpose, verdicts can take minutes
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger.With(slog.String("source", "apiclient"), slog.String("base_url", baseURL)),
	}
}

// BaseURL returns the root the request paths are resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Request describes one collaborator call.
type Request struct {
	Method string
	// Path is appended to the base URL.
	Path string
	// Token is sent as bearer credential when not empty.
	Token string
	// Body is encoded as JSON when not nil.
	Body any
}

// Do performs req and decodes a successful JSON response into out unless out is nil.
//
// Non-2xx responses return a *RemoteError. Transport failures return a *NetworkError.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	var (
		err     error
		body    io.Reader
		httpReq *http.Request
		resp    *http.Response
		start   = time.Now()
	)
	if req.Body != nil {
		var b []byte
		if b, err = json.Marshal(req.Body); err != nil {
			return errors.Wrap(err, "marshal request body", slog.String("path", req.Path))
		}
		body = bytes.NewReader(b)
	}
	if httpReq, err = http.NewRequestWithContext(ctx, req.Method, c.baseURL+req.Path, body); err != nil {
		return errors.Wrap(err, "create request", slog.String("path", req.Path))
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.Token)
	}

	if resp, err = c.httpClient.Do(httpReq); err != nil {
		c.logger.LogAttrs(ctx, slog.LevelWarn, "collaborator unreachable",
			slog.String("method", req.Method), slog.String("path", req.Path), errors.SlogError(err))
		return &NetworkError{Method: req.Method, Path: req.Path, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	c.logger.LogAttrs(ctx, slog.LevelDebug, "collaborator call",
		slog.String("method", req.Method),
		slog.String("path", req.Path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newRemoteError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decode response body",
			slog.String("path", req.Path), slog.Int("status", resp.StatusCode))
	}
	return nil
}

// maxErrorBody limits how much of an error response is read.
const maxErrorBody = 64 << 10

func newRemoteError(resp *http.Response) *RemoteError {
	remoteErr := &RemoteError{
		StatusCode: resp.StatusCode,
		Message:    "",
	}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var payload struct {
		Message json.RawMessage `json:"message"`
		Detail  json.RawMessage `json:"detail"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(b, &payload); err == nil {
		for _, candidate := range []json.RawMessage{payload.Message, payload.Detail, payload.Error} {
			var s string
			if len(candidate) > 0 && json.Unmarshal(candidate, &s) == nil && s != "" {
				remoteErr.Message = s
				break
			}
		}
	}
	if remoteErr.Message == "" {
		remoteErr.Message = fmt.Sprintf("request failed with status %d %s",
			resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	return remoteErr
}
