// Package api is the REST boundary to the team server.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/heartmarshall/teamqueries/internal/config"
	"github.com/heartmarshall/teamqueries/internal/domain"
	"github.com/heartmarshall/teamqueries/internal/wire"
	"github.com/heartmarshall/teamqueries/pkg/ctxutil"
)

const placeholderImage = "https://via.placeholder.com/50"

// Client calls the team server on behalf of one session. It is safe for
// concurrent use.
type Client struct {
	baseURL    string
	backendURL string
	token      string
	retryDelay time.Duration
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates an unauthenticated Client. Use WithToken after login.
func NewClient(cfg config.APIConfig, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		backendURL: strings.TrimRight(cfg.BackendURL, "/"),
		retryDelay: cfg.ReadRetryDelay,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger.With("adapter", "api"),
	}
}

// WithToken returns a copy of c that sends token as a bearer credential.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// ImageURL resolves a profile image path served by the backend. Absolute
// URLs pass through; an empty path yields a placeholder.
func (c *Client) ImageURL(path string) string {
	if path == "" {
		return placeholderImage
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	clean := strings.TrimLeft(strings.ReplaceAll(path, `\`, "/"), "/")
	return c.backendURL + "/" + clean
}

// payload is a prepared request body. Bodies are kept as bytes so a retried
// read can rebuild the request.
type payload struct {
	contentType string
	body        []byte
}

func jsonPayload(v any) (*payload, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return &payload{contentType: "application/json", body: body}, nil
}

// do sends one call and decodes a successful response into out (if non-nil).
// Every failure is returned as *domain.OperationError.
func (c *Client) do(ctx context.Context, op domain.Operation, method, path string, in *payload, out any) error {
	ctx, requestID := ctxutil.EnsureRequestID(ctx)
	log := c.log.With(slog.String("op", op.String()), slog.String("request_id", requestID))
	if userID, ok := ctxutil.UserIDFromCtx(ctx); ok {
		log = log.With(slog.String("user_id", userID))
	}

	newRequest := func() (*http.Request, error) {
		var body io.Reader
		if in != nil {
			body = bytes.NewReader(in.body)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Request-ID", requestID)
		if in != nil {
			req.Header.Set("Content-Type", in.contentType)
		}
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}
		return req, nil
	}

	log.DebugContext(ctx, "api request", slog.String("method", method), slog.String("path", path))

	var resp *http.Response
	var err error
	if op.IsRead() {
		resp, err = c.doWithRetry(ctx, log, newRequest)
	} else {
		resp, err = c.send(newRequest)
	}
	if err != nil {
		log.ErrorContext(ctx, "api request failed", slog.String("error", err.Error()))
		return &domain.OperationError{Op: op, Message: err.Error(), Err: domain.ErrTransport}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &domain.OperationError{Op: op, Status: resp.StatusCode, Message: "read body: " + err.Error(), Err: domain.ErrTransport}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		opErr := statusError(op, resp.StatusCode, body)
		log.WarnContext(ctx, "api call rejected",
			slog.Int("status", resp.StatusCode),
			slog.String("message", opErr.Message),
		)
		return opErr
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &domain.OperationError{Op: op, Status: resp.StatusCode, Message: "decode json: " + err.Error(), Err: domain.ErrTransport}
	}
	return nil
}

func (c *Client) send(newRequest func() (*http.Request, error)) (*http.Response, error) {
	req, err := newRequest()
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	return c.httpClient.Do(req)
}

// doWithRetry executes the request with a single retry on 5xx or network
// errors. Only reads go through here.
func (c *Client) doWithRetry(ctx context.Context, log *slog.Logger, newRequest func() (*http.Request, error)) (*http.Response, error) {
	resp, err := c.send(newRequest)

	shouldRetry := err != nil || (resp != nil && resp.StatusCode >= 500)
	if !shouldRetry {
		return resp, err
	}

	// Don't retry if context is already cancelled.
	if ctx.Err() != nil {
		return resp, err
	}

	reason := "network error"
	if err == nil && resp != nil {
		reason = fmt.Sprintf("status %d", resp.StatusCode)
	}
	log.WarnContext(ctx, "api retry", slog.String("reason", reason))

	// Close body from the failed attempt before retrying.
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(c.retryDelay):
	}

	return c.send(newRequest)
}

// statusError classifies a non-2xx response.
func statusError(op domain.Operation, status int, body []byte) *domain.OperationError {
	var eb wire.ErrorBody
	msg := ""
	if json.Unmarshal(body, &eb) == nil {
		msg = eb.Text()
	}
	if msg == "" {
		msg = http.StatusText(status)
	}

	var sentinel error
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		sentinel = domain.ErrValidation
	case http.StatusUnauthorized:
		sentinel = domain.ErrUnauthorized
	case http.StatusForbidden:
		sentinel = domain.ErrForbidden
	case http.StatusNotFound:
		sentinel = domain.ErrNotFound
	case http.StatusConflict:
		sentinel = domain.ErrConflict
	default:
		sentinel = domain.ErrTransport
	}
	return &domain.OperationError{Op: op, Status: status, Message: msg, Err: sentinel}
}

// wrapDecode reports a record the server sent but the client cannot use.
func wrapDecode(op domain.Operation, err error) error {
	var opErr *domain.OperationError
	if errors.As(err, &opErr) {
		return err
	}
	return &domain.OperationError{Op: op, Message: err.Error(), Err: domain.ErrTransport}
}
