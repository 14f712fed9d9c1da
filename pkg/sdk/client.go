package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const maxResponseBytes = 4 << 20

// Client provides a high-level interface to the HomeStock REST API.
// Every request passes through one transport that attaches the session's
// bearer token and terminates the session on 401/403.
type Client struct {
	baseURL  string
	http     *http.Client
	sessions *SessionManager
	notifier Notifier
	logger   *slog.Logger
}

// ClientOptions configures SDK client construction.
type ClientOptions struct {
	HTTPClient *http.Client
	Store      SessionStore
	Sessions   *SessionManager
	Notifier   Notifier
	Logger     *slog.Logger
}

// ClientOption mutates ClientOptions.
type ClientOption func(*ClientOptions)

// WithHTTPClient overrides the HTTP client used for API calls. Its transport
// is wrapped, not replaced.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(opts *ClientOptions) {
		opts.HTTPClient = client
	}
}

// WithSessionStore sets where the session is persisted.
func WithSessionStore(store SessionStore) ClientOption {
	return func(opts *ClientOptions) {
		opts.Store = store
	}
}

// WithSessionManager shares an existing session manager with the client.
// It takes precedence over WithSessionStore.
func WithSessionManager(m *SessionManager) ClientOption {
	return func(opts *ClientOptions) {
		opts.Sessions = m
	}
}

// WithNotifier sets the receiver of user-visible notices.
func WithNotifier(n Notifier) ClientOption {
	return func(opts *ClientOptions) {
		opts.Notifier = n
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(opts *ClientOptions) {
		opts.Logger = logger
	}
}

// NewClient creates a client for the API server at baseURL. A session
// manager over an in-memory store is created when none is supplied.
func NewClient(baseURL string, optFns ...ClientOption) *Client {
	opts := ClientOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Notifier == nil {
		opts.Notifier = discardNotifier{}
	}
	if opts.Sessions == nil {
		opts.Sessions = NewSessionManager(opts.Store, opts.Logger)
	}

	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		sessions: opts.Sessions,
		notifier: opts.Notifier,
		logger:   opts.Logger,
	}

	base := opts.HTTPClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	httpClient := *opts.HTTPClient
	httpClient.Transport = &sessionTransport{
		base:       base,
		sessions:   c.sessions,
		onAuthLost: c.authorizationLost,
	}
	c.http = &httpClient

	return c
}

// Sessions exposes the session manager the client reads and writes.
func (c *Client) Sessions() *SessionManager {
	return c.sessions
}

// Session returns a snapshot of the current session.
func (c *Client) Session() Session {
	return c.sessions.Current()
}

// authorizationLost runs inside the transport. Only the call that actually
// ends the session notifies, so a burst of 401s yields one notice.
func (c *Client) authorizationLost(rc RequestContext, status int) {
	if !c.sessions.TerminateIfToken(rc.Token) {
		return
	}
	c.logger.Info("session terminated after authorization failure",
		"status", status, "request_id", rc.RequestID)
	c.notifier.Notify(SessionExpiredNotice)
}

type rawResponse struct {
	status int
	body   []byte
}

// send performs the HTTP exchange. It only fails for encoding and transport
// problems; status interpretation is left to the caller.
func (c *Client) send(ctx context.Context, method, path string, in any) (*rawResponse, error) {
	endpoint, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s %s request: %w", method, path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s %s request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &NetworkError{Op: method + " " + path, Err: err}
	}

	c.logger.Debug("api call", "method", method, "path", path, "status", resp.StatusCode)
	return &rawResponse{status: resp.StatusCode, body: data}, nil
}

// do runs an authenticated call and decodes a 2xx body into out.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	if !c.sessions.Current().Authenticated() {
		return ErrNotAuthenticated
	}

	resp, err := c.send(ctx, method, path, in)
	if err != nil {
		return err
	}

	if IsAuthorizationFailure(resp.status) {
		return &AuthorizationLostError{StatusCode: resp.status, Message: remoteMessage(resp.body)}
	}
	if resp.status >= 400 {
		return &RemoteError{StatusCode: resp.status, Message: remoteMessage(resp.body)}
	}
	if out == nil || len(bytes.TrimSpace(resp.body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

// remoteMessage extracts the backend's message from an error body.
func remoteMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return strings.TrimSpace(string(body))
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}
