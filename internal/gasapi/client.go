// Package gasapi is the typed client for the spreadsheet-backed business API.
//
// Reads are GET requests carrying the action name, the session token and the
// parameters in the query string. Writes are POST requests whose text/plain
// body is {"action","token","data"}. Every response is an Envelope; its
// success flag decides the outcome, not the HTTP transport.
package gasapi

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	json "github.com/goccy/go-json"
)

const maxBodyBytes = 16 << 20

type tokenKey struct{}

// WithToken attaches the remote session token to ctx. Calls made with the
// returned context send it along.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFrom returns the token attached with WithToken, if any.
func TokenFrom(ctx context.Context) string {
	tok, _ := ctx.Value(tokenKey{}).(string)
	return tok
}

// Client talks to one GAS web app deployment.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
	metrics *Metrics
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// New returns a client for baseURL. An empty baseURL yields a client whose
// every call fails with ErrNotConfigured.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether an endpoint URL is set.
func (c *Client) Configured() bool {
	return c != nil && c.baseURL != ""
}

// Get performs a read action.
func (c *Client) Get(ctx context.Context, action string, params url.Values) (Envelope, error) {
	if !c.Configured() {
		return Envelope{}, ErrNotConfigured
	}
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return Envelope{}, &TransportError{Action: action, Err: err}
	}
	q := u.Query()
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	// set last so params cannot override them
	q.Set("action", action)
	q.Del("token")
	if tok := TokenFrom(ctx); tok != "" {
		q.Set("token", tok)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Envelope{}, &TransportError{Action: action, Err: err}
	}
	return c.do(req, action)
}

// Post performs a write action. data is serialized under the "data" key.
func (c *Client) Post(ctx context.Context, action string, data any) (Envelope, error) {
	if !c.Configured() {
		return Envelope{}, ErrNotConfigured
	}
	if data == nil {
		data = map[string]any{}
	}
	body, err := json.Marshal(struct {
		Action string `json:"action"`
		Token  string `json:"token"`
		Data   any    `json:"data"`
	}{Action: action, Token: TokenFrom(ctx), Data: data})
	if err != nil {
		return Envelope{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return Envelope{}, &TransportError{Action: action, Err: err}
	}
	// text/plain keeps the request "simple" so Apps Script never sees a preflight.
	req.Header.Set("Content-Type", "text/plain")
	return c.do(req, action)
}

func (c *Client) do(req *http.Request, action string) (Envelope, error) {
	start := time.Now()
	env, status, err := c.roundTrip(req, action)
	c.observe(action, req.Method, status, err, time.Since(start))
	return env, err
}

func (c *Client) roundTrip(req *http.Request, action string) (Envelope, int, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return Envelope{}, 0, &TransportError{Action: action, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Envelope{}, resp.StatusCode, &TransportError{Action: action, Status: 0, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Envelope{}, resp.StatusCode, &TransportError{
			Action: action,
			Status: resp.StatusCode,
			Err:    errors.New(http.StatusText(resp.StatusCode)),
		}
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, resp.StatusCode, &ProtocolError{Action: action, Snippet: snippet(raw), Err: err}
	}
	if !env.Success {
		return env, resp.StatusCode, env.toError(action)
	}
	return env, resp.StatusCode, nil
}

func (c *Client) observe(action, method string, status int, err error, d time.Duration) {
	outcome := outcomeOf(err)
	c.logger.Debug("gas request",
		"method", method,
		"action", action,
		"status", status,
		"outcome", outcome,
		"duration_ms", float64(d.Microseconds())/1000.0,
	)
	if err != nil && outcome != "app_error" {
		c.logger.Warn("gas request failed", "action", action, "err", err)
	}
	if c.metrics != nil {
		c.metrics.observe(action, outcome, d)
	}
}

func outcomeOf(err error) string {
	var (
		transportErr *TransportError
		protocolErr  *ProtocolError
		appErr       *AppError
	)
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotConfigured):
		return "not_configured"
	case errors.As(err, &transportErr):
		return "transport_error"
	case errors.As(err, &protocolErr):
		return "protocol_error"
	case errors.As(err, &appErr):
		return "app_error"
	default:
		return "error"
	}
}

func snippet(b []byte) string {
	const n = 200
	if len(b) > n {
		return string(b[:n])
	}
	return string(b)
}

// decode unmarshals env.Data into T. A missing payload decodes to the zero T.
func decode[T any](action string, env Envelope) (T, error) {
	var out T
	if !env.HasData() {
		return out, nil
	}
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return out, &ProtocolError{Action: action, Snippet: snippet(env.Data), Err: err}
	}
	return out, nil
}

func getAs[T any](ctx context.Context, c *Client, action string, params url.Values) (T, error) {
	env, err := c.Get(ctx, action, params)
	if err != nil {
		var zero T
		return zero, err
	}
	return decode[T](action, env)
}

func postAs[T any](ctx context.Context, c *Client, action string, data any) (T, error) {
	env, err := c.Post(ctx, action, data)
	if err != nil {
		var zero T
		return zero, err
	}
	return decode[T](action, env)
}
