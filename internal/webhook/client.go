package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/tinytelemetry/consultas/internal/model"
)

// bodyPreviewLimit caps how much of an unexpected response body reaches the user.
const bodyPreviewLimit = 200

// maxBodyRead bounds how much of the response is read at all.
const maxBodyRead = 64 << 10

// ErrNoEndpoint is reported when Trigger runs without a configured URL.
var ErrNoEndpoint = errors.New("webhook: endpoint not configured")

// Config holds the settings needed to reach the automation flow endpoint.
type Config struct {
	Endpoint  string
	Timeout   time.Duration
	Source    string
	Action    string
	UserAgent string

	// HTTPClient overrides the default client. Its Timeout is left untouched.
	HTTPClient *http.Client
	Logger     zerolog.Logger
	Now        func() time.Time
}

// Payload is the JSON body posted to the flow endpoint.
type Payload struct {
	Timestamp string `json:"timestamp"`
	Source    string `json:"source"`
	Action    string `json:"action"`
}

// Result is the outcome of one Trigger call. Err carries the typed failure
// (AuthError, TransportError, UnexpectedStatusError) when Success is false.
type Result struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code,omitempty"`
	Err        error  `json:"-"`
}

// Client fires the automation flow webhook.
type Client struct {
	endpoint  string
	http      *http.Client
	source    string
	action    string
	userAgent string
	now       func() time.Time
	logger    zerolog.Logger
}

// NewClient builds a Client. The endpoint is taken as an opaque string and
// only parsed when a call is made.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = model.DefaultWebhookTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	c := &Client{
		endpoint:  cfg.Endpoint,
		http:      httpClient,
		source:    cfg.Source,
		action:    cfg.Action,
		userAgent: cfg.UserAgent,
		now:       cfg.Now,
		logger:    cfg.Logger.With().Str("component", "webhook").Logger(),
	}
	if c.source == "" {
		c.source = model.WebhookSource
	}
	if c.action == "" {
		c.action = model.WebhookAction
	}
	if c.userAgent == "" {
		c.userAgent = model.WebhookUserAgent
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// Endpoint returns the configured flow URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Trigger posts one notification to the flow endpoint and interprets the
// response. It never panics and never returns an error; every failure is
// folded into the Result.
func (c *Client) Trigger(ctx context.Context) (res Result) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			res = Result{Message: fmt.Sprintf("Error: %v", r), Err: fmt.Errorf("webhook: panic: %v", r)}
		}
		c.logOutcome(res, time.Since(start))
	}()

	if c.endpoint == "" {
		return Result{Message: "Error: webhook endpoint is not configured", Err: ErrNoEndpoint}
	}

	body, err := json.Marshal(Payload{
		Timestamp: c.now().Format(time.RFC3339Nano),
		Source:    c.source,
		Action:    c.action,
	})
	if err != nil {
		return Result{Message: fmt.Sprintf("Error: %v", err), Err: fmt.Errorf("marshal payload: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Result{Message: fmt.Sprintf("Error: %v", err), Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{
			Message: fmt.Sprintf("Connection error: %v", err),
			Err:     &TransportError{Err: err},
		}
	}
	defer resp.Body.Close()

	return interpret(resp)
}

func interpret(resp *http.Response) Result {
	switch resp.StatusCode {
	case http.StatusOK, http.StatusAccepted:
		return Result{
			Success:    true,
			Message:    "Flow executed successfully!",
			StatusCode: resp.StatusCode,
		}
	case http.StatusUnauthorized:
		return Result{
			Message:    "Error 401: Unauthorized. Check that the URL includes all of its parameters (sig, sp, sv, api-version).",
			StatusCode: resp.StatusCode,
			Err:        &AuthError{StatusCode: resp.StatusCode},
		}
	case http.StatusForbidden:
		return Result{
			Message:    "Error 403: Access denied. Check that the flow is active and shared.",
			StatusCode: resp.StatusCode,
			Err:        &AuthError{StatusCode: resp.StatusCode},
		}
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyRead))
	preview := truncate(string(raw), bodyPreviewLimit)
	return Result{
		Message:    fmt.Sprintf("Error %d: %s", resp.StatusCode, preview),
		StatusCode: resp.StatusCode,
		Err:        &UnexpectedStatusError{StatusCode: resp.StatusCode, Body: preview},
	}
}

// truncate keeps the first n characters of s, counting runes rather than bytes.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

func (c *Client) logOutcome(res Result, elapsed time.Duration) {
	ev := c.logger.Info()
	if !res.Success {
		ev = c.logger.Warn().Err(res.Err)
	}
	ev.Int("status", res.StatusCode).
		Dur("elapsed", elapsed).
		Bool("success", res.Success).
		Msg("webhook call finished")
}
