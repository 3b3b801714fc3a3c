package retrieve

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

	"github.com/google/uuid"

	"docs-chat/internal/domain"
)

const (
	correlationHeader = "X-Correlation-Id"
	maxBodyBytes      = 4 << 20
)

// retrieveRequest is the request shape for the /retrieve endpoint.
type retrieveRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// decodeEnvelope extracts the reply from a {"response": Reply} body. Only a
// syntax error fails; a missing or null "response", or a body that is not an
// object, yields a nil Reply, and wrongly typed members inside the reply are
// dropped by the domain decoders.
func decodeEnvelope(raw []byte) (*domain.Reply, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return nil, &DecodeError{Err: err}
		}
		return nil, nil
	}
	resp, ok := envelope["response"]
	if !ok || bytes.Equal(bytes.TrimSpace(resp), []byte("null")) {
		return nil, nil
	}
	var reply domain.Reply
	if err := json.Unmarshal(resp, &reply); err != nil {
		return nil, &DecodeError{Err: err}
	}
	return &reply, nil
}

// HTTPStatusError captures non-2xx upstream responses with status-aware context.
type HTTPStatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("retrieve: unexpected status %d from %s: %s", e.StatusCode, e.URL, e.Body)
}

func (e *HTTPStatusError) HTTPStatusCode() int {
	return e.StatusCode
}

// DecodeError marks a 2xx response whose body was not a valid reply envelope.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("retrieve: decode response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func (e *DecodeError) MalformedResponse() bool {
	return true
}

// TooLargeError marks a 2xx response whose body exceeded the read limit.
type TooLargeError struct {
	Limit int64
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("retrieve: response body exceeds %d bytes", e.Limit)
}

func (e *TooLargeError) ResponseTooLarge() bool {
	return true
}

// Client calls the retrieve-and-generate API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the default client. The default has no timeout, so a
// call waits on the transport for as long as it takes.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a Client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("retrieve: base URL must not be empty")
	}
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) resolvedHTTPClient() *http.Client {
	if c.httpClient != nil {
		return c.httpClient
	}
	return http.DefaultClient
}

func retrieveURL(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + "/retrieve"
}

// Retrieve posts one message and returns the decoded reply. The reply is nil
// when the envelope carries no usable "response".
func (c *Client) Retrieve(ctx context.Context, sessionID, message string) (*domain.Reply, error) {
	body, err := json.Marshal(retrieveRequest{SessionID: sessionID, Message: message})
	if err != nil {
		return nil, fmt.Errorf("retrieve: marshal request: %w", err)
	}

	url := retrieveURL(c.baseURL)
	correlationID := newCorrelationID()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("retrieve: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(correlationHeader, correlationID)

	c.logger.DebugContext(ctx, "retrieve request", "url", url, "correlation_id", correlationID)

	raw, err := c.doJSONRequest(req, url)
	if err != nil {
		return nil, fmt.Errorf("retrieve: request failed: %w", err)
	}

	reply, err := decodeEnvelope(raw)
	if err != nil {
		return nil, err
	}
	c.logger.DebugContext(ctx, "retrieve response",
		"correlation_id", correlationID,
		"citations", len(reply.CitationList()),
		"guardrail_intervened", reply.Intervened(),
	)
	return reply, nil
}

func (c *Client) doJSONRequest(req *http.Request, url string) ([]byte, error) {
	res, err := c.resolvedHTTPClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		buf, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return nil, &HTTPStatusError{
			StatusCode: res.StatusCode,
			URL:        url,
			Body:       string(buf),
		}
	}

	buf, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if int64(len(buf)) > maxBodyBytes {
		return nil, &TooLargeError{Limit: maxBodyBytes}
	}
	return buf, nil
}

var newCorrelationID = func() string {
	return uuid.NewString()
}
