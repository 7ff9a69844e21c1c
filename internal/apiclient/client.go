// Package apiclient is the only component that talks to the remote blog API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/blogdesk/blogdesk-go/internal/metrics"
)

const (
	userAgent       = "blogdesk/1.0"
	maxResponseSize = 4 << 20
)

// CredentialSource supplies the bearer credential for outgoing requests.
// An empty credential means no Authorization header is sent.
type CredentialSource interface {
	Credential() string
}

// Client calls the blog REST API.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	credentials CredentialSource
	logger      *slog.Logger
	metrics     metrics.Recorder
}

// New creates a Client rooted at baseURL.
func New(baseURL string, httpClient *http.Client, credentials CredentialSource, logger *slog.Logger, rec metrics.Recorder) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	if rec == nil {
		rec = metrics.NopRecorder{}
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  httpClient,
		credentials: credentials,
		logger:      logger,
		metrics:     rec,
	}
}

// call describes one request.
type call struct {
	endpoint string
	method   string
	path     string
	query    url.Values
	body     any
	out      any
}

// do performs c once. On 204 the body is never read and out is left as is.
// It returns the response status.
func (c *Client) do(ctx context.Context, rc call) (int, error) {
	start := time.Now()
	status, err := c.send(ctx, rc)

	outcome := "ok"
	if apiErr, ok := AsError(err); ok {
		outcome = string(apiErr.Kind) + "_error"
	}
	elapsed := time.Since(start)
	c.metrics.RecordAPICall(rc.endpoint, rc.method, outcome, elapsed)

	attrs := []any{
		slog.String("method", rc.method),
		slog.String("path", rc.path),
		slog.Int("status", status),
		slog.Int64("duration_ms", elapsed.Milliseconds()),
		slog.String("request_id", chimw.GetReqID(ctx)),
	}
	if err != nil {
		c.logger.WarnContext(ctx, "api call failed", append(attrs, slog.String("error", err.Error()))...)
		return status, err
	}
	c.logger.DebugContext(ctx, "api call", attrs...)
	return status, nil
}

func (c *Client) send(ctx context.Context, rc call) (int, error) {
	target := c.baseURL + rc.path
	if len(rc.query) > 0 {
		target += "?" + rc.query.Encode()
	}

	var reader io.Reader
	if rc.body != nil {
		payload, err := json.Marshal(rc.body)
		if err != nil {
			return 0, requestError(fmt.Errorf("encoding body: %w", err))
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, rc.method, target, reader)
	if err != nil {
		return 0, requestError(err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if rc.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.credentials != nil {
		if credential := c.credentials.Credential(); credential != "" {
			req.Header.Set("Authorization", credential)
		}
	}
	if id := chimw.GetReqID(ctx); id != "" {
		req.Header.Set(chimw.RequestIDHeader, id)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, networkError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return resp.StatusCode, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return resp.StatusCode, networkError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, httpError(resp.StatusCode, serverMessage(body))
	}

	if rc.out == nil || len(bytes.TrimSpace(body)) == 0 {
		return resp.StatusCode, nil
	}
	if err := json.Unmarshal(body, rc.out); err != nil {
		return resp.StatusCode, decodeError(resp.StatusCode, err)
	}
	return resp.StatusCode, nil
}

// serverMessage extracts {"message": "..."} from an error body.
func serverMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return strings.TrimSpace(payload.Message)
}

// checkShape turns a failed boundary check into a decode error.
func checkShape(status int, ok bool, what string) error {
	if ok {
		return nil
	}
	return decodeError(status, errors.New(what))
}
