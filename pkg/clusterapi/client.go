package clusterapi

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is the API root used when WithBaseURL is not given.
	DefaultBaseURL = "/api"
	// DefaultServer is the origin a path-only base URL is resolved against.
	DefaultServer = "http://localhost:8000"

	defaultUserAgent = "clusterctl"

	requestIDHeader = "X-Request-ID"
)

// Client talks to the cluster management API. It holds no mutable state
// after construction and is safe for concurrent use.
type Client struct {
	baseURL string
	rest    *resty.Client
	log     *zap.SugaredLogger
}

type options struct {
	server     string
	baseURL    string
	timeout    time.Duration
	tlsConfig  *tls.Config
	userAgent  string
	httpClient *http.Client
	headers    map[string]string
	log        *zap.SugaredLogger
}

type Option func(*options) error

func New(opts ...Option) (*Client, error) {
	o := &options{
		server:    DefaultServer,
		baseURL:   DefaultBaseURL,
		userAgent: defaultUserAgent,
		headers:   map[string]string{},
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	if o.log == nil {
		o.log = zap.NewNop().Sugar()
	}

	baseURL, err := resolveBaseURL(o.server, o.baseURL)
	if err != nil {
		return nil, err
	}

	var rc *resty.Client
	if o.httpClient != nil {
		rc = resty.NewWithClient(o.httpClient)
	} else {
		rc = resty.New()
	}
	rc.SetBaseURL(baseURL).
		SetRetryCount(0).
		SetLogger(o.log).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", o.userAgent).
		SetHeaders(o.headers)
	if o.timeout > 0 {
		rc.SetTimeout(o.timeout)
	}
	if o.tlsConfig != nil {
		rc.SetTLSClientConfig(o.tlsConfig)
	}

	return &Client{
		baseURL: baseURL,
		rest:    rc,
		log:     o.log,
	}, nil
}

// BaseURL returns the absolute API root every endpoint is appended to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Reject logs a request that was refused before it was sent and returns err.
func (c *Client) Reject(method, endpoint string, err error) error {
	c.log.Errorw("API request rejected", "method", method, "endpoint", endpoint, "error", err)
	return err
}

// WithServer sets the origin a path-only base URL is resolved against.
func WithServer(server string) Option {
	return func(o *options) error {
		if server == "" {
			return ErrServerRequired
		}
		parsed, err := url.Parse(server)
		if err != nil {
			return fmt.Errorf("invalid server: %w", err)
		}
		if !parsed.IsAbs() || parsed.Host == "" {
			return fmt.Errorf("invalid server %q: scheme and host are required", server)
		}
		o.server = server
		return nil
	}
}

// WithBaseURL sets the API root. It may be absolute (https://host/api) or a
// path (/api) that is resolved against the server.
func WithBaseURL(baseURL string) Option {
	return func(o *options) error {
		if strings.TrimSpace(baseURL) == "" {
			return errors.New("base URL is required")
		}
		if _, err := url.Parse(baseURL); err != nil {
			return fmt.Errorf("invalid base URL: %w", err)
		}
		o.baseURL = baseURL
		return nil
	}
}

// WithTimeout bounds every request made by the client. Without it the
// client sets no deadline of its own and relies on the caller's context.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) error {
		if timeout < 0 {
			return fmt.Errorf("invalid timeout: %s", timeout)
		}
		o.timeout = timeout
		return nil
	}
}

func WithUserAgent(userAgent string) Option {
	return func(o *options) error {
		o.userAgent = userAgent
		return nil
	}
}

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) Option {
	return func(o *options) error {
		if key == "" {
			return errors.New("header name is required")
		}
		o.headers[http.CanonicalHeaderKey(key)] = value
		return nil
	}
}

func WithLogger(log *zap.SugaredLogger) Option {
	return func(o *options) error {
		o.log = log
		return nil
	}
}

// WithHTTPClient replaces the underlying HTTP client, for example to install
// a custom transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) error {
		if hc == nil {
			return errors.New("http client is nil")
		}
		o.httpClient = hc
		return nil
	}
}

func WithTLSConfig(caFile string, insecureSkipTLSVerify bool) Option {
	return func(o *options) error {
		tlsConfig, err := loadTLSConfig(caFile, insecureSkipTLSVerify)
		if err != nil {
			return err
		}
		o.tlsConfig = tlsConfig
		return nil
	}
}

func loadTLSConfig(caFile string, insecure bool) (*tls.Config, error) {
	tlsConfig := &tls.Config{MinVersion: tls.VersionTLS12, InsecureSkipVerify: insecure} //nolint:gosec // opt-in via flag
	if caFile == "" {
		return tlsConfig, nil
	}
	data, err := os.ReadFile(caFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA file: %w", err)
	}
	pool := x509.NewCertPool()
	if ok := pool.AppendCertsFromPEM(data); !ok {
		return nil, errors.New("failed to parse CA file")
	}
	tlsConfig.RootCAs = pool
	return tlsConfig, nil
}

func resolveBaseURL(server, baseURL string) (string, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	if parsed.IsAbs() {
		return strings.TrimRight(baseURL, "/"), nil
	}
	if server == "" {
		return "", ErrServerRequired
	}
	return strings.TrimRight(server, "/") + "/" + strings.Trim(baseURL, "/"), nil
}

// Request describes a single API call. Endpoint must begin with "/" and may
// contain {name} placeholders that are filled from PathParams.
type Request struct {
	Method     string
	Endpoint   string
	PathParams map[string]string
	Body       any
}

// Do issues the request and decodes a successful response into out. A nil out
// discards the response body. Every failure is logged once before it is
// returned.
func (c *Client) Do(ctx context.Context, r Request, out any) error {
	method := strings.ToUpper(r.Method)
	if method == "" {
		method = http.MethodGet
	}
	if err := validateEndpoint(r.Endpoint, r.PathParams); err != nil {
		return c.Reject(method, r.Endpoint, err)
	}

	requestID := uuid.NewString()
	log := c.log.With("method", method, "requestID", requestID)

	req := c.rest.R().
		SetContext(ctx).
		SetHeader(requestIDHeader, requestID).
		SetPathParams(r.PathParams)
	if carriesBody(method) && hasBody(r.Body) {
		req.SetBody(r.Body)
	}

	log.Debugw("Sending API request", "endpoint", r.Endpoint)
	start := time.Now()
	resp, err := req.Execute(method, r.Endpoint)
	endpoint := c.requestPath(req, r.Endpoint)
	log = log.With("endpoint", endpoint)
	if err != nil {
		observeRequest(method, r.Endpoint, "error", time.Since(start))
		log.Errorw("API transport failure", "error", err)
		return &TransportError{Method: method, Endpoint: endpoint, Err: err}
	}
	status := resp.StatusCode()
	observeRequest(method, r.Endpoint, strconv.Itoa(status), time.Since(start))

	if !resp.IsSuccess() {
		apiErr, err := decodeAPIError(method, endpoint, status, resp.Body())
		if err != nil {
			log.Errorw("Failed to decode API response", "status", status, "error", err)
			return err
		}
		log.Errorw("API request failed", "status", status, "error", apiErr.Message)
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		log.Errorw("Failed to decode API response", "status", status, "error", err)
		return &DecodeError{Method: method, Endpoint: endpoint, StatusCode: status, Err: err}
	}
	return nil
}

func (c *Client) get(ctx context.Context, endpoint string, params map[string]string, out any) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Endpoint: endpoint, PathParams: params}, out)
}

func (c *Client) post(ctx context.Context, endpoint string, params map[string]string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Endpoint: endpoint, PathParams: params, Body: body}, out)
}

// validateEndpoint checks that every path param has a placeholder and every
// placeholder is filled. resty leaves unknown placeholders in the URL.
func validateEndpoint(endpoint string, params map[string]string) error {
	if !strings.HasPrefix(endpoint, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidEndpoint, endpoint)
	}
	remaining := endpoint
	for key := range params {
		placeholder := "{" + key + "}"
		if !strings.Contains(endpoint, placeholder) {
			return fmt.Errorf("%w: no placeholder for %q in %q", ErrInvalidEndpoint, key, endpoint)
		}
		remaining = strings.ReplaceAll(remaining, placeholder, "")
	}
	if i := strings.Index(remaining, "{"); i >= 0 && strings.Contains(remaining[i:], "}") {
		return fmt.Errorf("%w: unfilled placeholder in %q", ErrInvalidEndpoint, endpoint)
	}
	return nil
}

// requestPath returns the path resty actually requested, relative to the
// base URL, falling back to the endpoint template.
func (c *Client) requestPath(req *resty.Request, endpoint string) string {
	if path, ok := strings.CutPrefix(req.URL, c.baseURL); ok && path != "" {
		return path
	}
	return endpoint
}

func carriesBody(method string) bool {
	return method == http.MethodPost || method == http.MethodPut
}

func hasBody(body any) bool {
	if body == nil {
		return false
	}
	v := reflect.ValueOf(body)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return !v.IsNil()
	}
	return true
}
