package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/proxy"
)

// Client defaults.
const (
	// DefaultTimeout bounds each individual request.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxBodySize limits the response body read per request.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultUserAgent identifies simprofile in HTTP requests.
	DefaultUserAgent = "simprofile/1.0 (+https://github.com/nao1215/simprofile)"
)

// Client talks to the websim REST API.
// It is safe for concurrent use by multiple goroutines.
type Client struct {
	// baseURL is the scheme and host every endpoint is resolved against.
	baseURL *url.URL

	// http performs the requests.
	http *http.Client

	// token authenticates write actions such as posting a tip.
	token string

	// maxBodySize limits how much of a response body is read.
	maxBodySize int64

	logger *slog.Logger

	// settings collected from options before the transport is built.
	timeout      time.Duration
	userAgent    string
	proxyAddress string
	cookie       string
	headers      map[string]string
	customHTTP   *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithToken sets the bearer token used for authenticated actions.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithCookie sets a raw cookie sent with every request.
func WithCookie(cookie string) Option {
	return func(c *Client) {
		c.cookie = cookie
	}
}

// WithHeaders sets extra headers sent with every request.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		c.headers = headers
	}
}

// WithProxy routes every request through a SOCKS5 proxy at "host:port".
func WithProxy(address string) Option {
	return func(c *Client) {
		c.proxyAddress = address
	}
}

// WithMaxBodySize sets the response body limit.
func WithMaxBodySize(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBodySize = n
		}
	}
}

// WithHTTPClient replaces the HTTP client. Proxy and timeout options are
// ignored; headers are still injected.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.customHTTP = hc
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a client for the API served at baseURL,
// e.g. "https://websim.com".
//
// Design decision: We don't contact the API in the constructor. Creating a
// client only validates its configuration, which keeps construction cheap
// and lets tests point it at an httptest server.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}

	c := &Client{
		baseURL:     u,
		timeout:     DefaultTimeout,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}

	base := c.customHTTP
	if base == nil {
		base, err = c.newHTTPClient()
		if err != nil {
			return nil, err
		}
	}

	transport := base.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	hc := *base
	hc.Transport = &headerInjectingTransport{
		base:      transport,
		userAgent: c.userAgent,
		cookie:    c.cookie,
		headers:   c.headers,
	}
	c.http = &hc

	return c, nil
}

// newHTTPClient builds the default HTTP client, optionally behind a SOCKS5 proxy.
func (c *Client) newHTTPClient() (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = 16

	if c.proxyAddress != "" {
		if !isValidProxyAddress(c.proxyAddress) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidProxyAddress, c.proxyAddress)
		}
		dialer, err := proxy.SOCKS5("tcp", c.proxyAddress, nil, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
		}
		transport.Proxy = nil
		if cd, ok := dialer.(proxy.ContextDialer); ok {
			transport.DialContext = cd.DialContext
		} else {
			transport.DialContext = func(_ context.Context, network, addr string) (net.Conn, error) {
				return dialer.Dial(network, addr)
			}
		}
	}

	return &http.Client{
		Transport: transport,
		Timeout:   c.timeout,
	}, nil
}

// isValidProxyAddress checks if the address is in "host:port" format
// with a port between 1 and 65535.
func isValidProxyAddress(address string) bool {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" {
		return false
	}
	n, err := strconv.Atoi(port)
	return err == nil && n >= 1 && n <= 65535
}

// BaseURL returns the API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// endpoint resolves path and query against the base URL.
func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	u.RawQuery = query.Encode()
	return u.String()
}

// getJSON performs a GET request and returns the body of a 2xx response.
func (c *Client) getJSON(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	return c.do(req)
}

// postJSON performs an authenticated POST request with a JSON body.
func (c *Client) postJSON(ctx context.Context, rawURL string, payload any) ([]byte, error) {
	if c.token == "" {
		return nil, ErrMissingToken
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	return c.do(req)
}

// do sends req and reads a bounded body, failing on non-2xx statuses.
func (c *Client) do(req *http.Request) ([]byte, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	c.logger.Debug("api request",
		"method", req.Method,
		"url", req.URL.String(),
		"status", resp.StatusCode,
		"elapsed", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{
			Method:     req.Method,
			URL:        req.URL.String(),
			StatusCode: resp.StatusCode,
		}
	}

	// One byte past the limit tells a full body apart from a cut one.
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) > c.maxBodySize {
		return nil, fmt.Errorf("%w: %s %s exceeds %d bytes",
			ErrResponseTooLarge, req.Method, req.URL.String(), c.maxBodySize)
	}
	return body, nil
}

// headerInjectingTransport wraps an http.RoundTripper to inject
// the User-Agent, cookie and custom headers into every request.
type headerInjectingTransport struct {
	base      http.RoundTripper
	userAgent string
	cookie    string
	headers   map[string]string
}

// RoundTrip implements http.RoundTripper.
func (t *headerInjectingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())

	if t.userAgent != "" {
		clone.Header.Set("User-Agent", t.userAgent)
	}
	if t.cookie != "" {
		if existing := clone.Header.Get("Cookie"); existing != "" {
			clone.Header.Set("Cookie", existing+"; "+t.cookie)
		} else {
			clone.Header.Set("Cookie", t.cookie)
		}
	}
	for key, value := range t.headers {
		clone.Header.Set(key, value)
	}

	return t.base.RoundTrip(clone)
}
