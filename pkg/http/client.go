package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	charsetpkg "golang.org/x/net/html/charset"
)

// ErrCircuitOpen is returned while the breaker refuses calls to the upstream host.
var ErrCircuitOpen = errors.New("circuit breaker open")

// StatusError reports a non-2xx response.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http error: %s %s: status %d", e.Method, e.URL, e.StatusCode)
}

// Client is an HTTP client bound to a single upstream origin.
type Client struct {
	baseURL        string
	client         *http.Client
	defaultHeaders map[string]string
	breaker        *gobreaker.CircuitBreaker
	logger         HTTPLogger
}

// ClientOptions represents the configuration options for the HTTP client.
type ClientOptions struct {
	FollowRedirect      bool
	DefaultHeaders      map[string]string
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	IdleConnTimeout     time.Duration
	ConnectionTimeout   time.Duration
	ReadTimeout         time.Duration
	// BreakerMaxFailures is the number of consecutive failures that opens the
	// breaker. Zero disables the breaker.
	BreakerMaxFailures uint32
	// BreakerOpenTimeout is how long the breaker stays open before probing again.
	BreakerOpenTimeout time.Duration
	Logger             HTTPLogger
	Transport          http.RoundTripper
}

// NewHttpClient creates a new HTTP client with the given base URL and configuration options.
func NewHttpClient(baseURL string, opts ClientOptions) *Client {
	if opts.MaxIdleConns == 0 {
		opts.MaxIdleConns = 20
	}
	if opts.MaxIdleConnsPerHost == 0 {
		opts.MaxIdleConnsPerHost = 8
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 60 * time.Second
	}
	if opts.ConnectionTimeout == 0 {
		opts.ConnectionTimeout = 30 * time.Second
	}
	if opts.BreakerOpenTimeout == 0 {
		opts.BreakerOpenTimeout = time.Minute
	}

	transport := opts.Transport
	if transport == nil {
		transport = &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        opts.MaxIdleConns,
			MaxIdleConnsPerHost: opts.MaxIdleConnsPerHost,
			IdleConnTimeout:     opts.IdleConnTimeout,
			DialContext: (&net.Dialer{
				Timeout: opts.ConnectionTimeout,
			}).DialContext,
		}
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   opts.ReadTimeout,
	}

	if !opts.FollowRedirect {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	var breaker *gobreaker.CircuitBreaker
	if opts.BreakerMaxFailures > 0 {
		maxFailures := opts.BreakerMaxFailures
		breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        strings.TrimRight(baseURL, "/"),
			MaxRequests: 1,
			Timeout:     opts.BreakerOpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= maxFailures
			},
			IsSuccessful: isHostHealthy,
		})
	}

	logger := opts.Logger
	if logger == nil {
		logger = noopLogger{}
	}

	return &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		client:         client,
		defaultHeaders: opts.DefaultHeaders,
		breaker:        breaker,
		logger:         logger,
	}
}

// BaseURL returns the origin the client resolves relative paths against.
func (hc *Client) BaseURL() string {
	return hc.baseURL
}

// GetText sends a GET request and returns the body decoded to UTF-8 using the
// charset announced by the response (or sniffed from the content).
func (hc *Client) GetText(ctx context.Context, path string) (string, int, error) {
	resp, err := hc.do(ctx, http.MethodGet, path, true)
	if err != nil {
		return "", statusOf(resp), err
	}
	defer func() { _ = resp.Body.Close() }()

	reader, err := charsetpkg.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", resp.StatusCode, fmt.Errorf("decode body of %s: %w", hc.buildURL(path), err)
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return "", resp.StatusCode, fmt.Errorf("read body of %s: %w", hc.buildURL(path), err)
	}

	return string(body), resp.StatusCode, nil
}

// GetStream sends a GET request and copies the body into w without buffering
// it whole. It returns the number of bytes written. Streams bypass the breaker:
// one broken resource must not stop requests for its siblings.
func (hc *Client) GetStream(ctx context.Context, path string, w io.Writer) (int64, int, error) {
	resp, err := hc.do(ctx, http.MethodGet, path, false)
	if err != nil {
		return 0, statusOf(resp), err
	}
	defer func() { _ = resp.Body.Close() }()

	written, err := io.Copy(w, resp.Body)
	if err != nil {
		return written, resp.StatusCode, fmt.Errorf("stream body of %s: %w", hc.buildURL(path), err)
	}

	return written, resp.StatusCode, nil
}

// do executes the request, through the breaker when guarded is set. On success
// the caller owns the response body. Non-2xx responses are closed and reported
// as *StatusError.
func (hc *Client) do(ctx context.Context, method, path string, guarded bool) (*http.Response, error) {
	url := hc.buildURL(path)

	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range hc.defaultHeaders {
		req.Header.Set(k, v)
	}

	hc.logger.LogRequest(method, url)
	start := time.Now()

	execute := func() (*http.Response, error) {
		resp, err := hc.client.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
			_ = resp.Body.Close()
			return resp, &StatusError{Method: method, URL: url, StatusCode: resp.StatusCode}
		}
		return resp, nil
	}

	var resp *http.Response
	if hc.breaker == nil || !guarded {
		resp, err = execute()
	} else {
		var result any
		result, err = hc.breaker.Execute(func() (any, error) {
			return execute()
		})
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = fmt.Errorf("%w: %s: %v", ErrCircuitOpen, url, err)
		}
		resp, _ = result.(*http.Response)
	}

	latency := time.Since(start).Milliseconds()
	if err != nil {
		hc.logger.LogResponseError(method, url, statusOf(resp), latency, err)
		return resp, err
	}

	hc.logger.LogResponseSuccess(method, url, resp.StatusCode, latency)
	return resp, nil
}

// isHostHealthy tells the breaker which outcomes leave the upstream host in
// good standing. A 4xx only says the resource is wrong, and a cancelled
// context is the caller giving up.
func isHostHealthy(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= 400 && statusErr.StatusCode < 500
	}
	return false
}

func statusOf(resp *http.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}

// buildURL resolves path against the base URL. Absolute URLs pass through.
func (hc *Client) buildURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if strings.HasPrefix(path, "//") {
		scheme := "http:"
		if strings.HasPrefix(hc.baseURL, "https://") {
			scheme = "https:"
		}
		return scheme + path
	}

	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return hc.baseURL + path
}
