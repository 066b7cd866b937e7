package utils

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/proxy"

	"beatfetch/internal"
)

const tracerName = "beatfetch/utils"

// HTTPClientConfig contains configuration for the HTTP client
type HTTPClientConfig struct {
	// Timeout is the default per-request timeout, used when a call passes 0
	Timeout   time.Duration
	ProxyURL  string
	UserAgent string
	Logger    *internal.SecureLogger
	// TracerProvider defaults to the global provider
	TracerProvider trace.TracerProvider
}

// HTTPClient is the Transport used by the BeatSaver client. It performs
// plain GET requests without retries.
type HTTPClient struct {
	client         *http.Client
	userAgent      string
	defaultTimeout time.Duration
	logger         *internal.SecureLogger
	tracer         trace.Tracer
}

// NewHTTPClientWithConfig creates a new HTTP client with custom configuration
func NewHTTPClientWithConfig(config *HTTPClientConfig) (*HTTPClient, error) {
	if config.Timeout <= 0 {
		config.Timeout = internal.DefaultMetadataTimeout
	}
	if config.UserAgent == "" {
		config.UserAgent = internal.DefaultConfig().UserAgent
	}
	if config.Logger == nil {
		config.Logger = internal.GetLogger()
	}
	if config.TracerProvider == nil {
		config.TracerProvider = otel.GetTracerProvider()
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 20 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}

	if config.ProxyURL != "" {
		if err := configureProxy(transport, config.ProxyURL); err != nil {
			return nil, err
		}
	}

	// Deadlines are applied per request through the context
	client := &http.Client{
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return fmt.Errorf("too many redirects")
			}
			return nil
		},
	}

	return &HTTPClient{
		client:         client,
		userAgent:      config.UserAgent,
		defaultTimeout: config.Timeout,
		logger:         config.Logger,
		tracer:         config.TracerProvider.Tracer(tracerName),
	}, nil
}

// configureProxy sets up proxy configuration for the transport
func configureProxy(transport *http.Transport, proxyURL string) error {
	parsedURL, err := url.Parse(proxyURL)
	if err != nil {
		return internal.NewValidationErrorWithValue("proxy_url", fmt.Sprintf("invalid proxy URL: %v", err), proxyURL)
	}

	switch parsedURL.Scheme {
	case "http", "https":
		transport.Proxy = http.ProxyURL(parsedURL)
	case "socks5", "socks5h":
		var auth *proxy.Auth
		if parsedURL.User != nil {
			password, _ := parsedURL.User.Password()
			auth = &proxy.Auth{User: parsedURL.User.Username(), Password: password}
		}
		dialer, err := proxy.SOCKS5("tcp", parsedURL.Host, auth, proxy.Direct)
		if err != nil {
			return fmt.Errorf("failed to create SOCKS5 proxy: %w", err)
		}
		transport.Proxy = nil
		if contextDialer, ok := dialer.(proxy.ContextDialer); ok {
			transport.DialContext = contextDialer.DialContext
		} else {
			transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
				return dialer.Dial(network, addr)
			}
		}
	default:
		return internal.NewValidationErrorWithValue("proxy_url", fmt.Sprintf("unsupported proxy scheme: %s", parsedURL.Scheme), proxyURL).
			WithSuggestion("Use http://, https:// or socks5://")
	}

	return nil
}

// Get performs a GET request and reads the whole body. Non-2xx responses
// return the response together with a typed error.
func (c *HTTPClient) Get(ctx context.Context, rawURL string, timeout time.Duration, progress internal.ProgressFunc) (*internal.Response, error) {
	if timeout <= 0 {
		timeout = c.defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ctx, span := c.tracer.Start(ctx, "GET",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", http.MethodGet),
			attribute.String("url.full", rawURL),
		))
	defer span.End()

	resp, err := c.do(ctx, rawURL, progress)
	if resp != nil {
		span.SetAttributes(
			attribute.Int("http.response.status_code", resp.StatusCode),
			attribute.Int("http.response.body.size", len(resp.Body)),
		)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return resp, err
}

func (c *HTTPClient) do(ctx context.Context, rawURL string, progress internal.ProgressFunc) (*internal.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, internal.NewClientError(0, "failed to create request", internal.ErrInvalidInput).
			WithURL(rawURL).
			WithCause(err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json, */*")
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	c.logger.LogHTTPRequest(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, classifyTransportError(rawURL, err)
	}
	defer resp.Body.Close()

	c.logger.LogHTTPResponse(resp)

	var body io.Reader = resp.Body
	if progress != nil {
		body = &progressReader{r: resp.Body, total: resp.ContentLength, onProgress: progress}
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return &internal.Response{StatusCode: resp.StatusCode}, classifyTransportError(rawURL, err)
	}

	result := &internal.Response{StatusCode: resp.StatusCode, Body: data}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return result, internal.NewStatusError(rawURL, resp.StatusCode)
	}

	return result, nil
}

// GetAsync runs Get on a new goroutine and reports the outcome to finished
func (c *HTTPClient) GetAsync(ctx context.Context, rawURL string, timeout time.Duration, finished func(*internal.Response, error), progress internal.ProgressFunc) {
	go func() {
		resp, err := c.Get(ctx, rawURL, timeout, progress)
		finished(resp, err)
	}()
}

// GetUserAgent returns the user agent string sent with every request
func (c *HTTPClient) GetUserAgent() string {
	return c.userAgent
}

func classifyTransportError(rawURL string, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return internal.NewNetworkTimeoutError("GET").WithURL(rawURL).WithCause(err)
	}
	return internal.NewClientError(0, "request failed", internal.ErrNetwork).WithURL(rawURL).WithCause(err)
}

// progressReader reports the running byte count on every read
type progressReader struct {
	r          io.Reader
	downloaded int64
	total      int64
	onProgress internal.ProgressFunc
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.r.Read(p)
	if n > 0 {
		pr.downloaded += int64(n)
		pr.onProgress(pr.downloaded, pr.total)
	}
	return n, err
}
