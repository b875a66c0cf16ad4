package request

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/proxy"
)

// request.go provides the shared HTTP client behind the rate limiter.

// JoinURL joins a base URL with path components, keeping a trailing query string
func JoinURL(base string, paths ...string) (string, error) {
	if len(paths) == 0 {
		return base, nil
	}
	lastPath := paths[len(paths)-1]
	parts := strings.SplitN(lastPath, "?", 2)
	paths[len(paths)-1] = parts[0]

	joined, err := url.JoinPath(base, paths...)
	if err != nil {
		return "", err
	}

	if len(parts) > 1 {
		return joined + "?" + parts[1], nil
	}

	return joined, nil
}

// ClientOption is a function that configures a Client
type ClientOption func(*Client)

// Client is an HTTP client whose requests pass through a Limiter.
// Callers apply the default headers, Acquire a slot and send once; nothing is retried.
type Client struct {
	client        *http.Client
	limiter       *Limiter
	jar           http.CookieJar
	headers       map[string]string
	headersMu     sync.RWMutex
	timeout       time.Duration
	skipTLSVerify bool
	logger        zerolog.Logger
	proxy         string
}

// WithTimeout sets the overall request timeout (zero means none)
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithLimiter sets the rate limiter
func WithLimiter(l *Limiter) ClientOption {
	return func(c *Client) {
		c.limiter = l
	}
}

// WithCookieJar shares a cookie jar with the underlying http.Client
func WithCookieJar(jar http.CookieJar) ClientOption {
	return func(c *Client) {
		c.jar = jar
	}
}

// WithHeaders sets default headers
func WithHeaders(headers map[string]string) ClientOption {
	return func(c *Client) {
		c.headersMu.Lock()
		for k, v := range headers {
			c.headers[k] = v
		}
		c.headersMu.Unlock()
	}
}

// WithLogger sets the logger
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithProxy sets a proxy URL (http://, https:// or socks5://)
func WithProxy(proxyURL string) ClientOption {
	return func(c *Client) {
		c.proxy = proxyURL
	}
}

// WithSkipTLSVerify disables certificate verification, for self-signed WebUI certificates
func WithSkipTLSVerify(skip bool) ClientOption {
	return func(c *Client) {
		c.skipTLSVerify = skip
	}
}

// Acquire waits for a rate limiter slot and returns the underlying http.Client
func (c *Client) Acquire(ctx context.Context) (*http.Client, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}
	return c.client, nil
}

// ApplyHeaders sets the default headers the request does not already carry
func (c *Client) ApplyHeaders(req *http.Request) {
	c.headersMu.RLock()
	defer c.headersMu.RUnlock()

	for key, value := range c.headers {
		if req.Header.Get(key) == "" {
			req.Header.Set(key, value)
		}
	}
}

// New creates a new HTTP client with the specified options
func New(options ...ClientOption) (*Client, error) {
	client := &Client{
		logger:  zerolog.Nop(),
		headers: make(map[string]string),
	}

	for _, option := range options {
		option(client)
	}

	if client.limiter == nil {
		client.limiter = NewLimiter(DefaultRateCount, DefaultRateWindow)
	}
	client.limiter.logger = client.logger

	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: client.skipTLSVerify,
		},
		Proxy: http.ProxyFromEnvironment,
	}

	if client.proxy != "" {
		if err := client.applyProxy(transport); err != nil {
			return nil, err
		}
	}

	client.client = &http.Client{
		Timeout:   client.timeout,
		Jar:       client.jar,
		Transport: transport,
	}

	return client, nil
}

func (c *Client) applyProxy(transport *http.Transport) error {
	proxyURL, err := url.Parse(c.proxy)
	if err != nil {
		return fmt.Errorf("parsing proxy URL: %w", err)
	}

	if proxyURL.Scheme != "socks5" {
		transport.Proxy = http.ProxyURL(proxyURL)
		return nil
	}

	var auth *proxy.Auth
	if proxyURL.User != nil {
		password, _ := proxyURL.User.Password()
		auth = &proxy.Auth{User: proxyURL.User.Username(), Password: password}
	}

	dialer, err := proxy.SOCKS5("tcp", proxyURL.Host, auth, proxy.Direct)
	if err != nil {
		return fmt.Errorf("creating SOCKS5 dialer: %w", err)
	}

	transport.Proxy = nil
	if cd, ok := dialer.(proxy.ContextDialer); ok {
		transport.DialContext = cd.DialContext
	} else {
		transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
			return dialer.Dial(network, addr)
		}
	}
	c.logger.Debug().Str("proxy", proxyURL.Host).Msg("Using SOCKS5 proxy")
	return nil
}
