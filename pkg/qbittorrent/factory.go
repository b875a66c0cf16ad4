package qbittorrent

import (
	"fmt"
	"net/http/cookiejar"
	"strings"

	"github.com/robofuse/qbitctl/internal/request"
	"github.com/rs/zerolog"
	"golang.org/x/net/publicsuffix"
)

// factory.go builds clients: cookie jar, rate limiter and transport wired together.

// Factory creates a Client from Options
type Factory struct {
	Options Options
}

// NewFactory returns a factory for the given options
func NewFactory(options Options) *Factory {
	return &Factory{Options: options}
}

// New creates a Client from options
func New(options Options) (*Client, error) {
	return NewFactory(options).Create()
}

// Create builds a Client. The cookie jar is shared by the Client and its
// transport; only the transport writes to it.
func (f *Factory) Create() (*Client, error) {
	log := zerolog.Nop()
	if f.Options.Logger != nil {
		log = *f.Options.Logger
	}

	host := normalizeHost(f.Options.Host)
	if host == "" {
		return nil, fmt.Errorf("creating %s client: host is required", APIDomain)
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}

	limiter := request.NewLimiter(f.Options.RateLimitCount, f.Options.RateLimitDuration)

	transport, err := request.New(
		request.WithCookieJar(jar),
		request.WithLimiter(limiter),
		request.WithHeaders(f.headers()),
		request.WithProxy(f.Options.Proxy),
		request.WithSkipTLSVerify(f.Options.InsecureSkipVerify),
		request.WithTimeout(f.Options.Timeout),
		request.WithLogger(log),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s transport: %w", APIDomain, err)
	}

	log.Debug().
		Str("host", host).
		Int("rateCount", limiter.Count()).
		Dur("rateWindow", limiter.Window()).
		Msg("Created client")

	return &Client{
		Host:     host,
		Username: f.Options.Username,
		Password: f.Options.Password,
		Cookies:  jar,
		client:   transport,
		logger:   log,
	}, nil
}

func (f *Factory) headers() map[string]string {
	headers := make(map[string]string)
	if f.Options.UserAgent != "" {
		headers["User-Agent"] = f.Options.UserAgent
	}
	return headers
}

// normalizeHost adds http:// when no protocol is given and trims trailing slashes
func normalizeHost(host string) string {
	host = strings.TrimSpace(host)
	if host == "" {
		return ""
	}
	if !strings.Contains(host, "://") {
		host = "http://" + host
	}
	return strings.TrimRight(host, "/")
}
