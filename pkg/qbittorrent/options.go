package qbittorrent

import (
	"time"

	"github.com/rs/zerolog"
)

// Options configures a Client. Zero values select the defaults.
//
// See https://github.com/qbittorrent/qBittorrent/wiki/WebUI-API-(qBittorrent-4.1)#login
type Options struct {
	// Host of the WebUI including port, with or without protocol.
	// Examples: localhost:8080, example.com, https://seedbox.example.com:443
	Host string

	Username string
	Password string

	// UserAgent is sent on every request when set
	UserAgent string

	// RateLimitCount is the number of requests permitted per RateLimitDuration
	RateLimitCount int

	// RateLimitDuration is the window after which the rate limit resets
	RateLimitDuration time.Duration

	// Proxy is an http://, https:// or socks5:// URL
	Proxy string

	InsecureSkipVerify bool

	// Timeout bounds each request; zero leaves it to the transport
	Timeout time.Duration

	// Logger receives trace diagnostics; nil discards them
	Logger *zerolog.Logger
}
