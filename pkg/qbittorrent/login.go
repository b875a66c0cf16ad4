package qbittorrent

import (
	"context"
	"net/http"
	"net/url"
)

// Login authenticates and stores the session cookie in the client's jar.
// The daemon answers "Ok." on success and "Fails." on bad credentials.
//
// See https://github.com/qbittorrent/qBittorrent/wiki/WebUI-API-(qBittorrent-4.1)#login
func (c *Client) Login(ctx context.Context) (Status, error) {
	method := http.MethodPost
	endpoint := "/auth/login"
	data := url.Values{
		"username": {c.Username},
		"password": {c.Password},
	}

	resp, err := c.send(ctx, method, endpoint, payload{values: data})
	if err != nil {
		return Status{}, err
	}

	status, err := handleStatusResponse(method, endpoint, resp)
	if err != nil {
		return Status{}, err
	}

	c.logger.Debug().Str("user", c.Username).Stringer("status", status).Msg("Login")
	return status, nil
}

// Logout ends the session
func (c *Client) Logout(ctx context.Context) (*Response[bool], error) {
	resp, err := c.send(ctx, http.MethodPost, "/auth/logout", payload{})
	if err != nil {
		return nil, err
	}
	return successResponse(resp), nil
}
