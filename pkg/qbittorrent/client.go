package qbittorrent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/robofuse/qbitctl/internal/request"
	"github.com/rs/zerolog"
)

// client.go holds the session and the dispatch pipeline every endpoint goes through.

const apiPath = "api/v2"

// Client is a qBittorrent WebUI API client.
// Create one with New or a Factory.
type Client struct {
	// Host is the base URL including protocol, without the API path
	Host     string
	Username string
	Password string

	// Cookies holds the session cookie. It is written only by the transport.
	Cookies *cookiejar.Jar

	client *request.Client
	logger zerolog.Logger
}

// BaseURL returns the URL endpoints are appended to
func (c *Client) BaseURL() string {
	return c.Host + "/" + apiPath
}

// formFile is one file part of a multipart request
type formFile struct {
	field    string
	filename string
	content  []byte
}

// payload is the data of one request. GET encodes values as a query string,
// POST as a form body, or as multipart when files are present.
type payload struct {
	values url.Values
	files  []formFile
}

func sendAction(method, endpoint string) string {
	return fmt.Sprintf("send %s %s request", method, endpoint)
}

// send issues exactly one request to endpoint. Status codes are not interpreted.
func (c *Client) send(ctx context.Context, method, endpoint string, data payload) (*http.Response, error) {
	c.logger.Trace().Msgf("Sending request %s %s", method, endpoint)
	action := sendAction(method, endpoint)

	target, err := request.JoinURL(c.Host, apiPath, endpoint)
	if err != nil {
		return nil, newError(KindTransport, action, err.Error(), 0, err)
	}

	req, err := buildRequest(ctx, method, target, data)
	if err != nil {
		if qErr, ok := err.(*Error); ok {
			qErr.Action = action
			return nil, qErr
		}
		return nil, newError(KindTransport, action, err.Error(), 0, err)
	}

	c.client.ApplyHeaders(req)

	client, err := c.client.Acquire(ctx)
	if err != nil {
		return nil, newError(KindTransport, action, err.Error(), 0, err)
	}

	start := time.Now()
	resp, err := client.Do(req)
	c.logger.Trace().Msgf("Received response after %.3f", time.Since(start).Seconds())
	if err != nil {
		return nil, newError(KindTransport, action, err.Error(), 0, err)
	}

	return resp, nil
}

func buildRequest(ctx context.Context, method, target string, data payload) (*http.Request, error) {
	switch {
	case method == http.MethodGet && len(data.files) == 0:
		if encoded := data.values.Encode(); encoded != "" {
			target = target + "?" + encoded
		}
		return http.NewRequestWithContext(ctx, method, target, nil)

	case method == http.MethodPost && len(data.files) == 0:
		req, err := http.NewRequestWithContext(ctx, method, target, strings.NewReader(data.values.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil

	case method == http.MethodPost:
		body, contentType, err := encodeMultipart(data)
		if err != nil {
			return nil, err
		}
		req, err := http.NewRequestWithContext(ctx, method, target, body)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", contentType)
		return req, nil
	}

	message := fmt.Sprintf("method %s is not supported", method)
	if len(data.files) > 0 {
		message = fmt.Sprintf("method %s is not supported for file uploads", method)
	}
	return nil, newError(KindUnsupportedMethod, "", message, 0, nil)
}

func encodeMultipart(data payload) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for _, file := range data.files {
		part, err := writer.CreateFormFile(file.field, file.filename)
		if err != nil {
			return nil, "", fmt.Errorf("creating form file %s: %w", file.field, err)
		}
		if _, err := part.Write(file.content); err != nil {
			return nil, "", fmt.Errorf("writing form file %s: %w", file.field, err)
		}
	}

	keys := make([]string, 0, len(data.values))
	for key := range data.values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		for _, value := range data.values[key] {
			if err := writer.WriteField(key, value); err != nil {
				return nil, "", fmt.Errorf("writing form field %s: %w", key, err)
			}
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("closing multipart body: %w", err)
	}
	return body, writer.FormDataContentType(), nil
}

// readBody reads and closes the response body
func readBody(method, endpoint string, resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		action := fmt.Sprintf("get response body of %s %s request", method, endpoint)
		return nil, newError(KindBodyRead, action, err.Error(), resp.StatusCode, err)
	}
	return body, nil
}

// handleStatusResponse interprets a plain-text body such as "Ok." or "Fails."
func handleStatusResponse(method, endpoint string, resp *http.Response) (Status, error) {
	body, err := readBody(method, endpoint, resp)
	if err != nil {
		return Status{}, err
	}
	return ParseStatus(string(body)), nil
}

// deserializeResponse decodes a JSON body into T. The status code on the
// wire is the one recorded in the Response.
func deserializeResponse[T any](logger zerolog.Logger, method, endpoint string, resp *http.Response) (*Response[T], error) {
	statusCode := resp.StatusCode
	body, err := readBody(method, endpoint, resp)
	if err != nil {
		return nil, err
	}

	var result T
	if err := json.Unmarshal(body, &result); err != nil {
		logger.Trace().Msg(string(body))
		return nil, &Error{
			Kind:       KindDeserialization,
			Action:     fmt.Sprintf("deserialize response of %s %s %s request", APIDomain, method, endpoint),
			Domain:     DeserializationDomain,
			StatusCode: statusCode,
			Message:    err.Error(),
			Err:        err,
		}
	}

	return &Response[T]{
		StatusCode: &statusCode,
		Result:     &result,
	}, nil
}

// successResponse records whether the wire status was 2xx, ignoring the body
func successResponse(resp *http.Response) *Response[bool] {
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	statusCode := resp.StatusCode
	success := statusCode >= 200 && statusCode < 300
	return &Response[bool]{
		StatusCode: &statusCode,
		Result:     &success,
	}
}
