package qbittorrent

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// Response wraps the result of an API call together with the HTTP status it arrived with.
// Result must not be trusted unless GetResult accepts it.
type Response[T any] struct {
	StatusCode *int `json:"status_code,omitempty"`
	Result     *T   `json:"result,omitempty"`
	Error      any  `json:"error,omitempty"`
	ID         *int `json:"id,omitempty"`
}

// GetResult returns the result, or an error if:
//   - Error is set, whatever its value
//   - StatusCode is not set
//   - StatusCode is not a valid HTTP status
//   - StatusCode is not 2xx
//   - Result is not set
//
// The checks run in that order.
func (r *Response[T]) GetResult(action string) (T, error) {
	var zero T

	if r.Error != nil {
		return zero, &Error{
			Kind:       KindRemote,
			Action:     action,
			Domain:     APIDomain,
			StatusCode: r.statusCode(),
			Message:    formatRemoteError(r.Error),
		}
	}

	if r.StatusCode == nil {
		return zero, newError(KindMissingStatusCode, action, "status code is not set", 0, nil)
	}

	code := *r.StatusCode
	if code < 100 || code > 999 {
		return zero, newError(KindInvalidStatusCode, action, "status code is invalid", code, nil)
	}

	if code < 200 || code >= 300 {
		reason := http.StatusText(code)
		if reason == "" {
			reason = strconv.Itoa(code)
		}
		return zero, newError(KindUnsuccessfulStatusCode, action, "status code indicated failure: "+reason, code, nil)
	}

	if r.Result == nil {
		return zero, newError(KindMissingResult, action, "result is not set", code, nil)
	}

	return *r.Result, nil
}

// JSON renders the response for diagnostics
func (r *Response[T]) JSON() string {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err.Error()
	}
	return string(data)
}

func (r *Response[T]) statusCode() int {
	if r.StatusCode == nil {
		return 0
	}
	return *r.StatusCode
}

// formatRemoteError renders a string error as its bare text and any other value as JSON
func formatRemoteError(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprintf("%v", value)
	}
	return string(data)
}
