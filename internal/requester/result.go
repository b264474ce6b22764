package requester

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/itchyny/gojq"

	"github.com/brizzai/specfetch/internal/apidef"
)

// ErrNoResponse is returned by body accessors on results without a response.
var ErrNoResponse = errors.New("result carries no response")

// RequestResult is the outcome of a call. Response may be set even when OK
// is false, so callers can inspect what the server actually sent.
type RequestResult struct {
	OK       bool
	Message  string
	Response *Response
	// Err holds the swallowed transport error or a *TooManyRedirectsError.
	Err error
}

func (r *RequestResult) IsOk() bool {
	return r != nil && r.OK
}

func (r *RequestResult) Is200() bool {
	return r != nil && r.Response != nil && r.Response.StatusCode == 200
}

// IsOfType reports whether the response's media type is m.
func (r *RequestResult) IsOfType(m apidef.MIMEType) bool {
	if r == nil || r.Response == nil {
		return false
	}
	return containsMIME([]apidef.MIMEType{m}, r.Response.ContentType())
}

// JSON decodes the response body into v.
func (r *RequestResult) JSON(v any) error {
	if r == nil || r.Response == nil {
		return ErrNoResponse
	}
	if err := json.Unmarshal(r.Response.Body, v); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}

// Text returns the response body as a string.
func (r *RequestResult) Text() (string, error) {
	if r == nil || r.Response == nil {
		return "", ErrNoResponse
	}
	return string(r.Response.Body), nil
}

// Query runs a jq expression over the JSON response body.
func (r *RequestResult) Query(expression string) ([]any, error) {
	var data any
	if err := r.JSON(&data); err != nil {
		return nil, err
	}
	query, err := gojq.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid jq expression: %w", err)
	}

	var results []any
	iter := query.Run(data)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := v.(error); ok {
			return nil, fmt.Errorf("jq error: %w", err)
		}
		results = append(results, v)
	}
	return results, nil
}
