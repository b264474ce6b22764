package requester

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/brizzai/specfetch/internal/apidef"
	"github.com/brizzai/specfetch/internal/cookies"
)

type bodyKind int

const (
	bodyNone bodyKind = iota
	// bodyText is a plain string: raw caller text or serialized JSON.
	bodyText
	bodySearchParams
	bodyBinary
	bodyBlob
	// bodyStream came from an io.Reader; its length is not advertised.
	bodyStream
	bodyMultipart
)

// encodedBody is a wire-ready request body. It is kept in memory so it can
// be replayed when a redirect preserves the request.
type encodedBody struct {
	kind bodyKind
	data []byte
	// contentType is the body's intrinsic type (blob type, multipart boundary).
	contentType string
}

func (b encodedBody) reader() io.Reader {
	if b.kind == bodyNone {
		return nil
	}
	return bytes.NewReader(b.data)
}

// lengthKnown reports whether Content-Length may be advertised for the body.
func (b encodedBody) lengthKnown() bool {
	switch b.kind {
	case bodyText, bodySearchParams, bodyBinary, bodyBlob:
		return true
	}
	return false
}

// primitiveBody encodes transport primitives, which pass through unchanged.
// The second result is false for plain values (maps, structs, slices, scalars).
func primitiveBody(data any) (encodedBody, bool, error) {
	switch v := data.(type) {
	case encodedBody:
		return v, true, nil
	case string:
		return encodedBody{kind: bodyText, data: []byte(v)}, true, nil
	case json.RawMessage:
		return encodedBody{kind: bodyText, data: v}, true, nil
	case []byte:
		return encodedBody{kind: bodyBinary, data: v}, true, nil
	case Blob:
		return encodedBody{kind: bodyBlob, data: v.Data, contentType: v.Type}, true, nil
	case *Blob:
		return encodedBody{kind: bodyBlob, data: v.Data, contentType: v.Type}, true, nil
	case url.Values:
		return encodedBody{kind: bodySearchParams, data: []byte(v.Encode())}, true, nil
	case *FormData:
		data, ct, err := v.encode()
		if err != nil {
			return encodedBody{}, true, err
		}
		return encodedBody{kind: bodyMultipart, data: data, contentType: ct}, true, nil
	case io.Reader:
		data, err := io.ReadAll(v)
		if err != nil {
			return encodedBody{}, true, fmt.Errorf("failed to read request body: %w", err)
		}
		return encodedBody{kind: bodyStream, data: data}, true, nil
	}
	return encodedBody{}, false, nil
}

// normalize turns a plain Go value into its generic JSON form:
// map[string]any, []any, or a scalar.
func normalize(data any) (any, error) {
	switch v := data.(type) {
	case map[string]any, []any:
		return v, nil
	case map[string]string:
		out := make(map[string]any, len(v))
		for k, s := range v {
			out[k] = s
		}
		return out, nil
	}
	return roundTrip(data)
}

// roundTrip converts data to pure JSON types. Numbers decode as
// json.Number so integers keep their exact digits.
func roundTrip(data any) (any, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot serialize %T: %v", ErrUnsupportedPayload, data, err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedPayload, err)
	}
	return out, nil
}

// stringify keeps strings as-is and JSON-encodes everything else.
func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(raw)
}

// encodeQuery builds the query parameters for a GET route. Caller values win
// over the route's base params.
func encodeQuery(route *apidef.RouteSpec, jar cookies.Reader, data any) (url.Values, error) {
	params := url.Values{}
	switch v := data.(type) {
	case nil:
	case url.Values:
		for k, vals := range v {
			params[k] = append([]string(nil), vals...)
		}
	default:
		norm, err := normalize(data)
		if err != nil {
			return nil, err
		}
		flat, ok := norm.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: GET payload must be a flat map or url.Values, got %T", ErrUnsupportedPayload, data)
		}
		for k, val := range flat {
			params.Set(k, cookies.Substitute(jar, stringify(val)))
		}
	}

	for k, v := range route.BaseQueryParams {
		if _, ok := params[k]; !ok {
			params.Set(k, cookies.Substitute(jar, v))
		}
	}
	return params, nil
}

// encodeBody shapes the payload of a non-GET route according to its
// declared request content type.
func encodeBody(route *apidef.RouteSpec, jar cookies.Reader, data any) (encodedBody, error) {
	if data == nil {
		if route.RequestContentType == apidef.MIMEJSON && len(route.BaseBody) > 0 {
			return marshalBody(cookies.SubstituteObject(jar, route.BaseBody))
		}
		return encodedBody{}, nil
	}

	body, ok, err := primitiveBody(data)
	if ok || err != nil {
		return body, err
	}

	norm, err := normalize(data)
	if err != nil {
		return encodedBody{}, err
	}

	switch route.RequestContentType {
	case apidef.MIMEJSON:
		return encodeJSON(route, jar, norm)
	case apidef.MIMEXWWWFormUrlencoded:
		obj, ok := norm.(map[string]any)
		if !ok {
			return encodedBody{}, fmt.Errorf("%w: %s payload must be an object, got %T", ErrUnsupportedPayload, route.RequestContentType, data)
		}
		form := url.Values{}
		for k, v := range obj {
			form.Set(k, stringify(v))
		}
		return encodedBody{kind: bodySearchParams, data: []byte(form.Encode())}, nil
	default:
		return encodedBody{}, fmt.Errorf("%w: %T payload needs a %s or %s route, route declares %s",
			ErrUnsupportedPayload, data, apidef.MIMEJSON, apidef.MIMEXWWWFormUrlencoded, route.RequestContentType)
	}
}

func encodeJSON(route *apidef.RouteSpec, jar cookies.Reader, norm any) (encodedBody, error) {
	switch v := norm.(type) {
	case []any:
		if len(route.BaseBody) > 0 {
			return encodedBody{}, ErrAmbiguousBodyMerge
		}
		return marshalBody(v)
	case map[string]any:
		merged := cookies.SubstituteObject(jar, route.BaseBody)
		if merged == nil {
			merged = make(map[string]any, len(v))
		}
		for k, val := range cookies.SubstituteObject(jar, v) {
			merged[k] = val
		}
		return marshalBody(merged)
	default:
		return marshalBody(v)
	}
}

func marshalBody(v any) (encodedBody, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return encodedBody{}, fmt.Errorf("%w: cannot serialize request body: %v", ErrUnsupportedPayload, err)
	}
	return encodedBody{kind: bodyText, data: raw}, nil
}

// synthesizeHeaders completes declared headers with Content-Length and
// Content-Type. Declared values are never overwritten.
func synthesizeHeaders(declared http.Header, requestType apidef.MIMEType, body encodedBody) http.Header {
	header := declared.Clone()
	if header == nil {
		header = make(http.Header)
	}

	if header.Get("Content-Length") == "" && body.lengthKnown() {
		header.Set("Content-Length", strconv.Itoa(len(body.data)))
	}

	if header.Get("Content-Type") == "" {
		switch {
		case body.kind == bodyMultipart:
			// The boundary is only known to the encoder.
			header.Set("Content-Type", body.contentType)
		case requestType != apidef.MIMENone:
			ct := string(requestType)
			if body.kind == bodyText {
				ct += "; charset=utf-8"
			}
			header.Set("Content-Type", ct)
		case body.kind == bodyBlob && body.contentType != "":
			header.Set("Content-Type", body.contentType)
		}
	}
	return header
}

// declaredHeaders converts route headers into an http.Header after cookie
// substitution.
func declaredHeaders(jar cookies.Reader, headers map[string]string) http.Header {
	h := make(http.Header, len(headers))
	for k, v := range headers {
		h.Set(k, cookies.Substitute(jar, v))
	}
	return h
}

// buildURL joins a route URL with the base URL, fills path parameters and
// merges query params.
func buildURL(base *url.URL, raw string, pathParams map[string]string, query url.Values) (string, error) {
	for key, value := range pathParams {
		raw = strings.ReplaceAll(raw, "{"+key+"}", url.PathEscape(value))
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid route url %q: %w", raw, err)
	}
	if base != nil && !u.IsAbs() {
		escaped := strings.TrimSuffix(base.EscapedPath(), "/") + "/" + strings.TrimPrefix(u.EscapedPath(), "/")
		path, err := url.PathUnescape(escaped)
		if err != nil {
			return "", fmt.Errorf("invalid route url %q: %w", raw, err)
		}
		joined := *base
		joined.Path = path
		joined.RawPath = escaped
		joined.RawQuery = u.RawQuery
		joined.Fragment = ""
		u = &joined
	}

	if len(query) > 0 {
		q := u.Query()
		for k, vals := range query {
			q[k] = vals
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}
