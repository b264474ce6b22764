package requester

import (
	"bytes"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brizzai/specfetch/internal/apidef"
	"github.com/brizzai/specfetch/internal/cookies"
)

func TestSynthesizeHeaders(t *testing.T) {
	form := NewFormData().Append("a", "1")
	multipartBody, ok, err := primitiveBody(form)
	require.True(t, ok)
	require.NoError(t, err)

	tests := []struct {
		name        string
		declared    http.Header
		requestType apidef.MIMEType
		body        encodedBody
		wantType    string
		wantLength  string
	}{
		{
			name:        "json text gets charset",
			requestType: apidef.MIMEJSON,
			body:        encodedBody{kind: bodyText, data: []byte(`{"a":1}`)},
			wantType:    "application/json; charset=utf-8",
			wantLength:  "7",
		},
		{
			name:        "binary has no charset",
			requestType: apidef.MIMEOctetStream,
			body:        encodedBody{kind: bodyBinary, data: []byte{1, 2}},
			wantType:    "application/octet-stream",
			wantLength:  "2",
		},
		{
			name:       "blob falls back to its own type",
			body:       encodedBody{kind: bodyBlob, data: []byte("png"), contentType: "image/png"},
			wantType:   "image/png",
			wantLength: "3",
		},
		{
			name:        "search params",
			requestType: apidef.MIMEXWWWFormUrlencoded,
			body:        encodedBody{kind: bodySearchParams, data: []byte("a=1&b=2")},
			wantType:    "application/x-www-form-urlencoded",
			wantLength:  "7",
		},
		{
			name:        "stream has no length",
			requestType: apidef.MIMEOctetStream,
			body:        encodedBody{kind: bodyStream, data: []byte("abc")},
			wantType:    "application/octet-stream",
		},
		{
			name:        "multipart uses boundary type",
			requestType: apidef.MIMEMultipartFormData,
			body:        multipartBody,
			wantType:    multipartBody.contentType,
		},
		{
			name:        "declared headers win",
			declared:    http.Header{"Content-Type": {"text/x-custom"}, "Content-Length": {"99"}},
			requestType: apidef.MIMEJSON,
			body:        encodedBody{kind: bodyText, data: []byte(`{}`)},
			wantType:    "text/x-custom",
			wantLength:  "99",
		},
		{
			name: "no body no type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := synthesizeHeaders(tt.declared, tt.requestType, tt.body)
			assert.Equal(t, tt.wantType, h.Get("Content-Type"))
			assert.Equal(t, tt.wantLength, h.Get("Content-Length"))
		})
	}
}

func TestSynthesizeHeaders_DoesNotMutateDeclared(t *testing.T) {
	declared := http.Header{"X-A": {"1"}}
	h := synthesizeHeaders(declared, apidef.MIMEJSON, encodedBody{kind: bodyText, data: []byte("{}")})
	assert.NotEmpty(t, h.Get("Content-Type"))
	assert.Empty(t, declared.Get("Content-Type"))
}

func TestEncodeBody(t *testing.T) {
	jar := cookies.NewMemoryStore(map[string]string{"sid": "s1"})
	jsonRoute := &apidef.RouteSpec{Method: apidef.MethodPost, RequestContentType: apidef.MIMEJSON}
	formRoute := &apidef.RouteSpec{Method: apidef.MethodPost, RequestContentType: apidef.MIMEXWWWFormUrlencoded}
	xmlRoute := &apidef.RouteSpec{Method: apidef.MethodPost, RequestContentType: apidef.MIMEType("application/xml")}

	t.Run("primitives pass through", func(t *testing.T) {
		body, err := encodeBody(xmlRoute, jar, "<a/>")
		require.NoError(t, err)
		assert.Equal(t, bodyText, body.kind)
		assert.Equal(t, "<a/>", string(body.data))

		body, err = encodeBody(jsonRoute, jar, strings.NewReader("streamed"))
		require.NoError(t, err)
		assert.Equal(t, bodyStream, body.kind)
		assert.Equal(t, "streamed", string(body.data))

		body, err = encodeBody(jsonRoute, jar, url.Values{"q": {"x y"}})
		require.NoError(t, err)
		assert.Equal(t, bodySearchParams, body.kind)
		assert.Equal(t, "q=x+y", string(body.data))
	})

	t.Run("json object substitutes first level", func(t *testing.T) {
		body, err := encodeBody(jsonRoute, jar, map[string]any{
			"sid":    "#{sid}",
			"nested": map[string]any{"sid": "#{sid}"},
		})
		require.NoError(t, err)
		assert.JSONEq(t, `{"sid":"s1","nested":{"sid":"#{sid}"}}`, string(body.data))
	})

	t.Run("json array without base body", func(t *testing.T) {
		body, err := encodeBody(jsonRoute, jar, []int{1, 2})
		require.NoError(t, err)
		assert.JSONEq(t, `[1,2]`, string(body.data))
	})

	t.Run("nil payload sends base body", func(t *testing.T) {
		route := &apidef.RouteSpec{Method: apidef.MethodPost, RequestContentType: apidef.MIMEJSON, BaseBody: map[string]any{"sid": "#{sid}"}}
		body, err := encodeBody(route, jar, nil)
		require.NoError(t, err)
		assert.JSONEq(t, `{"sid":"s1"}`, string(body.data))
	})

	t.Run("urlencoded object", func(t *testing.T) {
		body, err := encodeBody(formRoute, jar, map[string]any{"a": "b c", "n": 2})
		require.NoError(t, err)
		assert.Equal(t, bodySearchParams, body.kind)
		values, err := url.ParseQuery(string(body.data))
		require.NoError(t, err)
		assert.Equal(t, url.Values{"a": {"b c"}, "n": {"2"}}, values)
	})

	t.Run("object on unsupported content type", func(t *testing.T) {
		_, err := encodeBody(xmlRoute, jar, map[string]any{"a": 1})
		assert.ErrorIs(t, err, ErrUnsupportedPayload)
	})

	t.Run("unserializable value", func(t *testing.T) {
		_, err := encodeBody(jsonRoute, jar, map[string]any{"ch": make(chan int)})
		assert.ErrorIs(t, err, ErrUnsupportedPayload)
	})
}

func TestEncodeQuery_RejectsNonObjects(t *testing.T) {
	route := &apidef.RouteSpec{Method: apidef.MethodGet}
	_, err := encodeQuery(route, nil, []string{"a"})
	assert.ErrorIs(t, err, ErrUnsupportedPayload)
}

func TestFormData_Encode(t *testing.T) {
	form := NewFormData().Append("title", "hello")
	require.NoError(t, form.AppendFile("file", "a.txt", "", bytes.NewReader([]byte("content"))))

	data, contentType, err := form.encode()
	require.NoError(t, err)

	mediaType, params, err := mime.ParseMediaType(contentType)
	require.NoError(t, err)
	assert.Equal(t, "multipart/form-data", mediaType)
	require.NotEmpty(t, params["boundary"])

	req, err := http.NewRequest(http.MethodPost, "http://example.com", bytes.NewReader(data))
	require.NoError(t, err)
	req.Header.Set("Content-Type", contentType)
	require.NoError(t, req.ParseMultipartForm(1<<20))

	assert.Equal(t, "hello", req.FormValue("title"))
	file, header, err := req.FormFile("file")
	require.NoError(t, err)
	defer file.Close()
	assert.Equal(t, "a.txt", header.Filename)
	assert.Equal(t, "application/octet-stream", header.Header.Get("Content-Type"))
}

func TestBuildURL(t *testing.T) {
	base, err := url.Parse("https://api.example.com/v1/")
	require.NoError(t, err)

	tests := []struct {
		name       string
		base       *url.URL
		raw        string
		pathParams map[string]string
		query      url.Values
		want       string
	}{
		{name: "joins base path", base: base, raw: "/users", want: "https://api.example.com/v1/users"},
		{name: "absolute url ignores base", base: base, raw: "https://other.example.com/x", want: "https://other.example.com/x"},
		{name: "keeps route query", base: base, raw: "/users?active=1", query: url.Values{"page": {"2"}}, want: "https://api.example.com/v1/users?active=1&page=2"},
		{name: "fills path params", base: base, raw: "/users/{id}/posts/{post}", pathParams: map[string]string{"id": "7", "post": "a/b"}, want: "https://api.example.com/v1/users/7/posts/a%2Fb"},
		{name: "no base", raw: "/relative", want: "/relative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := buildURL(tt.base, tt.raw, tt.pathParams, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckContentType(t *testing.T) {
	msg, ok := checkContentType([]apidef.MIMEType{apidef.MIMEJSON}, "Application/JSON; charset=utf-8")
	assert.True(t, ok)
	assert.Empty(t, msg)

	msg, ok = checkContentType([]apidef.MIMEType{apidef.MIMENone}, "text/plain")
	assert.False(t, ok)
	assert.Equal(t, "Expected content types ['none'], got 'text/plain'.", msg)
}
