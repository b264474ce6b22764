package requester

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/brizzai/specfetch/internal/apidef"
)

// Transport sends one HTTP request. *http.Client satisfies it.
type Transport interface {
	Do(req *http.Request) (*http.Response, error)
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(req *http.Request) (*http.Response, error)

func (f TransportFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }

// Blob is a binary payload carrying its own media type.
type Blob struct {
	Type string
	Data []byte
}

// FormData is a multipart/form-data payload. Fields keep insertion order.
type FormData struct {
	parts []formPart
}

type formPart struct {
	name        string
	value       string
	filename    string
	contentType string
	file        bool
}

// NewFormData creates an empty form.
func NewFormData() *FormData {
	return &FormData{}
}

// Append adds a text field.
func (f *FormData) Append(name, value string) *FormData {
	f.parts = append(f.parts, formPart{name: name, value: value})
	return f
}

// AppendFile adds a file field, reading r fully.
func (f *FormData) AppendFile(name, filename, contentType string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read form file %s: %w", filename, err)
	}
	f.parts = append(f.parts, formPart{
		name:        name,
		value:       string(data),
		filename:    filename,
		contentType: contentType,
		file:        true,
	})
	return nil
}

func (f *FormData) encode() ([]byte, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, p := range f.parts {
		if !p.file {
			if err := writer.WriteField(p.name, p.value); err != nil {
				return nil, "", fmt.Errorf("failed to write form field: %w", err)
			}
			continue
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, p.name, p.filename))
		ct := p.contentType
		if ct == "" {
			ct = string(apidef.MIMEOctetStream)
		}
		h.Set("Content-Type", ct)
		part, err := writer.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create form file: %w", err)
		}
		if _, err := io.WriteString(part, p.value); err != nil {
			return nil, "", fmt.Errorf("failed to copy file: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}
	return body.Bytes(), writer.FormDataContentType(), nil
}

// RequestInit configures an external call.
type RequestInit struct {
	Method      string
	Headers     http.Header
	Body        any
	Mode        apidef.Mode
	Credentials apidef.Credentials
}

// Response is an HTTP response whose body has been read fully.
type Response struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte
	URL        string
}

// StatusText returns the reason phrase the server sent.
func (r *Response) StatusText() string {
	text := strings.TrimSpace(strings.TrimPrefix(r.Status, fmt.Sprintf("%d", r.StatusCode)))
	if text == "" {
		return http.StatusText(r.StatusCode)
	}
	return text
}

// ContentType returns the response's media type, or MIMENone when absent.
func (r *Response) ContentType() apidef.MIMEType {
	return apidef.MediaType(r.Header.Get("Content-Type"))
}

// CallOption customizes a single Call.
type CallOption func(*callOptions)

type callOptions struct {
	pathParams map[string]string
}

// WithPathParams fills {name} placeholders in the route URL.
func WithPathParams(params map[string]string) CallOption {
	return func(o *callOptions) {
		o.pathParams = params
	}
}
