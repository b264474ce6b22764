package requester

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sahilm/fuzzy"
	"go.uber.org/zap"

	"github.com/brizzai/specfetch/internal/apidef"
	"github.com/brizzai/specfetch/internal/cookies"
	"github.com/brizzai/specfetch/internal/logger"
)

const (
	// DefaultMaxRedirects bounds redirect chains.
	DefaultMaxRedirects = 10
	// DefaultMaxResponseBytes caps how much of a response body is read.
	DefaultMaxResponseBytes int64 = 32 << 20
)

// Client drives every call against a declared API. It holds no per-call
// state and is safe for concurrent use.
type Client struct {
	api          *apidef.API
	baseURL      *url.URL
	transport    Transport
	cookies      cookies.Reader
	metrics      Metrics
	maxRedirects int
	maxBody      int64
	timeout      time.Duration
	routeNames   []string
}

// Option configures a Client.
type Option func(*Client)

// WithTransport replaces the default HTTP transport.
func WithTransport(t Transport) Option {
	return func(c *Client) { c.transport = t }
}

// WithCookies sets the store #{name} placeholders are resolved against.
func WithCookies(r cookies.Reader) Option {
	return func(c *Client) { c.cookies = r }
}

func WithMetrics(m Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithMaxRedirects bounds redirect chains; 0 follows none.
func WithMaxRedirects(n int) Option {
	return func(c *Client) { c.maxRedirects = n }
}

// WithMaxResponseBytes caps response bodies; 0 reads them whole. A larger
// body fails the hop with a *ResponseTooLargeError.
func WithMaxResponseBytes(n int64) Option {
	return func(c *Client) { c.maxBody = n }
}

// WithTimeout bounds every single hop, including reading its body.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// NewHTTPTransport returns an http.Client that leaves redirects to the
// Client. jar may be nil.
func NewHTTPTransport(jar http.CookieJar) *http.Client {
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// NewClient validates api and builds a client for it.
func NewClient(api *apidef.API, opts ...Option) (*Client, error) {
	if api == nil {
		return nil, fmt.Errorf("api definition is nil")
	}
	if err := api.Validate(); err != nil {
		return nil, fmt.Errorf("invalid api definition: %w", err)
	}

	c := &Client{
		api:          api,
		transport:    NewHTTPTransport(nil),
		metrics:      nopMetrics{},
		maxRedirects: DefaultMaxRedirects,
		maxBody:      DefaultMaxResponseBytes,
		routeNames:   api.RouteNames(),
	}
	if api.BaseURL != "" {
		u, err := url.Parse(api.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid base url %q: %w", api.BaseURL, err)
		}
		c.baseURL = u
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.maxRedirects < 0 {
		return nil, fmt.Errorf("max redirects must not be negative")
	}
	if c.maxBody < 0 {
		return nil, fmt.Errorf("max response bytes must not be negative")
	}
	return c, nil
}

// API returns the definition the client was built from.
func (c *Client) API() *apidef.API {
	return c.api
}

// hop is one request in a (possibly redirected) chain.
type hop struct {
	routeName  string
	route      *apidef.RouteSpec // nil for external calls
	url        string
	method     string
	header     http.Header
	payload    any
	pathParams map[string]string
	mode       apidef.Mode
	creds      apidef.Credentials
}

func (h hop) label() string {
	if h.route == nil {
		return externalRoute
	}
	return h.routeName
}

// outgoing is a fully shaped request ready for the transport.
type outgoing struct {
	hop
	body encodedBody
}

// Call executes the named route with an optional payload. Configuration
// errors and rethrown transport errors are returned as errors; every other
// failure is a result with OK false.
func (c *Client) Call(ctx context.Context, routeName string, data any, opts ...CallOption) (*RequestResult, error) {
	route, ok := c.api.Route(routeName)
	if !ok {
		return nil, c.unknownRoute(routeName)
	}
	var o callOptions
	for _, opt := range opts {
		opt(&o)
	}
	return c.run(ctx, c.routeHop(routeName, &route, data, o.pathParams))
}

// ExternalCall requests an arbitrary URL. Only library and API external
// defaults apply when interpreting the response.
func (c *Client) ExternalCall(ctx context.Context, rawURL string, init *RequestInit) (*RequestResult, error) {
	if init == nil {
		init = &RequestInit{}
	}
	method := strings.ToUpper(init.Method)
	if method == "" {
		method = http.MethodGet
	}
	return c.run(ctx, hop{
		url:     rawURL,
		method:  method,
		header:  init.Headers.Clone(),
		payload: init.Body,
		mode:    init.Mode,
		creds:   init.Credentials,
	})
}

func (c *Client) routeHop(name string, route *apidef.RouteSpec, data any, pathParams map[string]string) hop {
	return hop{
		routeName:  name,
		route:      route,
		method:     string(route.Method),
		payload:    data,
		pathParams: pathParams,
		mode:       route.Mode,
		creds:      route.Credentials,
	}
}

func (c *Client) unknownRoute(name string) error {
	if matches := fuzzy.Find(name, c.routeNames); len(matches) > 0 {
		return fmt.Errorf("%w %q (did you mean %q?)", ErrUnknownRoute, name, matches[0].Str)
	}
	return fmt.Errorf("%w %q", ErrUnknownRoute, name)
}

// run follows a redirect chain as a loop bounded by maxRedirects.
func (c *Client) run(ctx context.Context, next hop) (*RequestResult, error) {
	var last *Response
	for redirects := 0; ; redirects++ {
		if redirects > c.maxRedirects {
			err := &TooManyRedirectsError{Limit: c.maxRedirects, Last: last.URL}
			logger.Warn("redirect limit reached",
				zap.String("route", next.label()),
				zap.Int("limit", c.maxRedirects),
				zap.String("last_url", last.URL),
			)
			return &RequestResult{OK: false, Message: err.Error(), Response: last, Err: err}, nil
		}

		out, err := c.prepare(next)
		if err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return c.handleTransportError(out, err)
		}

		start := time.Now()
		resp, err := c.send(ctx, out)
		if err != nil {
			return c.handleTransportError(out, err)
		}
		last = resp

		rule := c.effectiveRule(out.hop, resp)
		result, contentOK := interpret(resp, rule)
		c.metrics.ObserveResponse(out.label(), out.method, resp.StatusCode, result.OK, time.Since(start))
		logger.Debug("response interpreted",
			zap.String("route", out.label()),
			zap.String("method", out.method),
			zap.String("url", out.url),
			zap.Int("status", resp.StatusCode),
			zap.Bool("ok", result.OK),
			zap.Int("hop", redirects),
		)

		if !contentOK || !rule.Redirects() {
			return result, nil
		}

		target, failed := c.resolveRedirect(out, resp, rule)
		if failed != nil {
			return failed, nil
		}
		next = target
	}
}

// prepare shapes a hop into a wire-ready request.
func (c *Client) prepare(h hop) (outgoing, error) {
	if h.route == nil {
		return c.prepareExternal(h)
	}
	route := h.route
	fail := func(err error) (outgoing, error) {
		return outgoing{}, &EncodingError{Route: h.routeName, Err: err}
	}

	if route.Validate != nil && h.payload != nil {
		if _, reused := h.payload.(encodedBody); !reused {
			value, err := roundTrip(h.payload)
			if err == nil {
				err = route.Validate(value)
			}
			if err != nil {
				return fail(fmt.Errorf("%w: %v", ErrPayloadRejected, err))
			}
		}
	}

	var (
		query url.Values
		body  encodedBody
		err   error
	)
	if route.Method == apidef.MethodGet {
		query, err = encodeQuery(route, c.cookies, h.payload)
	} else {
		body, err = encodeBody(route, c.cookies, h.payload)
	}
	if err != nil {
		return fail(err)
	}

	h.url, err = buildURL(c.baseURL, route.URL, h.pathParams, query)
	if err != nil {
		return fail(err)
	}
	h.header = synthesizeHeaders(declaredHeaders(c.cookies, route.Headers), route.RequestContentType, body)
	return outgoing{hop: h, body: body}, nil
}

func (c *Client) prepareExternal(h hop) (outgoing, error) {
	fail := func(err error) (outgoing, error) {
		return outgoing{}, &EncodingError{Route: externalRoute + " " + h.url, Err: err}
	}
	var body encodedBody
	if h.payload != nil {
		var ok bool
		var err error
		body, ok, err = primitiveBody(h.payload)
		if err != nil {
			return fail(err)
		}
		if !ok {
			return fail(fmt.Errorf("%w: external calls take a string, []byte, Blob, url.Values, *FormData or io.Reader body, got %T", ErrUnsupportedPayload, h.payload))
		}
	}
	h.header = synthesizeHeaders(h.header, apidef.MIMENone, body)
	return outgoing{hop: h, body: body}, nil
}

// send performs one hop and reads the whole response body.
func (c *Client) send(ctx context.Context, out outgoing) (*Response, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, out.method, out.url, out.body.reader())
	if err != nil {
		return nil, err
	}
	req.Header = out.header.Clone()
	if !out.body.lengthKnown() && out.body.kind != bodyNone {
		req.ContentLength = -1
	}
	if err := c.applyRequestPolicy(req, out.mode, out.creds); err != nil {
		return nil, err
	}

	logger.Debug("sending request",
		zap.String("route", out.label()),
		zap.String("method", out.method),
		zap.String("url", out.url),
	)
	resp, err := c.transport.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if resp.Body != nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
		}
	}()

	var body []byte
	if resp.Body != nil {
		var r io.Reader = resp.Body
		if c.maxBody > 0 {
			r = io.LimitReader(resp.Body, c.maxBody+1)
		}
		body, err = io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read response body: %w", err)
		}
		if c.maxBody > 0 && int64(len(body)) > c.maxBody {
			return nil, &ResponseTooLargeError{Limit: c.maxBody, URL: out.url}
		}
	}

	respURL := out.url
	if resp.Request != nil && resp.Request.URL != nil {
		respURL = resp.Request.URL.String()
	}
	header := resp.Header
	if header == nil {
		header = make(http.Header)
	}
	return &Response{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Header:     header,
		Body:       body,
		URL:        respURL,
	}, nil
}

func (c *Client) effectiveRule(h hop, resp *Response) apidef.EffectiveRule {
	code := apidef.StatusCode(resp.StatusCode)
	if h.route == nil {
		return apidef.Cascade(code, resp.StatusText(), c.api.ExternalDefaults)
	}
	return apidef.Cascade(code, resp.StatusText(), c.api.Defaults, h.route.ExpectedResponses)
}
