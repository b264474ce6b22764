package requester

import (
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/brizzai/specfetch/internal/apidef"
	"github.com/brizzai/specfetch/internal/logger"
)

const missingLocationMessage = "Specification indicates to redirect to the location given in the response's 'Location' header, but none was provided."

// resolveRedirect picks the next hop for a redirecting rule. A non-nil
// result means the chain stops there.
func (c *Client) resolveRedirect(out outgoing, resp *Response, rule apidef.EffectiveRule) (hop, *RequestResult) {
	if rule.RedirectTo == apidef.RedirectHeaderLocation {
		return c.followLocation(out, resp, rule.PreserveRequest)
	}

	name := string(rule.RedirectTo)
	target, ok := c.api.Route(name)
	if !ok {
		return hop{}, &RequestResult{
			OK:       false,
			Message:  fmt.Sprintf("Specification indicates to redirect to route '%s', which is not declared.", name),
			Response: resp,
		}
	}

	var payload any
	if rule.PreserveRequest && target.Method != apidef.MethodGet && out.body.kind != bodyNone {
		payload = out.body
	}
	c.metrics.ObserveRedirect(out.label(), "route")
	logger.Info("following redirect to route",
		zap.String("from", out.label()),
		zap.String("to", name),
		zap.Int("status", resp.StatusCode),
		zap.Bool("preserve_request", payload != nil),
	)
	return c.routeHop(name, &target, payload, nil), nil
}

func (c *Client) followLocation(out outgoing, resp *Response, preserve bool) (hop, *RequestResult) {
	location := resp.Header.Get("Location")
	if location == "" {
		return hop{}, &RequestResult{OK: false, Message: missingLocationMessage, Response: resp}
	}

	target := location
	if base, err := url.Parse(resp.URL); err == nil {
		if ref, err := url.Parse(location); err == nil {
			target = base.ResolveReference(ref).String()
		}
	}

	c.metrics.ObserveRedirect(out.label(), "header-location")
	logger.Info("following Location header",
		zap.String("from", out.label()),
		zap.String("location", target),
		zap.Int("status", resp.StatusCode),
		zap.Bool("preserve_request", preserve),
	)

	if !preserve {
		return hop{url: target, method: http.MethodGet}, nil
	}
	next := hop{
		url:    target,
		method: out.method,
		header: out.header.Clone(),
		mode:   out.mode,
		creds:  out.creds,
	}
	if out.body.kind != bodyNone {
		next.payload = out.body
	}
	return next, nil
}
