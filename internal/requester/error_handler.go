package requester

import (
	"go.uber.org/zap"

	"github.com/brizzai/specfetch/internal/logger"
)

// handleTransportError applies the route, API or library error policy to a
// failed transport call.
func (c *Client) handleTransportError(out outgoing, err error) (*RequestResult, error) {
	policy := c.api.ResolveErrorPolicy(out.route)
	c.metrics.ObserveTransportError(out.label(), out.method)

	if policy.ShouldLogError {
		logger.Error("request transport failed",
			zap.String("route", out.label()),
			zap.String("method", out.method),
			zap.String("url", out.url),
			zap.Error(err),
		)
	}
	if policy.Callback != nil {
		policy.Callback(err)
	}
	if policy.ShouldRethrow {
		return nil, &TransportError{
			Route:  out.routeName,
			Method: out.method,
			URL:    out.url,
			Err:    err,
		}
	}
	return &RequestResult{OK: false, Message: err.Error(), Err: err}, nil
}
