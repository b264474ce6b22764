package requester

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// CallSpec is one entry of a batch.
type CallSpec struct {
	Route      string
	Data       any
	PathParams map[string]string
}

// CallMany runs independent calls concurrently, at most limit at a time
// (limit <= 0 means unbounded). Results keep the order of calls. The first
// returned error cancels calls that have not started yet.
func (c *Client) CallMany(ctx context.Context, calls []CallSpec, limit int) ([]*RequestResult, error) {
	results := make([]*RequestResult, len(calls))
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, call := range calls {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := c.Call(ctx, call.Route, call.Data, WithPathParams(call.PathParams))
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
