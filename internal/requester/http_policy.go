package requester

import (
	"fmt"
	"net/http"

	"github.com/brizzai/specfetch/internal/apidef"
)

// applyRequestPolicy enforces the fetch-style mode and credentials settings
// of a request.
func (c *Client) applyRequestPolicy(req *http.Request, mode apidef.Mode, creds apidef.Credentials) error {
	sameOrigin := c.baseURL == nil ||
		(req.URL.Scheme == c.baseURL.Scheme && req.URL.Host == c.baseURL.Host)

	if mode == apidef.ModeSameOrigin && !sameOrigin {
		return fmt.Errorf("%w: %s", ErrCrossOrigin, req.URL.Redacted())
	}

	switch creds {
	case apidef.CredentialsOmit:
		stripCredentials(req)
	case apidef.CredentialsSameOrigin:
		if !sameOrigin {
			stripCredentials(req)
		}
	}
	return nil
}

func stripCredentials(req *http.Request) {
	req.Header.Del("Cookie")
	req.Header.Del("Authorization")
}
