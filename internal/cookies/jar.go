package cookies

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
)

// JarStore reads cookies from an http.CookieJar scoped to one origin. The
// same jar is handed to the transport so Set-Cookie headers from responses
// become visible to later substitutions.
type JarStore struct {
	jar    http.CookieJar
	origin *url.URL
}

// NewJarStore creates a JarStore backed by a fresh cookiejar for origin.
func NewJarStore(origin string) (*JarStore, error) {
	u, err := url.Parse(origin)
	if err != nil {
		return nil, fmt.Errorf("invalid cookie origin %q: %w", origin, err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	return &JarStore{jar: jar, origin: u}, nil
}

// Jar exposes the underlying jar for the HTTP client.
func (s *JarStore) Jar() http.CookieJar {
	return s.jar
}

func (s *JarStore) Get(name string) string {
	for _, c := range s.jar.Cookies(s.origin) {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

// Set stores a cookie for the store's origin.
func (s *JarStore) Set(name, value string) {
	s.jar.SetCookies(s.origin, []*http.Cookie{{Name: name, Value: value, Path: "/"}})
}
