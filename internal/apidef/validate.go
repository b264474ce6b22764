package apidef

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidRoute marks a route declaration that cannot be used.
	ErrInvalidRoute = errors.New("invalid route")
	// ErrUnknownRedirectTarget marks a redirect naming an undeclared route.
	ErrUnknownRedirectTarget = errors.New("redirect target is not a declared route")
)

// Validate checks every route and rule layer of the API and returns all
// problems joined together.
func (a *API) Validate() error {
	var errs []error
	for name, route := range a.Routes {
		if err := a.validateRoute(name, route); err != nil {
			errs = append(errs, err)
		}
	}
	errs = append(errs, a.validateRules("defaults", a.Defaults)...)
	errs = append(errs, a.validateRules("external_defaults", a.ExternalDefaults)...)
	return errors.Join(errs...)
}

func (a *API) validateRoute(name string, route RouteSpec) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: empty route name", ErrInvalidRoute)
	}
	if route.URL == "" {
		return fmt.Errorf("%w %q: url is required", ErrInvalidRoute, name)
	}
	if _, ok := ParseMethod(string(route.Method)); !ok {
		return fmt.Errorf("%w %q: unsupported method %q", ErrInvalidRoute, name, route.Method)
	}
	if len(route.BaseBody) > 0 && route.RequestContentType != MIMEJSON {
		return fmt.Errorf("%w %q: base body requires request content type %s", ErrInvalidRoute, name, MIMEJSON)
	}
	if len(route.BaseBody) > 0 && route.Method == MethodGet {
		return fmt.Errorf("%w %q: base body on a GET route", ErrInvalidRoute, name)
	}
	if errs := a.validateRules("route "+name, route.ExpectedResponses); len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func (a *API) validateRules(scope string, rules ResponseRules) []error {
	var errs []error
	for code, rule := range rules {
		if !code.IsRecognized() {
			errs = append(errs, fmt.Errorf("%s: %w: status %d cannot be declared", scope, ErrInvalidRoute, code))
			continue
		}
		if rule.RedirectTo.IsRoute() {
			if _, ok := a.Routes[string(rule.RedirectTo)]; !ok {
				errs = append(errs, fmt.Errorf("%s[%d]: %w: %q", scope, code, ErrUnknownRedirectTarget, rule.RedirectTo))
			}
		}
	}
	return errs
}
