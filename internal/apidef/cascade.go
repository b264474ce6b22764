package apidef

import "fmt"

// EffectiveRule is a fully merged ResponseRule.
type EffectiveRule struct {
	IsSuccess            bool
	Message              string
	ExpectedContentTypes []MIMEType
	RedirectTo           Redirect
	PreserveRequest      bool
}

// Redirects reports whether the rule asks for a redirect.
func (r EffectiveRule) Redirects() bool {
	return r.RedirectTo != "" && r.RedirectTo != RedirectNever
}

// Merge overlays over on top of r field by field. Fields left unset in over
// keep the value from r.
func (r ResponseRule) Merge(over ResponseRule) ResponseRule {
	if over.IsSuccess != nil {
		r.IsSuccess = over.IsSuccess
	}
	if over.Message != nil {
		r.Message = over.Message
	}
	if over.ExpectedContentTypes != nil {
		r.ExpectedContentTypes = over.ExpectedContentTypes
	}
	if over.RedirectTo != "" {
		r.RedirectTo = over.RedirectTo
	}
	if over.PreserveRequest != nil {
		r.PreserveRequest = over.PreserveRequest
	}
	return r
}

func (r ResponseRule) resolve() EffectiveRule {
	eff := EffectiveRule{
		ExpectedContentTypes: r.ExpectedContentTypes,
		RedirectTo:           r.RedirectTo,
	}
	if r.IsSuccess != nil {
		eff.IsSuccess = *r.IsSuccess
	}
	if r.Message != nil {
		eff.Message = *r.Message
	}
	if r.PreserveRequest != nil {
		eff.PreserveRequest = *r.PreserveRequest
	}
	return eff
}

// Cascade merges the library default, then each layer in order, for one
// status code. Unrecognized codes ignore every layer and always fail.
func Cascade(code StatusCode, statusText string, layers ...ResponseRules) EffectiveRule {
	base, ok := LibraryDefault(code)
	if !ok {
		return EffectiveRule{
			IsSuccess: false,
			Message:   fmt.Sprintf("Unknown status code: %d (%s)", int(code), statusText),
		}
	}
	for _, layer := range layers {
		if over, ok := layer[code]; ok {
			base = base.Merge(over)
		}
	}
	return base.resolve()
}
