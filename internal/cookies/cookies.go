// Package cookies resolves #{name} placeholders against a cookie store and
// provides the store backends the client can be wired with.
package cookies

import (
	"regexp"
)

// Reader is the read-only view of a cookie store the client depends on.
// Get returns the empty string for absent cookies.
type Reader interface {
	Get(name string) string
}

// ReaderFunc adapts a function to Reader.
type ReaderFunc func(name string) string

func (f ReaderFunc) Get(name string) string { return f(name) }

var placeholder = regexp.MustCompile(`#\{([^{}]+)\}`)

// Substitute replaces every #{name} in text with the named cookie's value.
// A nil reader resolves every placeholder to the empty string.
func Substitute(r Reader, text string) string {
	if len(text) < 3 {
		return text
	}
	return placeholder.ReplaceAllStringFunc(text, func(m string) string {
		if r == nil {
			return ""
		}
		return r.Get(m[2 : len(m)-1])
	})
}

// SubstituteMap returns a copy of m with every value substituted.
func SubstituteMap(r Reader, m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = Substitute(r, v)
	}
	return out
}

// SubstituteObject returns a shallow copy of obj whose top-level string
// values are substituted. Nested values are copied untouched.
func SubstituteObject(r Reader, obj map[string]any) map[string]any {
	if obj == nil {
		return nil
	}
	out := make(map[string]any, len(obj))
	for k, v := range obj {
		if s, ok := v.(string); ok {
			out[k] = Substitute(r, s)
			continue
		}
		out[k] = v
	}
	return out
}
