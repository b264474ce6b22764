package apidef

import (
	"net/http"
	"sort"
)

// StatusCode is an HTTP status code.
type StatusCode int

// recognized is the set of status codes a route may declare a rule for.
// Codes outside it (418, 306, vendor extensions) always interpret as
// failures.
var recognized = func() map[StatusCode]struct{} {
	set := map[StatusCode]struct{}{}
	for _, code := range []StatusCode{
		100, 101, 102, 103,
		200, 201, 202, 203, 204, 205, 206, 207, 208, 226,
		300, 301, 302, 303, 304, 305, 307, 308,
		400, 401, 402, 403, 404, 405, 406, 407, 408, 409, 410, 411, 412, 413, 414, 415, 416, 417,
		421, 422, 423, 424, 425, 426, 428, 429, 431, 451,
		500, 501, 502, 503, 504, 505, 506, 507, 508, 510, 511,
	} {
		set[code] = struct{}{}
	}
	return set
}()

// IsRecognized reports whether code is part of the status vocabulary.
func (c StatusCode) IsRecognized() bool {
	_, ok := recognized[c]
	return ok
}

// Text returns the standard reason phrase for the code.
func (c StatusCode) Text() string {
	return http.StatusText(int(c))
}

// RecognizedStatusCodes returns the vocabulary in ascending order.
func RecognizedStatusCodes() []StatusCode {
	codes := make([]StatusCode, 0, len(recognized))
	for code := range recognized {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}
