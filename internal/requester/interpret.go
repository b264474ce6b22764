package requester

import (
	"fmt"
	"strings"

	"github.com/brizzai/specfetch/internal/apidef"
)

// interpret turns a response and its effective rule into a result. The
// second return is false when the content type check failed.
func interpret(resp *Response, rule apidef.EffectiveRule) (*RequestResult, bool) {
	result := &RequestResult{
		OK:       rule.IsSuccess,
		Message:  rule.Message,
		Response: resp,
	}
	if msg, ok := checkContentType(rule.ExpectedContentTypes, resp.Header.Get("Content-Type")); !ok {
		result.OK = false
		result.Message = msg
		return result, false
	}
	return result, true
}

// checkContentType validates header against the expected set. An empty set
// always passes; a missing header passes only when MIMENone is expected.
func checkContentType(expected []apidef.MIMEType, header string) (string, bool) {
	if len(expected) == 0 {
		return "", true
	}
	if strings.TrimSpace(header) == "" {
		if containsMIME(expected, apidef.MIMENone) {
			return "", true
		}
		return fmt.Sprintf("Expected content types %s, but the request didn't specify a content type.", formatMIMEList(expected)), false
	}
	got := apidef.MediaType(header)
	if containsMIME(expected, got) {
		return "", true
	}
	return fmt.Sprintf("Expected content types %s, got '%s'.", formatMIMEList(expected), got), false
}

func containsMIME(set []apidef.MIMEType, m apidef.MIMEType) bool {
	for _, s := range set {
		if strings.EqualFold(string(s), string(m)) {
			return true
		}
	}
	return false
}

func formatMIMEList(types []apidef.MIMEType) string {
	quoted := make([]string, len(types))
	for i, t := range types {
		quoted[i] = "'" + t.String() + "'"
	}
	return "[" + strings.Join(quoted, ",") + "]"
}
