package apidef

// libraryDefaults is the bottom layer of the cascade. It is built from the
// status vocabulary and never mutated afterwards.
var libraryDefaults = buildLibraryDefaults()

func buildLibraryDefaults() ResponseRules {
	defaults := ResponseRules{}
	for _, code := range RecognizedStatusCodes() {
		rule := ResponseRule{
			IsSuccess: Bool(code >= 200 && code < 300),
			Message:   String(code.Text()),
		}
		switch code {
		case 304:
			rule.IsSuccess = Bool(true)
		case 301, 302, 303:
			// Browsers degrade these to a bare GET.
			rule.RedirectTo = RedirectHeaderLocation
			rule.PreserveRequest = Bool(false)
		case 307, 308:
			rule.RedirectTo = RedirectHeaderLocation
			rule.PreserveRequest = Bool(true)
		}
		defaults[code] = rule
	}
	return defaults
}

// LibraryDefault returns the library-level rule for code. The second result
// is false for unrecognized codes.
func LibraryDefault(code StatusCode) (ResponseRule, bool) {
	rule, ok := libraryDefaults[code]
	return rule, ok
}
