package eval

import "github.com/agext/levenshtein"

// NameSuggestion tries to find a name from the given options that is
// close enough to the given name to plausibly be a typo. Returns "" if
// nothing in options qualifies.
func NameSuggestion(given string, options []string) string {
	for _, opt := range options {
		if levenshtein.Distance(given, opt, nil) < 3 {
			return opt
		}
	}
	return ""
}
