package sanitize

import (
	"regexp"
	"strings"
)

// timeResToken matches time-resolution wildcards such as "3h" or "168H",
// which belong to snapshot handling, not solve-option parsing.
var timeResToken = regexp.MustCompile(`(?i)^\d+h$`)

// FilterOpts splits a hyphen-delimited solve-option string and drops
// time-resolution tokens, preserving the order of the rest.
func FilterOpts(opts string) []string {
	if opts == "" {
		return nil
	}
	var out []string
	for _, tok := range strings.Split(opts, "-") {
		if tok == "" || timeResToken.MatchString(tok) {
			continue
		}
		out = append(out, tok)
	}
	return out
}
