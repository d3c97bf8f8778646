// Package remote fetches Markdown documents over HTTP from Git hosting
// providers, applying per-provider URL and authentication rewrites.
package remote

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	reScheme = `(?i)^https?://`
	reHost   = `(?:(?:[A-Z0-9](?:[A-Z0-9-]{0,61}[A-Z0-9])?\.)+[A-Z]{2,6}\.?` +
		`|localhost` +
		`|\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3})`
	rePort = `(?::\d+)?`
	rePath = `(?:/?|[/?]\S+)$`

	markdownExt = ".md"
)

var reURL = regexp.MustCompile(reScheme + reHost + rePort + rePath)

// ErrInvalidURL is returned for URLs that are not http(s) links to a
// Markdown file.
var ErrInvalidURL = errors.New("not a valid markdown URL")

// Validate checks that rawURL is an http or https URL whose host is a domain
// name, localhost or an IPv4 address, and whose path ends in ".md".
func Validate(rawURL string) error {
	if !reURL.MatchString(rawURL) || !strings.HasSuffix(strings.ToLower(rawURL), markdownExt) {
		return fmt.Errorf("%w: %s", ErrInvalidURL, rawURL)
	}

	return nil
}
