// Package links rewrites relative Markdown inline link targets to absolute URLs.
//
// Links are recognized textually as [alt](target) anywhere in the document,
// including inside code spans and fenced blocks. Image links match too, since
// the pattern is found inside ![alt](src).
package links

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var (
	reLink  = regexp.MustCompile(`(?i)\[([^\]]*)\]\(([^)]*)\)`)
	reTitle = regexp.MustCompile(`^\s+(?:"[^"]*"|'[^']*')\s*$`)
)

const blank = " \t\r\n"

// Rewrite resolves every inline link target in source against base and
// returns the rewritten document. Absolute targets are kept as they are;
// relative ones are merged with the base following RFC 3986. Targets that do
// not parse as URL references are left untouched. Only the destination is
// resolved: a <bracketed> destination keeps its brackets and a quoted link
// title is copied verbatim.
func Rewrite(source []byte, base string) ([]byte, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parsing base url %q: %w", base, err)
	}

	return reLink.ReplaceAllFunc(source, func(match []byte) []byte {
		subs := reLink.FindSubmatch(match)
		if subs == nil {
			return match
		}

		res := make([]byte, 0, len(match))
		res = append(res, '[')
		res = append(res, subs[1]...)
		res = append(res, "]("...)
		res = append(res, rewriteTarget(baseURL, string(subs[2]))...)
		res = append(res, ')')

		return res
	}), nil
}

func rewriteTarget(base *url.URL, target string) string {
	trimmed := strings.TrimLeft(target, blank)
	lead := target[:len(target)-len(trimmed)]

	if strings.HasPrefix(trimmed, "<") {
		end := strings.IndexByte(trimmed, '>')
		if end < 0 {
			return target
		}

		return lead + "<" + Resolve(base, trimmed[1:end]) + ">" + trimmed[end+1:]
	}

	if idx := strings.IndexAny(trimmed, blank); idx > 0 && reTitle.MatchString(trimmed[idx:]) {
		return lead + Resolve(base, trimmed[:idx]) + trimmed[idx:]
	}

	return Resolve(base, target)
}

// Resolve returns target resolved against base, or target itself when it is
// not a valid URL reference.
func Resolve(base *url.URL, target string) string {
	ref, err := url.Parse(target)
	if err != nil {
		return target
	}

	if ref.IsAbs() {
		return target
	}

	return base.ResolveReference(ref).String()
}
