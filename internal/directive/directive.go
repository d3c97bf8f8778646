package directive

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"mvdan.cc/sh/v3/shell"
)

// Prefix starts every inclusion directive line.
const Prefix = "@include"

const (
	reArg  = `(?:"([^"]*)"|'([^']*)')`
	reCall = `^@include\s*\(\s*` + reArg + `\s*(?:,\s*` + reArg + `\s*)?\)\s*(.*)$`
)

var reDirective = regexp.MustCompile(reCall)

// ErrMalformedDirective is returned for @include lines that cannot be parsed.
var ErrMalformedDirective = errors.New("malformed include directive")

// Directive is one @include line of a document.
type Directive struct {
	URL     string
	Section string
	Options Options
	// Line is the 1-based line number of the directive.
	Line int
	Raw  string
	// Err is set when the line starts with @include but cannot be parsed.
	Err error
	// Content replaces the directive line once [Directive.Replace] is called.
	Content []byte

	replaced bool
}

// IsDirective reports whether line is an inclusion directive candidate.
func IsDirective(line string) bool {
	return strings.HasPrefix(line, Prefix)
}

// Env looks up variables for double-quoted directive arguments.
type Env func(name string) string

// Parse parses an @include line. Double-quoted arguments have $VAR and
// ${VAR} references expanded through env; single-quoted arguments are taken
// literally. A nil env disables expansion.
func Parse(line string, env Env) (*Directive, error) {
	line = strings.TrimRight(line, " \t\r")

	subs := reDirective.FindStringSubmatch(line)
	if subs == nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedDirective, line)
	}

	rawURL, err := argument(subs[1], subs[2], env)
	if err != nil {
		return nil, err
	}

	heading, err := argument(subs[3], subs[4], env)
	if err != nil {
		return nil, err
	}

	opts, err := parseOptions(subs[5])
	if err != nil {
		return nil, fmt.Errorf("%w: options %q: %w", ErrMalformedDirective, subs[5], err)
	}

	if len(strings.TrimSpace(rawURL)) == 0 {
		return nil, fmt.Errorf("%w: empty url: %s", ErrMalformedDirective, line)
	}

	return &Directive{URL: rawURL, Section: heading, Options: opts, Raw: line}, nil
}

func argument(doubleQuoted, singleQuoted string, env Env) (string, error) {
	if len(singleQuoted) != 0 || env == nil || !strings.Contains(doubleQuoted, "$") {
		return doubleQuoted + singleQuoted, nil
	}

	expanded, err := shell.Expand(doubleQuoted, env)
	if err != nil {
		return "", fmt.Errorf("%w: expanding %q: %w", ErrMalformedDirective, doubleQuoted, err)
	}

	return expanded, nil
}
