package directive

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/shlex"
)

const (
	optTitle = "title"
	optLinks = "links"

	modeKeep    = "keep"
	modeStrip   = "strip"
	modeRewrite = "rewrite"
)

// Options are the settings that may trail a directive, either as shell
// words or as a JSON object:
//
//	@include("https://host/README.md", "## Usage") {title=keep links=keep}
//	@include("https://host/README.md") {"links": "keep"}
type Options struct {
	// KeepTitle keeps the first line of the included document (title=keep).
	KeepTitle bool
	// KeepLinks leaves relative link targets alone (links=keep).
	KeepLinks bool
}

// String renders the non-default options in directive syntax.
func (o Options) String() string {
	var words []string

	if o.KeepTitle {
		words = append(words, optTitle+"="+modeKeep)
	}

	if o.KeepLinks {
		words = append(words, optLinks+"="+modeKeep)
	}

	return strings.Join(words, " ")
}

func parseOptions(input string) (Options, error) {
	var opts Options

	pairs, err := optionPairs(strings.TrimSpace(input))
	if err != nil {
		return opts, err
	}

	for key, value := range pairs {
		switch strings.ToLower(key) {
		case optTitle:
			opts.KeepTitle, err = choose(value, modeKeep, modeStrip)
		case optLinks:
			opts.KeepLinks, err = choose(value, modeKeep, modeRewrite)
		default:
			return Options{}, fmt.Errorf("unknown option %q", key)
		}

		if err != nil {
			return Options{}, fmt.Errorf("option %s: %w", key, err)
		}
	}

	return opts, nil
}

// optionPairs splits the option text into key/value pairs. A leading `{"`
// selects JSON; anything else is shell words, optionally braced.
func optionPairs(input string) (map[string]string, error) {
	if len(input) == 0 {
		return nil, nil
	}

	if strings.HasPrefix(input, "{") {
		if body := strings.TrimSpace(input[1:]); strings.HasPrefix(body, `"`) || body == "}" {
			var pairs map[string]string
			if err := json.Unmarshal([]byte(input), &pairs); err != nil {
				return nil, err
			}

			return pairs, nil
		}

		if !strings.HasSuffix(input, "}") {
			return nil, fmt.Errorf("unbalanced braces in %q", input)
		}

		input = input[1 : len(input)-1]
	}

	words, err := shlex.Split(input)
	if err != nil {
		return nil, err
	}

	pairs := make(map[string]string, len(words))

	for _, word := range words {
		key, value, ok := strings.Cut(word, "=")
		if !ok {
			return nil, fmt.Errorf("option %q is not key=value", word)
		}

		pairs[key] = value
	}

	return pairs, nil
}

func choose(value, yes, no string) (bool, error) {
	switch strings.ToLower(value) {
	case yes:
		return true, nil
	case no:
		return false, nil
	default:
		return false, fmt.Errorf("%q is neither %s nor %s", value, yes, no)
	}
}
