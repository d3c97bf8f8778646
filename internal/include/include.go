// Package include resolves a remote Markdown inclusion into the text that
// replaces the directive: fetch, drop the document title, absolutize links
// and optionally cut out a single section.
package include

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/ezerfernandes/mdinclude/internal/links"
	"github.com/ezerfernandes/mdinclude/internal/logging"
	"github.com/ezerfernandes/mdinclude/internal/remote"
	"github.com/ezerfernandes/mdinclude/internal/section"
)

// ErrSectionNotFound is returned when the requested heading is not present
// in the fetched document.
var ErrSectionNotFound = errors.New("section not found")

// Fetcher retrieves the raw Markdown at a URL.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

// Options tweak how a fetched document is transformed.
type Options struct {
	// KeepTitle keeps the first line of the document, which is otherwise
	// assumed to duplicate the including page's title and dropped.
	KeepTitle bool
	// KeepLinks leaves relative link targets as they are.
	KeepLinks bool
}

// Resolver turns inclusion requests into Markdown.
type Resolver struct {
	fetcher Fetcher
	logger  logging.Logger
}

// NewResolver returns a resolver; a nil logger discards warnings.
func NewResolver(fetcher Fetcher, logger logging.Logger) *Resolver {
	if logger == nil {
		logger = logging.NoOp()
	}

	return &Resolver{fetcher: fetcher, logger: logger}
}

// WithLogger returns a copy of r reporting to logger.
func (r *Resolver) WithLogger(logger logging.Logger) *Resolver {
	return NewResolver(r.fetcher, logger)
}

// Resolve validates and fetches rawURL and returns the Markdown to include. When heading
// is not empty only that section's body is returned.
func (r *Resolver) Resolve(ctx context.Context, rawURL, heading string, opts Options) (string, error) {
	if err := remote.Validate(rawURL); err != nil {
		return "", err
	}

	body, err := r.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return "", err
	}

	if !opts.KeepTitle {
		body = StripTitle(body)
	}

	if !opts.KeepLinks {
		if body, err = links.Rewrite(body, rawURL); err != nil {
			return "", err
		}
	}

	if len(heading) == 0 {
		return string(body), nil
	}

	part, found, err := section.Read(body, heading)
	if err != nil {
		return "", err
	}

	if !found {
		return "", fmt.Errorf("%w: %q in %s", ErrSectionNotFound, heading, rawURL)
	}

	return string(part), nil
}

// Include is [Resolver.Resolve] for document rendering: any failure is
// logged as a warning and yields an empty string, so a broken inclusion
// never aborts the build.
func (r *Resolver) Include(ctx context.Context, rawURL, heading string, opts Options) string {
	content, err := r.Resolve(ctx, rawURL, heading, opts)
	if err != nil {
		r.logger.Warn("include failed", "url", rawURL, "section", heading, "error", err)

		return ""
	}

	r.logger.Debug("included", "url", rawURL, "section", heading, "bytes", len(content))

	return content
}

// StripTitle drops everything up to and including the first newline. A
// document without a newline is returned unchanged.
func StripTitle(body []byte) []byte {
	idx := bytes.IndexByte(body, '\n')

	return body[idx+1:]
}
