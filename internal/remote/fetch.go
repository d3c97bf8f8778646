package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// DefaultUserAgent is sent when the fetcher has no user agent configured.
const DefaultUserAgent = "mdinclude/0.1"

// ErrConnection wraps transport failures.
var ErrConnection = errors.New("connection error")

// StatusError reports a response other than 200 OK.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status code: %d", e.URL, e.StatusCode)
}

// Fetcher downloads Markdown documents.
type Fetcher struct {
	client         *http.Client
	userAgent      string
	canonicalizers []Canonicalizer
}

// Option configures a [Fetcher].
type Option func(*Fetcher)

// WithUserAgent sets the User-Agent header of every request.
func WithUserAgent(agent string) Option {
	return func(f *Fetcher) {
		if len(agent) != 0 {
			f.userAgent = agent
		}
	}
}

// WithCanonicalizers sets the provider rewrites applied before each request.
func WithCanonicalizers(canonicalizers ...Canonicalizer) Option {
	return func(f *Fetcher) {
		f.canonicalizers = canonicalizers
	}
}

// NewFetcher returns a fetcher using client, or http.DefaultClient when nil.
func NewFetcher(client *http.Client, opts ...Option) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}

	f := &Fetcher{client: client, userAgent: DefaultUserAgent}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Fetch validates rawURL, applies the provider rewrites and returns the
// response body. Transport failures wrap [ErrConnection]; any status other
// than 200 is reported as a [*StatusError] carrying rawURL.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if err := Validate(rawURL); err != nil {
		return nil, err
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidURL, rawURL)
	}

	out := &Request{URL: u, Header: make(http.Header)}
	out.Header.Set("User-Agent", f.userAgent)

	if err := Canonicalize(out, f.canonicalizers...); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, out.URL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header = out.Header

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConnection, rawURL, transportCause(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrConnection, rawURL, err)
	}

	return body, nil
}

// transportCause strips the request URL from a client error. After
// canonicalization that URL may carry an access token.
func transportCause(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err
	}

	return err
}
