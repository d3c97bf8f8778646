package remote

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const (
	githubRawHost   = "raw.githubusercontent.com"
	giteaRawSegment = "/raw/branch/"
)

// Request is the outgoing request a [Canonicalizer] may rewrite.
type Request struct {
	URL    *url.URL
	Header http.Header
}

// Canonicalizer rewrites requests for one hosting provider. Match selects
// the URLs it applies to and Canonicalize edits the request in place.
type Canonicalizer interface {
	Match(u *url.URL) bool
	Canonicalize(req *Request) error
}

// Canonicalize applies every matching canonicalizer in order. Each one sees
// the URL as left by the previous ones.
func Canonicalize(req *Request, canonicalizers ...Canonicalizer) error {
	for _, c := range canonicalizers {
		if c == nil || !c.Match(req.URL) {
			continue
		}

		if err := c.Canonicalize(req); err != nil {
			return err
		}
	}

	return nil
}

// Providers returns the built-in canonicalizers for the given tokens, Gitea
// first so that its API rewrite is in place before host-based matching.
func Providers(githubToken, giteaToken string) []Canonicalizer {
	return []Canonicalizer{
		&GiteaRaw{Token: giteaToken},
		&GitHubRaw{Token: githubToken},
	}
}

// GitHubRaw authenticates requests to raw.githubusercontent.com with a
// personal access token.
type GitHubRaw struct {
	Token string
}

func (g *GitHubRaw) Match(u *url.URL) bool {
	return len(g.Token) != 0 && strings.EqualFold(u.Hostname(), githubRawHost)
}

func (g *GitHubRaw) Canonicalize(req *Request) error {
	req.Header.Set("Authorization", "token "+g.Token)

	return nil
}

// GiteaRaw turns a Gitea web raw link
//
//	https://host/owner/repo/raw/branch/<branch>/<path>
//
// into the token-authenticated API form, always over https since the token
// travels in the query
//
//	https://host/api/v1/repos/owner/repo/raw/<path>?ref=<branch>&token=<token>
type GiteaRaw struct {
	Token string
}

func (g *GiteaRaw) Match(u *url.URL) bool {
	return len(g.Token) != 0 && strings.Contains(u.Path, giteaRawSegment)
}

func (g *GiteaRaw) Canonicalize(req *Request) error {
	parts := strings.Split(strings.TrimPrefix(req.URL.Path, "/"), "/")

	const (
		minParts  = 5
		pathStart = 5
	)

	// owner, repo, "raw", "branch", <branch>, <path...>
	if len(parts) <= minParts || parts[2] != "raw" || parts[3] != "branch" {
		return fmt.Errorf("%w: unexpected gitea raw path %s", ErrInvalidURL, req.URL.Path)
	}

	owner, repo, branch := parts[0], parts[1], parts[4]
	filepath := strings.Join(parts[pathStart:], "/")

	query := url.Values{}
	query.Set("ref", branch)
	query.Set("token", g.Token)

	req.URL = &url.URL{
		Scheme:   "https",
		Host:     req.URL.Host,
		Path:     "/api/v1/repos/" + owner + "/" + repo + "/raw/" + filepath,
		RawQuery: query.Encode(),
	}

	return nil
}
