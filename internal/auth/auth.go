// Package auth resolves the GitHub token used for API calls and git
// transfers. Anonymous access is allowed, so a missing token is not an error.
package auth

import (
	"net/url"
	"strings"

	"github.com/cli/go-gh/v2/pkg/auth"
)

// DefaultHost is the host of the public GitHub API.
const DefaultHost = "github.com"

// TokenSource indicates where the token was found
type TokenSource string

const (
	TokenSourceFlag      TokenSource = "flag"
	TokenSourceEnvGitHub TokenSource = "GITHUB_TOKEN"
	TokenSourceEnvGH     TokenSource = "GH_TOKEN"
	TokenSourceGHCLI     TokenSource = "gh-cli"
	TokenSourceNone      TokenSource = "none"
)

// tokenForHost asks the gh CLI configuration for a token.
var tokenForHost = func(host string) string {
	token, _ := auth.TokenForHost(host)
	return token
}

// ResolveToken finds a GitHub token for host.
// Priority order:
//  1. flagToken (explicit --token flag)
//  2. GITHUB_TOKEN environment variable
//  3. GH_TOKEN environment variable
//  4. gh CLI auth for the host
//
// When nothing is found it returns "" and TokenSourceNone.
func ResolveToken(flagToken, host string) (string, TokenSource) {
	if host == "" {
		host = DefaultHost
	}

	return NewResolver().
		WithFlagValue(flagToken).
		WithEnvs(string(TokenSourceEnvGitHub), string(TokenSourceEnvGH)).
		WithProvider(func() (string, TokenSource) {
			return tokenForHost(host), TokenSourceGHCLI
		}).
		Resolve()
}

// HostFromAPIURL maps an API root to the host gh stores credentials under.
// api.github.com and an empty URL map to github.com.
func HostFromAPIURL(apiURL string) string {
	if apiURL == "" {
		return DefaultHost
	}

	u, err := url.Parse(apiURL)
	if err != nil || u.Hostname() == "" {
		return DefaultHost
	}

	host := strings.ToLower(u.Hostname())
	if host == "api.github.com" {
		return DefaultHost
	}

	return host
}
