// Package github wraps the go-github client with the calls the bot makes.
package github

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"
	"github.com/google/go-github/v57/github"
	"github.com/gregjones/httpcache"
	"golang.org/x/oauth2"
)

// DefaultAPIURL is the public GitHub REST endpoint
const DefaultAPIURL = "https://api.github.com"

// Client wraps the GitHub API client
type Client struct {
	client *github.Client
}

// NewClient creates a GitHub client authenticated by the given token source.
// Requests go through this transport stack:
//  1. go-github-ratelimit (sleeps on secondary rate limit responses)
//  2. oauth2 (adds the Authorization header)
//  3. revalidate (marks every request max-age=0)
//  4. httpcache (ETag conditional requests, so a re-fetch of unchanged runs is cheap)
func NewClient(ts oauth2.TokenSource, apiURL string) (*Client, error) {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	authTransport := &oauth2.Transport{
		Source: oauth2.ReuseTokenSource(nil, ts),
		Base:   &revalidateTransport{base: cacheTransport},
	}
	rateLimitClient := github_ratelimit.NewClient(authTransport)

	client := github.NewClient(rateLimitClient)
	if apiURL != "" && strings.TrimSuffix(apiURL, "/") != DefaultAPIURL {
		var err error
		client, err = client.WithEnterpriseURLs(apiURL, apiURL)
		if err != nil {
			return nil, fmt.Errorf("failed to configure API URL %s: %w", apiURL, err)
		}
	}

	return &Client{client: client}, nil
}

// revalidateTransport makes httpcache check every cached entry with the server.
// GitHub marks list responses max-age=60, which would otherwise hide new runs
// from a re-fetch; request max-age=0 turns the hit into an If-None-Match request.
type revalidateTransport struct {
	base http.RoundTripper
}

func (t *revalidateTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("Cache-Control") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("Cache-Control", "max-age=0")
	}
	return t.base.RoundTrip(req)
}

// NewTokenClient creates a client from a static token (PAT or the Actions GITHUB_TOKEN)
func NewTokenClient(token, apiURL string) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("GitHub token cannot be empty")
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return NewClient(ts, apiURL)
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base URL.
// Used by tests to point the client at an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string) (*Client, error) {
	client := github.NewClient(httpClient)

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	client.BaseURL = u

	return &Client{client: client}, nil
}

// logRateLimit logs the remaining API budget after a call
func logRateLimit(resp *github.Response, endpoint string) {
	if resp == nil {
		return
	}

	slog.Debug("GitHub API: rate limit",
		"endpoint", endpoint,
		"remaining", resp.Rate.Remaining,
		"limit", resp.Rate.Limit,
	)

	if resp.Rate.Limit > 0 && resp.Rate.Remaining < 100 {
		slog.Warn("GitHub rate limit low",
			"remaining", resp.Rate.Remaining,
			"reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second),
		)
	}
}
