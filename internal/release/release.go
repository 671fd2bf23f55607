// Package release checks GitHub for newer stable and pre-releases.
package release

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

// Repo is the GitHub repository queried for releases.
const Repo = "QinCai-rui/mdllama"

// Release is the subset of the GitHub release object we care about.
type Release struct {
	TagName    string `json:"tag_name"`
	HTMLURL    string `json:"html_url"`
	Prerelease bool   `json:"prerelease"`
}

// Version returns the release version without the leading "v".
func (r *Release) Version() string {
	return strings.TrimPrefix(r.TagName, "v")
}

// Checker fetches release information from the GitHub API.
type Checker struct {
	// BaseURL of the GitHub API, overridable for tests.
	BaseURL string

	// Token, when non-empty, is sent as a bearer token to raise the API
	// rate limit.
	Token string

	httpClient *http.Client
}

// NewChecker returns a Checker using the public GitHub API and the
// GITHUB_TOKEN environment variable, if set.
func NewChecker() *Checker {
	return &Checker{
		BaseURL:    "https://api.github.com",
		Token:      os.Getenv("GITHUB_TOKEN"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Latest returns the most recent stable release and pre-release. Either
// may be nil when the repository has none of that kind.
func (c *Checker) Latest(ctx context.Context) (stable, pre *Release, err error) {
	url := fmt.Sprintf("%s/repos/%s/releases", c.BaseURL, Repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("creating request: %w", err)
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	client := c.httpClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("fetching releases: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("fetching releases from GitHub: status %d", resp.StatusCode)
	}

	var releases []Release
	if err := json.NewDecoder(resp.Body).Decode(&releases); err != nil {
		return nil, nil, fmt.Errorf("decoding releases: %w", err)
	}

	// Releases arrive newest first; keep the first of each kind.
	for i := range releases {
		r := &releases[i]
		if r.Prerelease {
			if pre == nil {
				pre = r
			}
		} else if stable == nil {
			stable = r
		}
		if stable != nil && pre != nil {
			break
		}
	}
	return stable, pre, nil
}
