package fetch

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// APIBaseEnv overrides release API discovery with a fixed base URL, mostly
// for self-hosted forges and tests.
const APIBaseEnv = "RELEASE_GITTER_API_BASE"

// TokenEnv names the environment variable whose value is attached as an
// access token to API and download requests.
const TokenEnv = "GITHUB_TOKEN"

// giteaReleasesPath is the swagger path whose presence marks a Gitea
// compatible API.
const giteaReleasesPath = "/repos/{owner}/{repo}/releases"

const userAgent = "release-gitter"

var defaultHTTPClient = &http.Client{Timeout: 30 * time.Second}

// StatusError reports a non-success HTTP response from a release host.
type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed: %s status=%d", e.URL, e.Status)
}

// NotFoundError reports that no release matched the requested version.
type NotFoundError struct {
	Ref     Ref
	Version string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no release in %s/%s matches version %q", e.Ref.Owner, e.Ref.Repo, e.Version)
}

// UnsupportedHostError reports a host that serves neither the GitHub nor the
// Gitea release API.
type UnsupportedHostError struct {
	Host string
}

func (e *UnsupportedHostError) Error() string {
	return fmt.Sprintf("no release API found on host %q", e.Host)
}

// Client reads releases from a GitHub or Gitea style API.
type Client struct {
	// BaseURL, when set, is used verbatim for API requests instead of
	// deriving an endpoint from the repository host.
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// NewClient builds a Client from the process environment.
func NewClient() *Client {
	return &Client{
		BaseURL: os.Getenv(APIBaseEnv),
		Token:   os.Getenv(TokenEnv),
	}
}

// FetchRelease downloads release metadata for ref and selects the release
// matching version. The returned string is the version to substitute into
// the asset template: the concrete tag name when version asks for the
// latest release, the requested version verbatim otherwise.
func (c *Client) FetchRelease(ref Ref, version string, allowPrerelease bool) (*Release, string, error) {
	listURL, err := c.releasesURL(ref)
	if err != nil {
		return nil, "", err
	}
	content, err := c.get(listURL)
	if err != nil {
		return nil, "", err
	}
	var releases []Release
	if err := json.Unmarshal(content, &releases); err != nil {
		return nil, "", fmt.Errorf("parse releases from %s: %w", listURL, err)
	}
	selected := selectRelease(releases, version, allowPrerelease)
	if selected == nil {
		return nil, "", &NotFoundError{Ref: ref, Version: version}
	}
	if version == VersionLatest {
		return selected, selected.TagName, nil
	}
	return selected, version, nil
}

// selectRelease picks the newest non-prerelease for the latest sentinel, or
// the newest release whose tag ends with version. Release lists arrive
// newest first.
func selectRelease(releases []Release, version string, allowPrerelease bool) *Release {
	if version == VersionLatest {
		for i := range releases {
			if releases[i].Prerelease && !allowPrerelease {
				continue
			}
			return &releases[i]
		}
		return nil
	}
	for i := range releases {
		if strings.HasSuffix(releases[i].TagName, version) {
			return &releases[i]
		}
	}
	return nil
}

func (c *Client) releasesURL(ref Ref) (string, error) {
	if c.BaseURL != "" {
		return fmt.Sprintf("%s/repos/%s/%s/releases", strings.TrimSuffix(c.BaseURL, "/"), ref.Owner, ref.Repo), nil
	}
	if ref.Host == "github.com" {
		return fmt.Sprintf("https://api.github.com/repos/%s/%s/releases", ref.Owner, ref.Repo), nil
	}
	basePath, err := c.discoverBasePath(ref.Host)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("https://%s%s/repos/%s/%s/releases", ref.Host, basePath, ref.Owner, ref.Repo), nil
}

// discoverBasePath probes an unknown host for a Gitea swagger document and
// returns the API base path advertised there.
func (c *Client) discoverBasePath(host string) (string, error) {
	swaggerURL := fmt.Sprintf("https://%s/swagger.v1.json", host)
	content, err := c.get(swaggerURL)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			return "", &UnsupportedHostError{Host: host}
		}
		return "", err
	}
	var swagger struct {
		BasePath string                     `json:"basePath"`
		Paths    map[string]json.RawMessage `json:"paths"`
	}
	if err := json.Unmarshal(content, &swagger); err != nil {
		return "", &UnsupportedHostError{Host: host}
	}
	if _, ok := swagger.Paths[giteaReleasesPath]; !ok {
		return "", &UnsupportedHostError{Host: host}
	}
	return swagger.BasePath, nil
}

func (c *Client) get(requestURL string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	if c.shouldAuthorize(requestURL) {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{URL: requestURL, Status: resp.StatusCode}
	}
	return io.ReadAll(resp.Body)
}

// shouldAuthorize limits the access token to github.com hosts and the
// explicit base URL override. Probed third-party hosts never see it.
func (c *Client) shouldAuthorize(rawURL string) bool {
	if c.Token == "" {
		return false
	}
	if c.BaseURL != "" && strings.HasPrefix(rawURL, c.BaseURL) {
		return true
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := parsed.Hostname()
	return host == "github.com" || strings.HasSuffix(host, ".github.com")
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return defaultHTTPClient
}
