// Package update checks GitHub for a newer bootstrap release.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

// DefaultAPIBaseURL is the GitHub REST endpoint.
const DefaultAPIBaseURL = "https://api.github.com"

const fetchLatestRetryCount = 1

// RateLimitError indicates GitHub's API rate limit was hit.
type RateLimitError struct {
	StatusCode int
	Status     string
	Remaining  *int
}

func (e *RateLimitError) Error() string {
	remaining := "unknown"
	if e.Remaining != nil {
		remaining = strconv.Itoa(*e.Remaining)
	}
	return fmt.Sprintf("github api rate limit exceeded (%s, remaining=%s)", e.Status, remaining)
}

// IsRateLimitError reports whether err represents a GitHub API rate-limit condition.
func IsRateLimitError(err error) bool {
	var rl *RateLimitError
	return errors.As(err, &rl)
}

// CheckResult captures the latest release check outcome.
type CheckResult struct {
	Current      string
	Latest       string
	Outdated     bool
	CurrentIsDev bool
}

// Checker fetches the latest release of one repository.
type Checker struct {
	Repo       string // owner/name
	BaseURL    string
	Client     *http.Client
	RetryDelay time.Duration
}

// NewChecker returns a Checker for repo against the public GitHub API.
func NewChecker(repo string) *Checker {
	return &Checker{
		Repo:       repo,
		BaseURL:    DefaultAPIBaseURL,
		Client:     &http.Client{Timeout: 10 * time.Second},
		RetryDelay: 250 * time.Millisecond,
	}
}

// Check fetches the latest release and compares it to currentVersion.
func (c *Checker) Check(ctx context.Context, currentVersion string) (CheckResult, error) {
	current, isDev, err := normalizeCurrent(currentVersion)
	if err != nil {
		return CheckResult{}, err
	}

	latest, err := c.fetchLatest(ctx)
	if err != nil {
		return CheckResult{}, err
	}

	result := CheckResult{
		Current:      current,
		Latest:       latest,
		CurrentIsDev: isDev,
	}
	if !isDev {
		result.Outdated = semver.Compare("v"+current, "v"+latest) < 0
	}
	return result, nil
}

// Check is a convenience wrapper around NewChecker(repo).Check.
func Check(ctx context.Context, currentVersion, repo string) (CheckResult, error) {
	return NewChecker(repo).Check(ctx, currentVersion)
}

type latestReleaseResponse struct {
	TagName string `json:"tag_name"`
}

func (c *Checker) latestURL() string {
	base := strings.TrimRight(c.BaseURL, "/")
	if base == "" {
		base = DefaultAPIBaseURL
	}
	return base + "/repos/" + c.Repo + "/releases/latest"
}

func (c *Checker) fetchLatest(ctx context.Context) (string, error) {
	if strings.Count(c.Repo, "/") != 1 {
		return "", fmt.Errorf("invalid release repository %q (want owner/name)", c.Repo)
	}
	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	for attempt := 0; attempt <= fetchLatestRetryCount; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.latestURL(), nil)
		if err != nil {
			return "", fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/vnd.github+json")
		req.Header.Set("User-Agent", "bootstrap")

		resp, err := client.Do(req)
		if err != nil {
			if shouldRetry(err, 0, attempt) {
				c.sleep(ctx)
				continue
			}
			return "", fmt.Errorf("failed to fetch latest release: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			if rl := rateLimitErrorFromResponse(resp); rl != nil {
				_ = resp.Body.Close()
				return "", rl
			}
			status, statusText := resp.StatusCode, resp.Status
			_ = resp.Body.Close()
			if shouldRetry(nil, status, attempt) {
				c.sleep(ctx)
				continue
			}
			return "", fmt.Errorf("failed to fetch latest release: %s", statusText)
		}

		var payload latestReleaseResponse
		err = json.NewDecoder(resp.Body).Decode(&payload)
		_ = resp.Body.Close()
		if err != nil {
			return "", fmt.Errorf("failed to decode latest release: %w", err)
		}
		if strings.TrimSpace(payload.TagName) == "" {
			return "", errors.New("latest release has no tag")
		}
		latest, err := Normalize(payload.TagName)
		if err != nil {
			return "", fmt.Errorf("invalid latest release tag %q: %w", payload.TagName, err)
		}
		return latest, nil
	}

	return "", errors.New("failed to fetch latest release: retry budget exhausted")
}

func (c *Checker) sleep(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(c.RetryDelay):
	}
}

func rateLimitErrorFromResponse(resp *http.Response) *RateLimitError {
	if resp.StatusCode == http.StatusTooManyRequests {
		return &RateLimitError{StatusCode: resp.StatusCode, Status: resp.Status}
	}
	if resp.StatusCode != http.StatusForbidden {
		return nil
	}
	remaining, err := strconv.Atoi(strings.TrimSpace(resp.Header.Get("X-RateLimit-Remaining")))
	if err != nil || remaining != 0 {
		return nil
	}
	return &RateLimitError{StatusCode: resp.StatusCode, Status: resp.Status, Remaining: &remaining}
}

func shouldRetry(err error, statusCode int, attempt int) bool {
	if attempt >= fetchLatestRetryCount {
		return false
	}
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return false
		}
		var netErr net.Error
		return errors.As(err, &netErr)
	}
	return statusCode >= 500 && statusCode <= 599
}

// IsDev reports whether v is an unversioned development build.
func IsDev(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || v == "dev" || v == "(devel)"
}

// Normalize strips a leading "v" and validates the remainder as semver.
func Normalize(raw string) (string, error) {
	v := strings.TrimPrefix(strings.TrimSpace(raw), "v")
	if !semver.IsValid("v" + v) {
		return "", fmt.Errorf("not a semantic version: %q", raw)
	}
	return v, nil
}

func normalizeCurrent(raw string) (string, bool, error) {
	if IsDev(raw) {
		return "dev", true, nil
	}
	v, err := Normalize(raw)
	if err != nil {
		return "", false, fmt.Errorf("invalid current version: %w", err)
	}
	return v, false, nil
}
