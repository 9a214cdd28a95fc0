// Package updater checks GitHub for a newer Quill release.
//
// It only reports: installs happen through `go install` or the release
// page, so nothing here replaces the running binary.
package updater

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	githubRepo = "HendryAvila/quill"

	releaseURL = "https://api.github.com/repos/" + githubRepo + "/releases/latest"

	// checkTimeout bounds a check when the caller's context has no deadline.
	checkTimeout = 10 * time.Second
)

// Overridden in tests.
var (
	releaseEndpoint = releaseURL
	httpClient      = &http.Client{Timeout: checkTimeout}
)

// ErrDevBuild is returned for builds without a release version.
var ErrDevBuild = errors.New("updater: development build has no release version")

// ReleaseInfo holds the relevant fields from a GitHub release.
type ReleaseInfo struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// Result is the outcome of a release check.
type Result struct {
	CurrentVersion  string // e.g. "0.2.0"
	LatestVersion   string // e.g. "0.3.0"
	UpdateAvailable bool
	ReleaseURL      string
}

// Check queries GitHub for the latest release and compares it against
// currentVersion.
func Check(ctx context.Context, currentVersion string) (*Result, error) {
	result := &Result{CurrentVersion: normalizeVersion(currentVersion)}
	if result.CurrentVersion == "" || result.CurrentVersion == "dev" {
		return result, ErrDevBuild
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, releaseEndpoint, nil)
	if err != nil {
		return result, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", "quill/"+currentVersion)

	resp, err := httpClient.Do(req)
	if err != nil {
		return result, fmt.Errorf("checking latest release: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return result, fmt.Errorf("GitHub API returned %d", resp.StatusCode)
	}

	var release ReleaseInfo
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return result, fmt.Errorf("parsing release info: %w", err)
	}

	result.LatestVersion = normalizeVersion(release.TagName)
	result.ReleaseURL = release.HTMLURL
	result.UpdateAvailable = isNewer(result.CurrentVersion, result.LatestVersion)
	return result, nil
}

// normalizeVersion strips the leading "v" from version strings.
func normalizeVersion(v string) string {
	return strings.TrimPrefix(v, "v")
}

// isNewer reports whether latest is a higher major.minor.patch than current.
func isNewer(current, latest string) bool {
	if current == "" || latest == "" || current == "dev" {
		return false
	}

	currentParts := strings.Split(current, ".")
	latestParts := strings.Split(latest, ".")
	for len(currentParts) < 3 {
		currentParts = append(currentParts, "0")
	}
	for len(latestParts) < 3 {
		latestParts = append(latestParts, "0")
	}

	for i := 0; i < 3; i++ {
		c, l := leadingInt(currentParts[i]), leadingInt(latestParts[i])
		if l != c {
			return l > c
		}
	}
	return false
}

// leadingInt parses the leading digits of s; "3-rc1" is 3.
func leadingInt(s string) int {
	n := 0
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			break
		}
		n = n*10 + int(ch-'0')
	}
	return n
}
