// Package thunderstore talks to the Thunderstore package registry and
// maintains the local dependency-version cache.
package thunderstore

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DefaultBaseURL is the production Thunderstore endpoint.
const DefaultBaseURL = "https://thunderstore.io"

const requestTimeout = 5 * time.Second

// Client queries the Thunderstore experimental package API.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a client against the production endpoint with a bounded
// per-request timeout, so a dead remote degrades to the fallback table
// instead of hanging a packaging run.
func NewClient() *Client {
	return NewClientWithBaseURL(DefaultBaseURL)
}

// NewClientWithBaseURL creates a client against a custom endpoint (tests).
func NewClientWithBaseURL(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    baseURL,
	}
}

// packageResponse is the slice of the experimental package document we read.
type packageResponse struct {
	Latest struct {
		VersionNumber string `json:"version_number"`
	} `json:"latest"`
}

// LatestVersion fetches the latest published version of a package. Any
// transport error, non-2xx status, or malformed body is a lookup failure.
func (c *Client) LatestVersion(namespace, pkg string) (string, error) {
	url := fmt.Sprintf("%s/api/experimental/package/%s/%s/", c.baseURL, namespace, pkg)

	resp, err := c.httpClient.Get(url)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s/%s: %w", namespace, pkg, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status %d for %s/%s", resp.StatusCode, namespace, pkg)
	}

	var doc packageResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&doc); decodeErr != nil {
		return "", fmt.Errorf("failed to decode response for %s/%s: %w", namespace, pkg, decodeErr)
	}
	if doc.Latest.VersionNumber == "" {
		return "", fmt.Errorf("no version_number in response for %s/%s", namespace, pkg)
	}
	return doc.Latest.VersionNumber, nil
}
