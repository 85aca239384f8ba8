// Package npm implements the npm registry lookup used by the verifier.
package npm

import (
	"context"
	"net/url"
	"slices"
	"strings"

	"github.com/depscout/depscout/pkg/cache"
	"github.com/depscout/depscout/pkg/integrations"
)

// DefaultBaseURL is the public npm registry.
const DefaultBaseURL = "https://registry.npmjs.org"

// PackageInfo holds the registry metadata retained for a resolved name.
// Only Name and Version matter for verification; the rest is kept for
// downstream display.
type PackageInfo struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description,omitempty"`
	HomePage    string   `json:"homepage,omitempty"`
	Versions    []string `json:"versions,omitempty"`
}

// Client queries the npm registry for package metadata.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a Client against baseURL (DefaultBaseURL if empty).
func NewClient(baseURL string, c cache.Cache, opts integrations.Options) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		Client:  integrations.NewClient(c, opts),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// FetchPackage looks up a package by name. It returns
// integrations.ErrNotFound when the registry has no entry for the name,
// and a network error once the retry budget is exhausted.
func (c *Client) FetchPackage(ctx context.Context, pkg string, refresh bool) (*PackageInfo, error) {
	pkg = strings.TrimSpace(pkg)
	key := "npm:" + pkg

	var info PackageInfo
	err := c.Cached(ctx, key, refresh, &info, func() error {
		return c.fetch(ctx, pkg, &info)
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) fetch(ctx context.Context, pkg string, info *PackageInfo) error {
	var data registryResponse
	if err := c.Get(ctx, c.baseURL+"/"+url.PathEscape(pkg), &data); err != nil {
		return err
	}

	version := data.Version
	if version == "" {
		version = data.DistTags.Latest
	}

	*info = PackageInfo{
		Name:        data.Name,
		Version:     version,
		Description: data.Description,
		HomePage:    data.HomePage,
		Versions:    sortedKeys(data.Versions),
	}
	if info.Name == "" {
		info.Name = pkg
	}
	return nil
}

func sortedKeys(m map[string]versionDetails) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

type registryResponse struct {
	Name        string                    `json:"name"`
	Version     string                    `json:"version"`
	Description string                    `json:"description"`
	HomePage    string                    `json:"homepage"`
	DistTags    distTags                  `json:"dist-tags"`
	Versions    map[string]versionDetails `json:"versions"`
}

type distTags struct {
	Latest string `json:"latest"`
}

type versionDetails struct{}
