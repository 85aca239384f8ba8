// Package golang extracts module requirements from go.mod files.
//
// Scanning is line-based: any line beginning with "require " or
// "replace " contributes its second whitespace token as the module path
// and its third (when present) as the version.
package golang

import (
	"strings"

	"github.com/depscout/depscout/pkg/manifest"
)

type Parser struct{}

func (Parser) Ecosystem() manifest.Ecosystem { return manifest.EcosystemGo }

func (Parser) Supports(filename string) bool {
	return strings.EqualFold(filename, "go.mod")
}

func (p Parser) Parse(path string, data []byte) ([]manifest.Record, error) {
	var records []manifest.Record

	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "require ") && !strings.HasPrefix(line, "replace ") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) < 2 {
			continue
		}
		version := manifest.UnknownVersion
		if len(parts) > 2 {
			version = parts[2]
		}
		records = append(records, manifest.Record{
			Name:      parts[1],
			Version:   version,
			Role:      manifest.RoleDependency,
			Category:  "require",
			Ecosystem: manifest.EcosystemGo,
			Source:    manifest.LineLocator(path, i+1),
		})
	}

	return records, nil
}
