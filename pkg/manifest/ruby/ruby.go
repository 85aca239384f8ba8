// Package ruby extracts gem declarations from Gemfiles.
package ruby

import (
	"regexp"
	"strings"

	"github.com/depscout/depscout/pkg/manifest"
)

var gemRE = regexp.MustCompile(`gem\s+["']([^"']+)["'](?:\s*,\s*["']([^"']+)["'])?`)

type Parser struct{}

func (Parser) Ecosystem() manifest.Ecosystem { return manifest.EcosystemRuby }

func (Parser) Supports(filename string) bool {
	return strings.EqualFold(filename, "Gemfile")
}

func (p Parser) Parse(path string, data []byte) ([]manifest.Record, error) {
	var records []manifest.Record

	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "gem ") {
			continue
		}
		m := gemRE.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		version := m[2]
		if version == "" {
			version = manifest.UnknownVersion
		}
		records = append(records, manifest.Record{
			Name:      m[1],
			Version:   version,
			Role:      manifest.RoleDependency,
			Category:  "gem",
			Ecosystem: manifest.EcosystemRuby,
			Source:    manifest.LineLocator(path, i+1),
		})
	}

	return records, nil
}
