// Package cargo extracts dependencies from Cargo.toml.
//
// Like the pyproject scanner, this is a line-oriented section scanner
// rather than a TOML parser: it collects key=value lines inside the
// [dependencies] table and stops at the next table header. Inline tables
// keep their raw right-hand side as the version spec.
package cargo

import (
	"strings"

	"github.com/depscout/depscout/pkg/manifest"
)

type Parser struct{}

func (Parser) Ecosystem() manifest.Ecosystem { return manifest.EcosystemCargo }

func (Parser) Supports(filename string) bool {
	return strings.EqualFold(filename, "cargo.toml")
}

func (p Parser) Parse(path string, data []byte) ([]manifest.Record, error) {
	var records []manifest.Record
	inDependencies := false

	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)

		if strings.HasPrefix(line, "[dependencies]") {
			inDependencies = true
			continue
		}
		if strings.HasPrefix(line, "[") && inDependencies {
			inDependencies = false
			continue
		}
		if !inDependencies || strings.HasPrefix(line, "#") {
			continue
		}

		name, version, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		version = strings.Trim(strings.TrimSpace(version), `"'`)
		if name == "" {
			continue
		}
		if version == "" {
			version = manifest.UnknownVersion
		}
		records = append(records, manifest.Record{
			Name:      name,
			Version:   version,
			Role:      manifest.RoleDependency,
			Category:  "dependencies",
			Ecosystem: manifest.EcosystemCargo,
			Source:    manifest.LineLocator(path, i+1),
		})
	}

	return records, nil
}
