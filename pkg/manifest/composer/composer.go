// Package composer parses composer.json manifests.
package composer

import (
	"encoding/json"
	"strings"

	"github.com/depscout/depscout/pkg/manifest"
)

var depSections = []string{"require", "require-dev"}

// Parser extracts records from composer.json: the package's own identity
// plus entries from require and require-dev.
type Parser struct{}

func (Parser) Ecosystem() manifest.Ecosystem { return manifest.EcosystemComposer }

func (Parser) Supports(filename string) bool {
	return strings.EqualFold(filename, "composer.json")
}

func (p Parser) Parse(path string, data []byte) ([]manifest.Record, error) {
	var file composerFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	var records []manifest.Record
	if file.Name != "" {
		version := file.Version
		if version == "" {
			version = manifest.UnknownVersion
		}
		records = append(records, manifest.Record{
			Name:      file.Name,
			Version:   version,
			Role:      manifest.RoleMainPackage,
			Category:  "main",
			Ecosystem: manifest.EcosystemComposer,
			Source:    manifest.Locator(path, "main"),
		})
	}

	for i, section := range depSections {
		for name, version := range []map[string]string{file.Require, file.RequireDev}[i] {
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
				Category:  section,
				Ecosystem: manifest.EcosystemComposer,
				Source:    manifest.Locator(path, section),
			})
		}
	}

	return records, nil
}

type composerFile struct {
	Name       string            `json:"name"`
	Version    string            `json:"version"`
	Require    map[string]string `json:"require"`
	RequireDev map[string]string `json:"require-dev"`
}
