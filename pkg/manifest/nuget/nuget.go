// Package nuget parses NuGet manifests: packages.config and the
// PackageReference form inside .csproj/.vbproj project files.
package nuget

import (
	"bytes"
	"encoding/xml"
	"io"
	"path/filepath"
	"strings"

	"github.com/depscout/depscout/pkg/manifest"
)

type Parser struct{}

func (Parser) Ecosystem() manifest.Ecosystem { return manifest.EcosystemNuGet }

func (Parser) Supports(filename string) bool {
	lower := strings.ToLower(filename)
	return lower == "packages.config" ||
		strings.HasSuffix(lower, ".csproj") ||
		strings.HasSuffix(lower, ".vbproj")
}

func (p Parser) Parse(path string, data []byte) ([]manifest.Record, error) {
	if strings.EqualFold(filepath.Base(path), "packages.config") {
		return parsePackagesConfig(path, data)
	}
	return parseProjectFile(path, data)
}

func parsePackagesConfig(path string, data []byte) ([]manifest.Record, error) {
	var config struct {
		Packages []struct {
			ID      string `xml:"id,attr"`
			Version string `xml:"version,attr"`
		} `xml:"package"`
	}
	if err := xml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	var records []manifest.Record
	for _, pkg := range config.Packages {
		if pkg.ID == "" {
			continue
		}
		version := pkg.Version
		if version == "" {
			version = manifest.UnknownVersion
		}
		records = append(records, manifest.Record{
			Name:      pkg.ID,
			Version:   version,
			Role:      manifest.RoleDependency,
			Category:  "package",
			Ecosystem: manifest.EcosystemNuGet,
			Source:    manifest.Locator(path, "packages.config"),
		})
	}
	return records, nil
}

// parseProjectFile scans for PackageReference elements at any depth,
// which is where SDK-style projects declare dependencies.
func parseProjectFile(path string, data []byte) ([]manifest.Record, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var records []manifest.Record

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "PackageReference" {
			continue
		}

		var name, version string
		for _, attr := range start.Attr {
			switch attr.Name.Local {
			case "Include":
				name = attr.Value
			case "Version":
				version = attr.Value
			}
		}
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
			Category:  "PackageReference",
			Ecosystem: manifest.EcosystemNuGet,
			Source:    manifest.Locator(path, "PackageReference"),
		})
	}

	return records, nil
}
