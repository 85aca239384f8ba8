// Package pip parses Python dependency declarations from requirements.txt,
// setup.py, and pyproject.toml.
//
// The pyproject scanner is intentionally line-oriented rather than a
// conformant TOML parser: it tracks [tool.poetry.dependencies] /
// [project.dependencies] section headers and splits key=value lines.
// Nested tables and inline arrays are not handled.
package pip

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/depscout/depscout/pkg/manifest"
)

// versionOperators in left-to-right check order; the first operator found
// in a specifier wins.
var versionOperators = []string{"==", ">=", "<=", ">", "<", "~=", "!="}

var (
	installRequiresRE = regexp.MustCompile(`(?s)install_requires\s*=\s*\[(.*?)\]`)
	quotedLiteralRE   = regexp.MustCompile(`["']([^"']+)["']`)
	setupNameRE       = regexp.MustCompile(`name\s*=\s*["']([^"']+)["']`)
	setupVersionRE    = regexp.MustCompile(`version\s*=\s*["']([^"']+)["']`)
)

// Parser extracts records from the three pip manifest sub-formats,
// dispatched on filename.
type Parser struct{}

func (Parser) Ecosystem() manifest.Ecosystem { return manifest.EcosystemPip }

func (Parser) Supports(filename string) bool {
	switch strings.ToLower(filename) {
	case "requirements.txt", "setup.py", "pyproject.toml":
		return true
	}
	return false
}

func (p Parser) Parse(path string, data []byte) ([]manifest.Record, error) {
	switch strings.ToLower(filepath.Base(path)) {
	case "setup.py":
		return parseSetupPy(path, string(data)), nil
	case "pyproject.toml":
		return parsePyproject(path, string(data)), nil
	default:
		return parseRequirements(path, string(data)), nil
	}
}

// SplitSpec parses a pip package specifier into name and version spec.
// The version keeps its operator prefix (e.g. ">=2.0"); specifiers without
// an operator yield the unknown-version sentinel.
func SplitSpec(spec string) (name, version string) {
	spec = strings.TrimSpace(spec)
	for _, op := range versionOperators {
		if i := strings.Index(spec, op); i >= 0 {
			return strings.TrimSpace(spec[:i]), op + strings.TrimSpace(spec[i+len(op):])
		}
	}
	return spec, manifest.UnknownVersion
}

func parseRequirements(path, content string) []manifest.Record {
	var records []manifest.Record
	for i, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name, version := SplitSpec(line)
		if name == "" {
			continue
		}
		records = append(records, manifest.Record{
			Name:      name,
			Version:   version,
			Role:      manifest.RoleDependency,
			Category:  "requirements",
			Ecosystem: manifest.EcosystemPip,
			Source:    manifest.LineLocator(path, i+1),
		})
	}
	return records
}

func parseSetupPy(path, content string) []manifest.Record {
	var records []manifest.Record

	if m := installRequiresRE.FindStringSubmatch(content); m != nil {
		for _, lit := range quotedLiteralRE.FindAllStringSubmatch(m[1], -1) {
			name, version := SplitSpec(lit[1])
			if name == "" {
				continue
			}
			records = append(records, manifest.Record{
				Name:      name,
				Version:   version,
				Role:      manifest.RoleDependency,
				Category:  "install_requires",
				Ecosystem: manifest.EcosystemPip,
				Source:    manifest.Locator(path, "install_requires"),
			})
		}
	}

	if m := setupNameRE.FindStringSubmatch(content); m != nil {
		version := manifest.UnknownVersion
		if v := setupVersionRE.FindStringSubmatch(content); v != nil {
			version = v[1]
		}
		records = append(records, manifest.Record{
			Name:      m[1],
			Version:   version,
			Role:      manifest.RoleMainPackage,
			Category:  "main",
			Ecosystem: manifest.EcosystemPip,
			Source:    manifest.Locator(path, "main"),
		})
	}

	return records
}

func parsePyproject(path, content string) []manifest.Record {
	var records []manifest.Record
	inDependencies := false

	for i, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)

		if strings.HasPrefix(line, "[tool.poetry.dependencies]") || strings.HasPrefix(line, "[project.dependencies]") {
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
		name = strings.Trim(strings.TrimSpace(name), `"'`)
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
			Ecosystem: manifest.EcosystemPip,
			Source:    manifest.LineLocator(path, i+1),
		})
	}

	return records
}
