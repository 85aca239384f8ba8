// Package gradle extracts dependency declarations from build.gradle and
// build.gradle.kts files.
//
// This is regex-based line scanning, not a Gradle DSL parser. Two forms
// are recognized: a single quoted literal after a configuration keyword
// (the whole literal becomes the record name), and the structured
// group:/name:/version: keyword-argument form (named "group:name").
package gradle

import (
	"regexp"
	"strings"

	"github.com/depscout/depscout/pkg/manifest"
)

const configurations = `implementation|compile|testImplementation|testCompile|api|compileOnly|runtimeOnly`

var (
	literalRE    = regexp.MustCompile(`(?:` + configurations + `)\s+["']([^"']+)["']`)
	structuredRE = regexp.MustCompile(`(?:` + configurations + `)\s+group:\s*["']([^"']+)["']\s*,\s*name:\s*["']([^"']+)["']\s*,\s*version:\s*["']([^"']+)["']`)
)

type Parser struct{}

func (Parser) Ecosystem() manifest.Ecosystem { return manifest.EcosystemGradle }

func (Parser) Supports(filename string) bool {
	lower := strings.ToLower(filename)
	return lower == "build.gradle" || lower == "build.gradle.kts"
}

func (p Parser) Parse(path string, data []byte) ([]manifest.Record, error) {
	content := string(data)
	var records []manifest.Record

	for _, m := range literalRE.FindAllStringSubmatch(content, -1) {
		records = append(records, record(path, m[1], manifest.UnknownVersion))
	}
	for _, m := range structuredRE.FindAllStringSubmatch(content, -1) {
		records = append(records, record(path, m[1]+":"+m[2], m[3]))
	}

	return records, nil
}

func record(path, name, version string) manifest.Record {
	return manifest.Record{
		Name:      name,
		Version:   version,
		Role:      manifest.RoleDependency,
		Category:  "gradle",
		Ecosystem: manifest.EcosystemGradle,
		Source:    manifest.Locator(path, "dependencies"),
	}
}
