// Package npm parses package.json manifests.
package npm

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/depscout/depscout/pkg/manifest"
)

// depSections are the package.json keys scanned for dependencies, in
// emission order.
var depSections = []string{"dependencies", "devDependencies", "peerDependencies", "optionalDependencies"}

// scriptPatterns match package-manager invocations inside script values.
var scriptPatterns = []*regexp.Regexp{
	regexp.MustCompile(`npm\s+install\s+([a-zA-Z0-9@\-_/]+)`),
	regexp.MustCompile(`yarn\s+add\s+([a-zA-Z0-9@\-_/]+)`),
	regexp.MustCompile(`pip\s+install\s+([a-zA-Z0-9\-_]+)`),
	regexp.MustCompile(`composer\s+require\s+([a-zA-Z0-9\-_/]+)`),
}

// Parser extracts records from package.json files: the manifest's own
// identity, entries from all dependency sections, and package mentions
// inside script commands.
type Parser struct{}

func (Parser) Ecosystem() manifest.Ecosystem { return manifest.EcosystemNPM }

func (Parser) Supports(filename string) bool {
	return strings.EqualFold(filename, "package.json")
}

func (p Parser) Parse(path string, data []byte) ([]manifest.Record, error) {
	var pkg packageFile
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, err
	}

	var records []manifest.Record
	if pkg.Name != "" {
		version := pkg.Version
		if version == "" {
			version = manifest.UnknownVersion
		}
		records = append(records, manifest.Record{
			Name:      pkg.Name,
			Version:   version,
			Role:      manifest.RoleMainPackage,
			Category:  "main",
			Ecosystem: manifest.EcosystemNPM,
			Source:    manifest.Locator(path, "main"),
		})
	}

	for i, section := range depSections {
		for name, version := range pkg.sections()[i] {
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
				Ecosystem: manifest.EcosystemNPM,
				Source:    manifest.Locator(path, section),
			})
		}
	}

	for script, command := range pkg.Scripts {
		for _, name := range scriptRefs(command) {
			records = append(records, manifest.Record{
				Name:      name,
				Version:   manifest.UnknownVersion,
				Role:      manifest.RoleScriptReference,
				Category:  "scripts",
				Ecosystem: manifest.EcosystemNPM,
				Source:    manifest.Locator(path, "scripts:"+script),
			})
		}
	}

	return records, nil
}

// scriptRefs extracts package names mentioned in a script command.
func scriptRefs(command string) []string {
	var names []string
	for _, re := range scriptPatterns {
		for _, m := range re.FindAllStringSubmatch(command, -1) {
			names = append(names, m[1])
		}
	}
	return names
}

type packageFile struct {
	Name                 string            `json:"name"`
	Version              string            `json:"version"`
	Dependencies         map[string]string `json:"dependencies"`
	DevDependencies      map[string]string `json:"devDependencies"`
	PeerDependencies     map[string]string `json:"peerDependencies"`
	OptionalDependencies map[string]string `json:"optionalDependencies"`
	Scripts              map[string]string `json:"scripts"`
}

// sections returns the dependency maps in the same order as depSections.
func (f packageFile) sections() []map[string]string {
	return []map[string]string{
		f.Dependencies, f.DevDependencies, f.PeerDependencies, f.OptionalDependencies,
	}
}
