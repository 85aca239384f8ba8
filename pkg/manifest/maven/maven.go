// Package maven parses pom.xml manifests.
package maven

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"github.com/depscout/depscout/pkg/manifest"
)

const pomNamespace = "http://maven.apache.org/POM/4.0.0"

// Parser extracts records from pom.xml: one main record from the first
// groupId/artifactId/version elements in document order, and one record
// per <dependency> element anywhere in the document. Names are the
// "group:artifact" composite, with missing groupId folded to "unknown".
type Parser struct{}

func (Parser) Ecosystem() manifest.Ecosystem { return manifest.EcosystemMaven }

func (Parser) Supports(filename string) bool {
	return strings.EqualFold(filename, "pom.xml")
}

func (p Parser) Parse(path string, data []byte) ([]manifest.Record, error) {
	proj, deps, err := walk(data)
	if err != nil {
		return nil, err
	}

	var records []manifest.Record
	if proj.artifactID != "" {
		records = append(records, manifest.Record{
			Name:      coordinate(proj.groupID, proj.artifactID),
			Version:   orUnknown(proj.version),
			Role:      manifest.RoleMainPackage,
			Category:  "main",
			Ecosystem: manifest.EcosystemMaven,
			Source:    manifest.Locator(path, "main"),
		})
	}
	for _, d := range deps {
		if d.artifactID == "" {
			continue
		}
		records = append(records, manifest.Record{
			Name:      coordinate(d.groupID, d.artifactID),
			Version:   orUnknown(d.version),
			Role:      manifest.RoleDependency,
			Category:  "dependencies",
			Ecosystem: manifest.EcosystemMaven,
			Source:    manifest.Locator(path, "dependencies"),
		})
	}
	return records, nil
}

type coords struct {
	groupID    string
	artifactID string
	version    string
}

// walk scans the document once, recording the first groupId, artifactId,
// and version seen anywhere (the main artifact) plus the direct children
// of every dependency element.
func walk(data []byte) (coords, []coords, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var (
		main  coords
		deps  []coords
		stack []xml.Name
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return coords{}, nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space == pomNamespace && t.Name.Local == "dependency" {
				var d coords
				if err := decodeDependency(dec, &d); err != nil {
					return coords{}, nil, err
				}
				firstCoords(&main, d)
				deps = append(deps, d)
				continue
			}
			stack = append(stack, t.Name)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			name := stack[len(stack)-1]
			if name.Space != pomNamespace {
				continue
			}
			text := strings.TrimSpace(string(t))
			if text == "" {
				continue
			}
			switch name.Local {
			case "groupId":
				setFirst(&main.groupID, text)
			case "artifactId":
				setFirst(&main.artifactID, text)
			case "version":
				setFirst(&main.version, text)
			}
		}
	}

	return main, deps, nil
}

// decodeDependency consumes one dependency element, capturing the text of
// its direct groupId/artifactId/version children.
func decodeDependency(dec *xml.Decoder, d *coords) error {
	depth := 1
	var current string

	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth == 2 && t.Name.Space == pomNamespace {
				current = t.Name.Local
			} else {
				current = ""
			}
		case xml.EndElement:
			depth--
			current = ""
		case xml.CharData:
			if current == "" {
				continue
			}
			text := strings.TrimSpace(string(t))
			if text == "" {
				continue
			}
			switch current {
			case "groupId":
				d.groupID = text
			case "artifactId":
				d.artifactID = text
			case "version":
				d.version = text
			}
		}
	}
	return nil
}

// firstCoords fills unset main fields from a dependency, matching a
// whole-document first-match search.
func firstCoords(main *coords, d coords) {
	setFirst(&main.groupID, d.groupID)
	setFirst(&main.artifactID, d.artifactID)
	setFirst(&main.version, d.version)
}

func setFirst(dst *string, v string) {
	if *dst == "" && v != "" {
		*dst = v
	}
}

func coordinate(groupID, artifactID string) string {
	if groupID == "" {
		groupID = manifest.UnknownVersion
	}
	return groupID + ":" + artifactID
}

func orUnknown(v string) string {
	if v == "" {
		return manifest.UnknownVersion
	}
	return v
}
