// Package manifest defines the canonical package record emitted by every
// ecosystem parser, and the filename-based parser detection table.
//
// Each supported package manager (npm, pip, maven, ...) contributes a
// Parser implementation in a subpackage. Parsers are pure: they take a
// file path and raw contents and return records, never touching the
// network or global state.
package manifest

import (
	"fmt"
	"time"
)

// UnknownVersion is the sentinel used when a manifest declares a package
// without any version information. Emitted records never carry an empty
// version string.
const UnknownVersion = "unknown"

// Ecosystem identifies the package-manager convention a record came from.
type Ecosystem string

const (
	EcosystemNPM      Ecosystem = "npm"
	EcosystemPip      Ecosystem = "pip"
	EcosystemMaven    Ecosystem = "maven"
	EcosystemGradle   Ecosystem = "gradle"
	EcosystemComposer Ecosystem = "composer"
	EcosystemCargo    Ecosystem = "cargo"
	EcosystemGo       Ecosystem = "go"
	EcosystemRuby     Ecosystem = "ruby"
	EcosystemNuGet    Ecosystem = "nuget"
)

// Role describes what a record represents within its manifest.
type Role string

const (
	// RoleMainPackage is the manifest's own package identity.
	RoleMainPackage Role = "package"
	// RoleDependency is a declared dependency.
	RoleDependency Role = "dependency"
	// RoleScriptReference is a package mentioned inside a script command
	// (e.g., "npm install foo" in a package.json script).
	RoleScriptReference Role = "script_reference"
)

// Status classifies the outcome of a registry lookup.
type Status string

const (
	// StatusFound means the name resolves in the registry.
	StatusFound Status = "found"
	// StatusUnclaimed means the registry returned 404 for the name,
	// making it a takeover/typosquat candidate.
	StatusUnclaimed Status = "unclaimed"
	// StatusError means the lookup failed after exhausting retries.
	StatusError Status = "error"
)

// Verification holds the registry lookup outcome for a record. It is set
// at most once per run; re-verification produces a new merged record set.
type Verification struct {
	Status     Status    `json:"status"`
	Suspicious bool      `json:"suspicious"`
	CheckedAt  time.Time `json:"checked_at"`
	Detail     string    `json:"detail,omitempty"`
}

// Record is the canonical unit all parsers converge to.
//
// Invariants: Name is never empty (parsers drop nameless entries instead
// of emitting placeholders), Version is never empty (UnknownVersion stands
// in for absence), and Ecosystem is fixed at creation.
type Record struct {
	Name      string        `json:"name"`
	Version   string        `json:"version"`
	Role      Role          `json:"role"`
	Category  string        `json:"category"`
	Ecosystem Ecosystem     `json:"ecosystem"`
	Source    string        `json:"source"`
	Verify    *Verification `json:"verification,omitempty"`
}

// Parser reads dependency records from one ecosystem's manifest format.
type Parser interface {
	// Parse extracts records from the manifest contents. The path is used
	// only for source locators and sub-format dispatch, never opened.
	Parse(path string, data []byte) ([]Record, error)
	// Supports reports whether this parser handles the given filename.
	Supports(filename string) bool
	// Ecosystem returns the ecosystem tag stamped on emitted records.
	Ecosystem() Ecosystem
}

// Detect finds a parser that supports the given filename.
// Matching is case-insensitive on the exact basename, except project
// files (.csproj/.vbproj) which match by suffix.
func Detect(filename string, parsers ...Parser) (Parser, error) {
	for _, p := range parsers {
		if p.Supports(filename) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("unsupported manifest: %s", filename)
}

// Locator builds a source locator from a file path and an in-file pointer
// such as a section name or "line_12".
func Locator(path, pointer string) string {
	return path + ":" + pointer
}

// LineLocator builds a source locator pointing at a 1-based line number.
func LineLocator(path string, line int) string {
	return fmt.Sprintf("%s:line_%d", path, line)
}
