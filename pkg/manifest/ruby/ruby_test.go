package ruby

import (
	"testing"

	"github.com/depscout/depscout/pkg/manifest"
)

func TestParser_Supports(t *testing.T) {
	parser := Parser{}

	if !parser.Supports("Gemfile") || !parser.Supports("gemfile") {
		t.Error("Gemfile should be supported")
	}
	if parser.Supports("Gemfile.lock") || parser.Supports("Rakefile") {
		t.Error("only Gemfile should be supported")
	}
}

func TestParser_Parse(t *testing.T) {
	content := `source 'https://rubygems.org'

gem 'rails', '~> 7.0'
gem "puma"
# gem 'commented-out'
gemfile_helper 'not-a-gem'
`

	records, err := Parser{}.Parse("Gemfile", []byte(content))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	if rec := records[0]; rec.Name != "rails" || rec.Version != "~> 7.0" {
		t.Errorf("rails = %s@%s", rec.Name, rec.Version)
	}
	if rec := records[1]; rec.Name != "puma" || rec.Version != manifest.UnknownVersion {
		t.Errorf("puma = %s@%s", rec.Name, rec.Version)
	}

	for _, rec := range records {
		if rec.Role != manifest.RoleDependency || rec.Category != "gem" {
			t.Errorf("%s role/category = %s/%s", rec.Name, rec.Role, rec.Category)
		}
	}
}
