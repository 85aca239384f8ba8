package cargo

import (
	"testing"

	"github.com/depscout/depscout/pkg/manifest"
)

func TestParser_Supports(t *testing.T) {
	parser := Parser{}

	if !parser.Supports("Cargo.toml") || !parser.Supports("cargo.toml") {
		t.Error("Cargo.toml should be supported")
	}
	if parser.Supports("Cargo.lock") {
		t.Error("Cargo.lock should not be supported")
	}
}

func TestParser_Parse(t *testing.T) {
	content := `[package]
name = "my-crate"
version = "0.1.0"

[dependencies]
serde = "1.0"
tokio = { version = "1.38", features = ["full"] }
# a comment
rand = ''

[dev-dependencies]
criterion = "0.5"
`

	records, err := Parser{}.Parse("Cargo.toml", []byte(content))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	// Only the [dependencies] table is scanned; [package] and
	// [dev-dependencies] entries are ignored.
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}

	if rec := records[0]; rec.Name != "serde" || rec.Version != "1.0" {
		t.Errorf("serde = %s@%s", rec.Name, rec.Version)
	}
	// Inline tables keep the raw right-hand side as the version spec.
	if rec := records[1]; rec.Name != "tokio" || rec.Version != `{ version = "1.38", features = ["full"] }` {
		t.Errorf("tokio = %s@%s", rec.Name, rec.Version)
	}
	if rec := records[2]; rec.Name != "rand" || rec.Version != manifest.UnknownVersion {
		t.Errorf("rand = %s@%s", rec.Name, rec.Version)
	}

	for _, rec := range records {
		if rec.Role != manifest.RoleDependency || rec.Category != "dependencies" {
			t.Errorf("%s role/category = %s/%s", rec.Name, rec.Role, rec.Category)
		}
		if rec.Ecosystem != manifest.EcosystemCargo {
			t.Errorf("%s ecosystem = %s", rec.Name, rec.Ecosystem)
		}
	}
}
