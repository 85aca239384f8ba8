package maven

import (
	"testing"

	"github.com/depscout/depscout/pkg/manifest"
)

const pomHeader = `<project xmlns="http://maven.apache.org/POM/4.0.0">`

func TestParser_Supports(t *testing.T) {
	parser := Parser{}

	if !parser.Supports("pom.xml") || !parser.Supports("POM.XML") {
		t.Error("pom.xml should be supported")
	}
	if parser.Supports("pom.yaml") || parser.Supports("build.xml") {
		t.Error("non-pom files should not be supported")
	}
}

func TestParser_Parse(t *testing.T) {
	content := pomHeader + `
  <groupId>com.example</groupId>
  <artifactId>my-service</artifactId>
  <version>1.2.0</version>
  <dependencies>
    <dependency>
      <groupId>org.apache.commons</groupId>
      <artifactId>commons-lang3</artifactId>
      <version>3.12.0</version>
    </dependency>
    <dependency>
      <artifactId>orphan</artifactId>
    </dependency>
  </dependencies>
</project>`

	records, err := Parser{}.Parse("pom.xml", []byte(content))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}

	main := records[0]
	if main.Name != "com.example:my-service" || main.Version != "1.2.0" {
		t.Errorf("main = %s@%s", main.Name, main.Version)
	}
	if main.Role != manifest.RoleMainPackage {
		t.Errorf("main role = %s", main.Role)
	}

	if rec := records[1]; rec.Name != "org.apache.commons:commons-lang3" || rec.Version != "3.12.0" {
		t.Errorf("dependency = %s@%s", rec.Name, rec.Version)
	}
	// Missing groupId folds to "unknown".
	if rec := records[2]; rec.Name != "unknown:orphan" || rec.Version != manifest.UnknownVersion {
		t.Errorf("orphan = %s@%s", rec.Name, rec.Version)
	}
}

// The main artifact is the first groupId/artifactId/version seen anywhere
// in the document, even when the project declares no coordinates of its own.
func TestParser_ParseMainFromFirstElements(t *testing.T) {
	content := pomHeader + `
  <dependencies>
    <dependency>
      <groupId>io.first</groupId>
      <artifactId>alpha</artifactId>
      <version>1.0</version>
    </dependency>
    <dependency>
      <groupId>io.second</groupId>
      <artifactId>beta</artifactId>
      <version>2.0</version>
    </dependency>
  </dependencies>
</project>`

	records, err := Parser{}.Parse("pom.xml", []byte(content))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	if records[0].Name != "io.first:alpha" || records[0].Role != manifest.RoleMainPackage {
		t.Errorf("main = %+v", records[0])
	}
}

func TestParser_ParseIgnoresForeignNamespace(t *testing.T) {
	content := `<project>
  <groupId>com.example</groupId>
  <artifactId>unnamespaced</artifactId>
</project>`

	records, err := Parser{}.Parse("pom.xml", []byte(content))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("got %d records, want 0 for un-namespaced pom", len(records))
	}
}

func TestParser_ParseMalformed(t *testing.T) {
	if _, err := (Parser{}).Parse("pom.xml", []byte(`<project><dependency>`)); err == nil {
		t.Fatal("expected error for malformed XML")
	}
}
