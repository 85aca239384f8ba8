package manifest

import "testing"

type stubParser struct {
	name string
	eco  Ecosystem
}

func (s stubParser) Parse(path string, data []byte) ([]Record, error) { return nil, nil }
func (s stubParser) Supports(filename string) bool                    { return filename == s.name }
func (s stubParser) Ecosystem() Ecosystem                             { return s.eco }

func TestDetect(t *testing.T) {
	npm := stubParser{name: "package.json", eco: EcosystemNPM}
	pip := stubParser{name: "requirements.txt", eco: EcosystemPip}

	p, err := Detect("requirements.txt", npm, pip)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if p.Ecosystem() != EcosystemPip {
		t.Errorf("Detect picked %s, want pip", p.Ecosystem())
	}

	if _, err := Detect("Makefile", npm, pip); err == nil {
		t.Error("expected error for unsupported file")
	}
}

func TestLocator(t *testing.T) {
	if got := Locator("a/package.json", "dependencies"); got != "a/package.json:dependencies" {
		t.Errorf("Locator = %q", got)
	}
	if got := LineLocator("requirements.txt", 12); got != "requirements.txt:line_12" {
		t.Errorf("LineLocator = %q", got)
	}
}
