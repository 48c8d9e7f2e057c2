package config

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/kr/pretty"
)

func TestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	if err := New("hello").Write(dir); err != nil {
		t.Fatal(err)
	}

	m, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}

	want := &Manifest{
		Package: "hello",
		Entry:   DefaultEntry,
		Output:  DefaultOutput,
		Clang:   DefaultClang,
		Root:    dir,
	}
	if diff := pretty.Diff(m, want); len(diff) > 0 {
		t.Errorf("manifests differ: %v", diff)
	}
	if m.EntryPath() != filepath.Join(dir, "main.adn") {
		t.Errorf("unexpected entry path %s", m.EntryPath())
	}
}

func TestTOML(t *testing.T) {
	dir := t.TempDir()
	manifest := `
package = "shapes"
entry = "src/shapes.adn"
library = true
include = ["lib", "/opt/adan"]
link = ["-lm"]
`
	if err := ioutil.WriteFile(filepath.Join(dir, TOMLFileName), []byte(manifest), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if !m.Library || m.Package != "shapes" {
		t.Errorf("unexpected manifest %# v", pretty.Formatter(m))
	}
	if diff := pretty.Diff(m.IncludeRoots(), []string{filepath.Join(dir, "lib"), "/opt/adan"}); len(diff) > 0 {
		t.Errorf("include roots differ: %v", diff)
	}
	if m.BinaryPath() != filepath.Join(dir, "libshapes.so") {
		t.Errorf("unexpected binary path %s", m.BinaryPath())
	}
}

func TestInvalid(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		contents string
	}{
		{"missing package", YAMLFileName, "entry: main.adn\n"},
		{"bad package", YAMLFileName, "package: 9lives\n"},
		{"bad yaml", YAMLFileName, "package: [\n"},
		{"bad toml", TOMLFileName, "package = \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if err := ioutil.WriteFile(filepath.Join(dir, tt.file), []byte(tt.contents), 0644); err != nil {
				t.Fatal(err)
			}
			if m, err := Load(dir); err == nil {
				t.Errorf("expected an error, got %# v", pretty.Formatter(m))
			}
		})
	}

	if _, err := Load(t.TempDir()); err == nil {
		t.Errorf("expected an error for a directory without a manifest")
	}
}
