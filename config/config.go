// Package config loads the project manifest, either adan.yaml or adan.toml.
package config

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"unicode"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v2"
)

const (
	YAMLFileName = "adan.yaml"
	TOMLFileName = "adan.toml"

	DefaultEntry  = "main.adn"
	DefaultOutput = "out.ll"
	DefaultClang  = "clang"
)

// Manifest describes how to build a project.
type Manifest struct {
	Package string   `yaml:"package" toml:"package"`
	Entry   string   `yaml:"entry,omitempty" toml:"entry,omitempty"`
	Output  string   `yaml:"output,omitempty" toml:"output,omitempty"`
	Include []string `yaml:"include,omitempty" toml:"include,omitempty"`
	Library bool     `yaml:"library,omitempty" toml:"library,omitempty"`
	Clang   string   `yaml:"clang,omitempty" toml:"clang,omitempty"`
	Link    []string `yaml:"link,omitempty" toml:"link,omitempty"`

	// Root is the directory the manifest was loaded from.
	Root string `yaml:"-" toml:"-"`
}

// New returns the manifest `adango init` writes for a package.
func New(name string) *Manifest {
	m := &Manifest{Package: name}
	m.applyDefaults()
	return m
}

// Load reads the manifest in dir, preferring adan.yaml over adan.toml.
func Load(dir string) (*Manifest, error) {
	m := &Manifest{}

	if data, err := ioutil.ReadFile(filepath.Join(dir, YAMLFileName)); err == nil {
		if err := yaml.Unmarshal(data, m); err != nil {
			return nil, fmt.Errorf("error reading %s: %w", YAMLFileName, err)
		}
	} else if os.IsNotExist(err) {
		data, err := ioutil.ReadFile(filepath.Join(dir, TOMLFileName))
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no %s or %s found in %s", YAMLFileName, TOMLFileName, dir)
		} else if err != nil {
			return nil, err
		}
		if err := toml.Unmarshal(data, m); err != nil {
			return nil, fmt.Errorf("error reading %s: %w", TOMLFileName, err)
		}
	} else {
		return nil, err
	}

	m.Root = dir
	if err := m.validate(); err != nil {
		return nil, err
	}
	m.applyDefaults()
	return m, nil
}

// Write stores the manifest as adan.yaml in dir.
func (m *Manifest) Write(dir string) error {
	out, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("error creating %s: %w", YAMLFileName, err)
	}
	return ioutil.WriteFile(filepath.Join(dir, YAMLFileName), out, 0644)
}

func (m *Manifest) applyDefaults() {
	if m.Entry == "" {
		m.Entry = DefaultEntry
	}
	if m.Output == "" {
		m.Output = DefaultOutput
	}
	if m.Clang == "" {
		m.Clang = DefaultClang
	}
}

func (m *Manifest) validate() error {
	if m.Package == "" {
		return fmt.Errorf("missing package name for project at %s", m.Root)
	}
	if !IsValidIdentifier(m.Package) {
		return fmt.Errorf("package name '%s' must be a valid identifier", m.Package)
	}
	return nil
}

func IsValidIdentifier(name string) bool {
	for i, r := range name {
		if !(unicode.IsLetter(r) || r == '_' || (i > 0 && unicode.IsDigit(r))) {
			return false
		}
	}
	return name != ""
}

func (m *Manifest) path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.Root, p)
}

func (m *Manifest) EntryPath() string {
	return m.path(m.Entry)
}

func (m *Manifest) OutputPath() string {
	return m.path(m.Output)
}

// IncludeRoots are the extra directories searched for source includes.
func (m *Manifest) IncludeRoots() []string {
	roots := make([]string, len(m.Include))
	for i, root := range m.Include {
		roots[i] = m.path(root)
	}
	return roots
}

// BinaryPath is where `adango build` puts the linked executable or library.
func (m *Manifest) BinaryPath() string {
	if m.Library {
		return m.path("lib" + m.Package + ".so")
	}
	return m.path(m.Package)
}
