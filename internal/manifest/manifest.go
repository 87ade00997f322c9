// Package manifest reads the version descriptor of a vcpkg.json manifest.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
)

var (
	// ErrInvalidJSON is returned when the manifest is not a JSON object
	ErrInvalidJSON = errors.New("manifest is not a valid JSON object")
)

const (
	// FileName is the manifest file inside a port or upstream checkout
	FileName = "vcpkg.json"

	// KeyPortVersion holds the revision of a port for an unchanged upstream version
	KeyPortVersion = "port-version"
)

// SchemeKeys are the recognized version scheme keys
var SchemeKeys = []string{
	"version",
	"version-semver",
	"version-date",
	"version-string",
}

// IsSchemeKey reports whether key names a version scheme
func IsSchemeKey(key string) bool {
	for _, k := range SchemeKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Manifest is the version descriptor read from a manifest file.
// An empty Scheme means no version key was found.
type Manifest struct {
	path        string
	Scheme      string
	Version     string
	PortVersion int
}

// Load parses the manifest at path
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.path = path
	return m, nil
}

// Parse extracts the version descriptor from a manifest document.
// Top-level keys are scanned in document order; when several scheme keys
// are present the last one wins.
func Parse(data []byte) (*Manifest, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, ErrInvalidJSON
	}

	m := &Manifest{}
	doc.ForEach(func(key, value gjson.Result) bool {
		switch k := key.String(); {
		case IsSchemeKey(k):
			m.Scheme = k
			m.Version = value.String()
		case k == KeyPortVersion:
			m.PortVersion = int(value.Int())
		}
		return true
	})
	return m, nil
}

// Path returns the file the manifest was loaded from
func (m *Manifest) Path() string {
	return m.path
}

// HasVersion reports whether a version scheme was found
func (m *Manifest) HasVersion() bool {
	return m.Scheme != ""
}

// String formats the descriptor as "<scheme>: <version>, port-version: <n>"
func (m *Manifest) String() string {
	return fmt.Sprintf("%s: %s, port-version: %d", m.Scheme, m.Version, m.PortVersion)
}

// CopyTo duplicates the source manifest file to dest, replacing any existing file
func (m *Manifest) CopyTo(dest string) error {
	if m.path == "" {
		return errors.New("manifest has no source file")
	}
	data, err := os.ReadFile(m.path)
	if err != nil {
		return fmt.Errorf("failed to read manifest: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}
	return os.WriteFile(dest, data, 0644)
}
