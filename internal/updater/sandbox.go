package updater

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/obentoo/portup/internal/manifest"
	"github.com/obentoo/portup/internal/versions"
)

const (
	// TestDirName is the install-test directory inside the scratch directory
	TestDirName = "install-test"

	// RegistryConfigFile is the registry configuration read from upstream
	// and generated for the install test
	RegistryConfigFile = "vcpkg-configuration.json"

	sandboxName    = "vcpkg-ports-test"
	sandboxVersion = "0.0.1"
)

// Sandbox describes the throwaway project used to test-install a port
// from the local ports repository
type Sandbox struct {
	// Dir receives vcpkg.json and vcpkg-configuration.json
	Dir string
	// PortsPath is the ports repository served as a git registry
	PortsPath string
	// Port is the port under test
	Port string
	// Baseline is the registry commit the package manager resolves the port at
	Baseline string
	// RegistryConfig is an optional configuration document whose
	// registries are kept after the local one
	RegistryConfig []byte
}

// Write materializes the sandbox files, replacing previous ones
func (s *Sandbox) Write() error {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create test directory: %w", err)
	}

	m, err := s.Manifest()
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(s.Dir, manifest.FileName), versions.Format(m), 0644); err != nil {
		return err
	}

	cfg, err := s.Configuration()
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.Dir, RegistryConfigFile), versions.Format(cfg), 0644)
}

// Manifest returns the sandbox manifest declaring a dependency on the port
func (s *Sandbox) Manifest() ([]byte, error) {
	doc := []byte(`{}`)
	var err error
	for _, kv := range []struct {
		path  string
		value interface{}
	}{
		{"name", sandboxName},
		{"version-string", sandboxVersion},
		{"dependencies", []string{s.Port}},
	} {
		if doc, err = sjson.SetBytes(doc, kv.path, kv.value); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// Configuration returns the registry configuration with the local ports
// repository as the first registry, followed by any captured registries
func (s *Sandbox) Configuration() ([]byte, error) {
	doc := []byte(`{}`)
	if len(s.RegistryConfig) > 0 && gjson.ValidBytes(s.RegistryConfig) && gjson.ParseBytes(s.RegistryConfig).IsObject() {
		doc = append([]byte(nil), s.RegistryConfig...)
	}

	local := `{}`
	var err error
	for _, kv := range []struct {
		path  string
		value interface{}
	}{
		{"kind", "git"},
		{"repository", FileURL(s.PortsPath)},
		{"baseline", s.Baseline},
		{"packages", []string{s.Port}},
	} {
		if local, err = sjson.Set(local, kv.path, kv.value); err != nil {
			return nil, err
		}
	}

	registries := []string{local}
	gjson.GetBytes(doc, "registries").ForEach(func(_, registry gjson.Result) bool {
		registries = append(registries, registry.Raw)
		return true
	})

	return sjson.SetRawBytes(doc, "registries", []byte("["+strings.Join(registries, ",")+"]"))
}

// FileURL converts a local path to a file:// URL
func FileURL(path string) string {
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return "file://" + p
}
