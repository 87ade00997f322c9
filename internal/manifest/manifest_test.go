package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantScheme  string
		wantVersion string
		wantPortVer int
	}{
		{
			name:        "version-string with port-version",
			input:       `{"version-string": "1.2.0", "port-version": 3}`,
			wantScheme:  "version-string",
			wantVersion: "1.2.0",
			wantPortVer: 3,
		},
		{
			name:        "relaxed version without port-version",
			input:       `{"name": "zlib", "version": "1.3.1", "dependencies": []}`,
			wantScheme:  "version",
			wantVersion: "1.3.1",
		},
		{
			name:        "date scheme",
			input:       `{"version-date": "2024-01-15"}`,
			wantScheme:  "version-date",
			wantVersion: "2024-01-15",
		},
		{
			name:        "last scheme key wins",
			input:       `{"version-semver": "2.0.0", "port-version": 1, "version-string": "legacy"}`,
			wantScheme:  "version-string",
			wantVersion: "legacy",
			wantPortVer: 1,
		},
		{
			name:        "nested keys are ignored",
			input:       `{"features": {"tools": {"version": "9.9"}}, "version-semver": "1.0.0"}`,
			wantScheme:  "version-semver",
			wantVersion: "1.0.0",
		},
		{
			name:  "no scheme",
			input: `{"name": "zlib"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Parse([]byte(tt.input))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if m.Scheme != tt.wantScheme {
				t.Errorf("Scheme = %q, want %q", m.Scheme, tt.wantScheme)
			}
			if m.Version != tt.wantVersion {
				t.Errorf("Version = %q, want %q", m.Version, tt.wantVersion)
			}
			if m.PortVersion != tt.wantPortVer {
				t.Errorf("PortVersion = %d, want %d", m.PortVersion, tt.wantPortVer)
			}
			if m.HasVersion() != (tt.wantScheme != "") {
				t.Errorf("HasVersion() = %v", m.HasVersion())
			}
		})
	}
}

func TestParseInvalid(t *testing.T) {
	for _, input := range []string{`{"version": `, `["version"]`, ``} {
		if _, err := Parse([]byte(input)); !errors.Is(err, ErrInvalidJSON) {
			t.Errorf("Parse(%q) error = %v, want ErrInvalidJSON", input, err)
		}
	}
}

func TestString(t *testing.T) {
	m := &Manifest{Scheme: "version", Version: "1.0", PortVersion: 2}
	if got := m.String(); got != "version: 1.0, port-version: 2" {
		t.Errorf("String() = %q", got)
	}
}

func TestLoadAndCopyTo(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "upstream", FileName)
	content := "{\n  \"name\": \"foo\",\n  \"version\": \"0.4.2\"\n}\n"
	if err := os.MkdirAll(filepath.Dir(src), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(src, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(src)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if m.Path() != src || m.Version != "0.4.2" {
		t.Errorf("unexpected manifest %+v", m)
	}

	dest := filepath.Join(dir, "ports", "foo", FileName)
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dest, []byte(`{"version": "0.1"}`), 0644); err != nil {
		t.Fatal(err)
	}

	if err := m.CopyTo(dest); err != nil {
		t.Fatalf("CopyTo() error = %v", err)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != content {
		t.Errorf("copied content = %q, want %q", data, content)
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), FileName)); err == nil {
		t.Error("expected an error for a missing manifest")
	}
}

func TestCopyToWithoutSource(t *testing.T) {
	m := &Manifest{Scheme: "version", Version: "1"}
	if err := m.CopyTo(filepath.Join(t.TempDir(), FileName)); err == nil {
		t.Error("expected an error for a manifest without a source file")
	}
}
