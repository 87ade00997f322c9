package updater

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSettings(t *testing.T) {
	ports := t.TempDir()
	path := filepath.Join(ports, SettingsFile)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	content := `[zlib]
url = "https://git.example.com/mirror/zlib.git"
branch = "develop"

[fmt]
local = "../fmt"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadSettings(ports)
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}

	tests := []struct {
		port string
		want PortSettings
	}{
		{"zlib", PortSettings{URL: "https://git.example.com/mirror/zlib.git", Branch: "develop"}},
		{"fmt", PortSettings{Local: "../fmt"}},
		{"boost", PortSettings{}},
	}
	for _, tt := range tests {
		t.Run(tt.port, func(t *testing.T) {
			if got := s.For(tt.port); got != tt.want {
				t.Errorf("For(%q) = %+v, want %+v", tt.port, got, tt.want)
			}
		})
	}
}

func TestLoadSettingsMissingFile(t *testing.T) {
	s, err := LoadSettings(t.TempDir())
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if len(s.Ports) != 0 {
		t.Errorf("expected no settings, got %+v", s.Ports)
	}
}

func TestLoadSettingsInvalid(t *testing.T) {
	ports := t.TempDir()
	path := filepath.Join(ports, SettingsFile)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("[zlib\nurl ="), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSettings(ports); err == nil {
		t.Error("expected a parse error")
	}
}

func TestNilSettings(t *testing.T) {
	var s *Settings
	if got := s.For("zlib"); got != (PortSettings{}) {
		t.Errorf("For() on nil settings = %+v", got)
	}
}
