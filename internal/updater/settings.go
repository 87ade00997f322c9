package updater

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// SettingsFile is the per-port settings file, relative to the ports repository
const SettingsFile = ".portup/ports.toml"

// PortSettings is the committed configuration of a single port.
// Each port is a top-level table named after the port:
//
//	[zlib]
//	url = "https://git.example.com/mirror/zlib.git"
//	branch = "develop"
type PortSettings struct {
	// Local is an upstream checkout to use instead of cloning, relative to the ports repository
	Local string `toml:"local,omitempty"`
	// URL overrides the clone URL derived from the portfile REPO
	URL string `toml:"url,omitempty"`
	// Branch is checked out when cloning
	Branch string `toml:"branch,omitempty"`
}

// Settings holds the per-port settings of a ports repository
type Settings struct {
	Ports map[string]PortSettings
}

// LoadSettings reads <portsPath>/.portup/ports.toml.
// A missing file yields empty settings.
func LoadSettings(portsPath string) (*Settings, error) {
	path := filepath.Join(portsPath, SettingsFile)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Settings{Ports: map[string]PortSettings{}}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", SettingsFile, err)
	}

	var file map[string]PortSettings
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", SettingsFile, err)
	}
	if file == nil {
		file = map[string]PortSettings{}
	}
	return &Settings{Ports: file}, nil
}

// For returns the settings of name, or zero settings when it has none
func (s *Settings) For(name string) PortSettings {
	if s == nil {
		return PortSettings{}
	}
	return s.Ports[name]
}
