package versions

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// BaselineFile is the repository-wide baseline index
const BaselineFile = "baseline.json"

// Baseline is the entry of one port in the baseline index
type Baseline struct {
	Version     string
	PortVersion int
}

// BaselinePath returns versions/baseline.json under portsPath
func BaselinePath(portsPath string) string {
	return filepath.Join(portsPath, Dir, BaselineFile)
}

// ReadBaseline returns the baseline entry of name. ok is false when the
// port has no entry yet.
func ReadBaseline(path, name string) (entry Baseline, ok bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Baseline{}, false, fmt.Errorf("failed to read baseline: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return Baseline{}, false, fmt.Errorf("%w: %s", ErrInvalidDocument, path)
	}

	res := gjson.GetBytes(data, "default."+gjson.Escape(name))
	if !res.IsObject() {
		return Baseline{}, false, nil
	}
	return Baseline{
		Version:     res.Get("baseline").String(),
		PortVersion: int(res.Get("port-version").Int()),
	}, true, nil
}

// UpdateBaseline overwrites the entry of name with version and portVersion
func UpdateBaseline(path, name, version string, portVersion int) error {
	if name == "" {
		return ErrEmptyPortName
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read baseline: %w", err)
	}

	data, err = SetBaseline(data, name, version, portVersion)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return writeDocument(path, data)
}

// SetBaseline returns data with the entry of name replaced
func SetBaseline(data []byte, name, version string, portVersion int) ([]byte, error) {
	if !gjson.ValidBytes(data) || !gjson.ParseBytes(data).IsObject() {
		return nil, ErrInvalidDocument
	}
	if def := gjson.GetBytes(data, "default"); def.Exists() && !def.IsObject() {
		return nil, fmt.Errorf("%w: \"default\" is not an object", ErrInvalidDocument)
	}

	entry := `{}`
	entry, _ = sjson.Set(entry, "baseline", version)
	entry, _ = sjson.Set(entry, "port-version", portVersion)

	return sjson.SetRawBytes(data, "default."+gjson.Escape(name), []byte(entry))
}
