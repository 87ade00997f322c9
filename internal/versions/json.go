// Package versions maintains the version database of a ports repository:
// versions/baseline.json and the per-port version history files.
package versions

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/tidwall/pretty"
)

var (
	// ErrInvalidDocument is returned when a version file is not the expected JSON shape
	ErrInvalidDocument = errors.New("invalid version document")
	// ErrEmptyPortName is returned when a port name is empty
	ErrEmptyPortName = errors.New("port name is empty")
)

// Dir is the version database directory inside a ports repository
const Dir = "versions"

// formatOptions renders documents with four-space indentation
var formatOptions = &pretty.Options{Width: 80, Indent: "    "}

// Format re-indents a JSON document the way version files are written
func Format(data []byte) []byte {
	return pretty.PrettyOptions(data, formatOptions)
}

// writeDocument formats data and replaces the file at path
func writeDocument(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, Format(data), 0644)
}
