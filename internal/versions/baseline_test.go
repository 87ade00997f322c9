package versions

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/tidwall/gjson"
)

func writeBaseline(t *testing.T, content string) string {
	t.Helper()
	path := BaselinePath(t.TempDir())
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestUpdateBaseline(t *testing.T) {
	path := writeBaseline(t, `{"default":{"abseil":{"baseline":"2024","port-version":0},"zlib":{"baseline":"1.2.13","port-version":1}}}`)

	if err := UpdateBaseline(path, "zlib", "1.3.1", 0); err != nil {
		t.Fatalf("UpdateBaseline() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := gjson.GetBytes(data, "default.zlib").Raw; got != "{\n            \"baseline\": \"1.3.1\",\n            \"port-version\": 0\n        }" {
		t.Errorf("zlib entry = %s", got)
	}
	if got := gjson.GetBytes(data, "default.abseil.baseline").String(); got != "2024" {
		t.Errorf("other ports must be untouched, abseil = %q", got)
	}

	// Overwrite is idempotent
	if err := UpdateBaseline(path, "zlib", "1.3.1", 0); err != nil {
		t.Fatal(err)
	}
	again, _ := os.ReadFile(path)
	if string(again) != string(data) {
		t.Error("second update with the same values changed the file")
	}
}

func TestUpdateBaselineNewPort(t *testing.T) {
	path := writeBaseline(t, `{"default":{}}`)

	if err := UpdateBaseline(path, "foo", "0.1.0", 2); err != nil {
		t.Fatalf("UpdateBaseline() error = %v", err)
	}

	entry, ok, err := ReadBaseline(path, "foo")
	if err != nil || !ok {
		t.Fatalf("ReadBaseline() = %v, %v", ok, err)
	}
	if entry != (Baseline{Version: "0.1.0", PortVersion: 2}) {
		t.Errorf("entry = %+v", entry)
	}
}

func TestReadBaselineMissingPort(t *testing.T) {
	path := writeBaseline(t, `{"default":{"zlib":{"baseline":"1","port-version":0}}}`)
	_, ok, err := ReadBaseline(path, "bar")
	if err != nil || ok {
		t.Errorf("ReadBaseline() = %v, %v; want not found", ok, err)
	}
}

func TestSetBaselineInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", `{"default":`},
		{"array document", `[]`},
		{"default not an object", `{"default":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := SetBaseline([]byte(tt.content), "zlib", "1", 0); !errors.Is(err, ErrInvalidDocument) {
				t.Errorf("expected ErrInvalidDocument, got %v", err)
			}
		})
	}
}

func TestUpdateBaselineErrors(t *testing.T) {
	if err := UpdateBaseline(filepath.Join(t.TempDir(), "missing.json"), "zlib", "1", 0); err == nil {
		t.Error("expected an error for a missing baseline")
	}
	if err := UpdateBaseline("unused", "", "1", 0); !errors.Is(err, ErrEmptyPortName) {
		t.Errorf("expected ErrEmptyPortName, got %v", err)
	}
}
