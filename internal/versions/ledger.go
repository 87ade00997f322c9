package versions

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const (
	keyVersions    = "versions"
	keyPortVersion = "port-version"
	keyGitTree     = "git-tree"
)

// emptyLedger is the content of a version history file for a new port
const emptyLedger = `{"versions": []}`

// Entry is one version history record
type Entry struct {
	Scheme      string
	Version     string
	PortVersion int
	GitTree     string
}

// ReconcileResult describes what Reconcile did
type ReconcileResult struct {
	// Inserted is true when a new front entry was added, false when the
	// front entry's git-tree was amended
	Inserted bool
	// Len is the number of entries after the update
	Len int
	// Previous is the front entry before the update, nil for an empty history
	Previous *Entry
}

// LedgerPath returns versions/<c>-/<name>.json under portsPath, where c is
// the first character of the port name
func LedgerPath(portsPath, name string) (string, error) {
	if name == "" {
		return "", ErrEmptyPortName
	}
	_, size := utf8.DecodeRuneInString(name)
	return filepath.Join(portsPath, Dir, name[:size]+"-", name+".json"), nil
}

// Reconcile applies e to the version history file at path. When the front
// entry has the same scheme value and port-version, only its git-tree is
// replaced; otherwise e is inserted at the front. A missing file is created.
func Reconcile(path string, e Entry) (*ReconcileResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read version file: %w", err)
		}
		data = []byte(emptyLedger)
	}

	data, result, err := ReconcileBytes(data, e)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := writeDocument(path, data); err != nil {
		return nil, err
	}
	return result, nil
}

// ReconcileBytes is Reconcile over an in-memory document
func ReconcileBytes(data []byte, e Entry) ([]byte, *ReconcileResult, error) {
	if e.Scheme == "" {
		return nil, nil, fmt.Errorf("%w: entry has no version scheme", ErrInvalidDocument)
	}
	if !gjson.ValidBytes(data) || !gjson.ParseBytes(data).IsObject() {
		return nil, nil, ErrInvalidDocument
	}

	list := gjson.GetBytes(data, keyVersions)
	if list.Exists() && !list.IsArray() {
		return nil, nil, fmt.Errorf("%w: %q is not an array", ErrInvalidDocument, keyVersions)
	}
	entries := list.Array()

	var previous *Entry
	if front, ok := Front(data); ok {
		previous = &front
	}

	if len(entries) > 0 && matches(entries[0], e) {
		out, err := sjson.SetBytes(data, keyVersions+".0."+keyGitTree, e.GitTree)
		if err != nil {
			return nil, nil, err
		}
		return out, &ReconcileResult{Inserted: false, Len: len(entries), Previous: previous}, nil
	}

	raw := make([]string, 0, len(entries)+1)
	raw = append(raw, e.raw())
	for _, entry := range entries {
		raw = append(raw, entry.Raw)
	}
	out, err := sjson.SetRawBytes(data, keyVersions, []byte("["+strings.Join(raw, ",")+"]"))
	if err != nil {
		return nil, nil, err
	}
	return out, &ReconcileResult{Inserted: true, Len: len(raw), Previous: previous}, nil
}

// Front returns the newest entry of a version history document
func Front(data []byte) (Entry, bool) {
	front := gjson.GetBytes(data, keyVersions+".0")
	if !front.IsObject() {
		return Entry{}, false
	}

	var e Entry
	front.ForEach(func(key, value gjson.Result) bool {
		switch k := key.String(); k {
		case keyPortVersion:
			e.PortVersion = int(value.Int())
		case keyGitTree:
			e.GitTree = value.String()
		default:
			if isScheme(k) {
				e.Scheme = k
				e.Version = value.String()
			}
		}
		return true
	})
	return e, true
}

// matches reports whether the recorded entry has the same scheme value and
// port-version as e. An absent port-version counts as 0.
func matches(recorded gjson.Result, e Entry) bool {
	value := recorded.Get(gjson.Escape(e.Scheme))
	if !value.Exists() || value.String() != e.Version {
		return false
	}
	return int(recorded.Get(keyPortVersion).Int()) == e.PortVersion
}

// raw renders e with its keys in scheme, port-version, git-tree order
func (e Entry) raw() string {
	s := `{}`
	s, _ = sjson.Set(s, gjson.Escape(e.Scheme), e.Version)
	s, _ = sjson.Set(s, keyPortVersion, e.PortVersion)
	s, _ = sjson.Set(s, keyGitTree, e.GitTree)
	return s
}

func isScheme(key string) bool {
	switch key {
	case "version", "version-semver", "version-date", "version-string":
		return true
	}
	return false
}
