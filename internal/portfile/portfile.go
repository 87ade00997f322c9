package portfile

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrNotFromGitHub is returned when the portfile does not fetch with vcpkg_from_github
	ErrNotFromGitHub = errors.New("the port is not from github")
	// ErrMissingParameter is returned when REPO, REF or SHA512 is absent
	ErrMissingParameter = errors.New("missing parameter in vcpkg_from_github")
	// ErrSizeMismatch is returned when a replacement value changes the field width
	ErrSizeMismatch = errors.New("replacement size does not match")
	// ErrSpanOutOfRange is returned when a span no longer fits the buffer
	ErrSpanOutOfRange = errors.New("parameter range is outside the portfile buffer")
)

const (
	// Marker is the fetch function whose parameters are extracted
	Marker = "vcpkg_from_github"

	KeyRepo   = "REPO"
	KeyRef    = "REF"
	KeySHA512 = "SHA512"

	// FileName is the name of the script inside a port directory
	FileName = "portfile.cmake"
)

// Portfile owns the content of a portfile.cmake and the ranges of its
// REPO, REF and SHA512 values. REF and SHA512 can be overwritten in place
// with values of the same length.
type Portfile struct {
	path    string
	content []byte
	repo    Span
	ref     Span
	sha512  Span
}

// Load reads path fully and extracts the vcpkg_from_github parameters
func Load(path string) (*Portfile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read portfile: %w", err)
	}

	p, err := Parse(content)
	if err != nil {
		return nil, err
	}
	p.path = path
	return p, nil
}

// Parse extracts the parameters from content. The buffer is copied.
func Parse(content []byte) (*Portfile, error) {
	p := &Portfile{content: append([]byte(nil), content...)}

	call, err := ScanCall(p.content, Marker)
	if err != nil {
		if errors.Is(err, ErrMarkerNotFound) {
			return nil, ErrNotFromGitHub
		}
		return nil, err
	}

	var missing []string
	for _, field := range []struct {
		key  string
		span *Span
	}{
		{KeyRepo, &p.repo},
		{KeyRef, &p.ref},
		{KeySHA512, &p.sha512},
	} {
		span, ok := call.Params[field.key]
		if !ok || span.IsZero() {
			missing = append(missing, field.key)
			continue
		}
		*field.span = span
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrMissingParameter, missing)
	}

	return p, nil
}

// Path returns the file the portfile was loaded from
func (p *Portfile) Path() string {
	return p.path
}

// Bytes returns the current buffer. The caller must not modify it.
func (p *Portfile) Bytes() []byte {
	return p.content
}

// Repo returns the owner/name repository identifier
func (p *Portfile) Repo() string {
	return p.view(p.repo)
}

// Ref returns the current revision reference
func (p *Portfile) Ref() string {
	return p.view(p.ref)
}

// SHA512 returns the current archive hash
func (p *Portfile) SHA512() string {
	return p.view(p.sha512)
}

// SetRef overwrites REF with a value of identical length
func (p *Portfile) SetRef(value string) error {
	return p.overwrite(KeyRef, p.ref, value)
}

// SetSHA512 overwrites SHA512 with a value of identical length
func (p *Portfile) SetSHA512(value string) error {
	return p.overwrite(KeySHA512, p.sha512, value)
}

// Save writes the buffer back to the file it was loaded from
func (p *Portfile) Save() error {
	return p.SaveTo(p.path)
}

// SaveTo writes the buffer to path, replacing any existing content
func (p *Portfile) SaveTo(path string) error {
	if path == "" {
		return errors.New("portfile has no path")
	}
	return os.WriteFile(path, p.content, 0644)
}

func (p *Portfile) view(s Span) string {
	if !s.in(len(p.content)) {
		return ""
	}
	return string(p.content[s.Start:s.End()])
}

func (p *Portfile) overwrite(key string, s Span, value string) error {
	if !s.in(len(p.content)) {
		return fmt.Errorf("%w: %s", ErrSpanOutOfRange, key)
	}
	if len(value) != s.Len {
		return fmt.Errorf("%w: %s is %d bytes, got %d", ErrSizeMismatch, key, s.Len, len(value))
	}
	copy(p.content[s.Start:s.End()], value)
	return nil
}
