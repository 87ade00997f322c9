package updater

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedHash is returned when an actual hash line does not carry a SHA512 digest
	ErrMalformedHash = errors.New("malformed actual hash in install output")
)

const (
	// actualHashMarker precedes the digest vcpkg computed for a download
	actualHashMarker = "Actual hash:"

	// SHA512Length is the number of hex characters in a SHA512 digest
	SHA512Length = 128
)

// ExtractActualHash returns the digest from the first line that reports an
// actual hash, or "" when no line does. Both "Actual hash: [ <hash> ]" and
// "Actual hash: <hash>" are accepted.
func ExtractActualHash(lines []string) (string, error) {
	for _, line := range lines {
		i := strings.Index(line, actualHashMarker)
		if i < 0 {
			continue
		}

		rest := strings.TrimSpace(line[i+len(actualHashMarker):])
		rest = strings.TrimSpace(strings.TrimPrefix(rest, "["))
		token := rest
		if end := strings.IndexAny(rest, " \t]"); end >= 0 {
			token = rest[:end]
		}

		if !isSHA512(token) {
			return "", fmt.Errorf("%w: %q", ErrMalformedHash, strings.TrimSpace(line))
		}
		return token, nil
	}
	return "", nil
}

func isSHA512(s string) bool {
	if len(s) != SHA512Length {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F') {
			return false
		}
	}
	return true
}
