// Package portfile extracts and rewrites the fetch parameters of a port's
// portfile.cmake without parsing the rest of the script.
package portfile

import (
	"bytes"
	"errors"
	"fmt"
)

var (
	// ErrMarkerNotFound is returned when the buffer contains no call to the marker
	ErrMarkerNotFound = errors.New("function call not found")
	// ErrSyntax is returned when the argument list cannot be split into key/value pairs
	ErrSyntax = errors.New("syntax error in portfile")
)

// separators delimit argument tokens. ')' is included so the closing
// parenthesis never becomes part of a value.
const separators = " \t\r\n)"

// Span is a byte range [Start, Start+Len) inside a buffer
type Span struct {
	Start int
	Len   int
}

// End returns the offset one past the last byte of the span
func (s Span) End() int {
	return s.Start + s.Len
}

// IsZero reports whether the span was never set
func (s Span) IsZero() bool {
	return s.Len == 0
}

// in reports whether the span lies inside a buffer of length n
func (s Span) in(n int) bool {
	return s.Start >= 0 && s.Len >= 0 && s.End() <= n
}

// Call is the result of scanning one invocation of a function
type Call struct {
	// Args is the region strictly between '(' and the first ')' after it
	Args Span
	// Params maps each key to the span of its value. When a key repeats,
	// the last occurrence wins.
	Params map[string]Span
}

// ScanCall locates the first occurrence of marker in content and splits its
// argument list into KEY value pairs.
//
// The argument region ends at the first ')' after the opening parenthesis;
// nested parentheses are not supported.
func ScanCall(content []byte, marker string) (*Call, error) {
	start := bytes.Index(content, []byte(marker))
	if start < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMarkerNotFound, marker)
	}

	open := indexFrom(content, start+len(marker), '(')
	if open < 0 {
		return nil, fmt.Errorf("%w: no '(' after %s", ErrSyntax, marker)
	}
	end := indexFrom(content, open+1, ')')
	if end < 0 {
		return nil, fmt.Errorf("%w: unterminated %s call", ErrSyntax, marker)
	}

	call := &Call{
		Args:   Span{Start: open + 1, Len: end - open - 1},
		Params: make(map[string]Span),
	}

	pos := open + 1
	for {
		keyStart := skipSeparators(content, pos)
		if keyStart >= end {
			break
		}
		keyEnd := skipToken(content, keyStart)

		valueStart := skipSeparators(content, keyEnd)
		if valueStart >= end {
			return nil, fmt.Errorf("%w: %s has no value", ErrSyntax, content[keyStart:keyEnd])
		}
		valueEnd := skipToken(content, valueStart)

		key := string(content[keyStart:keyEnd])
		call.Params[key] = Span{Start: valueStart, Len: valueEnd - valueStart}
		pos = valueEnd
	}

	return call, nil
}

// indexFrom returns the index of c in content at or after from, or -1
func indexFrom(content []byte, from int, c byte) int {
	if from > len(content) {
		return -1
	}
	i := bytes.IndexByte(content[from:], c)
	if i < 0 {
		return -1
	}
	return from + i
}

// skipSeparators returns the first non-separator index at or after pos,
// or len(content) when only separators remain
func skipSeparators(content []byte, pos int) int {
	for pos < len(content) && isSeparator(content[pos]) {
		pos++
	}
	return pos
}

// skipToken returns the first separator index at or after pos
func skipToken(content []byte, pos int) int {
	for pos < len(content) && !isSeparator(content[pos]) {
		pos++
	}
	return pos
}

func isSeparator(c byte) bool {
	return bytes.IndexByte([]byte(separators), c) >= 0
}
