package versions

import (
	"strconv"
	"strings"
)

// Version is a scheme-tagged version with its port revision
type Version struct {
	Scheme      string
	Value       string
	PortVersion int
}

// Compare orders two versions: -1 if a < b, 0 if equal, 1 if a > b.
// ok is false when the schemes differ or the scheme has no ordering
// (version-string), in which case only equality can be decided.
func Compare(a, b Version) (cmp int, ok bool) {
	if a.Scheme != b.Scheme || a.Scheme == "version-string" || a.Scheme == "" {
		if a.Value == b.Value {
			return compareInts(a.PortVersion, b.PortVersion), true
		}
		return 0, false
	}

	if cmp := compareValues(a.Scheme, a.Value, b.Value); cmp != 0 {
		return cmp, true
	}
	return compareInts(a.PortVersion, b.PortVersion), true
}

// IsDowngrade reports whether next orders strictly below prev
func IsDowngrade(prev, next Version) bool {
	cmp, ok := Compare(next, prev)
	return ok && cmp < 0
}

func compareValues(scheme, a, b string) int {
	numsA, preA := parseValue(scheme, a)
	numsB, preB := parseValue(scheme, b)

	if cmp := compareIntSlices(numsA, numsB); cmp != 0 {
		return cmp
	}
	return comparePrerelease(preA, preB)
}

// parseValue splits a version into numeric parts and a prerelease tag.
// Dates split on '-' and '.'; relaxed and semver versions drop build
// metadata after '+' and treat text after the first '-' as prerelease.
func parseValue(scheme, v string) ([]int, string) {
	var parts []string
	pre := ""

	if scheme == "version-date" {
		parts = strings.FieldsFunc(v, func(r rune) bool { return r == '-' || r == '.' })
	} else {
		if i := strings.IndexByte(v, '+'); i >= 0 {
			v = v[:i]
		}
		if i := strings.IndexByte(v, '-'); i >= 0 {
			v, pre = v[:i], v[i+1:]
		}
		parts = strings.Split(v, ".")
	}

	nums := make([]int, len(parts))
	for i, p := range parts {
		// 1.0a -> 1, 0
		numStr := strings.TrimRight(p, "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")
		nums[i], _ = strconv.Atoi(numStr)
	}
	return nums, pre
}

// comparePrerelease orders prerelease tags; a release (empty tag) sorts
// after any prerelease
func comparePrerelease(a, b string) int {
	switch {
	case a == b:
		return 0
	case a == "":
		return 1
	case b == "":
		return -1
	}

	idsA := strings.Split(a, ".")
	idsB := strings.Split(b, ".")
	for i := 0; i < len(idsA) && i < len(idsB); i++ {
		na, errA := strconv.Atoi(idsA[i])
		nb, errB := strconv.Atoi(idsB[i])
		switch {
		case errA == nil && errB == nil:
			if cmp := compareInts(na, nb); cmp != 0 {
				return cmp
			}
		case errA == nil:
			return -1
		case errB == nil:
			return 1
		default:
			if cmp := strings.Compare(idsA[i], idsB[i]); cmp != 0 {
				return cmp
			}
		}
	}
	return compareInts(len(idsA), len(idsB))
}

// compareIntSlices compares two slices of integers, padding the shorter with zeros
func compareIntSlices(a, b []int) int {
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}

	for i := 0; i < maxLen; i++ {
		var av, bv int
		if i < len(a) {
			av = a[i]
		}
		if i < len(b) {
			bv = b[i]
		}
		if cmp := compareInts(av, bv); cmp != 0 {
			return cmp
		}
	}
	return 0
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
