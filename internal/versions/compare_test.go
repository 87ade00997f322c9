package versions

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		name   string
		a, b   Version
		want   int
		wantOK bool
	}{
		{"relaxed greater", Version{"version", "1.10", 0}, Version{"version", "1.9", 0}, 1, true},
		{"relaxed padded equal", Version{"version", "1.0", 0}, Version{"version", "1.0.0", 0}, 0, true},
		{"port-version breaks tie", Version{"version", "1.0", 1}, Version{"version", "1.0", 2}, -1, true},
		{"semver prerelease", Version{"version-semver", "2.0.0-rc.1", 0}, Version{"version-semver", "2.0.0", 0}, -1, true},
		{"semver prerelease ids", Version{"version-semver", "2.0.0-rc.2", 0}, Version{"version-semver", "2.0.0-rc.10", 0}, -1, true},
		{"semver build ignored", Version{"version-semver", "1.0.0+abc", 0}, Version{"version-semver", "1.0.0", 0}, 0, true},
		{"date", Version{"version-date", "2024-01-15", 0}, Version{"version-date", "2023-12-31", 0}, 1, true},
		{"date suffix", Version{"version-date", "2024-01-15.1", 0}, Version{"version-date", "2024-01-15", 0}, 1, true},
		{"string equal", Version{"version-string", "abc", 1}, Version{"version-string", "abc", 1}, 0, true},
		{"string unordered", Version{"version-string", "abc", 0}, Version{"version-string", "abd", 0}, 0, false},
		{"scheme change", Version{"version", "1.0", 0}, Version{"version-semver", "1.0.0", 0}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Compare(tt.a, tt.b)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Compare() = %d, %v; want %d, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestIsDowngrade(t *testing.T) {
	prev := Version{"version", "1.3.1", 0}
	if !IsDowngrade(prev, Version{"version", "1.2.13", 0}) {
		t.Error("1.2.13 should be a downgrade from 1.3.1")
	}
	if IsDowngrade(prev, Version{"version", "1.3.1", 1}) {
		t.Error("a port-version bump is not a downgrade")
	}
	if IsDowngrade(Version{"version-string", "b", 0}, Version{"version-string", "a", 0}) {
		t.Error("unordered schemes never report a downgrade")
	}
}

// genRelaxed generates relaxed and semver style versions
func genRelaxed() gopter.Gen {
	return gen.OneConstOf(
		"1", "1.0", "1.0.0", "1.2", "1.10", "2.0.0",
		"2.0.0-alpha", "2.0.0-alpha.1", "2.0.0-beta", "2.0.0-rc.1", "2.0.0-rc.2",
		"10.5.3", "3.0a",
	)
}

func TestPropertyCompare(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("antisymmetry", prop.ForAll(
		func(a, b string, pa, pb int) bool {
			va := Version{"version-semver", a, pa}
			vb := Version{"version-semver", b, pb}
			c1, _ := Compare(va, vb)
			c2, _ := Compare(vb, va)
			return c1 == -c2
		},
		genRelaxed(), genRelaxed(), gen.IntRange(0, 2), gen.IntRange(0, 2),
	))

	properties.Property("reflexivity", prop.ForAll(
		func(a string, p int) bool {
			c, ok := Compare(Version{"version", a, p}, Version{"version", a, p})
			return ok && c == 0
		},
		genRelaxed(), gen.IntRange(0, 2),
	))

	properties.TestingRun(t)
}
