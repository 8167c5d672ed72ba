// Package pyversion parses and compares Python interpreter versions.
package pyversion

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var versionPattern = regexp.MustCompile(`(\d+)\.(\d+)(?:\.(\d+))?`)

// Version is an interpreter version triple. Patch is zero when the source
// string omitted it.
type Version struct {
	Major int
	Minor int
	Patch int
}

// Parse extracts a version triple from s. It accepts bare triples ("3.11.4"),
// two-part versions ("3.10"), and full interpreter banners ("Python 3.11.4").
// Pre-release suffixes after the triple are ignored.
func Parse(s string) (Version, error) {
	matches := versionPattern.FindStringSubmatch(strings.TrimSpace(s))
	if matches == nil {
		return Version{}, fmt.Errorf("no version triple in %q", s)
	}

	major, err := strconv.Atoi(matches[1])
	if err != nil {
		return Version{}, fmt.Errorf("invalid major version in %q", s)
	}
	minor, err := strconv.Atoi(matches[2])
	if err != nil {
		return Version{}, fmt.Errorf("invalid minor version in %q", s)
	}

	patch := 0
	if matches[3] != "" {
		patch, err = strconv.Atoi(matches[3])
		if err != nil {
			return Version{}, fmt.Errorf("invalid patch version in %q", s)
		}
	}

	return Version{Major: major, Minor: minor, Patch: patch}, nil
}

// String renders the full triple.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Release renders the major.minor pair, the granularity at which environments
// are considered version-compatible.
func (v Version) Release() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Compare orders versions numerically over the full triple. It returns -1,
// 0, or 1.
func (v Version) Compare(o Version) int {
	pairs := [3][2]int{
		{v.Major, o.Major},
		{v.Minor, o.Minor},
		{v.Patch, o.Patch},
	}
	for _, p := range pairs {
		if p[0] < p[1] {
			return -1
		}
		if p[0] > p[1] {
			return 1
		}
	}
	return 0
}

// AtLeast reports whether v satisfies min, comparing the (major, minor) pair
// numerically. Patch releases never affect the minimum-version gate.
func (v Version) AtLeast(min Version) bool {
	if v.Major != min.Major {
		return v.Major > min.Major
	}
	return v.Minor >= min.Minor
}

// SameRelease reports whether a and b share a (major, minor) pair. An
// environment built with a different release must be rebuilt.
func SameRelease(a, b Version) bool {
	return a.Major == b.Major && a.Minor == b.Minor
}
