package core

import (
	"slices"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

// versionCache memoizes canonical semver forms so sorting a large catalog
// does not re-parse the same composed version on every comparison.
type versionCache struct {
	canonical map[string]string
}

// newVersionCache creates an empty cache.
func newVersionCache() *versionCache {
	return &versionCache{canonical: map[string]string{}}
}

// semver returns the canonical "v"-prefixed form of value, or "" when the
// value is not valid semver (four-part .NET versions, shorthand with a
// build suffix, and so on).
func (c *versionCache) semver(value string) string {
	if canonical, ok := c.canonical[value]; ok {
		return canonical
	}
	canonical := ""
	if candidate := "v" + strings.TrimPrefix(value, "v"); semver.IsValid(candidate) {
		canonical = semver.Canonical(candidate)
	}
	c.canonical[value] = canonical
	return canonical
}

// compare returns -1, 0, or 1 comparing two composed versions. A composed
// version without a build (a release) outranks every numbered build of the
// same version, and builds compare numerically.
func (c *versionCache) compare(a string, b string) int {
	sa, sb := c.semver(a), c.semver(b)
	if sa != "" && sb != "" {
		return semver.Compare(sa, sb)
	}
	return compareDotted(a, b)
}

// compareDotted orders versions that semver rejects. The part before the
// first "-" is compared segment by segment, numerically where both
// segments are numbers; the remainder is the build. Non-numeric segments
// rank below numeric ones.
func compareDotted(a string, b string) int {
	baseA, buildA, numberedA := strings.Cut(a, "-")
	baseB, buildB, numberedB := strings.Cut(b, "-")
	if cmp := compareSegments(strings.Split(baseA, "."), strings.Split(baseB, ".")); cmp != 0 {
		return cmp
	}
	switch {
	case !numberedA && !numberedB:
		return 0
	case !numberedA:
		return 1
	case !numberedB:
		return -1
	}
	return compareSegments(strings.Split(buildA, "."), strings.Split(buildB, "."))
}

func compareSegments(a []string, b []string) int {
	for i := 0; i < len(a) || i < len(b); i++ {
		var left, right string
		if i < len(a) {
			left = a[i]
		}
		if i < len(b) {
			right = b[i]
		}
		if cmp := compareSegment(left, right); cmp != 0 {
			return cmp
		}
	}
	return 0
}

func compareSegment(a string, b string) int {
	if a == b {
		return 0
	}
	na, errA := strconv.Atoi(orZero(a))
	nb, errB := strconv.Atoi(orZero(b))
	switch {
	case errA == nil && errB == nil:
		return intCompare(na, nb)
	case errA == nil:
		return 1
	case errB == nil:
		return -1
	}
	return strings.Compare(a, b)
}

func orZero(value string) string {
	if value == "" {
		return "0"
	}
	return value
}

func intCompare(a int, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// CompareVersions orders two composed versions by precedence.
func CompareVersions(a string, b string) int {
	return newVersionCache().compare(a, b)
}

// SortVersionsDescending sorts versions highest first. Equal versions keep
// their input order.
func SortVersionsDescending(versions []string) {
	cache := newVersionCache()
	slices.SortStableFunc(versions, func(a string, b string) int {
		return cache.compare(b, a)
	})
}
