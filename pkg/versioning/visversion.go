// Package versioning implements the GMOD cross-version conversion engine
// (C7): renaming a node, a path, or a local identifier from one released VIS
// version to another by walking the chain of adjacent per-version rule sets.
//
// Grounded on dnv/vista/sdk/GmodVersioning.cpp throughout.
package versioning

import "github.com/333fps/vista-sdk/pkg/viserr"

// VisVersion is a released VIS version string, e.g. "3-4a".
type VisVersion string

// orderedVisVersions is the fixed, hand-maintained total order of released
// VIS versions this module knows about. The VIS release cadence is small and
// externally defined, so a generated or dynamically-discovered ordering
// would be unwarranted machinery.
var orderedVisVersions = []VisVersion{
	"3-4a", "3-5a", "3-6a", "3-7a", "3-7b", "3-8a",
}

func indexOf(v VisVersion) int {
	for i, o := range orderedVisVersions {
		if o == v {
			return i
		}
	}
	return -1
}

// IsValid reports whether v names a recognized VIS version.
func IsValid(v VisVersion) bool { return indexOf(v) >= 0 }

// Compare orders two VIS versions by release order, returning a negative
// number, zero, or a positive number as a < b, a == b, or a > b. An unknown
// version compares as greater than every known version.
func Compare(a, b VisVersion) int {
	ia, ib := indexOf(a), indexOf(b)
	switch {
	case ia == ib:
		return 0
	case ia == -1:
		return 1
	case ib == -1:
		return -1
	case ia < ib:
		return -1
	default:
		return 1
	}
}

// Next returns the version immediately following v in release order.
func Next(v VisVersion) (VisVersion, bool) {
	i := indexOf(v)
	if i == -1 || i+1 >= len(orderedVisVersions) {
		return "", false
	}
	return orderedVisVersions[i+1], true
}

func validateSourceAndTarget(source, target VisVersion) error {
	if !IsValid(source) || !IsValid(target) {
		return viserr.New(viserr.InvalidInput, "versioning: invalid VIS version")
	}
	if Compare(source, target) >= 0 {
		return viserr.New(viserr.InvalidInput, "versioning: source version must be earlier than target version")
	}
	return nil
}
