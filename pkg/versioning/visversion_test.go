package versioning

import "testing"

func TestCompareOrdersKnownVersions(t *testing.T) {
	if Compare("3-4a", "3-5a") >= 0 {
		t.Fatalf("expected 3-4a < 3-5a")
	}
	if Compare("3-5a", "3-4a") <= 0 {
		t.Fatalf("expected 3-5a > 3-4a")
	}
	if Compare("3-4a", "3-4a") != 0 {
		t.Fatalf("expected 3-4a == 3-4a")
	}
}

func TestNextReturnsFollowingVersion(t *testing.T) {
	next, ok := Next("3-4a")
	if !ok || next != "3-5a" {
		t.Fatalf("Next(3-4a) = (%q, %v), want (3-5a, true)", next, ok)
	}
}

func TestNextOfLatestReportsFalse(t *testing.T) {
	latest := orderedVisVersions[len(orderedVisVersions)-1]
	if _, ok := Next(latest); ok {
		t.Fatalf("expected Next of the latest version to report ok=false")
	}
}

func TestIsValidRejectsUnknownVersion(t *testing.T) {
	if IsValid("not-a-version") {
		t.Fatalf("expected IsValid to reject an unrecognized version string")
	}
}
