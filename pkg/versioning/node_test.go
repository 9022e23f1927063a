package versioning

import "testing"

func TestParseOperationTypeRecognizesEveryKind(t *testing.T) {
	cases := map[string]OperationType{
		"changeCode":       ChangeCode,
		"merge":            Merge,
		"move":             Move,
		"assignmentChange": AssignmentChange,
		"assignmentDelete": AssignmentDelete,
	}
	for s, want := range cases {
		got, err := ParseOperationType(s)
		if err != nil {
			t.Fatalf("ParseOperationType(%q): %v", s, err)
		}
		if got != want {
			t.Fatalf("ParseOperationType(%q) = %v, want %v", s, got, want)
		}
	}
}

func TestParseOperationTypeRejectsUnknown(t *testing.T) {
	if _, err := ParseOperationType("frobnicate"); err == nil {
		t.Fatalf("expected ParseOperationType to reject an unknown operation name")
	}
}

func TestNewRejectsUnknownTargetVersion(t *testing.T) {
	if _, err := New(map[VisVersion]map[string]NodeChange{
		"not-a-version": {},
	}); err == nil {
		t.Fatalf("expected New to reject an unrecognized target version")
	}
}
