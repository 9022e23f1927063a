package location

import "testing"

func strp(s string) *string { return &s }

func testAlphabet() []Item {
	return []Item{
		{Code: 'N', Name: "Number", Definition: nil},
		{Code: 'P', Name: "Port", Definition: strp("port side")},
		{Code: 'C', Name: "Centre", Definition: nil},
		{Code: 'S', Name: "Starboard", Definition: nil},
		{Code: 'U', Name: "Upper", Definition: nil},
		{Code: 'M', Name: "Middle", Definition: nil},
		{Code: 'L', Name: "Lower", Definition: nil},
		{Code: 'I', Name: "Inside", Definition: nil},
		{Code: 'O', Name: "Outside", Definition: nil},
		{Code: 'F', Name: "Forward", Definition: nil},
		{Code: 'A', Name: "Aft", Definition: nil},
		{Code: 'H', Name: "Height", Definition: nil},
		{Code: 'V', Name: "Vertical", Definition: nil},
	}
}

func TestParseSuccess(t *testing.T) {
	locs, err := New("3-4a", testAlphabet())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	loc, err := locs.Parse("11FIPU")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if loc.String() != "11FIPU" {
		t.Fatalf("String() = %q, want %q", loc.String(), "11FIPU")
	}
}

func TestParseFailureInvalidOrder(t *testing.T) {
	locs, err := New("3-4a", testAlphabet())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, errs, ok := locs.TryParseWithErrors("UP")
	if ok {
		t.Fatalf("expected failure for 'UP'")
	}
	if len(errs.Entries) == 0 || errs.Entries[0].Result != InvalidOrder {
		t.Fatalf("expected InvalidOrder, got %+v", errs.Entries)
	}
	found := false
	for _, e := range errs.Entries {
		if e.Result == InvalidOrder {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an InvalidOrder entry")
	}
}

func TestParseFailureNullOrWhitespace(t *testing.T) {
	locs, err := New("3-4a", testAlphabet())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := locs.TryParse(""); ok {
		t.Fatalf("expected failure for empty string")
	}
	if _, ok := locs.TryParse("   "); ok {
		t.Fatalf("expected failure for whitespace-only string")
	}
}

func TestParseFailureInvalidCode(t *testing.T) {
	locs, err := New("3-4a", testAlphabet())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, errs, ok := locs.TryParseWithErrors("1Z")
	if ok {
		t.Fatalf("expected failure for unknown code 'Z'")
	}
	if errs.Entries[0].Result != InvalidCode {
		t.Fatalf("expected InvalidCode, got %v", errs.Entries[0].Result)
	}
}

func TestParseFailureDuplicateGroup(t *testing.T) {
	locs, err := New("3-4a", testAlphabet())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, errs, ok := locs.TryParseWithErrors("PS")
	if ok {
		t.Fatalf("expected failure for duplicate Side group letters")
	}
	if errs.Entries[0].Result != InvalidOrder {
		t.Fatalf("expected InvalidOrder for duplicate group, got %v", errs.Entries[0].Result)
	}
}

func TestParseNumberOnly(t *testing.T) {
	locs, err := New("3-4a", testAlphabet())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	loc, err := locs.Parse("123")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if loc.String() != "123" {
		t.Fatalf("String() = %q, want %q", loc.String(), "123")
	}
}

func TestGroupsExcludeNumberHV(t *testing.T) {
	locs, err := New("3-4a", testAlphabet())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if len(locs.Groups()[Side]) != 3 {
		t.Fatalf("Side group = %d entries, want 3", len(locs.Groups()[Side]))
	}
	if _, ok := locs.Groups()[Number]; !ok {
		t.Fatalf("Number group should be registered (though always empty)")
	}
	if len(locs.Groups()[Number]) != 0 {
		t.Fatalf("Number group should have no tracked members")
	}
}
