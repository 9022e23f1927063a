package gmodpath

import (
	"testing"

	"github.com/333fps/vista-sdk/pkg/gmod"
	"github.com/333fps/vista-sdk/pkg/location"
)

func buildTestGraph(t *testing.T) *gmod.Gmod {
	t.Helper()
	items := []gmod.Item{
		{Code: "VE", Category: "ASSET", Type: "TYPE", Name: "Vessel"},
		{Code: "440", Category: "ASSET FUNCTION", Name: "Propulsion",
			NormalAssignmentNames: map[string]string{"C101": "Diesel engine"}},
		{Code: "411", Category: "ASSET FUNCTION", Type: "LEAF", Name: "Engine"},
		{Code: "C101", Category: "PRODUCT", Type: "TYPE", Name: "Diesel engine type"},
	}
	relations := []gmod.Relation{
		{ParentCode: "VE", ChildCode: "440"},
		{ParentCode: "440", ChildCode: "411"},
		{ParentCode: "411", ChildCode: "C101"},
	}
	g, err := gmod.New("3-4a", items, relations)
	if err != nil {
		t.Fatalf("gmod.New: %v", err)
	}
	return g
}

func buildTestLocations(t *testing.T) *location.Locations {
	t.Helper()
	l, err := location.New("3-4a", []location.Item{
		{Code: 'N', Name: "Number"},
		{Code: 'P', Name: "Port"},
	})
	if err != nil {
		t.Fatalf("location.New: %v", err)
	}
	return l
}

func testChain(t *testing.T, g *gmod.Gmod) ([]gmod.GmodNode, gmod.GmodNode) {
	t.Helper()
	ve, _ := g.TryGetNode("VE")
	fn, _ := g.TryGetNode("440")
	leaf, _ := g.TryGetNode("411")
	target, _ := g.TryGetNode("C101")
	return []gmod.GmodNode{ve, fn, leaf}, target
}

func TestIsValidAcceptsCorrectChain(t *testing.T) {
	g := buildTestGraph(t)
	parents, target := testChain(t, g)
	if ok, at := IsValid(parents, target); !ok {
		t.Fatalf("IsValid = false (missing link at %d), want true", at)
	}
}

func TestIsValidRejectsUnrootedChain(t *testing.T) {
	g := buildTestGraph(t)
	fn, _ := g.TryGetNode("440")
	leaf, _ := g.TryGetNode("411")
	target, _ := g.TryGetNode("C101")
	if ok, _ := IsValid([]gmod.GmodNode{fn, leaf}, target); ok {
		t.Fatalf("expected IsValid to reject a chain not starting at the root")
	}
}

func TestIsValidRejectsBrokenLink(t *testing.T) {
	g := buildTestGraph(t)
	ve, _ := g.TryGetNode("VE")
	leaf, _ := g.TryGetNode("411")
	target, _ := g.TryGetNode("C101")
	if ok, at := IsValid([]gmod.GmodNode{ve, leaf}, target); ok {
		t.Fatalf("expected IsValid to reject a chain skipping 440")
	} else if at != 0 {
		t.Fatalf("missingLinkAt = %d, want 0", at)
	}
}

func TestNewBuildsPath(t *testing.T) {
	g := buildTestGraph(t)
	parents, target := testChain(t, g)
	p, err := New(parents, target)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if p.Length() != 4 {
		t.Fatalf("Length() = %d, want 4", p.Length())
	}
	if p.TargetNode().Code() != "C101" {
		t.Fatalf("TargetNode().Code() = %q, want C101", p.TargetNode().Code())
	}
	if p.RootNode().Code() != "VE" {
		t.Fatalf("RootNode().Code() = %q, want VE", p.RootNode().Code())
	}
}

func TestNewRejectsInvalidChain(t *testing.T) {
	g := buildTestGraph(t)
	fn, _ := g.TryGetNode("440")
	target, _ := g.TryGetNode("C101")
	if _, err := New([]gmod.GmodNode{fn}, target); err == nil {
		t.Fatalf("expected New to reject an unrooted chain")
	}
}

func TestIndividualizableSetLocationRoundTrip(t *testing.T) {
	g := buildTestGraph(t)
	locs := buildTestLocations(t)
	parents, target := testChain(t, g)
	p, err := New(parents, target)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	sets, err := p.IndividualizableSets()
	if err != nil {
		t.Fatalf("IndividualizableSets: %v", err)
	}
	if len(sets) == 0 {
		t.Fatalf("expected at least one individualizable set")
	}

	loc, err := locs.Parse("1P")
	if err != nil {
		t.Fatalf("locs.Parse: %v", err)
	}

	var found bool
	for _, set := range sets {
		for _, n := range set.Nodes() {
			if n.Code() == "411" {
				if err := set.SetLocation(loc, true); err != nil {
					t.Fatalf("SetLocation: %v", err)
				}
				if _, err := set.Build(); err != nil {
					t.Fatalf("Build: %v", err)
				}
				if err := set.SetLocation(loc, true); err == nil {
					t.Fatalf("expected SetLocation after Build on the same set to fail")
				}
				found = true
			}
		}
	}
	if !found {
		t.Fatalf("expected 411 to belong to an individualizable set")
	}

	leafInPath := p.At(2)
	if leafInPath.Code() != "411" {
		t.Fatalf("At(2) = %q, want 411", leafInPath.Code())
	}
	gotLoc, ok := leafInPath.Location()
	if !ok || gotLoc != loc {
		t.Fatalf("Location() = (%v, %v), want (%v, true)", gotLoc, ok, loc)
	}
}

func TestPathString(t *testing.T) {
	g := buildTestGraph(t)
	parents, target := testChain(t, g)
	p, err := New(parents, target)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got, want := p.String(), "411/C101"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
	if got, want := p.FullPathString(), "VE/440/411/C101"; got != want {
		t.Fatalf("FullPathString() = %q, want %q", got, want)
	}
}

func TestWithoutLocationsClearsEveryNode(t *testing.T) {
	g := buildTestGraph(t)
	locs := buildTestLocations(t)
	parents, target := testChain(t, g)
	p, err := New(parents, target)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	sets, _ := p.IndividualizableSets()
	loc, _ := locs.Parse("1")
	for _, set := range sets {
		for _, n := range set.Nodes() {
			if n.Code() == "411" {
				_ = set.SetLocation(loc, true)
			}
		}
	}

	cleared := p.WithoutLocations()
	for i := 0; i < cleared.Length(); i++ {
		if _, ok := cleared.At(i).Location(); ok {
			t.Fatalf("expected WithoutLocations to clear every node's location")
		}
	}
}

func TestNormalAssignmentName(t *testing.T) {
	g := buildTestGraph(t)
	parents, target := testChain(t, g)
	p, err := New(parents, target)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// depth 1 is "440", which carries the normal assignment name for its
	// descendant product type "C101".
	name, ok := p.NormalAssignmentName(1)
	if !ok || name != "Diesel engine" {
		t.Fatalf("NormalAssignmentName(1) = (%q, %v), want (Diesel engine, true)", name, ok)
	}

	if _, ok := p.NormalAssignmentName(2); ok {
		t.Fatalf("NormalAssignmentName(2) (411, no assignment map) = true, want false")
	}
}

func TestCommonNamesOverridesFromOwnAssignmentMap(t *testing.T) {
	// A function leaf that both assigns a product type and carries a normal
	// assignment name for it overrides its own display name with that entry.
	items := []gmod.Item{
		{Code: "VE", Category: "ASSET", Type: "TYPE", Name: "Vessel"},
		{Code: "411", Category: "ASSET FUNCTION", Type: "LEAF", Name: "Engine",
			NormalAssignmentNames: map[string]string{"C101": "Diesel engine"}},
		{Code: "C101", Category: "PRODUCT", Type: "TYPE", Name: "Diesel engine type"},
	}
	relations := []gmod.Relation{
		{ParentCode: "VE", ChildCode: "411"},
		{ParentCode: "411", ChildCode: "C101"},
	}
	g, err := gmod.New("3-4a", items, relations)
	if err != nil {
		t.Fatalf("gmod.New: %v", err)
	}
	ve, _ := g.TryGetNode("VE")
	leaf, _ := g.TryGetNode("411")
	target, _ := g.TryGetNode("C101")

	p, err := New([]gmod.GmodNode{ve, leaf}, target)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var got string
	for _, cn := range p.CommonNames() {
		if cn.Depth == 1 {
			got = cn.Name
		}
	}
	if got != "Diesel engine" {
		t.Fatalf("CommonNames() depth 1 name = %q, want Diesel engine (normal assignment override)", got)
	}
}
