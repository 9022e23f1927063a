package gmod

import "testing"

func buildTestGraph(t *testing.T) *Gmod {
	t.Helper()
	items := []Item{
		{Code: "VE", Category: "ASSET", Type: "", Name: "Vessel"},
		{Code: "400a", Category: "ASSET FUNCTION", Type: "", Name: "Propulsion"},
		{Code: "411.1", Category: "ASSET FUNCTION", Type: "LEAF", Name: "Engine"},
		{Code: "C101", Category: "PRODUCT", Type: "TYPE", Name: "Diesel engine type"},
		{Code: "C101.1", Category: "PRODUCT", Type: "SELECTION", Name: "Diesel engine selection"},
	}
	relations := []Relation{
		{ParentCode: "VE", ChildCode: "400a"},
		{ParentCode: "400a", ChildCode: "411.1"},
		{ParentCode: "411.1", ChildCode: "C101"},
		{ParentCode: "400a", ChildCode: "C101.1"},
	}
	g, err := New("3-4a", items, relations)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g
}

func TestNewRejectsEmptyItems(t *testing.T) {
	if _, err := New("3-4a", nil, nil); err == nil {
		t.Fatalf("expected error for empty items")
	}
}

func TestNewRequiresRoot(t *testing.T) {
	items := []Item{{Code: "400a", Category: "ASSET FUNCTION", Name: "Propulsion"}}
	if _, err := New("3-4a", items, nil); err == nil {
		t.Fatalf("expected error for missing root node VE")
	}
}

func TestRootNodeIsVE(t *testing.T) {
	g := buildTestGraph(t)
	if g.RootNode().Code() != "VE" {
		t.Fatalf("RootNode().Code() = %q, want VE", g.RootNode().Code())
	}
	if !g.RootNode().IsRoot() {
		t.Fatalf("expected root node to report IsRoot")
	}
}

func TestTryGetNodeAndChildren(t *testing.T) {
	g := buildTestGraph(t)
	ve, ok := g.TryGetNode("VE")
	if !ok {
		t.Fatalf("expected to find VE")
	}
	children := ve.Children()
	if len(children) != 1 || children[0].Code() != "400a" {
		t.Fatalf("VE children = %v, want [400a]", children)
	}
	if !ve.IsChild("400a") {
		t.Fatalf("expected 400a to be a direct child of VE")
	}
}

func TestUnknownEdgeEndpointsAreIgnored(t *testing.T) {
	items := []Item{{Code: "VE", Category: "ASSET", Name: "Vessel"}}
	relations := []Relation{{ParentCode: "VE", ChildCode: "missing"}}
	g, err := New("3-4a", items, relations)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if len(g.RootNode().Children()) != 0 {
		t.Fatalf("expected no children for edge to missing node")
	}
}

func TestIsAssetFunctionNode(t *testing.T) {
	g := buildTestGraph(t)
	n, _ := g.TryGetNode("411.1")
	if !n.IsAssetFunctionNode() {
		t.Fatalf("expected 411.1 to be an asset function node")
	}
	if !n.IsLeafNode() {
		t.Fatalf("expected 411.1 (ASSET FUNCTION LEAF) to be a leaf node")
	}
}

func TestProductTypeAssignment(t *testing.T) {
	g := buildTestGraph(t)
	leaf, _ := g.TryGetNode("411.1")
	pt, ok := leaf.ProductType()
	if !ok || pt.Code() != "C101" {
		t.Fatalf("ProductType() = (%v, %v), want (C101, true)", pt, ok)
	}
}

func TestProductSelectionAssignment(t *testing.T) {
	// ProductSelection needs the selection to be the node's only child, so
	// this uses its own graph rather than buildTestGraph (where 400a also has
	// 411.1 as a child).
	items := []Item{
		{Code: "VE", Category: "ASSET", Type: "", Name: "Vessel"},
		{Code: "400a", Category: "ASSET FUNCTION", Type: "", Name: "Propulsion"},
		{Code: "C101.1", Category: "PRODUCT", Type: "SELECTION", Name: "Diesel engine selection"},
	}
	relations := []Relation{
		{ParentCode: "VE", ChildCode: "400a"},
		{ParentCode: "400a", ChildCode: "C101.1"},
	}
	g, err := New("3-4a", items, relations)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	fn, _ := g.TryGetNode("400a")
	ps, ok := fn.ProductSelection()
	if !ok || ps.Code() != "C101.1" {
		t.Fatalf("ProductSelection() = (%v, %v), want (C101.1, true)", ps, ok)
	}
}

func TestWithLocationRoundTrip(t *testing.T) {
	g := buildTestGraph(t)
	n, _ := g.TryGetNode("411.1")
	located := n.WithLocation("1")
	loc, ok := located.Location()
	if !ok || loc.String() != "1" {
		t.Fatalf("Location() = (%v, %v), want (1, true)", loc, ok)
	}
	if _, ok := located.WithoutLocation().Location(); ok {
		t.Fatalf("expected WithoutLocation to clear the location")
	}
}
