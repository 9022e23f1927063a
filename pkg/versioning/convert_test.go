package versioning

import (
	"testing"

	"github.com/333fps/vista-sdk/pkg/gmod"
	"github.com/333fps/vista-sdk/pkg/gmodpath"
	"github.com/333fps/vista-sdk/pkg/location"
	"github.com/333fps/vista-sdk/pkg/viserr"
)

type testProvider map[VisVersion]*gmod.Gmod

func (p testProvider) Gmod(v VisVersion) (*gmod.Gmod, error) {
	g, ok := p[v]
	if !ok {
		return nil, viserr.Newf(viserr.ResourceMissing, "no test graph for %s", v)
	}
	return g, nil
}

func buildVersioningTestGraphs(t *testing.T) (testProvider, *GmodVersioning) {
	t.Helper()

	srcItems := []gmod.Item{
		{Code: "VE", Category: "ASSET", Type: "TYPE", Name: "Vessel"},
		{Code: "100", Category: "ASSET FUNCTION", Name: "Propulsion"},
		{Code: "200", Category: "ASSET FUNCTION", Type: "LEAF", Name: "Engine"},
	}
	srcRelations := []gmod.Relation{
		{ParentCode: "VE", ChildCode: "100"},
		{ParentCode: "100", ChildCode: "200"},
	}
	srcGmod, err := gmod.New("3-4a", srcItems, srcRelations)
	if err != nil {
		t.Fatalf("gmod.New(src): %v", err)
	}

	tgtItems := []gmod.Item{
		{Code: "VE", Category: "ASSET", Type: "TYPE", Name: "Vessel"},
		{Code: "100", Category: "ASSET FUNCTION", Name: "Propulsion"},
		{Code: "250", Category: "ASSET FUNCTION", Type: "LEAF", Name: "Engine"},
	}
	tgtRelations := []gmod.Relation{
		{ParentCode: "VE", ChildCode: "100"},
		{ParentCode: "100", ChildCode: "250"},
	}
	tgtGmod, err := gmod.New("3-5a", tgtItems, tgtRelations)
	if err != nil {
		t.Fatalf("gmod.New(tgt): %v", err)
	}

	versioning, err := New(map[VisVersion]map[string]NodeChange{
		"3-5a": {
			"200": {Operations: []OperationType{ChangeCode}, Source: "200", Target: "250", HasTarget: true},
		},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	provider := testProvider{"3-4a": srcGmod, "3-5a": tgtGmod}
	return provider, versioning
}

func TestConvertNodeAppliesRenameRule(t *testing.T) {
	provider, v := buildVersioningTestGraphs(t)
	srcGmod, _ := provider.Gmod("3-4a")

	node, _ := srcGmod.TryGetNode("200")
	converted, err := v.ConvertNode(provider, "3-4a", node, "3-5a")
	if err != nil {
		t.Fatalf("ConvertNode: %v", err)
	}
	if converted.Code() != "250" {
		t.Fatalf("ConvertNode code = %q, want 250", converted.Code())
	}
}

func TestConvertNodeKeepsUnchangedCode(t *testing.T) {
	provider, v := buildVersioningTestGraphs(t)
	srcGmod, _ := provider.Gmod("3-4a")

	node, _ := srcGmod.TryGetNode("100")
	converted, err := v.ConvertNode(provider, "3-4a", node, "3-5a")
	if err != nil {
		t.Fatalf("ConvertNode: %v", err)
	}
	if converted.Code() != "100" {
		t.Fatalf("ConvertNode code = %q, want 100", converted.Code())
	}
}

func TestConvertNodePreservesLocation(t *testing.T) {
	provider, v := buildVersioningTestGraphs(t)
	srcGmod, _ := provider.Gmod("3-4a")
	locs, err := location.New("3-4a", []location.Item{{Code: 'N', Name: "Number"}})
	if err != nil {
		t.Fatalf("location.New: %v", err)
	}
	loc, err := locs.Parse("1")
	if err != nil {
		t.Fatalf("locs.Parse: %v", err)
	}

	node, _ := srcGmod.TryGetNode("200")
	node = node.WithLocation(loc)

	converted, err := v.ConvertNode(provider, "3-4a", node, "3-5a")
	if err != nil {
		t.Fatalf("ConvertNode: %v", err)
	}
	gotLoc, ok := converted.Location()
	if !ok || gotLoc != loc {
		t.Fatalf("converted.Location() = (%v, %v), want (%v, true)", gotLoc, ok, loc)
	}
}

func TestConvertNodeRejectsBackwardsVersions(t *testing.T) {
	provider, v := buildVersioningTestGraphs(t)
	srcGmod, _ := provider.Gmod("3-4a")
	node, _ := srcGmod.TryGetNode("200")

	if _, err := v.ConvertNode(provider, "3-5a", node, "3-4a"); err == nil {
		t.Fatalf("expected ConvertNode to reject a backwards version pair")
	}
}

func TestConvertPathAppliesCodeChange(t *testing.T) {
	provider, v := buildVersioningTestGraphs(t)
	srcGmod, _ := provider.Gmod("3-4a")

	ve, _ := srcGmod.TryGetNode("VE")
	fn, _ := srcGmod.TryGetNode("100")
	leaf, _ := srcGmod.TryGetNode("200")
	srcPath, err := gmodpath.New([]gmod.GmodNode{ve, fn}, leaf)
	if err != nil {
		t.Fatalf("gmodpath.New: %v", err)
	}

	converted, err := v.ConvertPath(provider, "3-4a", srcPath, "3-5a")
	if err != nil {
		t.Fatalf("ConvertPath: %v", err)
	}
	if got, want := converted.FullPathString(), "VE/100/250"; got != want {
		t.Fatalf("FullPathString() = %q, want %q", got, want)
	}
}

func TestConvertPathOfRootReturnsRootOnlyPath(t *testing.T) {
	provider, v := buildVersioningTestGraphs(t)
	srcGmod, _ := provider.Gmod("3-4a")

	ve, _ := srcGmod.TryGetNode("VE")
	srcPath, err := gmodpath.New(nil, ve)
	if err != nil {
		t.Fatalf("gmodpath.New: %v", err)
	}

	converted, err := v.ConvertPath(provider, "3-4a", srcPath, "3-5a")
	if err != nil {
		t.Fatalf("ConvertPath: %v", err)
	}
	if converted.Length() != 1 || converted.TargetNode().Code() != "VE" {
		t.Fatalf("converted path = %q, want single-node VE path", converted.FullPathString())
	}
}

func TestConvertLocalIdCarriesTagsAndRetagsVersion(t *testing.T) {
	provider, v := buildVersioningTestGraphs(t)
	srcGmod, _ := provider.Gmod("3-4a")

	ve, _ := srcGmod.TryGetNode("VE")
	fn, _ := srcGmod.TryGetNode("100")
	leaf, _ := srcGmod.TryGetNode("200")
	srcPath, err := gmodpath.New([]gmod.GmodNode{ve, fn}, leaf)
	if err != nil {
		t.Fatalf("gmodpath.New: %v", err)
	}

	src := LocalId{
		VisVersion:  "3-4a",
		PrimaryItem: srcPath,
		VerboseMode: true,
		Quantity:    "temperature",
	}

	converted, err := v.ConvertLocalId(provider, src, "3-5a")
	if err != nil {
		t.Fatalf("ConvertLocalId: %v", err)
	}
	if converted.VisVersion != "3-5a" {
		t.Fatalf("VisVersion = %q, want 3-5a", converted.VisVersion)
	}
	if !converted.VerboseMode || converted.Quantity != "temperature" {
		t.Fatalf("metadata tags not carried over: %+v", converted)
	}
	if converted.PrimaryItem.FullPathString() != "VE/100/250" {
		t.Fatalf("PrimaryItem = %q, want VE/100/250", converted.PrimaryItem.FullPathString())
	}
}
