// Package gmod implements the GMOD graph (C3) and the occurrence-bounded
// traversal engine (C4) that runs over it.
//
// The graph is realized as an arena: Gmod owns a slice of node records and
// every parent/child reference is a NodeID (an index into that slice), never
// a pointer, eliminating the cyclic-reference/aliasing concerns a
// pointer-graph would carry in a systems language. The code -> NodeID lookup
// is itself the perfect-hash dictionary from pkg/chd.
//
// Grounded on dnv/vista/sdk/Gmod.cpp and GmodNode.cpp for the classification
// predicates, and structurally on the ancestor tree-store's
// pkg/document.Node (ParentID / ChildIDs / Depth materialized-hierarchy
// shape) for the arena-of-records-with-id-links layout.
package gmod

import (
	"github.com/333fps/vista-sdk/pkg/chd"
	"github.com/333fps/vista-sdk/pkg/viserr"
)

// NodeID indexes into a Gmod's node arena. It is only meaningful relative to
// the Gmod instance that produced it.
type NodeID int32

// Metadata is the immutable descriptive record carried by every node.
type Metadata struct {
	Category             string
	Type                 string
	Name                 string
	CommonName           *string
	Definition           *string
	CommonDefinition     *string
	InstallSubstructure  *bool
	NormalAssignmentNames map[string]string
}

// FullType is the derived "category type" rendering used throughout
// classification, e.g. "ASSET FUNCTION LEAF".
func (m Metadata) FullType() string {
	if m.Type == "" {
		return m.Category
	}
	return m.Category + " " + m.Type
}

// Item is the decoupled constructor input for one taxonomy node, matching
// the shape of a decoded gmod-vis-<version>.json.gz item.
type Item struct {
	Code                  string
	Category              string
	Type                  string
	Name                  string
	CommonName            *string
	Definition            *string
	CommonDefinition      *string
	InstallSubstructure   *bool
	NormalAssignmentNames map[string]string
}

// Relation is a (parentCode, childCode) edge. Edges naming an unknown code
// on either side are silently ignored during construction, per spec.
type Relation struct {
	ParentCode string
	ChildCode  string
}

type nodeData struct {
	code     string
	metadata Metadata
	parents  []NodeID
	children []NodeID
	childSet map[string]struct{}
}

// Gmod owns one VIS version's taxonomy: the node arena, the code->NodeID
// perfect-hash dictionary, and the cached root node ("VE").
type Gmod struct {
	visVersion string
	nodes      []nodeData
	dict       *chd.Dictionary[NodeID]
	rootID     NodeID
}

// New constructs a Gmod from decoded items and relations. Construction never
// mutates the result afterward.
func New(visVersion string, items []Item, relations []Relation) (*Gmod, error) {
	if len(items) == 0 {
		return nil, viserr.New(viserr.InvalidInput, "gmod: no items supplied")
	}

	g := &Gmod{visVersion: visVersion}
	g.nodes = make([]nodeData, len(items))

	entries := make([]chd.Entry[NodeID], len(items))
	for i, item := range items {
		g.nodes[i] = nodeData{
			code:     item.Code,
			childSet: make(map[string]struct{}),
			metadata: Metadata{
				Category:              item.Category,
				Type:                  item.Type,
				Name:                  item.Name,
				CommonName:            item.CommonName,
				Definition:            item.Definition,
				CommonDefinition:      item.CommonDefinition,
				InstallSubstructure:   item.InstallSubstructure,
				NormalAssignmentNames: item.NormalAssignmentNames,
			},
		}
		entries[i] = chd.Entry[NodeID]{Key: item.Code, Value: NodeID(i)}
	}

	dict, _, err := chd.New(entries)
	if err != nil {
		return nil, err
	}
	g.dict = dict

	for _, rel := range relations {
		parentID, ok := dict.TryGet(rel.ParentCode)
		if !ok {
			continue
		}
		childID, ok := dict.TryGet(rel.ChildCode)
		if !ok {
			continue
		}
		parent := &g.nodes[parentID]
		child := &g.nodes[childID]
		if _, exists := parent.childSet[rel.ChildCode]; exists {
			continue
		}
		parent.children = append(parent.children, childID)
		parent.childSet[rel.ChildCode] = struct{}{}
		child.parents = append(child.parents, parentID)
	}

	rootID, ok := dict.TryGet(RootCode)
	if !ok {
		return nil, viserr.Newf(viserr.ConstructionFailure, "gmod: missing root node %q", RootCode)
	}
	g.rootID = rootID

	return g, nil
}

// RootCode is the well-known code of the GMOD root node.
const RootCode = "VE"

// VisVersion returns the VIS version this graph belongs to.
func (g *Gmod) VisVersion() string { return g.visVersion }

// RootNode returns the cached root node.
func (g *Gmod) RootNode() GmodNode {
	return GmodNode{gmod: g, id: g.rootID}
}

// TryGetNode looks up a node by code.
func (g *Gmod) TryGetNode(code string) (GmodNode, bool) {
	id, ok := g.dict.TryGet(code)
	if !ok {
		return GmodNode{}, false
	}
	return GmodNode{gmod: g, id: id}, true
}

// GetNode looks up a node by code, failing with KeyNotFound.
func (g *Gmod) GetNode(code string) (GmodNode, error) {
	n, ok := g.TryGetNode(code)
	if !ok {
		return GmodNode{}, viserr.Newf(viserr.KeyNotFound, "gmod: node %q not found in VIS %s", code, g.visVersion)
	}
	return n, nil
}

// NodeCount returns the number of nodes in the graph.
func (g *Gmod) NodeCount() int { return len(g.nodes) }

// All iterates every node in CHD slot order, matching the dictionary's
// iteration-order guarantee.
func (g *Gmod) All(fn func(GmodNode) bool) {
	g.dict.All(func(_ string, id NodeID) bool {
		return fn(GmodNode{gmod: g, id: id})
	})
}

// IsPotentialParent reports whether a node of this type may act as a
// boundary/parent marker during individualizable-set detection.
func IsPotentialParent(typ string) bool {
	switch typ {
	case "SELECTION", "GROUP", "LEAF":
		return true
	default:
		return false
	}
}

// IsLeafNode reports whether metadata describes a leaf node.
func IsLeafNode(m Metadata) bool {
	switch m.FullType() {
	case "ASSET FUNCTION LEAF", "PRODUCT FUNCTION LEAF":
		return true
	default:
		return false
	}
}

// IsFunctionNode reports whether metadata describes a function (i.e. not a
// product or asset) node.
func IsFunctionNode(m Metadata) bool {
	return m.Category != "PRODUCT" && m.Category != "ASSET"
}

// IsProductSelection reports whether metadata describes a PRODUCT SELECTION node.
func IsProductSelection(m Metadata) bool {
	return m.Category == "PRODUCT" && m.Type == "SELECTION"
}

// IsProductType reports whether metadata describes a PRODUCT TYPE node.
func IsProductType(m Metadata) bool {
	return m.Category == "PRODUCT" && m.Type == "TYPE"
}

// IsAsset reports whether metadata describes an ASSET-category node.
func IsAsset(m Metadata) bool {
	return m.Category == "ASSET"
}

// IsAssetFunctionNode reports whether metadata's category is "ASSET FUNCTION".
func IsAssetFunctionNode(m Metadata) bool {
	return m.Category == "ASSET FUNCTION"
}

// IsProductTypeAssignment reports whether the edge from parent to child is a
// product-type assignment.
func IsProductTypeAssignment(parent, child Metadata) bool {
	return containsWord(parent.Category, "FUNCTION") && child.Category == "PRODUCT" && child.Type == "TYPE"
}

// IsProductSelectionAssignment reports whether the edge from parent to child
// is a product-selection assignment (traversed without incrementing
// occurrence bookkeeping, see pkg/gmod traversal.go).
func IsProductSelectionAssignment(parent, child Metadata) bool {
	return containsWord(parent.Category, "FUNCTION") && containsWord(child.Category, "PRODUCT") && child.Type == "SELECTION"
}

func containsWord(haystack, word string) bool {
	if len(word) > len(haystack) {
		return false
	}
	for i := 0; i+len(word) <= len(haystack); i++ {
		if haystack[i:i+len(word)] == word {
			return true
		}
	}
	return false
}
