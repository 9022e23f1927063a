package gmod

import (
	"github.com/333fps/vista-sdk/pkg/location"
)

// GmodNode is a lightweight, value-typed handle to one taxonomy node,
// optionally decorated with a location. It never allocates: decorating a
// node with a location is a plain struct copy, not a new arena entry.
type GmodNode struct {
	gmod *Gmod
	id   NodeID
	loc  location.Location
}

func (n GmodNode) data() *nodeData { return &n.gmod.nodes[n.id] }

// Code returns the node's taxonomy code, e.g. "411.1".
func (n GmodNode) Code() string { return n.data().code }

// VisVersion returns the VIS version of the graph this node belongs to.
func (n GmodNode) VisVersion() string { return n.gmod.visVersion }

// Metadata returns the node's descriptive metadata.
func (n GmodNode) Metadata() Metadata { return n.data().metadata }

// Location returns the decorating location, if any.
func (n GmodNode) Location() (location.Location, bool) {
	if n.loc.IsZero() {
		return "", false
	}
	return n.loc, true
}

// WithLocation returns a copy of this node decorated with loc.
func (n GmodNode) WithLocation(loc location.Location) GmodNode {
	n.loc = loc
	return n
}

// WithoutLocation returns a copy of this node with any location removed.
func (n GmodNode) WithoutLocation() GmodNode {
	n.loc = ""
	return n
}

// ID returns the node's arena index. Only meaningful within its own Gmod.
func (n GmodNode) ID() NodeID { return n.id }

// Graph returns the Gmod this node belongs to.
func (n GmodNode) Graph() *Gmod { return n.gmod }

// IsValid reports whether this handle refers to a real node.
func (n GmodNode) IsValid() bool { return n.gmod != nil }

// Equal reports whether two nodes share the same code, VIS version, and
// location.
func (n GmodNode) Equal(other GmodNode) bool {
	if n.gmod != other.gmod {
		return n.Code() == other.Code() && n.VisVersion() == other.VisVersion() && n.loc == other.loc
	}
	return n.id == other.id && n.loc == other.loc
}

// Parents returns this node's direct parents, undecorated.
func (n GmodNode) Parents() []GmodNode {
	parents := n.data().parents
	out := make([]GmodNode, len(parents))
	for i, id := range parents {
		out[i] = GmodNode{gmod: n.gmod, id: id}
	}
	return out
}

// Children returns this node's direct children, undecorated.
func (n GmodNode) Children() []GmodNode {
	children := n.data().children
	out := make([]GmodNode, len(children))
	for i, id := range children {
		out[i] = GmodNode{gmod: n.gmod, id: id}
	}
	return out
}

// IsChild reports whether candidateCode names a direct child of this node.
func (n GmodNode) IsChild(candidateCode string) bool {
	_, ok := n.data().childSet[candidateCode]
	return ok
}

// IsRoot reports whether this node is the graph's root ("VE").
func (n GmodNode) IsRoot() bool { return n.id == n.gmod.rootID }

// FullType renders "<Category> <Type>" (or just Category if Type is empty).
func (n GmodNode) FullType() string { return n.Metadata().FullType() }

// IsLeafNode reports whether this node is a leaf node.
func (n GmodNode) IsLeafNode() bool { return IsLeafNode(n.Metadata()) }

// IsFunctionNode reports whether this node is a function node.
func (n GmodNode) IsFunctionNode() bool { return IsFunctionNode(n.Metadata()) }

// IsProductSelection reports whether this node is a PRODUCT SELECTION node.
func (n GmodNode) IsProductSelection() bool { return IsProductSelection(n.Metadata()) }

// IsProductType reports whether this node is a PRODUCT TYPE node.
func (n GmodNode) IsProductType() bool { return IsProductType(n.Metadata()) }

// IsAsset reports whether this node is an ASSET-category node.
func (n GmodNode) IsAsset() bool { return IsAsset(n.Metadata()) }

// IsAssetFunctionNode reports whether this node's category is "ASSET FUNCTION".
func (n GmodNode) IsAssetFunctionNode() bool { return IsAssetFunctionNode(n.Metadata()) }

// IsFunctionComposition reports whether this node is an ASSET FUNCTION or
// PRODUCT FUNCTION node of type COMPOSITION.
func (n GmodNode) IsFunctionComposition() bool {
	m := n.Metadata()
	return (m.Category == "ASSET FUNCTION" || m.Category == "PRODUCT FUNCTION") && m.Type == "COMPOSITION"
}

// IsMappable reports whether this node can carry a mapping to a product: it
// must not itself assign a product type or selection, must not be a product
// selection or an asset, and its code must not end in 'a' or 's'.
func (n GmodNode) IsMappable() bool {
	if _, ok := n.ProductType(); ok {
		return false
	}
	if _, ok := n.ProductSelection(); ok {
		return false
	}
	if n.IsProductSelection() || n.IsAsset() {
		return false
	}
	code := n.Code()
	if code == "" {
		return false
	}
	last := code[len(code)-1]
	return last != 'a' && last != 's'
}

// ProductType returns this node's single PRODUCT TYPE child, if this node
// has exactly one child, its own category contains "FUNCTION", and that
// child is category PRODUCT, type TYPE.
func (n GmodNode) ProductType() (GmodNode, bool) {
	children := n.Children()
	if len(children) != 1 {
		return GmodNode{}, false
	}
	if !containsWord(n.Metadata().Category, "FUNCTION") {
		return GmodNode{}, false
	}
	child := children[0]
	cm := child.Metadata()
	if cm.Category == "PRODUCT" && cm.Type == "TYPE" {
		return child, true
	}
	return GmodNode{}, false
}

// ProductSelection returns this node's single PRODUCT SELECTION child, if
// this node has exactly one child, its own category contains "FUNCTION",
// and that child's category contains "PRODUCT" with type SELECTION.
func (n GmodNode) ProductSelection() (GmodNode, bool) {
	children := n.Children()
	if len(children) != 1 {
		return GmodNode{}, false
	}
	if !containsWord(n.Metadata().Category, "FUNCTION") {
		return GmodNode{}, false
	}
	child := children[0]
	cm := child.Metadata()
	if containsWord(cm.Category, "PRODUCT") && cm.Type == "SELECTION" {
		return child, true
	}
	return GmodNode{}, false
}

// IsIndividualizable reports whether this node may carry its own location
// within a path. GROUP and SELECTION type nodes, product types, and asset
// types are never individualizable; function compositions are
// individualizable only if their code ends in 'i', or they are already part
// of a location set, or they are the path's target node; every other node
// is individualizable.
func (n GmodNode) IsIndividualizable(isTargetNode, isInSet bool) bool {
	m := n.Metadata()
	if m.Type == "GROUP" {
		return false
	}
	if m.Type == "SELECTION" {
		return false
	}
	if n.IsProductType() {
		return false
	}
	if m.Category == "ASSET" && m.Type == "TYPE" {
		return false
	}
	if n.IsFunctionComposition() {
		code := n.Code()
		if code == "" {
			return false
		}
		return code[len(code)-1] == 'i' || isInSet || isTargetNode
	}
	return true
}
