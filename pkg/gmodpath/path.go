// Package gmodpath implements the GMOD path model (C5): a validated chain of
// ancestors terminating at a target node, its individualizable location sets,
// and the short- and full-form string parsers that build one.
//
// Grounded on dnv/vista/sdk/GmodPath.cpp throughout.
package gmodpath

import (
	"strings"

	"github.com/333fps/vista-sdk/pkg/gmod"
	"github.com/333fps/vista-sdk/pkg/location"
	"github.com/333fps/vista-sdk/pkg/viserr"
)

// Path is a validated chain of ancestor nodes terminating at a target node,
// any of which may carry a location. Its only in-place mutation is
// IndividualizableSet.SetLocation, which rewrites the locations of the
// set's positions.
type Path struct {
	g          *gmod.Gmod
	visVersion string
	parents    []gmod.GmodNode
	node       gmod.GmodNode
}

// IsValid reports whether parents, terminated by node, forms a structurally
// valid chain: an empty parents list is valid only if node is itself the
// GMOD root; otherwise parents must start at the root, and every
// consecutive pair (including the final parent and node) must be a real
// parent/child link in the graph. On failure missingLinkAt names the parent
// index where the chain breaks, or -1 if parents itself is unrooted or the
// empty-parents case fails.
//
// Grounded on GmodPath::isValid, including its fallback reverse lookup
// through the child's own parents() before declaring a link missing.
func IsValid(parents []gmod.GmodNode, node gmod.GmodNode) (bool, int) {
	if len(parents) == 0 {
		return node.IsRoot(), -1
	}
	if !parents[0].IsRoot() {
		return false, -1
	}

	for i := 0; i < len(parents); i++ {
		current := parents[i]
		var child gmod.GmodNode
		if i+1 < len(parents) {
			child = parents[i+1]
		} else {
			child = node
		}

		if current.IsChild(child.Code()) {
			continue
		}

		reverseOk := false
		for _, p := range child.Parents() {
			if p.Code() == current.Code() {
				reverseOk = true
				break
			}
		}
		if !reverseOk {
			return false, i
		}
	}

	return true, -1
}

// New constructs a Path from a rooted parent chain and a target node,
// validating both the chain's links and its individualizable location sets.
func New(parents []gmod.GmodNode, node gmod.GmodNode) (*Path, error) {
	if ok, at := IsValid(parents, node); !ok {
		return nil, viserr.Newf(viserr.InvalidPath, "gmodpath: invalid path (missing link at parent index %d)", at)
	}

	g := node.Graph()
	if len(parents) > 0 {
		g = parents[0].Graph()
	}
	p := &Path{
		g:          g,
		visVersion: node.VisVersion(),
		parents:    append([]gmod.GmodNode{}, parents...),
		node:       node,
	}
	if err := p.validateLocationSets(); err != nil {
		return nil, err
	}
	return p, nil
}

// maxIndividualizableSets bounds the number of location sets a single path
// may contain; a path needing more is rejected outright.
const maxIndividualizableSets = 16

func (p *Path) validateLocationSets() error {
	visitor := newLocationSetsVisitor()
	count := 0
	for i := 0; i < p.Length(); i++ {
		set, err := visitor.visit(p.at(i), i, p.parents, p.node)
		if err != nil {
			return err
		}
		if set == nil {
			continue
		}
		count++
		if count > maxIndividualizableSets {
			return viserr.Newf(viserr.InvalidPath, "gmodpath: path has more than %d individualizable sets", maxIndividualizableSets)
		}
	}
	return nil
}

// Length returns the number of nodes in the path, parents plus target.
func (p *Path) Length() int { return len(p.parents) + 1 }

// At returns the node at depth i, 0-indexed from the root.
func (p *Path) At(i int) gmod.GmodNode { return p.at(i) }

func (p *Path) at(i int) gmod.GmodNode {
	if i < len(p.parents) {
		return p.parents[i]
	}
	return p.node
}

func (p *Path) setAt(i int, n gmod.GmodNode) {
	if i < len(p.parents) {
		p.parents[i] = n
	} else {
		p.node = n
	}
}

// RootNode returns the path's first node, always the graph root.
func (p *Path) RootNode() gmod.GmodNode { return p.at(0) }

// TargetNode returns the path's final node.
func (p *Path) TargetNode() gmod.GmodNode { return p.node }

// Parents returns a copy of the path's ancestor chain, excluding the target.
func (p *Path) Parents() []gmod.GmodNode { return append([]gmod.GmodNode{}, p.parents...) }

// VisVersion returns the VIS version this path belongs to.
func (p *Path) VisVersion() string { return p.visVersion }

// Graph returns the graph this path was built against.
func (p *Path) Graph() *gmod.Gmod { return p.g }

// IsMappable reports whether the path's target node can carry a mapping to a
// product.
func (p *Path) IsMappable() bool { return p.node.IsMappable() }

// IndividualizableSet names one contiguous run of path positions that share a
// single location.
type IndividualizableSet struct {
	indices []int
	path    *Path
	built   bool
}

func newIndividualizableSet(indices []int, path *Path) *IndividualizableSet {
	return &IndividualizableSet{indices: append([]int{}, indices...), path: path}
}

// NodeIndices returns the path depths belonging to this set, in order.
func (s *IndividualizableSet) NodeIndices() []int { return append([]int{}, s.indices...) }

// Nodes returns the path nodes belonging to this set, in order.
func (s *IndividualizableSet) Nodes() []gmod.GmodNode {
	out := make([]gmod.GmodNode, len(s.indices))
	for i, idx := range s.indices {
		out[i] = s.path.at(idx)
	}
	return out
}

// Location returns the set's current common location, if any is set.
func (s *IndividualizableSet) Location() (location.Location, bool) {
	if len(s.indices) == 0 {
		return "", false
	}
	return s.path.at(s.indices[0]).Location()
}

// SetLocation applies loc (or clears the location, if hasLoc is false) to
// every node in the set. It may be called any number of times until the set
// is built; after Build it fails with UsageError.
func (s *IndividualizableSet) SetLocation(loc location.Location, hasLoc bool) error {
	if s.built {
		return viserr.New(viserr.UsageError, "gmodpath: individualizable set already built")
	}
	for _, idx := range s.indices {
		n := s.path.at(idx)
		if hasLoc {
			n = n.WithLocation(loc)
		} else {
			n = n.WithoutLocation()
		}
		s.path.setAt(idx, n)
	}
	return nil
}

// Build finalizes the set, returning the owning path. It may be called only
// once.
func (s *IndividualizableSet) Build() (*Path, error) {
	if s.built {
		return nil, viserr.New(viserr.UsageError, "gmodpath: individualizable set already built")
	}
	s.built = true
	return s.path, nil
}

// IndividualizableSets returns every individualizable location set in the
// path, in depth order.
func (p *Path) IndividualizableSets() ([]*IndividualizableSet, error) {
	var sets []*IndividualizableSet
	visitor := newLocationSetsVisitor()
	for i := 0; i < p.Length(); i++ {
		set, err := visitor.visit(p.at(i), i, p.parents, p.node)
		if err != nil {
			return nil, err
		}
		if set == nil {
			continue
		}
		indices := make([]int, 0, set.end-set.start+1)
		for j := set.start; j <= set.end; j++ {
			indices = append(indices, j)
		}
		sets = append(sets, newIndividualizableSet(indices, p))
		if len(sets) > maxIndividualizableSets {
			return nil, viserr.Newf(viserr.InvalidPath, "gmodpath: path has more than %d individualizable sets", maxIndividualizableSets)
		}
	}
	return sets, nil
}

// NormalAssignmentName returns the child-mapped display name recorded at
// depth, if the node there is mappable and has a normal assignment name
// whose key names a code appearing somewhere from depth to the path's end.
// The target's code is tried first, then the path's codes from the end back
// to depth; the first key found wins.
//
// Grounded on GmodPath::normalAssignmentName.
func (p *Path) NormalAssignmentName(depth int) (string, bool) {
	if depth < 0 || depth >= p.Length() {
		return "", false
	}
	n := p.at(depth)
	if !n.IsMappable() {
		return "", false
	}
	assignments := n.Metadata().NormalAssignmentNames
	if len(assignments) == 0 {
		return "", false
	}

	if name, ok := assignments[p.node.Code()]; ok {
		return name, true
	}
	for i := p.Length() - 1; i >= depth; i-- {
		if name, ok := assignments[p.at(i).Code()]; ok {
			return name, true
		}
	}
	return "", false
}

// CommonName is one depth's display name, as produced by (*Path).CommonNames.
type CommonName struct {
	Depth int
	Name  string
}

// CommonNames returns a display name for every leaf or target function node
// in the path. A name is overridden by an entry in that node's own normal
// assignment names keyed by the target's code or by a parent's code at or
// after that depth; among parents, the shallowest match wins.
//
// Grounded on GmodPath::commonNames.
func (p *Path) CommonNames() []CommonName {
	var out []CommonName
	targetCode := p.node.Code()

	for depth := 0; depth < p.Length(); depth++ {
		n := p.at(depth)
		isTarget := depth == len(p.parents)
		if !(n.IsLeafNode() || isTarget) || !n.IsFunctionNode() {
			continue
		}

		m := n.Metadata()
		name := m.Name
		if m.CommonName != nil {
			name = *m.CommonName
		}

		if v, ok := m.NormalAssignmentNames[targetCode]; ok {
			name = v
		}

		for i := len(p.parents) - 1; i >= depth; i-- {
			if v, ok := m.NormalAssignmentNames[p.parents[i].Code()]; ok {
				name = v
			}
		}

		out = append(out, CommonName{Depth: depth, Name: name})
	}

	return out
}

// WithoutLocations returns a copy of the path with every location cleared.
func (p *Path) WithoutLocations() *Path {
	parents := make([]gmod.GmodNode, len(p.parents))
	for i, n := range p.parents {
		parents[i] = n.WithoutLocation()
	}
	return &Path{g: p.g, visVersion: p.visVersion, parents: parents, node: p.node.WithoutLocation()}
}

func renderNode(n gmod.GmodNode) string {
	if loc, ok := n.Location(); ok {
		return n.Code() + "-" + loc.String()
	}
	return n.Code()
}

// String renders the short form: every leaf parent plus the target node,
// slash-separated.
func (p *Path) String() string {
	parts := make([]string, 0, p.Length())
	for _, parent := range p.parents {
		if parent.IsLeafNode() {
			parts = append(parts, renderNode(parent))
		}
	}
	parts = append(parts, renderNode(p.node))
	return strings.Join(parts, "/")
}

// FullPathString renders the full form: every node in the path,
// slash-separated.
func (p *Path) FullPathString() string {
	parts := make([]string, 0, p.Length())
	for i := 0; i < p.Length(); i++ {
		parts = append(parts, renderNode(p.at(i)))
	}
	return strings.Join(parts, "/")
}

// StringDump renders a diagnostic form of every non-root node, including its
// name, common name and normal assignment name when present.
func (p *Path) StringDump() string {
	parts := make([]string, 0, p.Length()-1)
	for depth := 1; depth < p.Length(); depth++ {
		n := p.at(depth)
		m := n.Metadata()
		s := n.Code()
		if m.Name != "" {
			s += "/N:" + m.Name
		}
		if m.CommonName != nil && *m.CommonName != "" {
			s += "/CN:" + *m.CommonName
		}
		if name, ok := p.NormalAssignmentName(depth); ok {
			s += "/NAN:" + name
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " | ")
}

