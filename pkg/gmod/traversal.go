package gmod

import "fmt"

// DefaultMaxTraversalOccurrence bounds how many times a given code may occur
// among a traversal's current ancestors before its subtree is skipped.
const DefaultMaxTraversalOccurrence = 1

// TraversalHandlerResult directs the traversal engine after a node visit.
type TraversalHandlerResult int

const (
	// Continue descends into the visited node's children as usual.
	Continue TraversalHandlerResult = iota
	// SkipSubtree visits no children of the current node, but continues
	// the traversal elsewhere.
	SkipSubtree
	// Stop ends the traversal immediately.
	Stop
)

// Handler is called once per visited node, given the chain of ancestors from
// the traversal root down to node's direct parent (empty for the root itself).
type Handler[S any] func(parents []GmodNode, node GmodNode, state S) TraversalHandlerResult

// parentsStack tracks the ancestor chain during traversal along with an
// occurrence count per code, so the occurrence bound can be checked in O(1).
type parentsStack struct {
	nodes  []GmodNode
	occurs map[string]int
}

func newParentsStack() *parentsStack {
	return &parentsStack{occurs: make(map[string]int)}
}

func (p *parentsStack) push(n GmodNode) {
	p.nodes = append(p.nodes, n)
	p.occurs[n.Code()]++
}

func (p *parentsStack) pop() {
	n := p.nodes[len(p.nodes)-1]
	p.nodes = p.nodes[:len(p.nodes)-1]
	p.occurs[n.Code()]--
	if p.occurs[n.Code()] == 0 {
		delete(p.occurs, n.Code())
	}
}

func (p *parentsStack) occurrences(code string) int { return p.occurs[code] }

func (p *parentsStack) lastOrDefault() (GmodNode, bool) {
	if len(p.nodes) == 0 {
		return GmodNode{}, false
	}
	return p.nodes[len(p.nodes)-1], true
}

func (p *parentsStack) asList() []GmodNode {
	out := make([]GmodNode, len(p.nodes))
	copy(out, p.nodes)
	return out
}

// frame is one level of the explicit traversal stack, replacing recursion.
type frame struct {
	node       GmodNode
	childIndex int
}

// Traverse walks the graph depth-first starting at root, calling handler once
// per visited node. A node whose code already occurs maxOccurrence times
// among its current ancestors is not visited and its subtree is not
// descended into, unless the edge reaching it is a product-selection
// assignment (which bypasses the occurrence bound entirely).
func Traverse[S any](root GmodNode, maxOccurrence int, state S, handler Handler[S]) {
	if maxOccurrence <= 0 {
		maxOccurrence = DefaultMaxTraversalOccurrence
	}

	parents := newParentsStack()
	stack := []*frame{{node: root}}

	result := handler(parents.asList(), root, state)
	if result == Stop {
		return
	}
	if result == SkipSubtree {
		return
	}
	parents.push(root)

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		children := top.node.Children()

		if top.childIndex >= len(children) {
			parents.pop()
			stack = stack[:len(stack)-1]
			continue
		}

		child := children[top.childIndex]
		top.childIndex++

		isSelectionAssignment := IsProductSelectionAssignment(top.node.Metadata(), child.Metadata())
		if !isSelectionAssignment && parents.occurrences(child.Code()) >= maxOccurrence {
			continue
		}

		res := handler(parents.asList(), child, state)
		if res == Stop {
			return
		}
		if res == SkipSubtree {
			continue
		}

		parents.push(child)
		stack = append(stack, &frame{node: child})
	}
}

// PathExistsBetween reports whether target is reachable from the last
// ASSET-FUNCTION-category node in fromPath (or the graph root, if none),
// and whether the traversal's ancestor chain at the point target is found
// has fromPath as a prefix. On success it returns the nodes between the end
// of fromPath and target's immediate parent, exclusive of target itself.
//
// Grounded on dnv/vista/sdk/GmodTraversal.cpp's pathExistsBetween: it
// anchors the search, runs a traversal looking for target, and on a match
// extends the traversal-local ancestor chain up to the real graph root by
// walking single-parent links (only needed when the anchor isn't the root),
// then compares that extended chain against fromPath. A genuine
// multi-parent node encountered during that extension indicates a taxonomy
// invariant violation and panics, since traversal handlers are defined to
// be infallible.
func PathExistsBetween(g *Gmod, fromPath []GmodNode, target GmodNode) (bool, []GmodNode) {
	anchor := g.RootNode()
	for _, n := range fromPath {
		if n.IsAssetFunctionNode() {
			anchor = n
		}
	}

	var remaining []GmodNode
	found := false

	Traverse(anchor, DefaultMaxTraversalOccurrence, struct{}{}, func(parents []GmodNode, node GmodNode, _ struct{}) TraversalHandlerResult {
		if node.Code() != target.Code() {
			return Continue
		}

		actual := parents
		if len(actual) > 0 && actual[0].Code() != g.RootNode().Code() {
			actual = extendToRoot(actual, g)
		}

		if len(actual) < len(fromPath) {
			return Continue
		}
		for i, n := range fromPath {
			if actual[i].Code() != n.Code() {
				return Continue
			}
		}

		remaining = append([]GmodNode{}, actual[len(fromPath):]...)
		found = true
		return Stop
	})

	return found, remaining
}

// extendToRoot prepends ancestors of parents[0] (walking single-parent links
// upward) until the graph root is reached, returning the extended chain.
func extendToRoot(parents []GmodNode, g *Gmod) []GmodNode {
	extended := append([]GmodNode{}, parents...)
	head := extended[0]
	for !head.IsRoot() {
		ancestors := head.Parents()
		if len(ancestors) == 0 {
			break
		}
		if len(ancestors) != 1 {
			panic(fmt.Sprintf("gmod: node %q has multiple parents during path reconstruction for pathExistsBetween", head.Code()))
		}
		head = ancestors[0]
		extended = append([]GmodNode{head}, extended...)
	}
	return extended
}
