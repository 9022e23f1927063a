package gmodpath

import (
	"strings"

	"github.com/333fps/vista-sdk/pkg/gmod"
	"github.com/333fps/vista-sdk/pkg/location"
	"github.com/333fps/vista-sdk/pkg/viserr"
)

// pathNode is one "code[-location]" segment of a parsed path string.
type pathNode struct {
	code   string
	loc    location.Location
	hasLoc bool
}

func splitSegments(str string) []string {
	trimmed := strings.Trim(strings.TrimSpace(str), "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func parseSegment(seg string, locs *location.Locations) (pathNode, error) {
	code, locStr, hasLocStr := strings.Cut(seg, "-")
	if code == "" {
		return pathNode{}, viserr.Newf(viserr.ParseError, "gmodpath: empty code in segment %q", seg)
	}
	n := pathNode{code: code}
	if hasLocStr {
		loc, err := locs.Parse(locStr)
		if err != nil {
			return pathNode{}, viserr.Wrap(viserr.ParseError, "gmodpath: invalid location in segment "+seg, err)
		}
		n.loc = loc
		n.hasLoc = true
	}
	return n, nil
}

// TryParse parses the short form of a path string (e.g. "411.1-1/C101"),
// reporting ok=false on any failure.
func TryParse(str string, g *gmod.Gmod, locs *location.Locations) (*Path, bool) {
	p, err := Parse(str, g, locs)
	return p, err == nil
}

// Parse parses the short form of a path string (e.g. "411.1-1/C101"),
// failing with ParseError on any failure; an invalid location segment's
// InvalidLocation error is kept as that ParseError's cause.
func Parse(str string, g *gmod.Gmod, locs *location.Locations) (*Path, error) {
	segments := splitSegments(str)
	if len(segments) == 0 {
		return nil, viserr.New(viserr.ParseError, "gmodpath: empty path string")
	}

	parts := make([]pathNode, len(segments))
	for i, seg := range segments {
		n, err := parseSegment(seg, locs)
		if err != nil {
			return nil, err
		}
		parts[i] = n
	}

	toFind := parts[0]
	queue := parts[1:]

	baseNode, ok := g.TryGetNode(toFind.code)
	if !ok {
		return nil, viserr.Newf(viserr.ParseError, "gmodpath: unknown code %q", toFind.code)
	}

	ctx := &parseContext{gmod: g, queue: queue, toFind: toFind}

	gmod.Traverse(baseNode, gmod.DefaultMaxTraversalOccurrence, ctx, parseTraversalHandler)

	if ctx.result == nil {
		return nil, viserr.Newf(viserr.ParseError, "gmodpath: no path found for %q", str)
	}
	return ctx.result, nil
}

// parseContext carries the short-form parser's state across traversal
// callbacks: the remaining segments still to be matched, the segment
// currently being searched for, any locations recorded for already-matched
// codes, and the finished path once found.
//
// Grounded on dnv/vista/sdk/GmodPath.cpp's (anonymous-namespace) ParseContext
// and parseInternalTraversalHandler.
type parseContext struct {
	gmod   *gmod.Gmod
	queue  []pathNode
	toFind pathNode

	nodeLocations map[string]location.Location

	result *Path
}

func parseTraversalHandler(parents []gmod.GmodNode, node gmod.GmodNode, ctx *parseContext) gmod.TraversalHandlerResult {
	if node.Code() != ctx.toFind.code {
		if node.IsLeafNode() {
			return gmod.SkipSubtree
		}
		return gmod.Continue
	}

	if ctx.toFind.hasLoc {
		if ctx.nodeLocations == nil {
			ctx.nodeLocations = make(map[string]location.Location)
		}
		ctx.nodeLocations[ctx.toFind.code] = ctx.toFind.loc
	}

	if len(ctx.queue) > 0 {
		ctx.toFind = ctx.queue[0]
		ctx.queue = ctx.queue[1:]
		return gmod.Continue
	}

	path, ok := buildParsedPath(ctx, parents, node)
	if !ok {
		return gmod.Stop
	}
	ctx.result = path
	return gmod.Stop
}

func withStoredLocation(n gmod.GmodNode, locs map[string]location.Location) gmod.GmodNode {
	if loc, ok := locs[n.Code()]; ok {
		return n.WithLocation(loc)
	}
	return n
}

// buildParsedPath reconstructs the full rooted parent chain from the
// traversal's local ancestor list once every requested segment has matched,
// applying any locations recorded along the way, then normalizes the
// individualizable location sets before returning the finished path.
//
// Grounded on parseInternalTraversalHandler's reconstruction: when the
// traversal's local chain doesn't already start at the graph root (the
// search having anchored somewhere below it), it is extended upward through
// single-parent links, refusing a genuinely ambiguous multi-parent lineage,
// mirroring extendToRoot in pkg/gmod's pathExistsBetween. The location set
// visitor is then re-run over the assembled chain to reconcile any set
// member whose stored location didn't cover every node in its set.
func buildParsedPath(ctx *parseContext, localParents []gmod.GmodNode, end gmod.GmodNode) (*Path, bool) {
	finalParents := make([]gmod.GmodNode, len(localParents))
	for i, parent := range localParents {
		finalParents[i] = withStoredLocation(parent, ctx.nodeLocations)
	}

	finalEnd := withStoredLocation(end, ctx.nodeLocations)

	if len(finalParents) == 0 || finalParents[0].Code() != ctx.gmod.RootNode().Code() {
		head := finalEnd
		if len(finalParents) > 0 {
			head = finalParents[0]
		}

		var prepended []gmod.GmodNode
		for !head.IsRoot() {
			ancestors := head.Parents()
			if len(ancestors) != 1 {
				return nil, false
			}
			head = withStoredLocation(ancestors[0], ctx.nodeLocations)
			prepended = append(prepended, head)
		}

		for i, j := 0, len(prepended)-1; i < j; i, j = i+1, j-1 {
			prepended[i], prepended[j] = prepended[j], prepended[i]
		}
		finalParents = append(prepended, finalParents...)
	}

	if err := reconcileLocationSets(finalParents, &finalEnd); err != nil {
		return nil, false
	}

	return &Path{
		g:          ctx.gmod,
		visVersion: finalEnd.VisVersion(),
		parents:    finalParents,
		node:       finalEnd,
	}, true
}

// reconcileLocationSets re-runs the location set visitor over the
// reconstructed chain and, for each closed set spanning more than one node,
// applies the set's common location to every member that doesn't already
// carry it.
func reconcileLocationSets(parents []gmod.GmodNode, end *gmod.GmodNode) error {
	visitor := newLocationSetsVisitor()
	length := len(parents) + 1

	at := func(i int) gmod.GmodNode {
		if i < len(parents) {
			return parents[i]
		}
		return *end
	}
	setAt := func(i int, n gmod.GmodNode) {
		if i < len(parents) {
			parents[i] = n
		} else {
			*end = n
		}
	}

	count := 0
	for i := 0; i < length; i++ {
		set, err := visitor.visit(at(i), i, parents, *end)
		if err != nil {
			return err
		}
		if set == nil {
			if _, ok := at(i).Location(); ok {
				return viserr.New(viserr.InvalidPath, "gmodpath: location on a node outside any individualizable set")
			}
			continue
		}
		count++
		if count > maxIndividualizableSets {
			return viserr.Newf(viserr.InvalidPath, "gmodpath: path has more than %d individualizable sets", maxIndividualizableSets)
		}
		if set.start == set.end {
			continue
		}
		for k := set.start; k <= set.end; k++ {
			n := at(k)
			loc, hasLoc := n.Location()
			if hasLoc == set.hasLoc && loc == set.loc {
				continue
			}
			if set.hasLoc {
				setAt(k, n.WithLocation(set.loc))
			} else {
				setAt(k, n.WithoutLocation())
			}
		}
	}
	return nil
}

// ParseFullPath parses the full form of a path string (e.g.
// "VE/400a/411.1-1/C101"), which names every node from the root to the
// target and so needs no traversal search: it is validated structurally via
// IsValid and then by the individualizable-set rules, identically to New.
func ParseFullPath(str string, g *gmod.Gmod, locs *location.Locations) (*Path, error) {
	segments := splitSegments(str)
	if len(segments) < 2 {
		return nil, viserr.New(viserr.ParseError, "gmodpath: full path string must name at least a root and a target")
	}

	nodes := make([]gmod.GmodNode, len(segments))
	for i, seg := range segments {
		part, err := parseSegment(seg, locs)
		if err != nil {
			return nil, err
		}
		n, ok := g.TryGetNode(part.code)
		if !ok {
			return nil, viserr.Newf(viserr.ParseError, "gmodpath: unknown code %q", part.code)
		}
		if part.hasLoc {
			n = n.WithLocation(part.loc)
		}
		nodes[i] = n
	}

	return New(nodes[:len(nodes)-1], nodes[len(nodes)-1])
}

// TryParseFullPath parses the full form of a path string, reporting ok=false
// on any failure.
func TryParseFullPath(str string, g *gmod.Gmod, locs *location.Locations) (*Path, bool) {
	p, err := ParseFullPath(str, g, locs)
	return p, err == nil
}
