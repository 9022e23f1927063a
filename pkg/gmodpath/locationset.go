package gmodpath

import (
	"github.com/333fps/vista-sdk/pkg/gmod"
	"github.com/333fps/vista-sdk/pkg/location"
	"github.com/333fps/vista-sdk/pkg/viserr"
)

// nodeSet is one contiguous run of path positions that must share a single
// location, as detected by locationSetsVisitor.
type nodeSet struct {
	start, end int
	loc        location.Location
	hasLoc     bool
}

// locationSetsVisitor finds the runs of consecutive individualizable nodes
// between potential-parent boundaries that must carry the same location.
//
// Grounded on dnv/vista/sdk/GmodPath.cpp's internal::LocationSetsVisitor: a
// single stateful pass over the path positions in order, tracking the index
// where the current potential-parent run began.
type locationSetsVisitor struct {
	currentParentStart int
}

func newLocationSetsVisitor() *locationSetsVisitor {
	return &locationSetsVisitor{currentParentStart: -1}
}

func nodeAt(index int, parents []gmod.GmodNode, target gmod.GmodNode) (gmod.GmodNode, bool) {
	if index < 0 {
		return gmod.GmodNode{}, false
	}
	if index < len(parents) {
		return parents[index], true
	}
	if index == len(parents) {
		return target, true
	}
	return gmod.GmodNode{}, false
}

// visit processes one path position and, when a location set closes at this
// position, returns its bounds and common location.
func (v *locationSetsVisitor) visit(node gmod.GmodNode, i int, parents []gmod.GmodNode, target gmod.GmodNode) (*nodeSet, error) {
	isParent := gmod.IsPotentialParent(node.Metadata().Type)
	isTargetNode := i == len(parents)

	if v.currentParentStart == -1 {
		if isParent {
			v.currentParentStart = i
		}
		if node.IsIndividualizable(isTargetNode, false) {
			loc, hasLoc := node.Location()
			return &nodeSet{start: i, end: i, loc: loc, hasLoc: hasLoc}, nil
		}
		return nil, nil
	}

	if !isParent && !isTargetNode {
		return nil, nil
	}

	var set *nodeSet

	if v.currentParentStart+1 == i {
		if node.IsIndividualizable(isTargetNode, false) {
			loc, hasLoc := node.Location()
			set = &nodeSet{start: i, end: i, loc: loc, hasLoc: hasLoc}
		}
	} else {
		skippedOne := -1
		hasComposition := false

		for j := v.currentParentStart + 1; j <= i; j++ {
			setNode, ok := nodeAt(j, parents, target)
			if !ok {
				continue
			}
			setIsTarget := j == len(parents)

			if !setNode.IsIndividualizable(setIsTarget, true) {
				if set != nil {
					skippedOne = j
				}
				continue
			}

			setLoc, setHasLoc := setNode.Location()
			if set != nil && set.hasLoc && setHasLoc && set.loc != setLoc {
				return nil, viserr.New(viserr.InvalidPath, "gmodpath: different locations in the same individualizable set")
			}

			if skippedOne != -1 {
				return nil, viserr.New(viserr.InvalidPath, "gmodpath: cannot skip a node in the middle of an individualizable set")
			}

			if setNode.IsFunctionComposition() {
				hasComposition = true
			}

			loc, hasLoc := setLoc, setHasLoc
			if set != nil && set.hasLoc {
				loc, hasLoc = set.loc, true
			}
			start := j
			if set != nil {
				start = set.start
			}
			set = &nodeSet{start: start, end: j, loc: loc, hasLoc: hasLoc}
		}

		if set != nil && set.start == set.end && hasComposition {
			set = nil
		}
	}

	v.currentParentStart = i

	if set == nil {
		if isTargetNode && node.IsIndividualizable(isTargetNode, false) {
			loc, hasLoc := node.Location()
			return &nodeSet{start: i, end: i, loc: loc, hasLoc: hasLoc}, nil
		}
		return nil, nil
	}

	hasLeaf := false
	for j := set.start; j <= set.end; j++ {
		setNode, ok := nodeAt(j, parents, target)
		if !ok {
			continue
		}
		if setNode.IsLeafNode() || j == len(parents) {
			hasLeaf = true
			break
		}
	}
	if !hasLeaf {
		return nil, nil
	}
	return set, nil
}
