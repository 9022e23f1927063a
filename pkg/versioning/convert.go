package versioning

import (
	"github.com/333fps/vista-sdk/pkg/gmod"
	"github.com/333fps/vista-sdk/pkg/gmodpath"
	"github.com/333fps/vista-sdk/pkg/viserr"
)

// GmodProvider resolves a Gmod by VIS version on demand. ConvertNode walks
// every intermediate version between a source and a target, so it needs a
// graph for each step, not just the two endpoints; pkg/vis's cache
// implements this interface, decoupling the conversion engine from any
// particular caching policy.
type GmodProvider interface {
	Gmod(version VisVersion) (*gmod.Gmod, error)
}

// ConvertNode renames sourceNode from sourceVersion to targetVersion,
// walking one adjacent version pair at a time and consulting that step's
// rule set. A node's location, if any, is carried onto the converted node
// unchanged.
//
// Grounded on GmodVersioning::convertNode.
func (v *GmodVersioning) ConvertNode(provider GmodProvider, sourceVersion VisVersion, sourceNode gmod.GmodNode, targetVersion VisVersion) (gmod.GmodNode, error) {
	if sourceNode.Code() == "" {
		return gmod.GmodNode{}, viserr.New(viserr.InvalidInput, "versioning: source node has no code")
	}
	if err := validateSourceAndTarget(sourceVersion, targetVersion); err != nil {
		return gmod.GmodNode{}, err
	}

	current := sourceNode
	currentVersion := sourceVersion
	for currentVersion != targetVersion {
		next, ok := Next(currentVersion)
		if !ok {
			return gmod.GmodNode{}, viserr.Newf(viserr.ConversionFailure, "versioning: no version follows %s", currentVersion)
		}
		converted, err := v.convertNodeInternal(provider, current, next)
		if err != nil {
			return gmod.GmodNode{}, err
		}
		current = converted
		currentVersion = next
	}
	return current, nil
}

func (v *GmodVersioning) convertNodeInternal(provider GmodProvider, sourceNode gmod.GmodNode, targetVersion VisVersion) (gmod.GmodNode, error) {
	sourceCode := sourceNode.Code()
	targetCode := sourceCode

	if vn, ok := v.versionings[targetVersion]; ok {
		if change, ok := vn.tryGetCodeChanges(sourceCode); ok && change.HasTarget {
			targetCode = change.Target
		}
	}

	targetGmod, err := provider.Gmod(targetVersion)
	if err != nil {
		return gmod.GmodNode{}, err
	}
	targetNode, ok := targetGmod.TryGetNode(targetCode)
	if !ok {
		return gmod.GmodNode{}, viserr.Newf(viserr.ConversionFailure, "versioning: code %q not found in VIS %s", targetCode, targetVersion)
	}

	if loc, ok := sourceNode.Location(); ok {
		targetNode = targetNode.WithLocation(loc)
	}
	return targetNode, nil
}

// ConvertPath converts every position of sourcePath from sourceVersion to
// targetVersion. When the straightforward per-position conversion doesn't
// yield a structurally valid chain (some position moved under a rename),
// the path is rebuilt incrementally, bridging gaps via
// gmod.PathExistsBetween and falling back to the nearest surviving
// asset-function anchor.
//
// Grounded on GmodVersioning::convertPath, with one simplification: the
// original re-fetches each already-converted node from the target graph by
// code and reapplies its location before use, guarding against holding a
// pointer into a source-version arena. GmodNode here is a value type already
// bound to the graph that produced it (ConvertNode's result is already a
// target-graph node with its location already carried over), so that
// re-fetch has no observable effect and is omitted.
func (v *GmodVersioning) ConvertPath(provider GmodProvider, sourceVersion VisVersion, sourcePath *gmodpath.Path, targetVersion VisVersion) (*gmodpath.Path, error) {
	if err := validateSourceAndTarget(sourceVersion, targetVersion); err != nil {
		return nil, err
	}

	targetEndNode, err := v.ConvertNode(provider, sourceVersion, sourcePath.TargetNode(), targetVersion)
	if err != nil {
		return nil, err
	}
	if targetEndNode.IsRoot() {
		return gmodpath.New(nil, targetEndNode)
	}

	targetGmod, err := provider.Gmod(targetVersion)
	if err != nil {
		return nil, err
	}

	type qualifyingNode struct {
		source gmod.GmodNode
		target gmod.GmodNode
	}
	qualifying := make([]qualifyingNode, sourcePath.Length())
	for i := 0; i < sourcePath.Length(); i++ {
		orig := sourcePath.At(i)
		converted, err := v.ConvertNode(provider, sourceVersion, orig, targetVersion)
		if err != nil {
			return nil, err
		}
		qualifying[i] = qualifyingNode{source: orig, target: converted}
	}

	potentialParents := make([]gmod.GmodNode, len(qualifying)-1)
	for i := 0; i < len(qualifying)-1; i++ {
		potentialParents[i] = qualifying[i].target
	}

	if ok, _ := gmodpath.IsValid(potentialParents, targetEndNode); ok {
		return gmodpath.New(potentialParents, targetEndNode)
	}

	var path []gmod.GmodNode

	addToPath := func(node gmod.GmodNode) error {
		if len(path) > 0 && !path[len(path)-1].IsChild(node.Code()) {
			for j := len(path) - 1; j >= 0; j-- {
				parent := path[j]
				prefix := path[:j+1]

				exists, remaining := gmod.PathExistsBetween(targetGmod, prefix, node)
				if !exists {
					hasNonAssetFunction := false
					for _, p := range prefix {
						if p.IsAssetFunctionNode() && p.Code() != parent.Code() {
							hasNonAssetFunction = true
							break
						}
					}
					if !hasNonAssetFunction {
						return viserr.New(viserr.ConversionFailure, "versioning: tried to remove last asset function node")
					}
					path = append(path[:j], path[j+1:]...)
					continue
				}

				var bridged []gmod.GmodNode
				if loc, ok := node.Location(); ok {
					for _, n := range remaining {
						if !n.IsIndividualizable(false, true) {
							bridged = append(bridged, n)
						} else {
							bridged = append(bridged, n.WithLocation(loc))
						}
					}
				} else {
					bridged = append(bridged, remaining...)
				}
				path = append(path, bridged...)
				break
			}
		}
		path = append(path, node)
		return nil
	}

	for i := 0; i < len(qualifying); i++ {
		qn := qualifying[i]
		sourceNode, targetNode := qn.source, qn.target

		if i > 0 && targetNode.Code() == qualifying[i-1].target.Code() {
			continue
		}

		codeChanged := sourceNode.Code() != targetNode.Code()

		sourceNormalAssignment, sourceHasNA := sourceNode.ProductType()
		targetNormalAssignment, targetHasNA := targetNode.ProductType()

		normalAssignmentChanged := false
		switch {
		case sourceHasNA && targetHasNA:
			normalAssignmentChanged = sourceNormalAssignment.Code() != targetNormalAssignment.Code()
		case sourceHasNA != targetHasNA:
			normalAssignmentChanged = true
		}

		switch {
		case codeChanged:
			if err := addToPath(targetNode); err != nil {
				return nil, err
			}
		case normalAssignmentChanged:
			wasDeleted := sourceHasNA && !targetHasNA

			if !codeChanged {
				if err := addToPath(targetNode); err != nil {
					return nil, err
				}
			}

			if wasDeleted {
				if targetNode.Code() == targetEndNode.Code() && i+1 < len(qualifying) {
					if qualifying[i+1].target.Code() != targetNode.Code() {
						return nil, viserr.New(viserr.ConversionFailure, "versioning: normal assignment end node was deleted")
					}
				}
				continue
			}
			if targetNode.Code() != targetEndNode.Code() && targetHasNA {
				if err := addToPath(targetNormalAssignment); err != nil {
					return nil, err
				}
				i++
			}
		}

		if !codeChanged && !normalAssignmentChanged {
			if err := addToPath(targetNode); err != nil {
				return nil, err
			}
		}

		if len(path) > 0 && path[len(path)-1].Code() == targetEndNode.Code() {
			break
		}
	}

	if len(path) == 0 {
		return nil, viserr.New(viserr.ConversionFailure, "versioning: path reconstruction produced no nodes")
	}

	finalParents := path[:len(path)-1]
	finalEnd := path[len(path)-1]

	if ok, _ := gmodpath.IsValid(finalParents, finalEnd); !ok {
		return nil, viserr.Newf(viserr.ConversionFailure, "versioning: didn't end up with valid path for %q", sourcePath.String())
	}

	return gmodpath.New(finalParents, finalEnd)
}
