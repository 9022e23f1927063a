package versioning

import "github.com/333fps/vista-sdk/pkg/viserr"

// OperationType names one kind of change a conversion rule may record.
// A rule may carry more than one, e.g. a move that also changes an
// assignment.
type OperationType int

const (
	ChangeCode OperationType = iota
	Merge
	Move
	AssignmentChange
	AssignmentDelete
)

func (t OperationType) String() string {
	switch t {
	case ChangeCode:
		return "changeCode"
	case Merge:
		return "merge"
	case Move:
		return "move"
	case AssignmentChange:
		return "assignmentChange"
	case AssignmentDelete:
		return "assignmentDelete"
	default:
		return "unknown"
	}
}

// ParseOperationType maps a decoded operation name to its OperationType.
func ParseOperationType(s string) (OperationType, error) {
	switch s {
	case "changeCode":
		return ChangeCode, nil
	case "merge":
		return Merge, nil
	case "move":
		return Move, nil
	case "assignmentChange":
		return AssignmentChange, nil
	case "assignmentDelete":
		return AssignmentDelete, nil
	default:
		return 0, viserr.Newf(viserr.DecodeError, "versioning: unknown operation type %q", s)
	}
}

// NodeChange is one code's conversion rule for a single version step,
// matching the shape of a decoded gmod-vis-versioning.json.gz entry.
type NodeChange struct {
	Operations       []OperationType
	Source           string
	Target           string
	HasTarget        bool
	OldAssignment    string
	NewAssignment    string
	DeleteAssignment bool
}

// versioningNode holds one target version's code -> NodeChange rule set.
type versioningNode struct {
	version VisVersion
	changes map[string]NodeChange
}

func newVersioningNode(version VisVersion, changes map[string]NodeChange) versioningNode {
	return versioningNode{version: version, changes: changes}
}

func (n versioningNode) tryGetCodeChanges(code string) (NodeChange, bool) {
	c, ok := n.changes[code]
	return c, ok
}

// GmodVersioning converts GMOD nodes, paths, and local identifiers between
// released VIS versions, one adjacent step at a time.
//
// Grounded on dnv/vista/sdk/GmodVersioning.cpp's GmodVersioning class.
type GmodVersioning struct {
	versionings map[VisVersion]versioningNode
}

// New constructs a GmodVersioning from a map of target version to its
// per-code change rules.
func New(changes map[VisVersion]map[string]NodeChange) (*GmodVersioning, error) {
	v := &GmodVersioning{versionings: make(map[VisVersion]versioningNode, len(changes))}
	for version, codeChanges := range changes {
		if !IsValid(version) {
			return nil, viserr.Newf(viserr.InvalidInput, "versioning: unknown target version %q", version)
		}
		v.versionings[version] = newVersioningNode(version, codeChanges)
	}
	return v, nil
}
