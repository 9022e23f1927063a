package versioning

import "github.com/333fps/vista-sdk/pkg/gmodpath"

// LocalId is the minimal shape convertLocalId operates over: a primary (and
// optional secondary) item path, a verbose-mode flag, and the free-text
// metadata tags. Codebook validation of those tags and the wider
// LocalId/UniversalId builder surface are external collaborators this
// module only consumes, never constructs from scratch.
type LocalId struct {
	VisVersion    VisVersion
	PrimaryItem   *gmodpath.Path
	SecondaryItem *gmodpath.Path
	VerboseMode   bool

	Quantity    string
	Content     string
	Calculation string
	State       string
	Command     string
	Type        string
	Position    string
	Detail      string
}

// ConvertLocalId converts src's primary and secondary item paths to
// targetVersion, carrying every metadata tag and the verbose-mode flag
// unchanged and retagging the result with targetVersion.
//
// Grounded on GmodVersioning::convertLocalId.
func (v *GmodVersioning) ConvertLocalId(provider GmodProvider, src LocalId, targetVersion VisVersion) (LocalId, error) {
	out := src
	out.VisVersion = targetVersion
	out.PrimaryItem = nil
	out.SecondaryItem = nil

	if src.PrimaryItem != nil {
		p, err := v.ConvertPath(provider, src.VisVersion, src.PrimaryItem, targetVersion)
		if err != nil {
			return LocalId{}, err
		}
		out.PrimaryItem = p
	}

	if src.SecondaryItem != nil {
		p, err := v.ConvertPath(provider, src.VisVersion, src.SecondaryItem, targetVersion)
		if err != nil {
			return LocalId{}, err
		}
		out.SecondaryItem = p
	}

	return out, nil
}
