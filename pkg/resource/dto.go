// Package resource decodes the gzip-compressed JSON resources this module
// consumes as an external collaborator: the per-version taxonomy
// ("gmod-vis-<version>.json.gz"), the per-version location alphabet
// ("locations-vis-<version>.json.gz"), and the cross-version rule set
// ("gmod-vis-versioning.json.gz"). It never swallows a decode failure:
// every decode function returns a *viserr.Error on any malformed input, and
// Loader additionally logs and records each failed load.
//
// Grounded on dnv/vista/sdk/GmodDto.cpp, LocationsDto.cpp, and
// GmodVersioningDto.cpp for the JSON field names and shapes; encoding/json
// and compress/gzip are used in place of the reference's simdjson DOM
// parser because no example repo in the corpus wires a third-party JSON
// library as more than an indirect, unexercised dependency (see DESIGN.md).
package resource

import (
	"encoding/json"

	"github.com/333fps/vista-sdk/pkg/gmod"
	"github.com/333fps/vista-sdk/pkg/location"
	"github.com/333fps/vista-sdk/pkg/versioning"
	"github.com/333fps/vista-sdk/pkg/viserr"
)

// gmodItemDto mirrors one entry of gmod-vis-<version>.json.gz's "items" array.
type gmodItemDto struct {
	Code                  string            `json:"code"`
	Category              string            `json:"category"`
	Type                  string            `json:"type"`
	Name                  string            `json:"name"`
	CommonName            *string           `json:"commonName"`
	Definition            *string           `json:"definition"`
	CommonDefinition      *string           `json:"commonDefinition"`
	InstallSubstructure   *bool             `json:"installSubstructure"`
	NormalAssignmentNames map[string]string `json:"normalAssignmentNames"`
}

// gmodDto mirrors the full gmod-vis-<version>.json.gz document.
type gmodDto struct {
	VisRelease string        `json:"visRelease"`
	Items      []gmodItemDto `json:"items"`
	Relations  [][2]string   `json:"relations"`
}

// DecodeGmod decodes a gmod-vis-<version>.json.gz payload (already
// gunzipped) into constructor-ready gmod.Item/gmod.Relation values.
func DecodeGmod(data []byte) (visRelease string, items []gmod.Item, relations []gmod.Relation, err error) {
	var dto gmodDto
	if err := json.Unmarshal(data, &dto); err != nil {
		return "", nil, nil, viserr.Wrap(viserr.DecodeError, "resource: malformed gmod document", err)
	}
	if dto.VisRelease == "" {
		return "", nil, nil, viserr.New(viserr.DecodeError, "resource: gmod document missing visRelease")
	}

	items = make([]gmod.Item, len(dto.Items))
	for i, it := range dto.Items {
		if it.Code == "" {
			return "", nil, nil, viserr.Newf(viserr.DecodeError, "resource: gmod item %d missing code", i)
		}
		items[i] = gmod.Item{
			Code:                  it.Code,
			Category:              it.Category,
			Type:                  it.Type,
			Name:                  it.Name,
			CommonName:            it.CommonName,
			Definition:            it.Definition,
			CommonDefinition:      it.CommonDefinition,
			InstallSubstructure:   it.InstallSubstructure,
			NormalAssignmentNames: it.NormalAssignmentNames,
		}
	}

	relations = make([]gmod.Relation, len(dto.Relations))
	for i, r := range dto.Relations {
		relations[i] = gmod.Relation{ParentCode: r[0], ChildCode: r[1]}
	}

	return dto.VisRelease, items, relations, nil
}

// locationItemDto mirrors one entry of locations-vis-<version>.json.gz's
// "items" array.
type locationItemDto struct {
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	Definition *string `json:"definition"`
}

type locationsDto struct {
	VisRelease string            `json:"visRelease"`
	Items      []locationItemDto `json:"items"`
}

// DecodeLocations decodes a locations-vis-<version>.json.gz payload (already
// gunzipped) into constructor-ready location.Item values.
func DecodeLocations(data []byte) (visRelease string, items []location.Item, err error) {
	var dto locationsDto
	if err := json.Unmarshal(data, &dto); err != nil {
		return "", nil, viserr.Wrap(viserr.DecodeError, "resource: malformed locations document", err)
	}
	if dto.VisRelease == "" {
		return "", nil, viserr.New(viserr.DecodeError, "resource: locations document missing visRelease")
	}

	items = make([]location.Item, len(dto.Items))
	for i, it := range dto.Items {
		if it.Code == "" {
			return "", nil, viserr.Newf(viserr.DecodeError, "resource: locations item %d missing code", i)
		}
		items[i] = location.Item{
			Code:       it.Code[0],
			Name:       it.Name,
			Definition: it.Definition,
		}
	}

	return dto.VisRelease, items, nil
}

// versioningNodeChangeDto mirrors one per-code rule of a
// gmod-vis-versioning.json.gz entry's "items" map.
type versioningNodeChangeDto struct {
	Operations       []string `json:"operations"`
	Source           string   `json:"source"`
	Target           string   `json:"target"`
	OldAssignment    string   `json:"oldAssignment"`
	NewAssignment    string   `json:"newAssignment"`
	DeleteAssignment bool     `json:"deleteAssignment"`
}

type versioningTargetDto struct {
	VisRelease string                             `json:"visRelease"`
	Items      map[string]versioningNodeChangeDto `json:"items"`
}

// DecodeVersioning decodes a gmod-vis-versioning.json.gz payload (already
// gunzipped) into a constructor-ready targetVersion -> code -> NodeChange
// map.
func DecodeVersioning(data []byte) (map[versioning.VisVersion]map[string]versioning.NodeChange, error) {
	var dto map[string]versioningTargetDto
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, viserr.Wrap(viserr.DecodeError, "resource: malformed versioning document", err)
	}

	out := make(map[versioning.VisVersion]map[string]versioning.NodeChange, len(dto))
	for targetVersion, target := range dto {
		changes := make(map[string]versioning.NodeChange, len(target.Items))
		for code, item := range target.Items {
			ops := make([]versioning.OperationType, 0, len(item.Operations))
			for _, name := range item.Operations {
				op, err := versioning.ParseOperationType(name)
				if err != nil {
					return nil, err
				}
				ops = append(ops, op)
			}
			changes[code] = versioning.NodeChange{
				Operations:       ops,
				Source:           item.Source,
				Target:           item.Target,
				HasTarget:        item.Target != "",
				OldAssignment:    item.OldAssignment,
				NewAssignment:    item.NewAssignment,
				DeleteAssignment: item.DeleteAssignment,
			}
		}
		out[versioning.VisVersion(targetVersion)] = changes
	}

	return out, nil
}
