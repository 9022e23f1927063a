// Package location implements the VIS location grammar: parsing and
// validating location strings such as "11FIPU" against a per-VIS-version
// alphabet of relative location codes, and exposing the structured metadata
// describing that alphabet.
//
// Grounded on dnv/vista/sdk/Locations.cpp: the character-group partition, the
// single-pass grammar scan (digits, then ascending letters, one per group),
// and the precise validation-result taxonomy are reproduced from there.
package location

import (
	"sort"
	"strings"

	"golang.org/x/text/width"

	"github.com/333fps/vista-sdk/pkg/viserr"
)

// Group partitions location alphabet characters. The zero value is invalid;
// real groups start at 1, matching the reference's discriminated lookup.
type Group int

const (
	_ Group = iota
	Number
	Side
	Vertical
	Transverse
	Longitudinal
)

func (g Group) String() string {
	switch g {
	case Number:
		return "Number"
	case Side:
		return "Side"
	case Vertical:
		return "Vertical"
	case Transverse:
		return "Transverse"
	case Longitudinal:
		return "Longitudinal"
	default:
		return "Unknown"
	}
}

// ValidationResult classifies why a location string parsed or failed to.
type ValidationResult int

const (
	Valid ValidationResult = iota
	Invalid
	InvalidCode
	InvalidOrder
	NullOrWhiteSpace
)

func (r ValidationResult) String() string {
	switch r {
	case Valid:
		return "Valid"
	case Invalid:
		return "Invalid"
	case InvalidCode:
		return "InvalidCode"
	case InvalidOrder:
		return "InvalidOrder"
	case NullOrWhiteSpace:
		return "NullOrWhiteSpace"
	default:
		return "Unknown"
	}
}

// Location is an immutable canonical location string, e.g. "11FIPU".
type Location string

// String returns the canonical string form.
func (l Location) String() string { return string(l) }

// IsZero reports whether this is the absent/unset location.
func (l Location) IsZero() bool { return l == "" }

// RelativeLocation describes one valid location alphabet character.
type RelativeLocation struct {
	Code       byte
	Name       string
	Definition *string
	Location   Location
}

func (r RelativeLocation) Equal(other RelativeLocation) bool { return r.Code == other.Code }

// Item is the decoupled constructor input for one alphabet entry, matching
// the shape of a decoded locations-vis-<version>.json.gz item without
// depending on any JSON-specific type.
type Item struct {
	Code       byte
	Name       string
	Definition *string
}

// ParsingErrors is an ordered collection of validation failures.
type ParsingErrors struct {
	Entries []ErrorEntry
}

// ErrorEntry is one validation failure: its result kind and a precise message.
type ErrorEntry struct {
	Result  ValidationResult
	Message string
}

func (e *ParsingErrors) add(result ValidationResult, message string) {
	e.Entries = append(e.Entries, ErrorEntry{Result: result, Message: message})
}

// HasErrors reports whether any error was recorded.
func (e *ParsingErrors) HasErrors() bool { return e != nil && len(e.Entries) > 0 }

func (e *ParsingErrors) Error() string {
	if e == nil || len(e.Entries) == 0 {
		return "no errors"
	}
	parts := make([]string, len(e.Entries))
	for i, entry := range e.Entries {
		parts[i] = entry.Message
	}
	return strings.Join(parts, "; ")
}

// Locations is the immutable, per-VIS-version location alphabet and parser.
type Locations struct {
	visVersion        string
	codes             []byte // sorted, accepted alphabet characters (includes H, V)
	relativeLocations []RelativeLocation
	groups            map[Group][]RelativeLocation
	reversedGroups    map[byte]Group
}

// New builds a Locations instance from decoded alphabet items.
func New(visVersion string, items []Item) (*Locations, error) {
	l := &Locations{
		visVersion:     visVersion,
		groups:         make(map[Group][]RelativeLocation),
		reversedGroups: make(map[byte]Group),
	}

	for _, item := range items {
		loc := Location(string(item.Code))
		rel := RelativeLocation{Code: item.Code, Name: item.Name, Definition: item.Definition, Location: loc}
		l.relativeLocations = append(l.relativeLocations, rel)
		l.codes = append(l.codes, item.Code)

		if item.Code == 'H' || item.Code == 'V' {
			continue
		}

		var group Group
		switch item.Code {
		case 'N':
			group = Number
		case 'P', 'C', 'S':
			group = Side
		case 'U', 'M', 'L':
			group = Vertical
		case 'I', 'O':
			group = Transverse
		case 'F', 'A':
			group = Longitudinal
		default:
			return nil, viserr.Newf(viserr.InvalidInput, "location: unsupported code %q", item.Code)
		}

		if _, ok := l.groups[group]; !ok {
			l.groups[group] = nil
		}
		if group == Number {
			continue
		}
		l.reversedGroups[item.Code] = group
		l.groups[group] = append(l.groups[group], rel)
	}

	sort.Slice(l.codes, func(i, j int) bool { return l.codes[i] < l.codes[j] })

	return l, nil
}

// VisVersion returns the VIS version this alphabet belongs to.
func (l *Locations) VisVersion() string { return l.visVersion }

// RelativeLocations returns every alphabet entry.
func (l *Locations) RelativeLocations() []RelativeLocation { return l.relativeLocations }

// Groups returns the group partition of the alphabet. The Number group is
// present but has no members; H and V belong to no group.
func (l *Locations) Groups() map[Group][]RelativeLocation { return l.groups }

// Parse parses str into a canonical Location, failing with InvalidLocation.
func (l *Locations) Parse(str string) (Location, error) {
	loc, _, ok := l.TryParseWithErrors(str)
	if !ok {
		return "", viserr.Newf(viserr.InvalidLocation, "invalid location: %q", str)
	}
	return loc, nil
}

// TryParse parses str, returning ok=false on any validation failure.
func (l *Locations) TryParse(str string) (Location, bool) {
	loc, _, ok := l.TryParseWithErrors(str)
	return loc, ok
}

// TryParseWithErrors parses str and additionally returns the structured
// validation errors recorded if parsing failed.
func (l *Locations) TryParseWithErrors(str string) (Location, *ParsingErrors, bool) {
	// Fold fullwidth/halfwidth code-point variants to their narrow ASCII
	// form before grammar validation: location strings are frequently
	// copy-pasted from CJK-locale documents and arrive with fullwidth
	// digits and letters that are visually identical to the canonical
	// alphabet but compare unequal byte-for-byte.
	folded := width.Narrow.String(str)

	errs := &ParsingErrors{}
	ok := l.tryParseInternal(folded, errs)
	if !ok {
		return "", errs, false
	}
	return Location(folded), nil, true
}

func (l *Locations) tryParseInternal(span string, errs *ParsingErrors) bool {
	if span == "" {
		errs.add(NullOrWhiteSpace, "Invalid location: contains only whitespace in ''")
		return false
	}
	if strings.TrimSpace(span) == "" {
		errs.add(NullOrWhiteSpace, "Invalid location: contains only whitespace in '"+span+"'")
		return false
	}

	digitStartIndex := -1
	prevDigitIndex := -1
	charsStartIndex := -1

	var charDict [Longitudinal]byte // index by Group-1; 0 means unset

	for i := 0; i < len(span); i++ {
		ch := span[i]

		if ch >= '0' && ch <= '9' {
			if charsStartIndex != -1 {
				errs.add(InvalidOrder, "Invalid location: numeric part must come before location codes in '"+span+"'")
				return false
			}
			if prevDigitIndex != -1 && prevDigitIndex != i-1 {
				errs.add(Invalid, "Invalid location: cannot have multiple separated digits in '"+span+"'")
				return false
			}
			if digitStartIndex == -1 {
				digitStartIndex = i
			}
			prevDigitIndex = i
			continue
		}

		if charsStartIndex == -1 {
			charsStartIndex = i
		}

		if !l.isValidCode(ch) {
			errs.add(InvalidCode, "Invalid location code: '"+span+"' with invalid location code(s): "+invalidCharList(span, l))
			return false
		}

		if i > 0 && charsStartIndex != i {
			prevCh := span[i-1]
			if !(prevCh >= '0' && prevCh <= '9') && ch < prevCh {
				errs.add(InvalidOrder, "Invalid location: codes must be alphabetically sorted in location: '"+span+"'")
				return false
			}
		}

		if group, ok := l.reversedGroups[ch]; ok {
			gi := int(group) - 1
			if charDict[gi] != 0 {
				existing := charDict[gi]
				errs.add(InvalidOrder, "Duplicate location code from the same group in '"+span+"': "+
					string(existing)+" and "+string(ch))
				return false
			}
			charDict[gi] = ch
		}
	}

	return true
}

func (l *Locations) isValidCode(ch byte) bool {
	for _, c := range l.codes {
		if c == ch {
			return true
		}
	}
	return false
}

func invalidCharList(span string, l *Locations) string {
	var b strings.Builder
	first := true
	for i := 0; i < len(span); i++ {
		c := span[i]
		if c >= '0' && c <= '9' {
			continue
		}
		if c == 'N' || !l.isValidCode(c) {
			if !first {
				b.WriteByte(',')
			}
			first = false
			b.WriteByte('\'')
			b.WriteByte(c)
			b.WriteByte('\'')
		}
	}
	return b.String()
}
