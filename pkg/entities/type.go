package entities

import "slices"

// Type represents the category of an entity being reconciled.
type Type string

// String returns the string representation of an entity type.
func (t Type) String() string {
	return string(t)
}

// Entity categories understood by the reconciliation engine.
const (
	TypePerson       Type = "person"
	TypePlace        Type = "place"
	TypeOrganization Type = "organization"
	TypeSubject      Type = "subject"
	TypeAuthor       Type = "author"
	TypeArtwork      Type = "artwork"
	TypeUnknown      Type = "unknown"
)

// Types returns all defined entity types.
func Types() []Type {
	return []Type{
		TypePerson,
		TypePlace,
		TypeOrganization,
		TypeSubject,
		TypeAuthor,
		TypeArtwork,
		TypeUnknown,
	}
}

// IsValid returns true if the type is one of the defined constants.
func (t Type) IsValid() bool {
	return slices.Contains(Types(), t)
}
