package entities

import "strings"

// AdIdentity says whether an ad can be cached. Ads from an external library
// carry an ExternalAdIdentity; uploaded ads are LocalAdIdentity and are
// analyzed fresh every time.
type AdIdentity interface {
	isAdIdentity()
}

type ExternalAdIdentity struct {
	LibraryID string
}

type LocalAdIdentity struct{}

func (ExternalAdIdentity) isAdIdentity() {}
func (LocalAdIdentity) isAdIdentity()    {}

// IdentityFromLibraryID maps a possibly empty library id to an identity.
func IdentityFromLibraryID(libraryID string) AdIdentity {
	libraryID = strings.TrimSpace(libraryID)
	if libraryID == "" {
		return LocalAdIdentity{}
	}
	return ExternalAdIdentity{LibraryID: libraryID}
}
