package domain

import "github.com/google/uuid"

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Actor is the authenticated caller as the leave engine sees it. IsAdmin is
// resolved once at the edge; the engine never inspects roles itself.
type Actor struct {
	ID      uuid.UUID
	Name    string
	Country *string
	IsAdmin bool
}

func (a Actor) Authenticated() bool {
	return a.ID != uuid.Nil
}

// CountryCode returns the actor's holiday calendar country or "" when unset.
func (a Actor) CountryCode() string {
	if a.Country == nil {
		return ""
	}
	return *a.Country
}

// CanActOn reports whether the actor may act on a resource owned by ownerID.
func (a Actor) CanActOn(ownerID uuid.UUID) bool {
	return a.IsAdmin || a.ID == ownerID
}
