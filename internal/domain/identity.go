package domain

// Identity is the authenticated principal decoded from a bearer token.
type Identity struct {
	UserID string
	Roles  Roles
}

// Allow is the role gate: it fails with ErrAuthRequired when no identity is
// present and with ErrForbidden when the identity holds none of the accepted roles.
func Allow(id *Identity, accepted ...Role) error {
	if id == nil {
		return ErrAuthRequired
	}
	if !id.Roles.Intersects(accepted...) {
		return ErrForbidden
	}
	return nil
}
