package domain

// Identity is the authenticated caller as decoded from a bearer token.
type Identity struct {
	SubjectID string
	Role      Role
}

// CanActOn reports whether the identity may manage the account with the given id.
func (i Identity) CanActOn(userID string) bool {
	return i.Role.AtLeast(RoleAdmin) || i.SubjectID == userID
}
