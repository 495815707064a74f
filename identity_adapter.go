package auth

// userIdentity adapts a *User to the Identity interface without forcing the
// document model to grow accessor methods that would clash with its fields.
type userIdentity struct {
	user *User
}

var _ Identity = (*userIdentity)(nil)

func (i *userIdentity) ID() string    { return i.user.ID.Hex() }
func (i *userIdentity) Name() string  { return i.user.Name }
func (i *userIdentity) Email() string { return i.user.Email }
func (i *userIdentity) IsAdmin() bool { return i.user.Admin }

// IdentityFromUser wraps a user document as an Identity.
func IdentityFromUser(u *User) Identity {
	return &userIdentity{user: u}
}
