package domain

// Principal is the caller of an operation. It is passed explicitly into
// every service call; nothing in the core reads ambient request state.
type Principal struct {
	UserID        string
	Role          string
	Authenticated bool
	EmailVerified bool
}

// Anonymous is the unauthenticated principal.
var Anonymous = Principal{}

// Is reports whether the principal is the authenticated user userID.
func (p Principal) Is(userID string) bool {
	return p.Authenticated && p.UserID != "" && p.UserID == userID
}
