package domain

// Caller is the authenticated identity of a request, resolved once at the
// transport boundary and passed into the core as-is.
type Caller struct {
	UserID string
	Role   Role
}

func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// Owns reports whether the caller may act on a resource owned by userID.
func (c Caller) Owns(userID string) bool {
	return c.IsAdmin() || (c.UserID != "" && c.UserID == userID)
}
