package model

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Actor is the authenticated caller as supplied by the identity provider.
type Actor struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// CanAccess reports whether the actor owns ownerID's resource or is an admin.
func (a Actor) CanAccess(ownerID int64) bool { return a.IsAdmin() || a.UserID == ownerID }
