package model

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

// Identity is the authenticated caller attached to a request context.
type Identity struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   Role   `json:"role"`
}

// CanManageObjects reports whether the caller may mutate the resource catalog.
func (i *Identity) CanManageObjects() bool {
	return i.Role == RoleAdmin || i.Role == RoleManager
}

// CanActFor reports whether the caller may act on reservations owned by
// userID. Admins and managers may act on anyone's.
func (i *Identity) CanActFor(userID string) bool {
	return i.UserID == userID || i.Role == RoleAdmin || i.Role == RoleManager
}
