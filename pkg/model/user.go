package model

import "time"

// User is an account that can authenticate. PasswordHash is bcrypt and
// never serialized.
type User struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Email        string    `json:"email" bson:"email" validate:"required,email"`
	Name         string    `json:"name" bson:"name" validate:"required,min=1,max=100"`
	Role         Role      `json:"role" bson:"role" validate:"required,oneof=admin manager user"`
	PasswordHash []byte    `json:"-" bson:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" bson:"created_at"`
}

// Identity returns the claims-bearing view of the user.
func (u *User) Identity() *Identity {
	return &Identity{
		UserID: u.ID,
		Email:  u.Email,
		Name:   u.Name,
		Role:   u.Role,
	}
}
