package models

import "time"

// User is a stored user record. PasswordHash never leaves the server.
type User struct {
	ID           int64      `db:"id"`
	Email        string     `db:"email"`
	PasswordHash string     `db:"password_hash"`
	Name         string     `db:"name"`
	Occupation   string     `db:"occupation"`
	CreatedAt    *time.Time `db:"created_at"`
}

// Public returns the outward-facing view of u.
func (u *User) Public() UserPublic {
	return UserPublic{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Occupation: u.Occupation,
	}
}

// UserPublic is the profile returned to clients.
type UserPublic struct {
	ID         int64  `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Occupation string `json:"occupation"`
}

// UserInfo holds the mutable profile fields.
type UserInfo struct {
	Name       string `json:"name" form:"name"`
	Occupation string `json:"occupation" form:"occupation"`
}
